package cli_test

import (
	"testing"

	"github.com/calvinalkan/revtrail/internal/cli"
)

func TestStatusCommand_ReportsHeadVersion(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	c.MustRunWithInput("v1", "track", "notes.txt")
	c.MustRunWithInput("v2, a bit longer", "track", "notes.txt", "-m", "second revision")

	out := c.MustRun("status", "notes.txt")
	cli.AssertContains(t, out, "notes.txt v2")
	cli.AssertContains(t, out, "second revision")
}

func TestStatusCommand_UnknownName(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("status", "missing.txt")
	cli.AssertContains(t, stderr, "not found")
}
