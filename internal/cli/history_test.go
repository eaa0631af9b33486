package cli_test

import (
	"testing"

	"github.com/calvinalkan/revtrail/internal/cli"
)

func TestHistoryCommand(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	c.MustRunWithInput("v1 content", "track", "notes.txt", "-m", "first")
	c.MustRunWithInput("v2 content", "track", "notes.txt", "-m", "second")

	out := c.MustRun("history", "notes.txt")
	cli.AssertContains(t, out, "v1")
	cli.AssertContains(t, out, "v2")
	cli.AssertContains(t, out, "first")
	cli.AssertContains(t, out, "second")
}

func TestHistoryCommand_UnknownName(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("history", "missing.txt")
	cli.AssertContains(t, stderr, "not found")
}

func TestHistoryCommand_MissingName(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("history")
	cli.AssertContains(t, stderr, "name is required")
}
