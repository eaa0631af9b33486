package cli_test

import (
	"testing"

	"github.com/calvinalkan/revtrail/internal/cli"
)

func TestPrintConfigCommand_DefaultsOnly(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	out := c.MustRun("print-config")
	cli.AssertContains(t, out, "store_dir=")
	cli.AssertContains(t, out, ".revtrail")
	cli.AssertContains(t, out, "(defaults only)")
}

func TestPrintConfigCommand_ReportsProjectConfigSource(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteProjectConfig(`{"store_dir": "custom-store"}`)

	out := c.MustRun("print-config")
	cli.AssertContains(t, out, "custom-store")
	cli.AssertContains(t, out, "project_config=")
}
