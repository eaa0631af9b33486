package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/revtrail/internal/cli"
)

func TestRestoreCommand_WritesToStdout(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	c.MustRunWithInput("hello world", "track", "notes.txt")
	c.MustRunWithInput("hello brave new world", "track", "notes.txt")

	stdout, _, code := c.Run("restore", "notes.txt", "1")
	if code != 0 {
		t.Fatalf("restore failed with code %d", code)
	}

	if stdout != "hello world" {
		t.Fatalf("restore v1 = %q, want %q", stdout, "hello world")
	}

	stdout2, _, code2 := c.Run("restore", "notes.txt", "2")
	if code2 != 0 {
		t.Fatalf("restore failed with code %d", code2)
	}

	if stdout2 != "hello brave new world" {
		t.Fatalf("restore v2 = %q, want %q", stdout2, "hello brave new world")
	}
}

func TestRestoreCommand_WritesToOutputFile(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	c.MustRunWithInput("hello world", "track", "notes.txt")

	outPath := filepath.Join(c.Dir, "restored.txt")

	out := c.MustRun("restore", "notes.txt", "1", "-o", outPath)
	cli.AssertContains(t, out, "restored to")

	content, err := os.ReadFile(outPath) //nolint:gosec // test-only path built from TempDir
	if err != nil {
		t.Fatalf("read restored file: %v", err)
	}

	if string(content) != "hello world" {
		t.Fatalf("restored content = %q, want %q", content, "hello world")
	}
}

func TestRestoreCommand_UnknownVersion(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	c.MustRunWithInput("hello world", "track", "notes.txt")

	stderr := c.MustFail("restore", "notes.txt", "99")
	cli.AssertContains(t, stderr, "not found")
}
