package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/calvinalkan/revtrail/internal/config"
	"github.com/calvinalkan/revtrail/internal/store"

	flag "github.com/spf13/pflag"
)

// RestoreCmd returns the restore command.
func RestoreCmd(cfg config.Config) *Command {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.StringP("output", "o", "", "Write reconstructed content to `path` instead of stdout")

	return &Command{
		Flags: fs,
		Usage: "restore <name> <version> [flags]",
		Short: "Reconstruct a revision of name",
		Long:  "Walk the delta chain from the start of history to the given version and write the reconstructed content to --output, or to stdout if --output is omitted.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			output, _ := fs.GetString("output")

			return execRestore(ctx, o, cfg, args, output)
		},
	}
}

func execRestore(ctx context.Context, o *IO, cfg config.Config, args []string, output string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: name is required", store.ErrInvalidName)
	}

	if len(args) < 2 {
		return errVersionRequired
	}

	name := args[0]

	version, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", args[1], err)
	}

	s, err := store.Open(ctx, cfg.StoreDirAbs)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	content, err := s.Restore(ctx, name, version)
	if err != nil {
		return fmt.Errorf("restore %s@%d: %w", name, version, err)
	}

	if output == "" {
		_, err := o.Write(content)
		if err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(output, content, 0o644); err != nil { //nolint:gosec // path comes from the operator's own --output flag
		return fmt.Errorf("write %s: %w", output, err)
	}

	o.Printf("%s v%d restored to %s (%d bytes)\n", name, version, output, len(content))

	return nil
}
