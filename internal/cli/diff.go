package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/calvinalkan/revtrail/internal/config"
	"github.com/calvinalkan/revtrail/internal/store"

	flag "github.com/spf13/pflag"
)

var errVersionRequired = errors.New("version is required")

// DiffCmd returns the diff command.
func DiffCmd(cfg config.Config) *Command {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: "diff <name> <version>",
		Short: "Show the operation stream stored for a revision",
		Long:  "Print the COPY/INSERT/REPLACE operations that make up the stored delta for a given revision, without reconstructing the file.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execDiff(ctx, o, cfg, args)
		},
	}
}

func execDiff(ctx context.Context, o *IO, cfg config.Config, args []string) error {
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

	d, err := s.Diff(name, version)
	if err != nil {
		return fmt.Errorf("diff %s@%d: %w", name, version, err)
	}

	for i, op := range d.Operations {
		o.Printf("%d %s ref_offset=%d length=%d\n", i, op.Type, op.RefOffset, op.Length)
	}

	return nil
}
