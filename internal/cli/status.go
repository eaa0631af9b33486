package cli

import (
	"context"
	"fmt"

	"github.com/calvinalkan/revtrail/internal/config"
	"github.com/calvinalkan/revtrail/internal/store"

	flag "github.com/spf13/pflag"
)

// StatusCmd returns the status command.
func StatusCmd(cfg config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("status", flag.ContinueOnError),
		Usage: "status <name>",
		Short: "Show the current head revision of name",
		Long:  "Print the metadata of the highest tracked version of name.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execStatus(ctx, o, cfg, args)
		},
	}
}

func execStatus(ctx context.Context, o *IO, cfg config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: name is required", store.ErrInvalidName)
	}

	name := args[0]

	s, err := store.Open(ctx, cfg.StoreDirAbs)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	meta, err := s.Status(ctx, name)
	if err != nil {
		return fmt.Errorf("status %s: %w", name, err)
	}

	o.Printf("%s v%d %s ref_size=%d delta_size=%d ops=%d checksum=%s\n",
		name, meta.Version, meta.Timestamp.Format("2006-01-02T15:04:05Z"),
		meta.OriginalSize, meta.DeltaSize, meta.OperationCount, meta.Checksum)

	if meta.Message != "" {
		o.Println(meta.Message)
	}

	return nil
}
