package cli

import (
	"context"
	"fmt"

	"github.com/calvinalkan/revtrail/internal/config"
	"github.com/calvinalkan/revtrail/internal/store"

	flag "github.com/spf13/pflag"
)

// HistoryCmd returns the history command.
func HistoryCmd(cfg config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("history", flag.ContinueOnError),
		Usage: "history <name>",
		Short: "List every tracked revision of name",
		Long:  "Print one line per revision, oldest first: version, timestamp, reference size, delta size, operation count, and message.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execHistory(ctx, o, cfg, args)
		},
	}
}

func execHistory(ctx context.Context, o *IO, cfg config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: name is required", store.ErrInvalidName)
	}

	name := args[0]

	s, err := store.Open(ctx, cfg.StoreDirAbs)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	history, err := s.History(ctx, name)
	if err != nil {
		return fmt.Errorf("history %s: %w", name, err)
	}

	for _, meta := range history {
		o.Printf("v%d %s ref_size=%d delta_size=%d ops=%d %s\n",
			meta.Version, meta.Timestamp.Format("2006-01-02T15:04:05Z"),
			meta.OriginalSize, meta.DeltaSize, meta.OperationCount, meta.Message)
	}

	return nil
}
