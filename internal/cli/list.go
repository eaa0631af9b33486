package cli

import (
	"context"
	"fmt"

	"github.com/calvinalkan/revtrail/internal/config"
	"github.com/calvinalkan/revtrail/internal/store"

	flag "github.com/spf13/pflag"
)

// ListCmd returns the list command.
func ListCmd(cfg config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("list", flag.ContinueOnError),
		Usage: "list",
		Short: "List every tracked name",
		Long:  "Print every name with at least one tracked revision, alphabetically.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execList(ctx, o, cfg)
		},
	}
}

func execList(ctx context.Context, o *IO, cfg config.Config) error {
	s, err := store.Open(ctx, cfg.StoreDirAbs)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	names, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	for _, name := range names {
		o.Println(name)
	}

	return nil
}
