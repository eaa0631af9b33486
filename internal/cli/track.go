package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/calvinalkan/revtrail/internal/config"
	"github.com/calvinalkan/revtrail/internal/store"

	flag "github.com/spf13/pflag"
)

// TrackCmd returns the track command.
func TrackCmd(cfg config.Config) *Command {
	fs := flag.NewFlagSet("track", flag.ContinueOnError)
	fs.StringP("message", "m", "", "Message describing this revision")
	fs.StringP("file", "f", "", "Read content from `path` instead of stdin")

	return &Command{
		Flags: fs,
		Usage: "track <name> [flags]",
		Short: "Record a new revision of name",
		Long:  "Build a delta against the current head of name and persist the new revision. Content is read from --file, or from stdin if --file is omitted.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			message, _ := fs.GetString("message")
			file, _ := fs.GetString("file")

			return execTrack(ctx, o, cfg, args, message, file)
		},
	}
}

func execTrack(ctx context.Context, o *IO, cfg config.Config, args []string, message, file string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: name is required", store.ErrInvalidName)
	}

	name := args[0]

	content, err := readTrackContent(file)
	if err != nil {
		return err
	}

	s, err := store.Open(ctx, cfg.StoreDirAbs)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = s.Close() }()

	result, err := s.Track(ctx, name, content, message)
	if err != nil {
		return fmt.Errorf("track %s: %w", name, err)
	}

	o.Printf("%s v%d (%d bytes, %d ops, %d delta bytes)\n",
		name, result.Meta.Version, result.NewSize, result.Meta.OperationCount, result.Meta.DeltaSize)

	return nil
}

func readTrackContent(file string) ([]byte, error) {
	if file == "" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return content, nil
	}

	content, err := os.ReadFile(file) //nolint:gosec // path comes from the operator's own --file flag
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	return content, nil
}
