package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/revtrail/internal/fs"
	"github.com/calvinalkan/revtrail/internal/store"
)

// openChaosStore opens a store whose filesystem is wrapped in [fs.Chaos], so
// writes/reads can be made to fail according to config. Chaos starts in
// no-op mode so Open itself (index creation, etc.) always succeeds, and is
// switched to [fs.ChaosModeActive] before the store is returned.
func openChaosStore(t *testing.T, config fs.ChaosConfig) (*store.Store, *fs.Chaos) {
	t.Helper()

	chaos := fs.NewChaos(fs.NewReal(), 1, config)
	chaos.SetMode(fs.ChaosModeNoOp)

	s, err := store.OpenWithFS(t.Context(), t.TempDir(), chaos)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	chaos.SetMode(fs.ChaosModeActive)

	return s, chaos
}

func Test_Track_SurvivesInjectedWriteFailures(t *testing.T) {
	t.Parallel()

	s, chaos := openChaosStore(t, fs.ChaosConfig{WriteFailRate: 1.0})

	_, err := s.Track(t.Context(), "widget.txt", []byte("hello world"), "first")
	require.Error(t, err)
	require.True(t, fs.IsChaosErr(err), "expected the store to surface the injected chaos error, got: %v", err)

	// The name must not appear as tracked: a failed atomic write must not
	// leave a partial or phantom version visible to callers.
	chaos.SetMode(fs.ChaosModeNoOp)

	names, listErr := s.List(t.Context())
	require.NoError(t, listErr)
	require.Empty(t, names)
}

func Test_Track_SurvivesInjectedPartialWrites(t *testing.T) {
	t.Parallel()

	s, chaos := openChaosStore(t, fs.ChaosConfig{PartialWriteRate: 1.0, ShortWriteRate: 0.5})

	_, err := s.Track(t.Context(), "widget.txt", []byte("hello world, this is long enough to get cut"), "first")
	require.Error(t, err)

	chaos.SetMode(fs.ChaosModeNoOp)

	names, listErr := s.List(t.Context())
	require.NoError(t, listErr)
	require.Empty(t, names)
}

func Test_Track_RecoversOnceChaosStops(t *testing.T) {
	t.Parallel()

	s, chaos := openChaosStore(t, fs.ChaosConfig{WriteFailRate: 1.0})

	_, err := s.Track(t.Context(), "widget.txt", []byte("hello world"), "first")
	require.Error(t, err)

	chaos.SetMode(fs.ChaosModeNoOp)

	result, err := s.Track(t.Context(), "widget.txt", []byte("hello world"), "retry")
	require.NoError(t, err)
	require.Equal(t, uint32(1), result.Meta.Version)
}
