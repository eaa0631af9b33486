package delta_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/revtrail/internal/delta"
)

// Contract: reconstructing any tracked revision from a chain of deltas
// returns exactly that revision's bytes (spec §8 "Chain round-trip").
func Test_Reconstruct_ChainRoundTrip(t *testing.T) {
	t.Parallel()

	revisions := [][]byte{
		[]byte("v1"),
		[]byte("v2"),
		[]byte("v3"),
	}

	deltas := make(map[int]delta.Delta, len(revisions))

	var ref []byte

	for i, rev := range revisions {
		d, err := delta.Build(ref, rev)
		require.NoError(t, err)

		deltas[i+1] = d
		ref = rev
	}

	load := func(_ string, v int) (delta.Delta, error) {
		d, ok := deltas[v]
		if !ok {
			return delta.Delta{}, delta.ErrChainBroken
		}

		return d, nil
	}

	for v, want := range revisions {
		got, err := delta.Reconstruct(load, "file.txt", v+1)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

// Contract: a missing revision in the chain surfaces ErrChainBroken rather
// than a partial or corrupted buffer.
func Test_Reconstruct_MissingRevision(t *testing.T) {
	t.Parallel()

	load := func(_ string, v int) (delta.Delta, error) {
		if v == 1 {
			return delta.Build(nil, []byte("v1"))
		}

		return delta.Delta{}, delta.ErrChainBroken
	}

	_, err := delta.Reconstruct(load, "file.txt", 2)
	require.ErrorIs(t, err, delta.ErrChainBroken)
}

// Contract: target version 2 returns exactly "v2" for three revisions,
// each the previous with one character appended (spec §8 scenario 6).
func Test_Reconstruct_AppendChain(t *testing.T) {
	t.Parallel()

	revs := []string{"v", "v2", "v23"}

	deltas := make(map[int]delta.Delta, len(revs))

	var ref []byte

	for i, rev := range revs {
		d, err := delta.Build(ref, []byte(rev))
		require.NoError(t, err)

		deltas[i+1] = d
		ref = []byte(rev)
	}

	load := func(_ string, v int) (delta.Delta, error) { return deltas[v], nil }

	got, err := delta.Reconstruct(load, "name", 2)
	require.NoError(t, err)
	require.Equal(t, "v2", string(got))
}
