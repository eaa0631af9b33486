package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_SanitiseName_ReplacesPathHostileCharacters(t *testing.T) {
	t.Parallel()

	require.Equal(t, "a_b_c_d", sanitiseName("a/b\\c:d"))
	require.Equal(t, "widget.json", sanitiseName("widget.json"))
}

func Test_DeltaFilename_And_MetaFilename(t *testing.T) {
	t.Parallel()

	require.Equal(t, "notes.txt_v3.delta", deltaFilename("notes.txt", 3))
	require.Equal(t, "notes.txt_v3.meta", metaFilename("notes.txt", 3))
}

func Test_ParseVersionSuffix_RoundTrips_With_DeltaFilename(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		version uint32
	}{
		{name: "widget", version: 1},
		{name: "widget_v2_backup", version: 12},
		{name: "a_b_c_d", version: 42},
	}

	for _, tc := range testCases {
		base, ok := trimSuffix(deltaFilename(tc.name, tc.version), ".delta")
		require.True(t, ok)

		name, version, ok := parseVersionSuffix(base)
		require.True(t, ok)
		require.Equal(t, tc.name, name)
		require.Equal(t, tc.version, version)
	}
}

func Test_ParseVersionSuffix_Rejects_MissingVersionMarker(t *testing.T) {
	t.Parallel()

	_, _, ok := parseVersionSuffix("no_version_marker_here")
	require.False(t, ok)
}

func Test_ParseVersionSuffix_Rejects_NonNumericVersion(t *testing.T) {
	t.Parallel()

	_, _, ok := parseVersionSuffix("widget_vNaN")
	require.False(t, ok)
}

func Test_TrimSuffix(t *testing.T) {
	t.Parallel()

	base, ok := trimSuffix("widget_v1.meta", ".meta")
	require.True(t, ok)
	require.Equal(t, "widget_v1", base)

	_, ok = trimSuffix("widget_v1.delta", ".meta")
	require.False(t, ok)

	_, ok = trimSuffix(".meta", ".meta")
	require.False(t, ok)
}
