package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_OpenSQLite_CreatesSchemaOnFirstOpen(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "index.sqlite")

	db, err := openSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	version, err := userVersion(ctx, db)
	require.NoError(t, err)
	require.Equal(t, schemaVersion, version)
}

func Test_OpenSQLite_ReopeningPreservesData(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "index.sqlite")

	db, err := openSQLite(ctx, path)
	require.NoError(t, err)

	require.NoError(t, upsertRow(ctx, db, Row{Name: "widget.txt", Version: 1, Timestamp: 100, Checksum: "a"}))
	require.NoError(t, db.Close())

	reopened, err := openSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	row := reopened.QueryRowContext(ctx, "SELECT "+rowColumns+" FROM versions WHERE name = ?", "widget.txt")

	got, err := scanRow(row)
	require.NoError(t, err)
	require.Equal(t, uint32(1), got.Version)
	require.Equal(t, "a", got.Checksum)
}

func Test_OpenSQLite_RejectsEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := openSQLite(t.Context(), "")
	require.Error(t, err)
}

func Test_UpsertRow_ReplacesExistingVersion(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	db, err := openSQLite(ctx, filepath.Join(t.TempDir(), "index.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, upsertRow(ctx, db, Row{Name: "widget.txt", Version: 1, Checksum: "a"}))
	require.NoError(t, upsertRow(ctx, db, Row{Name: "widget.txt", Version: 1, Checksum: "b"}))

	row := db.QueryRowContext(ctx, "SELECT "+rowColumns+" FROM versions WHERE name = ? AND version = ?", "widget.txt", 1)

	got, err := scanRow(row)
	require.NoError(t, err)
	require.Equal(t, "b", got.Checksum)
}
