package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

const schemaVersion = 1

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("open sqlite: path is empty")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()

		return nil, err
	}

	version, err := userVersion(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	if version != schemaVersion {
		if err := createSchema(ctx, db); err != nil {
			_ = db.Close()

			return nil, err
		}
	}

	return db, nil
}

// applyPragmas favors durability over raw write throughput: the index is
// small and rebuildable, but a torn write should never look like success.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	statements := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA cache_size = -8000",
		"PRAGMA temp_store = MEMORY",
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	return nil
}

func userVersion(ctx context.Context, db *sql.DB) (int, error) {
	row := db.QueryRowContext(ctx, "PRAGMA user_version")

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}

	return version, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		"DROP TABLE IF EXISTS versions",
		`CREATE TABLE versions (
			name             TEXT NOT NULL,
			version          INTEGER NOT NULL,
			original_size    INTEGER NOT NULL,
			delta_size       INTEGER NOT NULL,
			operation_count  INTEGER NOT NULL,
			timestamp        INTEGER NOT NULL,
			checksum         TEXT NOT NULL,
			message          TEXT NOT NULL,
			PRIMARY KEY (name, version)
		) WITHOUT ROWID`,
		"CREATE INDEX idx_versions_name ON versions(name)",
		fmt.Sprintf("PRAGMA user_version = %d", schemaVersion),
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %q: %w", stmt, err)
		}
	}

	return nil
}

func upsertRow(ctx context.Context, execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, row Row) error {
	_, err := execer.ExecContext(ctx, `
		INSERT OR REPLACE INTO versions (
			name, version, original_size, delta_size, operation_count, timestamp, checksum, message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.Name, row.Version, row.OriginalSize, row.DeltaSize, row.OperationCount, row.Timestamp, row.Checksum, row.Message,
	)
	if err != nil {
		return fmt.Errorf("upsert row %s@%d: %w", row.Name, row.Version, err)
	}

	return nil
}

func scanRow(scanner interface{ Scan(...any) error }) (Row, error) {
	var row Row

	err := scanner.Scan(
		&row.Name, &row.Version, &row.OriginalSize, &row.DeltaSize,
		&row.OperationCount, &row.Timestamp, &row.Checksum, &row.Message,
	)
	if err != nil {
		return Row{}, fmt.Errorf("scan row: %w", err)
	}

	return row, nil
}

const rowColumns = "name, version, original_size, delta_size, operation_count, timestamp, checksum, message"

// Names returns every distinct tracked name, alphabetically.
func (idx *Index) Names(ctx context.Context) ([]string, error) {
	rows, err := idx.db.QueryContext(ctx, "SELECT DISTINCT name FROM versions ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

// History returns every row for name, ordered by version ascending.
func (idx *Index) History(ctx context.Context, name string) ([]Row, error) {
	rows, err := idx.db.QueryContext(ctx,
		"SELECT "+rowColumns+" FROM versions WHERE name = ? ORDER BY version ASC", name)
	if err != nil {
		return nil, fmt.Errorf("query history %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	var result []Row

	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}

		result = append(result, row)
	}

	return result, rows.Err()
}

// Head returns the highest-version row for name.
func (idx *Index) Head(ctx context.Context, name string) (Row, error) {
	row := idx.db.QueryRowContext(ctx,
		"SELECT "+rowColumns+" FROM versions WHERE name = ? ORDER BY version DESC LIMIT 1", name)

	result, err := scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Row{}, ErrRowNotFound
		}

		return Row{}, err
	}

	return result, nil
}
