package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/calvinalkan/revtrail/internal/fs"
)

// Index is the derived SQLite cache of version metadata. It is never the
// source of truth — [Index.Rebuild] can always reconstruct it from the
// store's .meta files — but [Index.Put] guards the write path with a WAL so
// a crash between a commit and its SQLite reflection is recovered on the
// next [Open] rather than silently forgotten.
type Index struct {
	fsys    fs.FS
	db      *sql.DB
	wal     fs.File
	walPath string
}

// Open opens (creating if absent) the SQLite index and WAL rooted at dir,
// recovering any WAL record left behind by a prior crash.
func Open(ctx context.Context, fsys fs.FS, dir string) (*Index, error) {
	if ctx == nil {
		return nil, errors.New("index: open: context is nil")
	}

	if err := fsys.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("index: open: mkdir: %w", err)
	}

	walPath := filepath.Join(dir, "index.wal")

	walFile, err := fsys.OpenFile(walPath, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("index: open: wal: %w", err)
	}

	db, err := openSQLite(ctx, filepath.Join(dir, "index.sqlite"))
	if err != nil {
		_ = walFile.Close()

		return nil, fmt.Errorf("index: open: %w", err)
	}

	idx := &Index{fsys: fsys, db: db, wal: walFile, walPath: walPath}

	if err := idx.recover(ctx); err != nil {
		_ = idx.Close()

		return nil, fmt.Errorf("index: open: %w", err)
	}

	return idx, nil
}

// Close releases the SQLite and WAL handles. Safe to call on a nil Index.
func (idx *Index) Close() error {
	if idx == nil {
		return nil
	}

	var errs []error

	if idx.db != nil {
		if err := idx.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close sqlite: %w", err))
		}

		idx.db = nil
	}

	if idx.wal != nil {
		if err := idx.wal.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close wal: %w", err))
		}

		idx.wal = nil
	}

	return errors.Join(errs...)
}

// recover classifies the WAL left from a prior run and either replays a
// committed record into SQLite or discards an uncommitted one.
func (idx *Index) recover(ctx context.Context) error {
	state, body, err := readWALState(idx.wal)
	if err != nil {
		return err
	}

	switch state {
	case walEmpty:
		return nil
	case walUncommitted:
		return truncateWAL(idx.wal)
	case walCommitted:
		rec, err := decodeWALRecord(body)
		if err != nil {
			return fmt.Errorf("recover: %w", err)
		}

		if err := upsertRow(ctx, idx.db, rec.Row); err != nil {
			return fmt.Errorf("recover: apply: %w", err)
		}

		return truncateWAL(idx.wal)
	default:
		return fmt.Errorf("recover: unknown wal state %d", state)
	}
}

// Put records row durably: a WAL record is written and fsynced, the row is
// upserted into SQLite, and the WAL is truncated — all under an exclusive
// lock so a concurrent Put (from another process sharing this directory)
// cannot interleave with the WAL write.
func (idx *Index) Put(ctx context.Context, row Row) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("index: put: %w", context.Cause(ctx))
	}

	lock, err := idx.fsys.Lock(idx.walPath)
	if err != nil {
		return fmt.Errorf("index: put: lock: %w", err)
	}

	defer func() { _ = lock.Close() }()

	if _, err := putWAL(idx.wal, row); err != nil {
		return fmt.Errorf("index: put: %w", err)
	}

	if err := upsertRow(ctx, idx.db, row); err != nil {
		return fmt.Errorf("index: put: apply: %w", err)
	}

	if err := truncateWAL(idx.wal); err != nil {
		return fmt.Errorf("index: put: %w", err)
	}

	return nil
}

// Rebuild replaces the entire index contents with rows in a single
// transaction. The store calls it on open when the index holds no rows —
// the store always has the authoritative data in its .meta files.
func (idx *Index) Rebuild(ctx context.Context, rows []Row) error {
	if err := createSchema(ctx, idx.db); err != nil {
		return fmt.Errorf("index: rebuild: %w", err)
	}

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("index: rebuild: begin: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("index: rebuild: canceled: %w", context.Cause(ctx))
		}

		if err := upsertRow(ctx, tx, row); err != nil {
			return fmt.Errorf("index: rebuild: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("index: rebuild: commit: %w", err)
	}

	committed = true

	return nil
}
