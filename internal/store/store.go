package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/calvinalkan/fileproc"

	"github.com/calvinalkan/revtrail/internal/delta"
	"github.com/calvinalkan/revtrail/internal/fs"
	"github.com/calvinalkan/revtrail/internal/index"
)

// Store is the on-disk home for tracked names: one delta file and one meta
// file per (name, version), in a single flat directory, plus a derived
// SQLite index kept current via [index.Index].
type Store struct {
	dir   string
	fsys  fs.FS
	index *index.Index
}

// Open opens (creating if absent) the store rooted at dir. If the derived
// index holds no rows (a new store, or a lost index), it is rebuilt from a
// full directory scan of the .meta files before Open returns. An index that
// has rows is used as it is; it is not compared against the .meta files.
func Open(ctx context.Context, dir string) (*Store, error) {
	return OpenWithFS(ctx, dir, fs.NewReal())
}

// OpenWithFS is [Open] with an injectable [fs.FS], so callers (tests, in
// particular) can wrap the real filesystem with [fs.Chaos] to exercise
// crash/fault-injection paths without touching the production entry point.
func OpenWithFS(ctx context.Context, dir string, fsys fs.FS) (*Store, error) {
	if ctx == nil {
		return nil, errors.New("store: open: context is nil")
	}

	if dir == "" {
		return nil, errors.New("store: open: directory is empty")
	}

	if fsys == nil {
		return nil, errors.New("store: open: fs is nil")
	}

	root := filepath.Clean(dir)

	if err := fsys.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("store: open: mkdir: %w", err)
	}

	idx, err := index.Open(ctx, fsys, filepath.Join(root, ".index"))
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	s := &Store{dir: root, fsys: fsys, index: idx}

	names, err := idx.Names(ctx)
	if err != nil {
		_ = idx.Close()

		return nil, fmt.Errorf("store: open: %w", err)
	}

	if len(names) == 0 {
		if rebuildErr := s.rebuildIndex(ctx); rebuildErr != nil {
			_ = idx.Close()

			return nil, fmt.Errorf("store: open: %w", rebuildErr)
		}
	}

	return s, nil
}

// Close releases the underlying index handles. Safe to call on a nil Store.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}

	return s.index.Close()
}

// Track builds a delta against the current head of name (or against an
// empty reference, for a first-time name) and writes the new delta and meta
// files, each one atomically, then records the version in the derived index.
func (s *Store) Track(ctx context.Context, name string, content []byte, message string) (TrackResult, error) {
	if name == "" {
		return TrackResult{}, fmt.Errorf("store: track: %w", ErrInvalidName)
	}

	lock, err := s.fsys.Lock(filepath.Join(s.dir, sanitiseName(name)))
	if err != nil {
		return TrackResult{}, fmt.Errorf("store: track: lock: %w", err)
	}

	defer func() { _ = lock.Close() }()

	head, headVersion, err := s.headLocked(ctx, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return TrackResult{}, fmt.Errorf("store: track: %w", err)
	}

	var ref []byte

	if err == nil {
		ref, err = s.reconstructLocked(ctx, name, int(headVersion))
		if err != nil {
			return TrackResult{}, fmt.Errorf("store: track: %w", err)
		}
	}

	d, err := delta.Build(ref, content)
	if err != nil {
		return TrackResult{}, fmt.Errorf("store: track: build delta: %w", err)
	}

	version := headVersion + 1

	meta := VersionMeta{
		Filename:       deltaFilename(name, version),
		Version:        version,
		OriginalSize:   uint32(len(ref)),
		DeltaSize:      d.DeltaSize,
		OperationCount: d.OperationCount,
		Timestamp:      time.Now().UTC(),
		Checksum:       checksum(ref),
		Message:        message,
	}

	if err := s.writeVersion(name, version, d, meta); err != nil {
		return TrackResult{}, fmt.Errorf("store: track: %w", err)
	}

	row := index.Row{
		Name: name, Version: version, OriginalSize: meta.OriginalSize,
		DeltaSize: meta.DeltaSize, OperationCount: meta.OperationCount,
		Timestamp: meta.Timestamp.Unix(), Checksum: meta.Checksum, Message: meta.Message,
	}

	if err := s.index.Put(ctx, row); err != nil {
		return TrackResult{}, fmt.Errorf("store: track: index: %w", err)
	}

	return TrackResult{Meta: meta, NewSize: d.NewSize}, nil
}

// Diff returns the stored delta for version v of name without reconstructing
// any buffer — a pure read of the operation stream.
func (s *Store) Diff(name string, v int) (delta.Delta, error) {
	meta, err := s.readMeta(name, uint32(v))
	if err != nil {
		return delta.Delta{}, fmt.Errorf("store: diff: %w", err)
	}

	ops, err := s.readOperations(name, uint32(v), meta.OperationCount)
	if err != nil {
		return delta.Delta{}, fmt.Errorf("store: diff: %w", err)
	}

	return delta.Delta{
		Operations:     ops,
		OriginalSize:   meta.OriginalSize,
		NewSize:        sumOperationLengths(ops),
		OperationCount: meta.OperationCount,
		DeltaSize:      meta.DeltaSize,
	}, nil
}

// History returns every VersionMeta for name, in version order.
func (s *Store) History(ctx context.Context, name string) ([]VersionMeta, error) {
	rows, err := s.index.History(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("store: history: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("store: history: %s: %w", name, ErrNotFound)
	}

	out := make([]VersionMeta, len(rows))
	for i, row := range rows {
		out[i] = metaFromRow(row)
	}

	return out, nil
}

// List returns every tracked name, alphabetically, from the derived index.
func (s *Store) List(ctx context.Context) ([]string, error) {
	names, err := s.index.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}

	return names, nil
}

// Status returns the metadata of the current (highest) version of name.
func (s *Store) Status(ctx context.Context, name string) (VersionMeta, error) {
	row, err := s.index.Head(ctx, name)
	if err != nil {
		if errors.Is(err, index.ErrRowNotFound) {
			return VersionMeta{}, fmt.Errorf("store: status: %s: %w", name, ErrNotFound)
		}

		return VersionMeta{}, fmt.Errorf("store: status: %w", err)
	}

	return metaFromRow(row), nil
}

// Restore reconstructs name at version v by walking its delta chain from
// version 1.
func (s *Store) Restore(ctx context.Context, name string, v int) ([]byte, error) {
	return s.reconstructLocked(ctx, name, v)
}

// headLocked returns the current head version's reconstructed content and
// its version number. Must be called while holding the per-name lock.
func (s *Store) headLocked(ctx context.Context, name string) ([]byte, uint32, error) {
	row, err := s.index.Head(ctx, name)
	if err != nil {
		if errors.Is(err, index.ErrRowNotFound) {
			return nil, 0, ErrNotFound
		}

		return nil, 0, err
	}

	content, err := s.reconstructLocked(ctx, name, int(row.Version))
	if err != nil {
		return nil, 0, err
	}

	return content, row.Version, nil
}

// reconstructLocked rebuilds name at version v via [delta.Reconstruct].
func (s *Store) reconstructLocked(_ context.Context, name string, v int) ([]byte, error) {
	return delta.Reconstruct(s.Diff, name, v)
}

// writeVersion persists the delta/meta pair for (name, version) atomically,
// one file at a time (spec §5: no cross-file atomicity guarantee).
func (s *Store) writeVersion(name string, version uint32, d delta.Delta, meta VersionMeta) error {
	deltaBytes := encodeOperations(d.Operations)
	if err := s.fsys.WriteFileAtomic(filepath.Join(s.dir, deltaFilename(name, version)), deltaBytes, 0o644); err != nil {
		return fmt.Errorf("write delta: %w", err)
	}

	metaBytes, err := encodeMeta(meta)
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}

	if err := s.fsys.WriteFileAtomic(filepath.Join(s.dir, metaFilename(name, version)), metaBytes, 0o644); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}

	return nil
}

// readMeta loads and decodes the meta file for (name, version).
func (s *Store) readMeta(name string, v uint32) (VersionMeta, error) {
	path := filepath.Join(s.dir, metaFilename(name, v))

	buf, err := s.fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return VersionMeta{}, fmt.Errorf("%s@%d: %w", name, v, ErrVersionNotFound)
		}

		return VersionMeta{}, fmt.Errorf("read meta: %w", err)
	}

	meta, err := decodeMeta(buf)
	if err != nil {
		return VersionMeta{}, fmt.Errorf("read meta: %w", err)
	}

	return meta, nil
}

// readOperations loads and decodes the delta file for (name, version).
func (s *Store) readOperations(name string, v, wantCount uint32) ([]delta.Operation, error) {
	path := filepath.Join(s.dir, deltaFilename(name, v))

	buf, err := s.fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s@%d: %w", name, v, ErrVersionNotFound)
		}

		return nil, fmt.Errorf("read delta: %w", err)
	}

	ops, err := decodeOperations(buf, wantCount)
	if err != nil {
		return nil, fmt.Errorf("read delta: %w", err)
	}

	return ops, nil
}

func sumOperationLengths(ops []delta.Operation) uint32 {
	var total uint32
	for _, op := range ops {
		total += op.Length
	}

	return total
}

func metaFromRow(row index.Row) VersionMeta {
	return VersionMeta{
		Filename:       deltaFilename(row.Name, row.Version),
		Version:        row.Version,
		OriginalSize:   row.OriginalSize,
		DeltaSize:      row.DeltaSize,
		OperationCount: row.OperationCount,
		Timestamp:      time.Unix(row.Timestamp, 0).UTC(),
		Checksum:       row.Checksum,
		Message:        row.Message,
	}
}

// rebuildIndex rescans the store directory for .meta files and replays them
// into the derived index. Used by Open when the index is empty (fresh
// store, or the index file was deleted/lost).
func (s *Store) rebuildIndex(ctx context.Context) error {
	results, err := scanMetaFiles(ctx, s.dir)
	if err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	rows := make([]index.Row, 0, len(results))

	for i := range results {
		if results[i].Value == nil {
			continue
		}

		rows = append(rows, *results[i].Value)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}

		return rows[i].Version < rows[j].Version
	})

	return s.index.Rebuild(ctx, rows)
}

// scanMetaFiles walks root concurrently with [fileproc.ProcessStat], decoding
// every "*.meta" sibling into an [index.Row]. Non-meta files and anything that
// doesn't carry a "_v<N>" version suffix are skipped rather than treated as
// scan errors, since the store directory also holds the matching .delta
// files and the index/WAL subdirectory.
func scanMetaFiles(ctx context.Context, root string) ([]fileproc.Result[index.Row], error) {
	opts := fileproc.Options{
		Recursive: false,
		Suffix:    ".meta",
	}

	results, errs := fileproc.ProcessStat(ctx, root, func(path []byte, _ fileproc.Stat, f fileproc.LazyFile) (*index.Row, error) {
		base, ok := trimSuffix(string(path), ".meta")
		if !ok {
			return nil, nil
		}

		name, version, ok := parseVersionSuffix(base)
		if !ok {
			return nil, nil
		}

		buf, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		meta, err := decodeMeta(buf)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}

		return &index.Row{
			Name: name, Version: version, OriginalSize: meta.OriginalSize,
			DeltaSize: meta.DeltaSize, OperationCount: meta.OperationCount,
			Timestamp: meta.Timestamp.Unix(), Checksum: meta.Checksum, Message: meta.Message,
		}, nil
	}, opts)

	if len(errs) > 0 {
		var ioErr *fileproc.IOError
		if errors.As(errors.Join(errs...), &ioErr) {
			return nil, fmt.Errorf("scan: %w", ioErr)
		}

		return nil, fmt.Errorf("scan: %w", errors.Join(errs...))
	}

	return results, nil
}

func trimSuffix(name, suffix string) (string, bool) {
	if len(name) <= len(suffix) || name[len(name)-len(suffix):] != suffix {
		return "", false
	}

	return name[:len(name)-len(suffix)], true
}
