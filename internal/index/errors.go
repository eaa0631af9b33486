// Package index implements the SQLite-backed derived cache of version
// metadata that sits in front of revtrail's on-disk store. The index is
// never the source of truth — it can always be rebuilt from the .meta
// files on disk — but a small write-ahead log guards the gap between a
// committed write and its SQLite reflection so a crash mid-update never
// leaves the cache silently stale.
package index

import "errors"

// ErrWALCorrupt reports a committed WAL record with a mismatched checksum.
// Callers should use errors.Is(err, ErrWALCorrupt).
var ErrWALCorrupt = errors.New("index: wal corrupt")

// ErrWALReplay reports a WAL record that fails validation during replay.
// Callers should use errors.Is(err, ErrWALReplay).
var ErrWALReplay = errors.New("index: wal replay")

// ErrRowNotFound reports that a (name, version) pair has no index row.
var ErrRowNotFound = errors.New("index: row not found")
