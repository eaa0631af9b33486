// Package store implements the on-disk delta/meta layout for revtrail.
package store

import "errors"

// ErrNotFound reports that a tracked name has no versions on disk.
// Callers should use errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("name not found")

// ErrVersionNotFound reports that a specific version of a tracked name is
// missing its delta/meta pair. Callers should use errors.Is(err, ErrVersionNotFound).
var ErrVersionNotFound = errors.New("version not found")

// ErrMetaMalformed reports a meta file that is not exactly 600 bytes, or a
// delta file whose operation records are truncated or carry an unknown type.
// Callers should use errors.Is(err, ErrMetaMalformed).
var ErrMetaMalformed = errors.New("meta file malformed")

// ErrInvalidName reports a tracked name that is empty.
var ErrInvalidName = errors.New("invalid name")
