package store

import "time"

// VersionMeta is the fixed-layout metadata record persisted alongside every
// delta file (spec: metadata file format).
type VersionMeta struct {
	Filename        string
	Version         uint32
	OriginalSize    uint32
	DeltaSize       uint32
	OperationCount  uint32
	Timestamp       time.Time
	Checksum        string // 8 lowercase hex digits
	Message         string
}

// TrackResult is returned by [Store.Track]; it carries the metadata of the
// newly written version plus the reconstructed content size for callers
// that want to report it without re-reading the file.
type TrackResult struct {
	Meta    VersionMeta
	NewSize uint32
}
