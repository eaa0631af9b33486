package delta

import "errors"

// Error kinds surfaced by the engine. Callers should use errors.Is.
var (
	// ErrInvalidArgument reports a nil buffer, a zero version number, or
	// another caller-supplied argument that cannot be processed.
	ErrInvalidArgument = errors.New("delta: invalid argument")

	// ErrDeltaMalformed reports a truncated record, an unknown operation
	// type, or self-inconsistent lengths while decoding or applying a
	// delta.
	ErrDeltaMalformed = errors.New("delta: malformed")

	// ErrReferenceOutOfRange reports a COPY operation whose range would
	// read past the end of the reference buffer.
	ErrReferenceOutOfRange = errors.New("delta: reference out of range")

	// ErrOutputOverflow reports cumulative operation lengths exceeding
	// the delta's declared new_size.
	ErrOutputOverflow = errors.New("delta: output overflow")

	// ErrChainBroken reports that a revision required to reconstruct a
	// target version could not be loaded.
	ErrChainBroken = errors.New("delta: chain broken")
)
