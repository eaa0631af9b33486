package delta

import "fmt"

// LoadFunc loads the stored Delta for revision v of name. Implementations
// live outside this package (internal/store); the engine only needs this
// one capability plus list_versions (spec §1) to reconstruct any revision.
type LoadFunc func(name string, v int) (Delta, error)

// Reconstruct rebuilds the bytes of revision targetV of name by loading and
// applying deltas 1..targetV in order (spec §4.8, the `reconstruct` entry
// point of spec §6). Buffers rotate in a two-slot (prev, next) pattern per
// spec §9 — only the most recently produced buffer is ever retained.
func Reconstruct(load LoadFunc, name string, targetV int) ([]byte, error) {
	if targetV < 1 {
		return nil, ErrInvalidArgument
	}

	var prev []byte

	for v := 1; v <= targetV; v++ {
		d, err := load(name, v)
		if err != nil {
			return nil, fmt.Errorf("%w: load %s v%d: %w", ErrChainBroken, name, v, err)
		}

		next, err := Apply(d, prev)
		if err != nil {
			return nil, fmt.Errorf("%w: apply %s v%d: %w", ErrChainBroken, name, v, err)
		}

		prev = next
	}

	return prev, nil
}
