package delta

import "sort"

// planFromMatches turns a non-overlapping set of matches into a gap-free
// operation stream over n (spec §4.5). Matches need not arrive sorted;
// they are stably sorted by NewOffset first. Equal-length non-overlapping
// matches are therefore emitted in ascending NewOffset order, which is the
// only tie-break spec §4.5 requires (equal-length overlapping matches
// cannot occur — the cover is non-overlapping by construction).
func planFromMatches(n []byte, matches []Match) []Operation {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].NewOffset < matches[j].NewOffset
	})

	var ops []Operation

	cursor := uint32(0)

	for _, m := range matches {
		if m.NewOffset > cursor {
			ops = append(ops, insertOp(n[cursor:m.NewOffset]))
		}

		ops = append(ops, Operation{Type: OpCopy, RefOffset: m.RefOffset, Length: m.Length})
		cursor = m.NewOffset + m.Length
	}

	if cursor < uint32(len(n)) {
		ops = append(ops, insertOp(n[cursor:]))
	}

	return ops
}

func insertOp(b []byte) Operation {
	buf := make([]byte, len(b))
	copy(buf, b)

	return Operation{Type: OpInsert, Length: uint32(len(buf)), Bytes: buf}
}

// totals computes NewSize, OperationCount, and DeltaSize for a finished
// operation stream built against a reference of size originalSize.
func totals(ops []Operation, originalSize uint32) Delta {
	d := Delta{Operations: ops, OriginalSize: originalSize, OperationCount: uint32(len(ops))}

	for _, op := range ops {
		d.NewSize += op.Length
		if op.Type != OpCopy {
			d.DeltaSize += uint32(len(op.Bytes))
		}
	}

	return d
}
