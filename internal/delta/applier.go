package delta

// Apply executes d's operation stream against ref, producing the
// reconstructed buffer (spec §4.7, the `apply_delta` entry point of
// spec §6). ref may be nil/empty when d contains no COPY operations (the
// case for a freshly tracked revision 1).
//
// Apply never truncates or silently extends the output: any COPY or
// INSERT that would read or write out of bounds aborts with a typed
// error, and a declared NewSize that the operation stream does not
// actually produce aborts with ErrDeltaMalformed.
func Apply(d Delta, ref []byte) ([]byte, error) {
	out := make([]byte, d.NewSize)

	var w uint32

	for _, op := range d.Operations {
		switch op.Type {
		case OpCopy:
			if op.RefOffset > uint32(len(ref)) || op.Length > uint32(len(ref))-op.RefOffset {
				return nil, ErrReferenceOutOfRange
			}

			if op.Length > d.NewSize-w {
				return nil, ErrOutputOverflow
			}

			copy(out[w:w+op.Length], ref[op.RefOffset:op.RefOffset+op.Length])
			w += op.Length

		case OpInsert, OpReplace:
			if uint32(len(op.Bytes)) != op.Length {
				return nil, ErrDeltaMalformed
			}

			if op.Length > d.NewSize-w {
				return nil, ErrOutputOverflow
			}

			copy(out[w:w+op.Length], op.Bytes)
			w += op.Length

		default:
			return nil, ErrDeltaMalformed
		}
	}

	if w != d.NewSize {
		return nil, ErrDeltaMalformed
	}

	return out, nil
}
