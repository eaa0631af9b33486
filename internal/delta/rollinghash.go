package delta

// rollingHash computes, in O(1) amortized per byte, an Adler-style hash of
// the last Window bytes fed into it (spec §4.1). It is a small value type:
// callers keep it on the stack or embed it in the matcher and pass it by
// pointer so it stays cache-resident across a tight per-byte loop.
type rollingHash struct {
	a, b   uint32 // accumulators, kept 16-bit via mask after every update
	window []byte // circular byte window of fixed size
	w      int    // write index into window
	count  int    // number of bytes fed so far, saturating at len(window)
}

const hashMask = 0xFFFF

// newRollingHash constructs a rollingHash over a window of the given size.
// windowSize must be > 0.
func newRollingHash(windowSize int) *rollingHash {
	if windowSize <= 0 {
		panic("delta: rolling hash window size must be positive")
	}

	return &rollingHash{window: make([]byte, windowSize)}
}

// reset clears all accumulated state, as if newly constructed.
func (h *rollingHash) reset() {
	h.a, h.b = 0, 0
	h.w = 0
	h.count = 0
}

// full reports whether at least len(window) bytes have been fed since
// construction or the last reset.
func (h *rollingHash) full() bool {
	return h.count >= len(h.window)
}

// update consumes one byte, advancing the window by one position. While the
// window is still filling, it accumulates directly; once full, it slides by
// subtracting the outgoing byte's contribution and adding the incoming one.
func (h *rollingHash) update(c byte) {
	win := len(h.window)

	if h.count < win {
		h.a = (h.a + uint32(c)) & hashMask
		h.b = (h.b + h.a) & hashMask
		h.window[h.w] = c
		h.w = (h.w + 1) % win
		h.count++

		return
	}

	o := h.window[h.w]
	h.a = (h.a - uint32(o) + uint32(c)) & hashMask
	h.b = (h.b - uint32(win)*uint32(o) + h.a) & hashMask
	h.window[h.w] = c
	h.w = (h.w + 1) % win
}

// get returns the current hash. It is defined only once full reports true;
// before that (and after reset) it returns 0, per spec §4.1.
func (h *rollingHash) get() uint32 {
	if !h.full() {
		return 0
	}

	return (h.a << 16) | h.b
}

// hashWindow feeds the full contents of buf (which must have length equal
// to the configured window) into a fresh rollingHash and returns the
// resulting hash. The matcher does not call it; only the rolling-hash
// tests do.
func hashWindow(buf []byte) uint32 {
	h := newRollingHash(len(buf))
	for _, c := range buf {
		h.update(c)
	}

	return h.get()
}
