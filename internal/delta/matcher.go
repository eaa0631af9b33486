package delta

const (
	defaultWindow = 32 // W: bytes participating in the rolling hash at any instant
	defaultMinMatch = 32 // shortest run promoted to a COPY

	// minBeneficial thresholds (spec §4.4): a COPY operation costs ~12
	// bytes of on-disk header, so a shorter match reduces nothing and may
	// hurt. The threshold rises for larger new buffers where probing cost
	// matters more than marginal savings.
	minBeneficialDefault = 12
	minBeneficialLarge   = 16 // new buffer > 10 MiB
	minBeneficialHuge    = 32 // new buffer > 50 MiB

	largeThreshold = 10 * 1024 * 1024
	hugeThreshold  = 50 * 1024 * 1024

	maxCandidates  = 20        // K: candidates probed per bucket
	maxMatchLength = 1 << 20   // 1 MiB extension cap
	fallbackMinMatches = 10    // rerun threshold (spec §4.4 fallback)
	fallbackNewSizeMin = 1 << 20
	fallbackMinBeneficial = 32
)

// matcherParams bundles the tunables spec §4.4 defines, so tests can
// exercise non-default values without touching the production defaults.
type matcherParams struct {
	window        int
	minMatch      int
	minBeneficial int
}

func defaultMatcherParams(newSize int) matcherParams {
	beneficial := minBeneficialDefault

	switch {
	case newSize > hugeThreshold:
		beneficial = minBeneficialHuge
	case newSize > largeThreshold:
		beneficial = minBeneficialLarge
	}

	return matcherParams{window: defaultWindow, minMatch: defaultMinMatch, minBeneficial: beneficial}
}

// findMatches covers the new buffer n left-to-right with long matches
// against the indexed reference buffer ref (spec §4.4). The returned
// matches are non-overlapping and sorted by NewOffset (construction order).
func findMatches(ref, n []byte, idx *chainedIndex, params matcherParams) []Match {
	matches := coverOnce(ref, n, idx, params.window, params.minMatch, params.minBeneficial)

	// Fallback: if the cover is sparse on a large buffer, retry with a
	// stricter beneficiality threshold and keep whichever cover has more
	// matches (spec §4.4: "more permissive on min_match has no effect").
	if len(matches) < fallbackMinMatches && len(n) > fallbackNewSizeMin && params.minBeneficial < fallbackMinBeneficial {
		retry := coverOnce(ref, n, idx, params.window, params.minMatch, fallbackMinBeneficial)
		if len(retry) > len(matches) {
			matches = retry
		}
	}

	return matches
}

func coverOnce(ref, n []byte, idx *chainedIndex, window, minMatch, minBeneficial int) []Match {
	var matches []Match

	h := newRollingHash(window)

	var lastMatchEnd int

	i := 0
	for i+window <= len(n) {
		if i == 0 {
			// Prime the window: feed the first `window` bytes in full.
			for _, c := range n[:window] {
				h.update(c)
			}
		} else {
			// One byte enters (n[i+window-1]); one implicitly leaves.
			h.update(n[i+window-1])
		}

		if i < lastMatchEnd {
			i++

			continue
		}

		bestLen := 0
		bestOff := 0

		hash := h.get()
		candidates := 0

		for e := idx.chainHead(hash); e != -1 && candidates < maxCandidates; e = idx.entries[e].next {
			entry := idx.entries[e]
			if entry.hash != hash {
				continue
			}

			candidates++

			l := extendMatch(ref, n, int(entry.offset), i, window)
			if l > bestLen {
				bestLen = l
				bestOff = int(entry.offset)
			}
		}

		if bestLen >= minMatch && bestLen >= minBeneficial {
			matches = append(matches, Match{RefOffset: uint32(bestOff), NewOffset: uint32(i), Length: uint32(bestLen)})
			lastMatchEnd = i + bestLen
		}

		i++
	}

	return matches
}

// extendMatch grows a candidate match at (refOff, newOff), whose window
// hashes agree. The hash is weak, so the first `window` bytes are compared
// here and a candidate whose bytes differ is rejected (0 is returned).
// Extension uses 8-byte, then 4-byte, then 1-byte stride comparisons and is
// capped at maxMatchLength.
func extendMatch(ref, n []byte, refOff, newOff, window int) int {
	// Validate the window itself first; a hash collision with no actual
	// byte agreement must be rejected outright.
	for k := 0; k < window; k++ {
		if refOff+k >= len(ref) || newOff+k >= len(n) || ref[refOff+k] != n[newOff+k] {
			return 0
		}
	}

	length := window
	maxLen := min(len(ref)-refOff, len(n)-newOff, maxMatchLength)

	for length+8 <= maxLen && eq8(ref[refOff+length:], n[newOff+length:]) {
		length += 8
	}

	for length+4 <= maxLen && eq4(ref[refOff+length:], n[newOff+length:]) {
		length += 4
	}

	for length < maxLen && ref[refOff+length] == n[newOff+length] {
		length++
	}

	return length
}

func eq8(a, b []byte) bool {
	for k := 0; k < 8; k++ {
		if a[k] != b[k] {
			return false
		}
	}

	return true
}

func eq4(a, b []byte) bool {
	for k := 0; k < 4; k++ {
		if a[k] != b[k] {
			return false
		}
	}

	return true
}

// buildIndex hashes every full window of ref and inserts each (hash,
// offset) pair into a fresh chainedIndex, sized per spec §4.2.
func buildIndex(ref []byte, window int) *chainedIndex {
	idx := newChainedIndex(defaultBuckets)

	if len(ref) < window {
		return idx
	}

	h := newRollingHash(window)
	for _, c := range ref[:window] {
		h.update(c)
	}

	idx.insert(h.get(), 0)

	for i := 1; i+window <= len(ref); i++ {
		h.update(ref[i+window-1])
		idx.insert(h.get(), uint32(i))
	}

	return idx
}
