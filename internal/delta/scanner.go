package delta

// commonPrefixSuffix returns the lengths (p, s) of the longest common
// prefix and longest common suffix of ref and n such that p+s does not
// exceed min(len(ref), len(n)) — the two runs never overlap (spec §4.3).
// The prefix is grown first, then the suffix, which is the tie-break spec
// §4.3 calls for when growing both greedily could otherwise overlap.
func commonPrefixSuffix(ref, n []byte) (prefix, suffix int) {
	limit := min(len(ref), len(n))

	for prefix < limit && ref[prefix] == n[prefix] {
		prefix++
	}

	remaining := limit - prefix
	for suffix < remaining && ref[len(ref)-1-suffix] == n[len(n)-1-suffix] {
		suffix++
	}

	return prefix, suffix
}
