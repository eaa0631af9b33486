package delta

import "bytes"

// appendMaxGrowth and appendPrefixCoverage bound Strategy A: append-only
// (spec §4.6.1).
const (
	appendMaxGrowth      = 1000
	appendPrefixCoverage = 0.95
)

// sandwichCoverage and sandwichChangeCap bound Strategy B: prefix/suffix
// sandwich (spec §4.6.2).
const (
	sandwichCoverage      = 0.8
	sandwichChangeCapAbs  = 10000
	sandwichChangeCapFrac = 0.01
)

// Build turns a pair of byte buffers into a Delta (spec §4.6, the
// programmatic `build_delta` entry point of spec §6). ref is the
// reconstructed previous revision (possibly empty, for the first tracked
// revision); n is the new revision's bytes.
func Build(ref, n []byte) (Delta, error) {
	switch {
	case len(ref) == 0 && len(n) == 0:
		return totals(nil, 0), nil
	case len(ref) == 0:
		return totals([]Operation{insertOp(n)}, 0), nil
	case len(n) == 0:
		return totals(nil, uint32(len(ref))), nil
	case bytes.Equal(ref, n):
		return totals([]Operation{{Type: OpCopy, RefOffset: 0, Length: uint32(len(ref))}}, uint32(len(ref))), nil
	}

	prefix, suffix := commonPrefixSuffix(ref, n)

	if ops, ok := tryStrategyA(ref, n, prefix); ok {
		return totals(ops, uint32(len(ref))), nil
	}

	if ops, ok := tryStrategyB(ref, n, prefix, suffix); ok {
		return totals(ops, uint32(len(ref))), nil
	}

	return buildStrategyC(ref, n), nil
}

// tryStrategyA implements the append-only strategy: the new buffer is the
// reference with a short tail appended.
func tryStrategyA(ref, n []byte, prefix int) ([]Operation, bool) {
	growth := len(n) - len(ref)
	if growth <= 0 || growth >= appendMaxGrowth {
		return nil, false
	}

	if float64(prefix) <= appendPrefixCoverage*float64(len(ref)) {
		return nil, false
	}

	return []Operation{
		{Type: OpCopy, RefOffset: 0, Length: uint32(prefix)},
		insertOp(n[prefix:]),
	}, true
}

// tryStrategyB implements the prefix/suffix sandwich strategy: a long
// common head and/or tail bracket a single changed region in the middle.
func tryStrategyB(ref, n []byte, prefix, suffix int) ([]Operation, bool) {
	coverage := float64(prefix+suffix) > sandwichCoverage*float64(len(ref))

	changeMagnitude := len(n) - len(ref)
	if changeMagnitude < 0 {
		changeMagnitude = -changeMagnitude
	}

	changeCap := sandwichChangeCapAbs
	if frac := int(sandwichChangeCapFrac * float64(len(ref))); frac < changeCap {
		changeCap = frac
	}

	smallChange := changeMagnitude < changeCap

	if !coverage && !smallChange {
		return nil, false
	}

	var ops []Operation

	if prefix > 0 {
		ops = append(ops, Operation{Type: OpCopy, RefOffset: 0, Length: uint32(prefix)})
	}

	if mid := n[prefix : len(n)-suffix]; len(mid) > 0 {
		ops = append(ops, insertOp(mid))
	}

	if suffix > 0 {
		ops = append(ops, Operation{Type: OpCopy, RefOffset: uint32(len(ref) - suffix), Length: uint32(suffix)})
	}

	return ops, true
}

// buildStrategyC runs the full rolling-hash matcher and planner (spec
// §§4.1–4.5): the fallback when neither closed-form strategy applies.
func buildStrategyC(ref, n []byte) Delta {
	params := defaultMatcherParams(len(n))
	idx := buildIndex(ref, params.window)
	matches := findMatches(ref, n, idx, params)
	ops := planFromMatches(n, matches)

	return totals(ops, uint32(len(ref)))
}
