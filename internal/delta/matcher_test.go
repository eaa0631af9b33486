package delta

import "testing"

func Test_ExtendMatch_RejectsHashCollisionWithNoByteAgreement(t *testing.T) {
	t.Parallel()

	ref := []byte("0123456789012345678901234567890123456789") // 40 bytes
	n := []byte("XXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX") // 41 X's, no real agreement

	if l := extendMatch(ref, n, 0, 0, 32); l != 0 {
		t.Fatalf("extendMatch on non-matching windows = %d, want 0", l)
	}
}

func Test_ExtendMatch_CapsAtMaxMatchLength(t *testing.T) {
	t.Parallel()

	big := make([]byte, maxMatchLength+1000)

	if l := extendMatch(big, big, 0, 0, 32); l != maxMatchLength {
		t.Fatalf("extendMatch length = %d, want cap %d", l, maxMatchLength)
	}
}

func Test_FindMatches_NonOverlappingCover(t *testing.T) {
	t.Parallel()

	ref := makePseudoRandom(4096)
	n := make([]byte, len(ref))
	copy(n, ref)

	// Punch a few unrelated holes so the matcher must stitch several
	// matches together instead of covering everything in one shot.
	copy(n[500:540], makeRepeating(40, 'Z'))
	copy(n[2000:2010], makeRepeating(10, 'Q'))

	idx := buildIndex(ref, defaultWindow)
	matches := findMatches(ref, n, idx, defaultMatcherParams(len(n)))

	var lastEnd uint32

	for _, m := range matches {
		if m.NewOffset < lastEnd {
			t.Fatalf("match at %d overlaps previous match ending at %d", m.NewOffset, lastEnd)
		}

		lastEnd = m.NewOffset + m.Length
	}

	if len(matches) == 0 {
		t.Fatal("expected at least one match between two largely-identical buffers")
	}
}

func Test_FindMatches_NoMatchesBelowMinMatch(t *testing.T) {
	t.Parallel()

	ref := makePseudoRandomSeed(256, 0x12345678)
	n := makePseudoRandomSeed(256, 0x9e3779b9) // independent seed: unrelated bytes

	idx := buildIndex(ref, defaultWindow)
	matches := findMatches(ref, n, idx, defaultMatcherParams(len(n)))

	for _, m := range matches {
		if m.Length < uint32(defaultMinMatch) {
			t.Fatalf("match length %d below min_match %d", m.Length, defaultMinMatch)
		}
	}
}

func makePseudoRandomSeed(n int, seed uint32) []byte {
	buf := make([]byte, n)

	state := seed
	for i := range buf {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		buf[i] = byte(state)
	}

	return buf
}

func makePseudoRandom(n int) []byte { return makePseudoRandomSeed(n, 0x12345678) }

func makeRepeating(n int, c byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = c
	}

	return buf
}
