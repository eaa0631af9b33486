package delta

import "testing"

func Test_ChainedIndex_InsertAndWalk(t *testing.T) {
	t.Parallel()

	idx := newChainedIndex(4)

	idx.insert(10, 0)
	idx.insert(10, 5)
	idx.insert(10, 9)

	var offsets []uint32

	for e := idx.chainHead(10); e != -1; e = idx.entries[e].next {
		if idx.entries[e].hash != 10 {
			continue
		}

		offsets = append(offsets, idx.entries[e].offset)
	}

	// Insertions are head-prepended, so the chain walks most-recent first.
	want := []uint32{9, 5, 0}
	if len(offsets) != len(want) {
		t.Fatalf("got %d offsets, want %d", len(offsets), len(want))
	}

	for i := range want {
		if offsets[i] != want[i] {
			t.Fatalf("offsets[%d] = %d, want %d", i, offsets[i], want[i])
		}
	}
}

func Test_ChainedIndex_EmptyBucketReturnsNoHead(t *testing.T) {
	t.Parallel()

	idx := newChainedIndex(4)

	if head := idx.chainHead(42); head != -1 {
		t.Fatalf("chainHead on empty index = %d, want -1", head)
	}
}

func Test_ChainedIndex_CollisionsCoexistInSameBucket(t *testing.T) {
	t.Parallel()

	idx := newChainedIndex(1) // single bucket forces every hash to collide

	idx.insert(1, 100)
	idx.insert(2, 200)

	if idx.entryCount() != 2 {
		t.Fatalf("entryCount() = %d, want 2", idx.entryCount())
	}

	seen := map[uint32]bool{}
	for e := idx.chainHead(1); e != -1; e = idx.entries[e].next {
		if idx.entries[e].hash == 1 {
			seen[idx.entries[e].offset] = true
		}
	}

	if !seen[100] {
		t.Fatal("expected to find offset 100 under hash 1, walking past the colliding hash-2 entry")
	}
}

func Test_BuildIndex_ShorterThanWindowYieldsEmptyIndex(t *testing.T) {
	t.Parallel()

	idx := buildIndex([]byte("ab"), 4)
	if idx.entryCount() != 0 {
		t.Fatalf("entryCount() = %d, want 0 for a reference shorter than the window", idx.entryCount())
	}
}
