package delta

// defaultBuckets is the default bucket count for a chainedIndex (spec
// §4.2). The index is never resized; load factor is simply allowed to
// grow.
const defaultBuckets = 65536

// indexEntry is one link in a bucket's chain. Entries are held in a single
// arena slice (chainedIndex.entries) and referenced by index rather than
// pointer, per the re-architecture guidance in spec §9 ("model it as an
// arena of entry records with bucket heads storing arena indices").
type indexEntry struct {
	hash   uint32
	offset uint32
	next   int32 // index into entries, or -1
}

// chainedIndex maps hash -> zero-or-more offsets in a reference buffer.
// Its lifetime is exactly one delta-build call; it is discarded (and its
// arena freed) when that call returns.
type chainedIndex struct {
	buckets []int32 // bucket -> head index into entries, or -1
	entries []indexEntry
}

func newChainedIndex(buckets int) *chainedIndex {
	if buckets <= 0 {
		buckets = defaultBuckets
	}

	b := make([]int32, buckets)
	for i := range b {
		b[i] = -1
	}

	return &chainedIndex{buckets: b}
}

func (idx *chainedIndex) bucketFor(hash uint32) int {
	return int(hash) % len(idx.buckets)
}

// insert appends offset at the head of the bucket for hash. O(1).
func (idx *chainedIndex) insert(hash, offset uint32) {
	b := idx.bucketFor(hash)
	idx.entries = append(idx.entries, indexEntry{hash: hash, offset: offset, next: idx.buckets[b]})
	idx.buckets[b] = int32(len(idx.entries) - 1)
}

// chainHead returns the arena index of the first entry in hash's bucket,
// or -1 if the bucket is empty. Callers walk idx.entries[i].next to
// enumerate the rest, filtering by exact hash equality at each link since
// a bucket holds every hash that reduces to it modulo len(buckets).
func (idx *chainedIndex) chainHead(hash uint32) int32 {
	return idx.buckets[idx.bucketFor(hash)]
}

func (idx *chainedIndex) entryCount() int {
	return len(idx.entries)
}
