package delta

// OpType tags the variant of an Operation. The numeric values match the
// on-disk encoding used by internal/store (spec §6): 0=COPY, 1=INSERT,
// 2=REPLACE.
type OpType uint32

const (
	OpCopy OpType = iota
	OpInsert
	OpReplace
)

func (t OpType) String() string {
	switch t {
	case OpCopy:
		return "COPY"
	case OpInsert:
		return "INSERT"
	case OpReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// Operation is a single instruction in a Delta's operation stream.
//
// For OpCopy, RefOffset and Length describe a byte range in the reference
// buffer; Bytes is nil. For OpInsert and OpReplace, Bytes holds the literal
// payload and Length == len(Bytes); RefOffset is meaningful only for
// OpReplace, and even there it has no effect on how the applier writes —
// see spec §9's note that REPLACE's reference-side semantics are left
// unconstrained.
type Operation struct {
	Type      OpType
	RefOffset uint32
	Length    uint32
	Bytes     []byte
}

// Match is an intermediate triple produced by the match finder: a run of
// Length identical bytes at RefOffset in the reference buffer and NewOffset
// in the new buffer. Matches never escape the delta::internal build path —
// the planner consumes them and discards them.
type Match struct {
	RefOffset uint32
	NewOffset uint32
	Length    uint32
}

// Delta is an ordered, gap-free sequence of Operations plus the totals a
// caller needs without re-walking the stream.
//
// Invariant: Σ Operations[i].Length == NewSize. DeltaSize counts only
// INSERT/REPLACE payload bytes (COPY contributes nothing to DeltaSize).
// Operations appear in strictly non-decreasing new-buffer offset and never
// leave a gap: if Operations[i] writes [p, p+len), Operations[i+1] begins
// at exactly p+len.
type Delta struct {
	Operations     []Operation
	OriginalSize   uint32 // size of the reference buffer this delta was built against
	NewSize        uint32 // Σ Operations[i].Length
	OperationCount uint32 // len(Operations), carried as a field for on-disk parity
	DeltaSize      uint32 // Σ len(Bytes) over INSERT/REPLACE operations
}
