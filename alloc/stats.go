package alloc

// Stats holds engine counters. Fields that do not apply to an engine stay zero.
type Stats struct {
	AllocCalls   int // Malloc/Alloc calls
	FreeCalls    int // Free calls with a non-Nil pointer
	ReallocCalls int // Realloc/Resize calls
	CallocCalls  int // Calloc/ZeroAlloc calls
	Failures     int // Calls that returned Nil for a reason other than release

	BytesAllocated int64 // Payload capacity handed out
	BytesFreed     int64 // Payload capacity released

	InPlaceResizes int // Realloc calls satisfied without moving

	// Free-list engine
	GrowCalls        int   // Heap extensions
	GrowBytes        int64 // Bytes added by heap extensions
	SplitCount       int   // Blocks carved from a larger free block
	CoalesceForward  int   // Merges with the following free block
	CoalesceBackward int   // Merges with the preceding free block

	// Pool engine
	RecycleHits  int // Class allocations served from a recycle list
	BumpAllocs   int // Class allocations served from the bump cursor
	Fallthroughs int // Class requests sent to the large arena because the class was exhausted
	LargeAllocs  int // Allocations served by the large arena
	LargeSplits  int // Large blocks split on allocation

	Reserved  int64  // Backing bytes currently held
	LastError string // Reason for the most recent failure, if any
}

// Live returns the payload bytes currently allocated.
func (s Stats) Live() int64 {
	return s.BytesAllocated - s.BytesFreed
}
