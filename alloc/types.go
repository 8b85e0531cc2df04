package alloc

// Ptr is an address inside an engine's private address space.
type Ptr uint64

// Nil is the single "no allocation" sentinel.
const Nil Ptr = 0

// Block describes one block as seen by an inspection call.
type Block struct {
	Addr Ptr    // Payload address
	Size uint64 // Payload capacity in bytes
	Free bool
}

// End returns the first address past the block's payload.
func (b Block) End() Ptr {
	return b.Addr + Ptr(b.Size)
}

// Allocator is the dynamic-memory interface implemented by every engine.
//
// Implementations:
//   - freelist.Allocator: growable heap with a coalescing free list
//   - pool.Allocator: fixed size-class arenas plus a large-block arena
type Allocator interface {
	// Malloc allocates size bytes. Returns Nil for size 0 or on failure.
	Malloc(size uint64) Ptr

	// Free releases p. Nil is a no-op. p must come from this engine.
	Free(p Ptr)

	// Realloc resizes p to size bytes. Nil behaves as Malloc, size 0 as
	// Free (returning Nil). On failure the original block is left intact
	// and Nil is returned.
	Realloc(p Ptr, size uint64) Ptr

	// Calloc allocates count*size zeroed bytes. Returns Nil for a zero
	// argument, on overflow of the product, or on failure.
	Calloc(count, size uint64) Ptr

	// Bytes returns the first n payload bytes of p, or nil when p is Nil
	// or n exceeds the block's capacity.
	Bytes(p Ptr, n uint64) []byte

	// Usable returns the payload capacity of the block behind p.
	Usable(p Ptr) uint64

	// Stats returns a snapshot of the engine's counters.
	Stats() Stats

	// Close releases every region the engine owns. Later calls are no-ops.
	Close() error
}

// Primitives is the part of an engine that Reallocate and ZeroAllocate are
// built on. Alloc reports why it returned Nil.
type Primitives interface {
	Alloc(size uint64) (Ptr, error)
	Free(p Ptr)
	Usable(p Ptr) uint64
	Bytes(p Ptr, n uint64) []byte
}
