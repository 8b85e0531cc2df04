// Package alloc defines the dynamic-memory interface shared by the allocator
// engines in this module, together with the pieces both engines build on.
//
// # Overview
//
// An engine owns one or more byte arenas and hands out addresses (Ptr) inside
// its own private address space. Payload bytes are reached with Bytes; block
// metadata lives in-band in the arenas and is encoded field by field, so no
// engine ever reinterprets memory through unsafe pointers.
//
// # Allocator Interface
//
// Every engine implements the same four operations:
//
//   - Malloc(size): allocate size bytes
//   - Free(p): release a block; Nil is a no-op
//   - Realloc(p, size): resize, moving the block only when it must grow
//   - Calloc(count, size): allocate count*size zeroed bytes
//
// All failures collapse to the single sentinel Nil. A zero-size request and
// an out-of-memory condition are indistinguishable from the return value.
// Engines also expose Alloc, Resize and ZeroAlloc, which return the same
// pointers together with the reason for a Nil result (ErrInvalidArgument,
// ErrOverflow, ErrExhausted).
//
// # Implementations
//
// freelist.Allocator: a single growable heap managed as a circular,
// address-ordered free list with next-fit search and coalescing on release.
//
// pool.Allocator: sixteen fixed size-class arenas (8..128 bytes) with bump
// allocation and LIFO recycling, plus one large arena served first-fit with
// tail splitting and no coalescing.
//
// # Usage Example
//
//	a, err := allocator.New(&allocator.Options{Kind: allocator.KindPool})
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	p := a.Malloc(64)
//	if p == alloc.Nil {
//	    return errors.New("out of memory")
//	}
//	copy(a.Bytes(p, 64), payload)
//	a.Free(p)
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Concurrent use of one engine is a
// data race; callers must synchronize externally.
package alloc
