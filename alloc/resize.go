package alloc

import "github.com/joshuapare/allockit/internal/format"

// Reallocate resizes p on top of e's primitives:
//
//   - p == Nil behaves as Alloc(size)
//   - size == 0 releases p and returns Nil with no error
//   - a block whose capacity already covers size is returned unchanged
//     (never shrunk, never copied)
//   - otherwise a new block is allocated, min(capacity, size) bytes are
//     copied, and p is released
//
// When the new allocation fails p is left intact.
func Reallocate(e Primitives, p Ptr, size uint64) (Ptr, error) {
	if p == Nil {
		return e.Alloc(size)
	}
	if size == 0 {
		e.Free(p)
		return Nil, nil
	}

	capacity := e.Usable(p)
	if capacity >= size {
		return p, nil
	}

	q, err := e.Alloc(size)
	if err != nil {
		return Nil, err
	}
	n := min(capacity, size)
	copy(e.Bytes(q, n), e.Bytes(p, n))
	e.Free(p)
	return q, nil
}

// ZeroAllocate allocates count*size bytes through e and zero-fills them.
func ZeroAllocate(e Primitives, count, size uint64) (Ptr, error) {
	if count == 0 || size == 0 {
		return Nil, ErrInvalidArgument
	}
	total, overflow := format.MulOverflows(count, size)
	if overflow {
		return Nil, ErrOverflow
	}
	p, err := e.Alloc(total)
	if err != nil {
		return Nil, err
	}
	format.Zero(e.Bytes(p, total))
	return p, nil
}
