package freelist

import (
	"errors"
	"fmt"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/internal/format"
)

// ErrCorrupt indicates the free list violates one of its structural rules.
var ErrCorrupt = errors.New("freelist: corrupt free list")

// FreeBlocks returns the free blocks in address order. The sentinel is not
// included.
func (a *Allocator) FreeBlocks() []alloc.Block {
	if !a.initialized || a.closed {
		return nil
	}
	var blocks []alloc.Block
	for node := a.next(a.base); node != a.base; node = a.next(node) {
		blocks = append(blocks, alloc.Block{
			Addr: alloc.Ptr(node + unit),
			Size: format.UnitsPayload(a.size(node)),
			Free: true,
		})
	}
	return blocks
}

// HeapSize returns the current heap break in bytes.
func (a *Allocator) HeapSize() int {
	return a.brk.Len()
}

// Check walks the free list and verifies that it is circular, strictly
// address ordered after the sentinel, inside the heap, and that no two free
// nodes touch.
func (a *Allocator) Check() error {
	if !a.initialized || a.closed {
		return nil
	}
	heapEnd := uint64(len(a.data))
	prev := a.base
	steps := 0
	for node := a.next(a.base); node != a.base; node = a.next(node) {
		steps++
		if steps > len(a.data)/unit {
			return fmt.Errorf("%w: list does not return to the sentinel", ErrCorrupt)
		}
		if node <= prev {
			return fmt.Errorf("%w: node 0x%x follows 0x%x", ErrCorrupt, node, prev)
		}
		size := a.size(node)
		if size == 0 {
			return fmt.Errorf("%w: zero-size node 0x%x", ErrCorrupt, node)
		}
		if node+size*unit > heapEnd {
			return fmt.Errorf("%w: node 0x%x (%d units) past heap end 0x%x", ErrCorrupt, node, size, heapEnd)
		}
		if prev != a.base && prev+a.size(prev)*unit == node {
			return fmt.Errorf("%w: adjacent free nodes 0x%x and 0x%x", ErrCorrupt, prev, node)
		}
		prev = node
	}
	return nil
}
