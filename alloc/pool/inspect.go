package pool

import (
	"errors"
	"fmt"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/internal/format"
)

// ErrCorrupt indicates a recycle list or the scan list violates its
// structural rules.
var ErrCorrupt = errors.New("pool: corrupt block list")

// ClassInfo describes one class arena.
type ClassInfo struct {
	BlockSize uint64 // Bytes per block
	Capacity  uint64 // Arena size in bytes
	Bumped    uint64 // Bytes handed out by the bump cursor so far
	Recycled  int    // Blocks waiting on the recycle list
}

// Blocks returns how many whole blocks the arena holds.
func (c ClassInfo) Blocks() uint64 {
	return c.Capacity / c.BlockSize
}

// State returns the initialization state.
func (a *Allocator) State() State {
	return a.state
}

// Classes describes the 16 class arenas. Nil until the pool is ready.
func (a *Allocator) Classes() []ClassInfo {
	if !a.ready() {
		return nil
	}
	out := make([]ClassInfo, NumClasses)
	for i := range a.classes {
		c := &a.classes[i]
		n := 0
		for addr := c.recycle; addr != 0; addr = c.readU64(addr + format.RecycleNextOffset) {
			n++
		}
		out[i] = ClassInfo{
			BlockSize: c.blockSize,
			Capacity:  uint64(len(c.data)),
			Bumped:    c.cursor,
			Recycled:  n,
		}
	}
	return out
}

// LargeBlocks returns the large arena's free blocks in scan-list order.
func (a *Allocator) LargeBlocks() []alloc.Block {
	if !a.ready() {
		return nil
	}
	var out []alloc.Block
	for hdr := a.large.head; hdr != 0; hdr = a.large.next(hdr) {
		out = append(out, alloc.Block{
			Addr: alloc.Ptr(hdr + format.LargeHeaderSize),
			Size: a.large.size(hdr),
			Free: a.large.isFree(hdr),
		})
	}
	return out
}

// Check verifies that every recycle list holds distinct, aligned, already
// bumped blocks of its own arena, and that the scan list holds distinct free
// blocks that lie inside the large arena.
func (a *Allocator) Check() error {
	if !a.ready() {
		return nil
	}
	for i := range a.classes {
		c := &a.classes[i]
		limit := c.cursor / c.blockSize
		seen := uint64(0)
		for addr := c.recycle; addr != 0; addr = c.readU64(addr + format.RecycleNextOffset) {
			if !c.owns(addr) || addr-c.base >= c.cursor {
				return fmt.Errorf("%w: class %d: recycled block 0x%x outside bumped space", ErrCorrupt, c.blockSize, addr)
			}
			seen++
			if seen > limit {
				return fmt.Errorf("%w: class %d: recycle list longer than bumped blocks", ErrCorrupt, c.blockSize)
			}
		}
	}

	end := a.large.base + uint64(len(a.large.data))
	visited := make(map[uint64]struct{})
	for hdr := a.large.head; hdr != 0; hdr = a.large.next(hdr) {
		if !a.large.contains(hdr) {
			return fmt.Errorf("%w: scan list entry 0x%x outside large arena", ErrCorrupt, hdr)
		}
		if _, dup := visited[hdr]; dup {
			return fmt.Errorf("%w: scan list visits 0x%x twice", ErrCorrupt, hdr)
		}
		visited[hdr] = struct{}{}
		if !a.large.isFree(hdr) {
			return fmt.Errorf("%w: scan list entry 0x%x not marked free", ErrCorrupt, hdr)
		}
		if hdr+format.LargeHeaderSize+a.large.size(hdr) > end {
			return fmt.Errorf("%w: block 0x%x runs past arena end", ErrCorrupt, hdr)
		}
	}
	return nil
}
