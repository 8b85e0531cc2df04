// Package freelist implements a classic free-list allocator over one
// contiguous, append-only heap.
//
// Free blocks form a circular list ordered by address with a single wrap
// point. A zero-size sentinel node at the bottom of the heap anchors the list.
// Allocation is next-fit: the search resumes at the node left by the previous
// operation and carves requests from the tail of the first block that fits.
// When a full lap finds nothing, the heap break is extended by at least
// MinGrowUnits header units and the search runs once more. Release coalesces
// the block with its address neighbours, so no two free nodes are ever
// adjacent once a release completes.
//
// Every block starts with one 16-byte header unit:
//
//	0x00  next  uint64  next free node (meaningful only while free)
//	0x08  size  uint64  block size in header units, header included
//
// The payload follows immediately.
package freelist

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/internal/format"
	"github.com/joshuapare/allockit/internal/region"
)

const unit = format.UnitSize

// Allocator is the free-list engine. The zero value is not usable; call New.
type Allocator struct {
	opts Options
	log  *slog.Logger

	brk  *region.Break
	data []byte // memory below the break

	base   uint64 // sentinel node address
	cursor uint64 // node the next search starts after

	initialized bool
	closed      bool

	stats alloc.Stats
}

// New creates a free-list allocator. Nothing is reserved until the first
// allocation.
func New(opts *Options) *Allocator {
	o := opts.withDefaults()
	log := o.Logger
	if log == nil {
		log = alloc.DefaultLogger()
	}
	return &Allocator{
		opts: o,
		log:  log,
		brk:  region.NewBreak(o.Reserver, o.HeapLimit),
	}
}

// Malloc implements alloc.Allocator.
func (a *Allocator) Malloc(size uint64) alloc.Ptr {
	p, _ := a.Alloc(size)
	return p
}

// Alloc allocates size bytes and reports why it returned Nil.
func (a *Allocator) Alloc(size uint64) (alloc.Ptr, error) {
	a.stats.AllocCalls++
	p, err := a.malloc(size)
	if err != nil {
		a.fail("alloc", size, err)
	}
	return p, err
}

// Free implements alloc.Allocator.
func (a *Allocator) Free(p alloc.Ptr) {
	if p == alloc.Nil || !a.initialized || a.closed {
		return
	}
	a.stats.FreeCalls++
	a.free(p)
}

// Realloc implements alloc.Allocator.
func (a *Allocator) Realloc(p alloc.Ptr, size uint64) alloc.Ptr {
	q, _ := a.Resize(p, size)
	return q
}

// Resize is Realloc with the failure reason.
func (a *Allocator) Resize(p alloc.Ptr, size uint64) (alloc.Ptr, error) {
	a.stats.ReallocCalls++
	q, err := alloc.Reallocate(primitives{a}, p, size)
	if err != nil {
		a.fail("resize", size, err)
		return alloc.Nil, err
	}
	if p != alloc.Nil && q == p {
		a.stats.InPlaceResizes++
	}
	return q, nil
}

// Calloc implements alloc.Allocator.
func (a *Allocator) Calloc(count, size uint64) alloc.Ptr {
	p, _ := a.ZeroAlloc(count, size)
	return p
}

// ZeroAlloc is Calloc with the failure reason.
func (a *Allocator) ZeroAlloc(count, size uint64) (alloc.Ptr, error) {
	a.stats.CallocCalls++
	p, err := alloc.ZeroAllocate(primitives{a}, count, size)
	if err != nil {
		a.fail("calloc", count, err)
	}
	return p, err
}

// Usable implements alloc.Allocator.
func (a *Allocator) Usable(p alloc.Ptr) uint64 {
	if p == alloc.Nil || !a.initialized || a.closed {
		return 0
	}
	return format.UnitsPayload(a.size(uint64(p) - unit))
}

// Bytes implements alloc.Allocator.
func (a *Allocator) Bytes(p alloc.Ptr, n uint64) []byte {
	if p == alloc.Nil || n > a.Usable(p) {
		return nil
	}
	start := uint64(p)
	return a.data[start : start+n : start+n]
}

// Stats implements alloc.Allocator.
func (a *Allocator) Stats() alloc.Stats {
	s := a.stats
	s.Reserved = int64(a.brk.Len())
	return s
}

// Close releases the heap reservation.
func (a *Allocator) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.data = nil
	return a.brk.Close()
}

// malloc is the allocation path shared by Alloc and the resize helpers.
func (a *Allocator) malloc(nbytes uint64) (alloc.Ptr, error) {
	if a.closed {
		return alloc.Nil, alloc.ErrClosed
	}
	if nbytes == 0 {
		return alloc.Nil, alloc.ErrInvalidArgument
	}
	if nbytes > format.MaxPayloadForUnits {
		return alloc.Nil, alloc.ErrOverflow
	}
	nunits := format.Units(nbytes)

	if !a.initialized {
		if err := a.init(); err != nil {
			return alloc.Nil, err
		}
	}

	grew := false
	prev := a.cursor
	for cur := a.next(prev); ; prev, cur = cur, a.next(cur) {
		if size := a.size(cur); size >= nunits {
			if size == nunits {
				a.setNext(prev, a.next(cur))
			} else {
				// Carve from the tail so the node itself stays linked.
				a.setSize(cur, size-nunits)
				cur += (size - nunits) * unit
				a.setSize(cur, nunits)
				a.stats.SplitCount++
			}
			a.cursor = prev
			a.stats.BytesAllocated += int64(format.UnitsPayload(nunits))
			return alloc.Ptr(cur + unit), nil
		}
		if cur == a.cursor {
			// Full lap without a fit.
			if grew {
				return alloc.Nil, alloc.ErrExhausted
			}
			next, err := a.morecore(nunits)
			if err != nil {
				return alloc.Nil, err
			}
			grew = true
			cur = next
		}
	}
}

// init places the zero-size sentinel at the bottom of the heap. Its address
// is below every real block and it can never merge with a neighbour.
func (a *Allocator) init() error {
	off, err := a.brk.Sbrk(unit)
	if err != nil {
		return fmt.Errorf("%w: %w", alloc.ErrGrowFail, err)
	}
	a.data = a.brk.Bytes()
	a.base = uint64(off)
	a.setNext(a.base, a.base)
	a.setSize(a.base, 0)
	a.cursor = a.base
	a.initialized = true
	a.log.Debug("freelist: heap initialized", "limit", a.brk.Limit())
	return nil
}

// morecore extends the heap by at least nunits units, releases the new
// block into the free list and returns the updated cursor.
func (a *Allocator) morecore(nunits uint64) (uint64, error) {
	if nunits < a.opts.MinGrowUnits {
		nunits = a.opts.MinGrowUnits
	}
	if nunits > math.MaxInt/unit {
		return 0, alloc.ErrOverflow
	}
	nbytes := int(nunits * unit)

	off, err := a.brk.Sbrk(nbytes)
	if err != nil {
		a.log.Debug("freelist: grow refused", "bytes", nbytes, "heap", a.brk.Len(), "err", err)
		return 0, fmt.Errorf("%w: %w", alloc.ErrGrowFail, err)
	}
	a.data = a.brk.Bytes()
	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(nbytes)
	a.log.Debug("freelist: heap grown", "bytes", nbytes, "heap", a.brk.Len())

	block := uint64(off)
	a.setSize(block, nunits)
	a.release(block)
	return a.cursor, nil
}

// free returns the block behind p to the list.
func (a *Allocator) free(p alloc.Ptr) {
	block := uint64(p) - unit
	a.stats.BytesFreed += int64(format.UnitsPayload(a.size(block)))
	a.release(block)
}

// release links block into the address-ordered list, merging it with
// whichever neighbours touch it, and leaves the cursor on the node before it.
func (a *Allocator) release(block uint64) {
	cur := a.cursor
	for !(block > cur && block < a.next(cur)) {
		// At the wrap point the block sits past the highest node or before
		// the lowest one.
		if cur >= a.next(cur) && (block > cur || block < a.next(cur)) {
			break
		}
		cur = a.next(cur)
	}

	next := a.next(cur)
	if block+a.size(block)*unit == next {
		a.setSize(block, a.size(block)+a.size(next))
		a.setNext(block, a.next(next))
		a.stats.CoalesceForward++
	} else {
		a.setNext(block, next)
	}

	if cur+a.size(cur)*unit == block {
		a.setSize(cur, a.size(cur)+a.size(block))
		a.setNext(cur, a.next(block))
		a.stats.CoalesceBackward++
	} else {
		a.setNext(cur, block)
	}

	a.cursor = cur
}

func (a *Allocator) fail(op string, size uint64, err error) {
	a.stats.Failures++
	a.stats.LastError = err.Error()
	a.log.Debug("freelist: "+op+" failed", "size", size, "err", err)
}

// Header accessors.

func (a *Allocator) next(node uint64) uint64 {
	return format.ReadU64(a.data, int(node)+format.UnitNextOffset)
}

func (a *Allocator) setNext(node, next uint64) {
	format.PutU64(a.data, int(node)+format.UnitNextOffset, next)
}

func (a *Allocator) size(node uint64) uint64 {
	return format.ReadU64(a.data, int(node)+format.UnitSizeOffset)
}

func (a *Allocator) setSize(node, units uint64) {
	format.PutU64(a.data, int(node)+format.UnitSizeOffset, units)
}

// primitives hands the unrecorded paths to the shared resize helpers so a
// Realloc is counted once, as a Realloc.
type primitives struct{ a *Allocator }

func (p primitives) Alloc(size uint64) (alloc.Ptr, error) { return p.a.malloc(size) }
func (p primitives) Free(q alloc.Ptr)                     { p.a.Free(q) }
func (p primitives) Usable(q alloc.Ptr) uint64            { return p.a.Usable(q) }
func (p primitives) Bytes(q alloc.Ptr, n uint64) []byte   { return p.a.Bytes(q, n) }

var (
	_ alloc.Allocator  = (*Allocator)(nil)
	_ alloc.Primitives = (*Allocator)(nil)
)
