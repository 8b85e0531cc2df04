// Package pool implements a segmented pool allocator.
//
// Sixteen class arenas serve requests of 1..128 bytes in fixed blocks of 8,
// 16, ... 128 bytes. A class hands out released blocks first (LIFO) and
// otherwise bumps a cursor through never-used space. When a class arena is
// full its requests fall through to the large arena; no other class is tried.
//
// The large arena serves everything else first-fit from a scan list of free
// blocks. A block much larger than the request is split and the tail goes
// back on the list. Large blocks are never merged, and no arena ever grows.
//
// All 17 arenas are reserved on first use. If any reservation fails the
// pool stays failed for good and every operation returns Nil.
package pool

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/internal/format"
)

// Allocator is the pool engine. The zero value is not usable; call New.
type Allocator struct {
	opts Options
	log  *slog.Logger

	state  State
	closed bool

	classes [NumClasses]classArena
	large   largeArena

	owned   *arenaSet
	cleanup runtime.Cleanup

	stats alloc.Stats
}

// New creates a pool allocator. Arenas are reserved on first use.
func New(opts *Options) *Allocator {
	o := opts.withDefaults()
	log := o.Logger
	if log == nil {
		log = alloc.DefaultLogger()
	}
	return &Allocator{opts: o, log: log}
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
	if a.ensureInit() != nil || p == alloc.Nil {
		return
	}
	a.stats.FreeCalls++
	a.free(uint64(p))
}

// Realloc implements alloc.Allocator.
func (a *Allocator) Realloc(p alloc.Ptr, size uint64) alloc.Ptr {
	q, _ := a.Resize(p, size)
	return q
}

// Resize is Realloc with the failure reason.
func (a *Allocator) Resize(p alloc.Ptr, size uint64) (alloc.Ptr, error) {
	a.stats.ReallocCalls++
	if err := a.ensureInit(); err != nil {
		a.fail("resize", size, err)
		return alloc.Nil, err
	}
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
	if err := a.ensureInit(); err != nil {
		a.fail("calloc", count, err)
		return alloc.Nil, err
	}
	p, err := alloc.ZeroAllocate(primitives{a}, count, size)
	if err != nil {
		a.fail("calloc", count, err)
	}
	return p, err
}

// Usable implements alloc.Allocator. A class block's capacity is its class
// block size; a large block's is its recorded payload size.
func (a *Allocator) Usable(p alloc.Ptr) uint64 {
	if !a.ready() || p == alloc.Nil {
		return 0
	}
	addr := uint64(p)
	for i := range a.classes {
		if a.classes[i].contains(addr) {
			return a.classes[i].blockSize
		}
	}
	if hdr, ok := a.large.header(addr); ok {
		return a.large.size(hdr)
	}
	return 0
}

// Bytes implements alloc.Allocator.
func (a *Allocator) Bytes(p alloc.Ptr, n uint64) []byte {
	if p == alloc.Nil || n > a.Usable(p) {
		return nil
	}
	addr := uint64(p)
	ar := &a.large.arena
	for i := range a.classes {
		if a.classes[i].contains(addr) {
			ar = &a.classes[i].arena
			break
		}
	}
	off := ar.off(addr)
	return ar.data[off : off+int(n) : off+int(n)]
}

// Stats implements alloc.Allocator.
func (a *Allocator) Stats() alloc.Stats {
	s := a.stats
	if a.owned != nil {
		s.Reserved = a.owned.reserved()
	}
	return s
}

// Close releases every arena. The teardown registered at initialization
// is cancelled, so each region is released exactly once.
func (a *Allocator) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if a.owned == nil {
		return nil
	}
	a.cleanup.Stop()
	for i := range a.classes {
		a.classes[i].data = nil
	}
	a.large.data = nil
	return a.owned.release()
}

func (a *Allocator) ready() bool {
	return a.state == Ready && !a.closed
}

// ensureInit runs initialization on first use and reports whether the pool
// can serve requests.
func (a *Allocator) ensureInit() error {
	if a.closed {
		return alloc.ErrClosed
	}
	switch a.state {
	case Ready:
		return nil
	case Failed:
		return alloc.ErrInitFailed
	case Initializing:
		return fmt.Errorf("%w: initialization already running", alloc.ErrInitFailed)
	}
	return a.init()
}

// init reserves the 16 class arenas and the large arena. On any failure the
// regions obtained so far are released and the pool is marked Failed.
func (a *Allocator) init() error {
	a.state = Initializing
	owned := newArenaSet()

	fail := func(err error) error {
		_ = owned.release()
		a.state = Failed
		a.log.Debug("pool: initialization failed", "err", err)
		return fmt.Errorf("%w: %w", alloc.ErrInitFailed, err)
	}

	if a.opts.LargeArenaSize <= format.LargeHeaderSize {
		return fail(fmt.Errorf("large arena of %d bytes cannot hold a block", a.opts.LargeArenaSize))
	}

	for i := range a.classes {
		ar, err := owned.place(a.opts.Reserver, a.opts.ClassArenaSize)
		if err != nil {
			return fail(err)
		}
		a.classes[i] = classArena{arena: ar, blockSize: uint64(i+1) * ClassStep}
	}
	ar, err := owned.place(a.opts.Reserver, a.opts.LargeArenaSize)
	if err != nil {
		return fail(err)
	}
	a.large = largeArena{arena: ar}
	a.large.reset()

	a.owned = owned
	a.cleanup = runtime.AddCleanup(a, func(s *arenaSet) { _ = s.release() }, owned)
	a.state = Ready
	a.log.Debug("pool: arenas ready",
		"class_arena", a.opts.ClassArenaSize,
		"large_arena", a.opts.LargeArenaSize,
		"reserved", owned.reserved())
	return nil
}

// malloc is the allocation path shared by Alloc and the resize helpers.
func (a *Allocator) malloc(size uint64) (alloc.Ptr, error) {
	if err := a.ensureInit(); err != nil {
		return alloc.Nil, err
	}
	if size == 0 {
		return alloc.Nil, alloc.ErrInvalidArgument
	}

	if size <= MaxClassSize {
		c := &a.classes[classIndex(size)]
		if addr, ok := c.pop(); ok {
			a.stats.RecycleHits++
			a.stats.BytesAllocated += int64(c.blockSize)
			return alloc.Ptr(addr), nil
		}
		if addr, ok := c.bump(); ok {
			a.stats.BumpAllocs++
			a.stats.BytesAllocated += int64(c.blockSize)
			return alloc.Ptr(addr), nil
		}
		a.stats.Fallthroughs++
		a.log.Debug("pool: class exhausted, using large arena", "block_size", c.blockSize)
	}

	if size > math.MaxUint64-format.WordMask {
		return alloc.Nil, alloc.ErrOverflow
	}
	hdr, split := a.large.alloc(format.Align8(size), a.opts.SplitMin)
	if hdr == 0 {
		return alloc.Nil, alloc.ErrExhausted
	}
	if split {
		a.stats.LargeSplits++
	}
	a.stats.LargeAllocs++
	a.stats.BytesAllocated += int64(a.large.size(hdr))
	return alloc.Ptr(hdr + format.LargeHeaderSize), nil
}

// free classifies addr by arena membership and block alignment. Addresses
// that match no arena are ignored.
func (a *Allocator) free(addr uint64) {
	for i := range a.classes {
		c := &a.classes[i]
		if c.owns(addr) {
			c.push(addr)
			a.stats.BytesFreed += int64(c.blockSize)
			return
		}
	}
	hdr, ok := a.large.header(addr)
	if !ok {
		a.log.Debug("pool: release of foreign address ignored", "addr", addr)
		return
	}
	if !a.large.release(hdr) {
		a.log.Debug("pool: large block already free", "addr", addr)
		return
	}
	a.stats.BytesFreed += int64(a.large.size(hdr))
}

func (a *Allocator) fail(op string, size uint64, err error) {
	a.stats.Failures++
	a.stats.LastError = err.Error()
	a.log.Debug("pool: "+op+" failed", "size", size, "err", err)
}

// primitives hands the unrecorded paths to the shared resize helpers.
type primitives struct{ a *Allocator }

func (p primitives) Alloc(size uint64) (alloc.Ptr, error) { return p.a.malloc(size) }
func (p primitives) Free(q alloc.Ptr)                     { p.a.Free(q) }
func (p primitives) Usable(q alloc.Ptr) uint64            { return p.a.Usable(q) }
func (p primitives) Bytes(q alloc.Ptr, n uint64) []byte   { return p.a.Bytes(q, n) }

var (
	_ alloc.Allocator  = (*Allocator)(nil)
	_ alloc.Primitives = (*Allocator)(nil)
)
