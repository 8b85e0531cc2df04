package pool

import (
	"errors"

	"github.com/joshuapare/allockit/internal/format"
	"github.com/joshuapare/allockit/internal/region"
)

const (
	// firstBase is the address of the first arena. Everything below it,
	// Nil included, belongs to no arena.
	firstBase = 1 << 12

	// pageSize and guardGap space the arenas apart so one arena's end is
	// never another arena's first byte.
	pageSize = 1 << 12
	guardGap = 1 << 12
)

// arena is one reservation placed at a fixed address in the pool's space.
type arena struct {
	base uint64
	data []byte
}

func (ar *arena) contains(addr uint64) bool {
	return addr >= ar.base && addr-ar.base < uint64(len(ar.data))
}

func (ar *arena) off(addr uint64) int {
	return int(addr - ar.base)
}

func (ar *arena) readU64(addr uint64) uint64 {
	return format.ReadU64(ar.data, ar.off(addr))
}

func (ar *arena) putU64(addr, v uint64) {
	format.PutU64(ar.data, ar.off(addr), v)
}

// classArena serves one block size by bump allocation, with a LIFO recycle
// list threaded through released blocks.
type classArena struct {
	arena
	blockSize uint64
	cursor    uint64 // offset of the next never-used block
	recycle   uint64 // address of the most recently released block, 0 when empty
}

// owns reports whether addr is a block boundary inside the arena.
func (c *classArena) owns(addr uint64) bool {
	return c.contains(addr) && (addr-c.base)%c.blockSize == 0
}

func (c *classArena) pop() (uint64, bool) {
	if c.recycle == 0 {
		return 0, false
	}
	addr := c.recycle
	c.recycle = c.readU64(addr + format.RecycleNextOffset)
	return addr, true
}

func (c *classArena) push(addr uint64) {
	c.putU64(addr+format.RecycleNextOffset, c.recycle)
	c.recycle = addr
}

func (c *classArena) bump() (uint64, bool) {
	if c.cursor+c.blockSize > uint64(len(c.data)) {
		return 0, false
	}
	addr := c.base + c.cursor
	c.cursor += c.blockSize
	return addr, true
}

// classIndex maps a request of 1..MaxClassSize bytes to its class.
func classIndex(size uint64) int {
	return int((size - 1) / ClassStep)
}

// arenaSet owns the regions behind a pool. It holds no reference to the
// Allocator so it can be handed to runtime.AddCleanup.
type arenaSet struct {
	regions []*region.Region
	next    uint64
}

func newArenaSet() *arenaSet {
	return &arenaSet{next: firstBase}
}

// place reserves n bytes and assigns them the next free address range.
func (s *arenaSet) place(r region.Reserver, n int) (arena, error) {
	reg, err := r.Reserve(n)
	if err != nil {
		return arena{}, err
	}
	s.regions = append(s.regions, reg)
	ar := arena{base: s.next, data: reg.Bytes()}
	s.next = format.AlignUp(s.next+uint64(n), pageSize) + guardGap
	return ar, nil
}

func (s *arenaSet) reserved() int64 {
	var n int64
	for _, r := range s.regions {
		if !r.Released() {
			n += int64(r.Len())
		}
	}
	return n
}

// release gives every region back. Each region is released at most once.
func (s *arenaSet) release() error {
	var errs []error
	for _, r := range s.regions {
		if err := r.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
