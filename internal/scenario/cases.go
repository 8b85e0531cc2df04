package scenario

import (
	"math"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/internal/format"
)

// Default returns every built-in scenario in run order.
func Default() []Scenario {
	return []Scenario{
		{Name: "basics", Run: Basics},
		{Name: "realloc", Run: ReallocBasic},
		{Name: "multiple", Run: MultipleAllocs},
		{Name: "calloc-edge", Run: CallocEdge},
		{Name: "canary", Run: Canary},
		{Name: "realloc-edge", Run: ReallocEdge},
	}
}

// Basics allocates and releases one block, checks the zero-size request and
// a zero-filled allocation.
func Basics(c *Checker, a alloc.Allocator) {
	p1 := a.Malloc(100)
	c.NotNil("malloc(100) returns not-NULL", p1)

	a.Free(p1)
	c.Check("free() is alright", true)

	c.Nil("malloc(0) returns NULL", a.Malloc(0))

	p2 := a.Calloc(10, 20)
	c.NotNil("calloc(10,20) returns not-NULL", p2)
	c.Mem("calloc zeros memory", a, p2, 0, 200)
	a.Free(p2)
}

// ReallocBasic grows a block of five words to ten and checks the first five
// survive.
func ReallocBasic(c *Checker, a alloc.Allocator) {
	const word = format.WordSize
	p := a.Malloc(5 * word)
	c.NotNil("malloc as realloc", p)
	if p == alloc.Nil {
		return
	}

	buf := a.Bytes(p, 5*word)
	for i := range 5 {
		format.PutU64(buf, i*word, uint64(i))
	}

	p = a.Realloc(p, 10*word)
	c.NotNil("realloc increases", p)
	if p == alloc.Nil {
		return
	}

	buf = a.Bytes(p, 10*word)
	ok := len(buf) == 10*word
	for i := 0; ok && i < 5; i++ {
		ok = format.ReadU64(buf, i*word) == uint64(i)
	}
	c.Check("realloc saves data", ok)

	a.Free(p)
}

// MultipleAllocs makes 100 allocations cycling through sizes 1..50 and
// releases them all.
func MultipleAllocs(c *Checker, a alloc.Allocator) {
	var ptrs [100]alloc.Ptr
	ok := true
	for i := range ptrs {
		ptrs[i] = a.Malloc(uint64(i%50 + 1))
		if ptrs[i] == alloc.Nil {
			ok = false
		}
	}
	c.Check("100 allocations", ok)

	for _, p := range ptrs {
		a.Free(p)
	}
	c.Check("100 releases", true)
}

// CallocEdge checks the zero-argument and overflowing zero-filled requests.
func CallocEdge(c *Checker, a alloc.Allocator) {
	c.Nil("calloc(0, 100) -> NULL", a.Calloc(0, 100))
	c.Nil("calloc(100, 0) -> NULL", a.Calloc(100, 0))
	c.Nil("calloc overflow", a.Calloc(math.MaxUint64/2, 3))
}

// Canary allocates every size from 1 to 128 between two guarded neighbours,
// fills it completely, releases it and checks the neighbours are untouched.
func Canary(c *Checker, a alloc.Allocator) {
	const (
		guardSize = 32
		left      = 0xA5
		right     = 0x5A
	)
	allocated, intact := true, true
	var bad uint64
	for size := uint64(1); size <= 128; size++ {
		l := a.Malloc(guardSize)
		m := a.Malloc(size)
		r := a.Malloc(guardSize)
		if l == alloc.Nil || m == alloc.Nil || r == alloc.Nil {
			allocated = false
			bad = size
			break
		}
		paint(a, l, left)
		paint(a, r, right)
		paint(a, m, byte(size))

		if _, ok := mismatch(a, m, byte(size), size); !ok {
			intact = false
		}
		a.Free(m)
		_, okL := mismatch(a, l, left, guardSize)
		_, okR := mismatch(a, r, right, guardSize)
		if !okL || !okR {
			intact = false
		}
		a.Free(l)
		a.Free(r)
		if !intact {
			bad = size
			break
		}
	}
	c.Checkf("sizes 1..128 allocate", allocated, "size %d returned NULL", bad)
	c.Checkf("neighbours intact after write and free", intact, "size %d", bad)
}

// ReallocEdge checks that a Nil pointer makes realloc allocate and a zero
// size makes it release.
func ReallocEdge(c *Checker, a alloc.Allocator) {
	p := a.Realloc(alloc.Nil, 64)
	c.NotNil("realloc(NULL, 64) allocates", p)
	c.Checkf("realloc(NULL, 64) is usable", a.Usable(p) >= 64, "usable %d", a.Usable(p))

	before := a.Stats().FreeCalls
	c.Nil("realloc(p, 0) -> NULL", a.Realloc(p, 0))
	c.Check("realloc(p, 0) releases", a.Stats().FreeCalls == before+1)

	q := a.Malloc(24)
	c.Check("realloc to a smaller size keeps the block", a.Realloc(q, 8) == q)
	a.Free(q)
}

// paint fills the whole payload of p with v.
func paint(a alloc.Allocator, p alloc.Ptr, v byte) {
	buf := a.Bytes(p, a.Usable(p))
	for i := range buf {
		buf[i] = v
	}
}
