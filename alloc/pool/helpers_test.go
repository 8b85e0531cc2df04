package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/internal/region"
)

const (
	testClassArena = 4 << 10
	testLargeArena = 64 << 10
)

var errReserve = errors.New("reserve refused")

// trackingReserver hands out Go-heap regions, remembers them, and can be told
// to refuse the failAt-th reservation (1-based).
type trackingReserver struct {
	failAt  int
	calls   int
	regions []*region.Region
}

func (r *trackingReserver) Reserve(n int) (*region.Region, error) {
	r.calls++
	if r.calls == r.failAt {
		return nil, errReserve
	}
	reg, err := region.Heap(n)
	if err != nil {
		return nil, err
	}
	r.regions = append(r.regions, reg)
	return reg, nil
}

func (r *trackingReserver) released() int {
	n := 0
	for _, reg := range r.regions {
		if reg.Released() {
			n++
		}
	}
	return n
}

// newTestPool returns a pool over small Go-heap arenas, closed at test end.
func newTestPool(t testing.TB, opts *Options) *Allocator {
	t.Helper()
	if opts == nil {
		opts = &Options{}
	}
	if opts.ClassArenaSize == 0 {
		opts.ClassArenaSize = testClassArena
	}
	if opts.LargeArenaSize == 0 {
		opts.LargeArenaSize = testLargeArena
	}
	if opts.Reserver == nil {
		opts.Reserver = region.HeapReserver
	}
	a := New(opts)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
	})
	return a
}

func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Check())
}

func fill(t testing.TB, a *Allocator, p alloc.Ptr, v byte) {
	t.Helper()
	buf := a.Bytes(p, a.Usable(p))
	require.NotNil(t, buf)
	for i := range buf {
		buf[i] = v
	}
}

func requireFilled(t testing.TB, a *Allocator, p alloc.Ptr, v byte) {
	t.Helper()
	for i, b := range a.Bytes(p, a.Usable(p)) {
		if b != v {
			require.Failf(t, "payload corrupted", "ptr 0x%x byte %d: got 0x%02x want 0x%02x", p, i, b, v)
		}
	}
}

// bumped returns each class's bump cursor.
func bumped(a *Allocator) []uint64 {
	var out []uint64
	for _, c := range a.Classes() {
		out = append(out, c.Bumped)
	}
	return out
}
