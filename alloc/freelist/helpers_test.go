package freelist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/internal/region"
)

// newTestAllocator returns an allocator on a Go-heap reservation so tests do
// not depend on mmap, closed automatically at test end.
func newTestAllocator(t testing.TB, opts *Options) *Allocator {
	t.Helper()
	if opts == nil {
		opts = &Options{}
	}
	if opts.Reserver == nil {
		opts.Reserver = region.HeapReserver
	}
	if opts.HeapLimit == 0 {
		opts.HeapLimit = 4 << 20
	}
	a := New(opts)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
	})
	return a
}

// assertInvariants checks the free list's structural rules.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Check())
}

// fill writes v over the whole payload of p.
func fill(t testing.TB, a *Allocator, p alloc.Ptr, v byte) {
	t.Helper()
	buf := a.Bytes(p, a.Usable(p))
	require.NotNil(t, buf)
	for i := range buf {
		buf[i] = v
	}
}

// requireFilled checks every payload byte of p equals v.
func requireFilled(t testing.TB, a *Allocator, p alloc.Ptr, v byte) {
	t.Helper()
	buf := a.Bytes(p, a.Usable(p))
	for i, b := range buf {
		if b != v {
			require.Failf(t, "payload corrupted", "ptr 0x%x byte %d: got 0x%02x want 0x%02x", p, i, b, v)
		}
	}
}
