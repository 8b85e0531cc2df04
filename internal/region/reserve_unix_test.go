//go:build linux || darwin

package region

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReserveAnonymousMapping(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	r, err := Reserve(1 << 20)
	require.NoError(t, err)
	data := r.Bytes()
	require.Len(t, data, 1<<20)

	// Fresh anonymous pages are zero and writable end to end.
	require.Zero(t, data[0])
	require.Zero(t, data[len(data)-1])
	data[0], data[len(data)-1] = 0xAA, 0xBB
	require.Equal(t, byte(0xAA), data[0])
	require.Equal(t, byte(0xBB), data[len(data)-1])

	require.NoError(t, r.Release())
	require.NoError(t, r.Release(), "double release must be a no-op")
}
