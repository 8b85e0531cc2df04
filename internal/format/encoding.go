package format

import (
	"encoding/binary"
	"math/bits"
)

// PutU64 writes a uint64 value to the buffer at the specified offset in little-endian format.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadU64 reads a uint64 value from the buffer at the specified offset in little-endian format.
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

// PutU8 writes a single byte at off.
func PutU8(b []byte, off int, v uint8) {
	b[off] = v
}

// ReadU8 reads a single byte at off.
func ReadU8(b []byte, off int) uint8 {
	return b[off]
}

// MulOverflows reports whether a*b does not fit in a uint64, and returns the
// product when it does.
func MulOverflows(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi != 0
}

// Zero clears b.
func Zero(b []byte) {
	clear(b)
}
