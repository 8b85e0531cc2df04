// Package format holds the low-level layout helpers shared by the allocator
// engines: little-endian field encoding for in-band block metadata, alignment
// arithmetic, and overflow-checked size math. The engines never reinterpret
// memory; every header field goes through these helpers.
package format

const (
	// WordSize is the native alignment guaranteed to every payload.
	WordSize = 8

	// WordMask is WordSize-1, used by Align8.
	WordMask = WordSize - 1

	// MaxSize is the largest value a size field can hold.
	MaxSize = ^uint64(0)
)

// Free-list header layout (one header unit):
//
//	0x00  next  uint64  address of the next free node
//	0x08  size  uint64  block size in header units, header included
const (
	UnitSize       = 16
	UnitNextOffset = 0x00
	UnitSizeOffset = 0x08
)

// Large-block header layout (pool engine):
//
//	0x00  next    uint64  address of the next block in the scan list (0 = end)
//	0x08  size    uint64  payload bytes
//	0x10  isFree  uint8   1 when the block is on the scan list
//	0x11  pad     [7]byte
const (
	LargeHeaderSize   = 24
	LargeNextOffset   = 0x00
	LargeSizeOffset   = 0x08
	LargeIsFreeOffset = 0x10
)

// RecycleNextOffset is where a recycled size-class block stores the address
// of the next recycled block.
const RecycleNextOffset = 0x00
