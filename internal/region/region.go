// Package region provides the backing-memory primitives used by the allocator
// engines: fixed contiguous reservations obtained from the operating system,
// and a monotonic break that hands out a growing prefix of one reservation.
package region

import (
	"errors"
	"fmt"
)

var (
	// ErrBadSize indicates a reservation or extension with a non-positive size.
	ErrBadSize = errors.New("region: size must be positive")

	// ErrLimit indicates the break cannot move past its reserved ceiling.
	ErrLimit = errors.New("region: break limit reached")

	// ErrReleased indicates use of a region after Release.
	ErrReleased = errors.New("region: already released")
)

// Region is one contiguous reservation. Its bytes stay valid until Release.
type Region struct {
	data     []byte
	release  func() error
	released bool
}

// newRegion wraps data with the function that gives it back to the system.
func newRegion(data []byte, release func() error) *Region {
	return &Region{data: data, release: release}
}

// Bytes returns the whole reservation. Nil after Release.
func (r *Region) Bytes() []byte {
	if r.released {
		return nil
	}
	return r.data
}

// Len returns the reservation size in bytes.
func (r *Region) Len() int {
	return len(r.data)
}

// Released reports whether Release has run.
func (r *Region) Released() bool {
	return r.released
}

// Release returns the memory to the system. Only the first call does any
// work; later calls return nil.
func (r *Region) Release() error {
	if r.released {
		return nil
	}
	r.released = true
	data := r.data
	r.data = nil
	if r.release == nil {
		return nil
	}
	if err := r.release(); err != nil {
		return fmt.Errorf("region: release %d bytes: %w", len(data), err)
	}
	return nil
}

// Reserver obtains contiguous regions of exactly n bytes.
type Reserver interface {
	Reserve(n int) (*Region, error)
}

// ReserverFunc adapts a function to the Reserver interface.
type ReserverFunc func(n int) (*Region, error)

// Reserve calls f(n).
func (f ReserverFunc) Reserve(n int) (*Region, error) {
	return f(n)
}

// OS reserves regions from the operating system (anonymous mappings where
// the platform supports them).
var OS Reserver = ReserverFunc(Reserve)

// Reserve obtains n zeroed bytes from the operating system.
func Reserve(n int) (*Region, error) {
	if n <= 0 {
		return nil, ErrBadSize
	}
	data, release, err := reserve(n)
	if err != nil {
		return nil, fmt.Errorf("region: reserve %d bytes: %w", n, err)
	}
	return newRegion(data, release), nil
}

// Heap reserves n bytes from the Go heap. Useful where a mapping is not
// wanted, e.g. small test arenas.
func Heap(n int) (*Region, error) {
	if n <= 0 {
		return nil, ErrBadSize
	}
	return newRegion(make([]byte, n), nil), nil
}

// HeapReserver reserves regions with Heap.
var HeapReserver Reserver = ReserverFunc(Heap)
