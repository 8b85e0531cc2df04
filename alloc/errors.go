package alloc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a zero size, or a zero count or element
	// size for a zero-filled allocation.
	ErrInvalidArgument = errors.New("alloc: invalid argument")

	// ErrOverflow indicates a size, unit or product computation would not
	// fit in the address-space arithmetic.
	ErrOverflow = errors.New("alloc: size overflow")

	// ErrExhausted indicates no free block or arena capacity satisfies the
	// request and the engine cannot grow further.
	ErrExhausted = errors.New("alloc: out of memory")

	// ErrGrowFail indicates the heap-growth primitive refused an extension.
	ErrGrowFail = fmt.Errorf("%w: heap growth refused", ErrExhausted)

	// ErrInitFailed indicates an engine could not acquire its backing
	// regions. The failure is permanent for that engine.
	ErrInitFailed = fmt.Errorf("%w: arena initialization failed", ErrExhausted)

	// ErrClosed indicates use of an engine after Close.
	ErrClosed = fmt.Errorf("%w: allocator closed", ErrExhausted)
)
