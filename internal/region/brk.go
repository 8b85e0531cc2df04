package region

import "fmt"

// Break is a monotonic heap-extension primitive in the manner of sbrk(2).
// It reserves limit bytes once, on first use, and hands out a growing
// prefix. The break never moves backwards; the reservation is released only
// by Close.
type Break struct {
	reserver Reserver
	limit    int
	region   *Region
	brk      int
}

// NewBreak returns a break that may grow up to limit bytes, reserved through r.
func NewBreak(r Reserver, limit int) *Break {
	if r == nil {
		r = OS
	}
	return &Break{reserver: r, limit: limit}
}

// Sbrk extends the break by n bytes and returns the previous break, i.e.
// the offset of the first new byte. The new bytes are zero on first use.
func (b *Break) Sbrk(n int) (int, error) {
	if n <= 0 {
		return 0, ErrBadSize
	}
	if b.region == nil {
		if b.limit <= 0 {
			return 0, ErrBadSize
		}
		r, err := b.reserver.Reserve(b.limit)
		if err != nil {
			return 0, err
		}
		b.region = r
	}
	if b.region.Released() {
		return 0, ErrReleased
	}
	if n > b.limit-b.brk {
		return 0, fmt.Errorf("%w (break=%d, requested=%d, limit=%d)", ErrLimit, b.brk, n, b.limit)
	}
	old := b.brk
	b.brk += n
	return old, nil
}

// Bytes returns the memory below the break.
func (b *Break) Bytes() []byte {
	if b.region == nil || b.region.Released() {
		return nil
	}
	return b.region.Bytes()[:b.brk]
}

// Len returns the current break.
func (b *Break) Len() int {
	return b.brk
}

// Limit returns the ceiling the break may grow to.
func (b *Break) Limit() int {
	return b.limit
}

// Close releases the reservation. Safe to call more than once.
func (b *Break) Close() error {
	if b.region == nil {
		return nil
	}
	return b.region.Release()
}
