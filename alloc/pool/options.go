package pool

import (
	"log/slog"

	"github.com/joshuapare/allockit/internal/region"
)

const (
	// NumClasses is the number of fixed size classes.
	NumClasses = 16

	// ClassStep is the block-size increment between classes.
	ClassStep = 8

	// MaxClassSize is the largest request served by a class arena.
	MaxClassSize = NumClasses * ClassStep

	// DefaultClassArenaSize is the byte size of each class arena.
	DefaultClassArenaSize = 10 << 20

	// DefaultLargeArenaSize is the byte size of the large-block arena.
	DefaultLargeArenaSize = 300 << 20

	// DefaultSplitMin is the smallest payload a split may leave behind.
	DefaultSplitMin = 128
)

// Options configures a pool allocator.
type Options struct {
	// ClassArenaSize is the size of each of the 16 class arenas in bytes.
	// Default: 10 MiB
	ClassArenaSize int

	// LargeArenaSize is the size of the large-block arena in bytes.
	// Default: 300 MiB
	LargeArenaSize int

	// SplitMin is the minimum payload of the free block a large allocation
	// splits off. A block is split only when the remainder can hold a header
	// plus SplitMin bytes.
	// Default: 128
	SplitMin uint64

	// Reserver obtains the 17 arena regions.
	// Default: region.OS
	Reserver region.Reserver

	// Logger receives debug records for initialization, fall-through and
	// failures.
	// Default: alloc.DefaultLogger()
	Logger *slog.Logger
}

// DefaultOptions returns the options used when New is given nil.
func DefaultOptions() *Options {
	return &Options{
		ClassArenaSize: DefaultClassArenaSize,
		LargeArenaSize: DefaultLargeArenaSize,
		SplitMin:       DefaultSplitMin,
		Reserver:       region.OS,
	}
}

func (o *Options) withDefaults() Options {
	out := *DefaultOptions()
	if o == nil {
		return out
	}
	if o.ClassArenaSize > 0 {
		out.ClassArenaSize = o.ClassArenaSize
	}
	if o.LargeArenaSize > 0 {
		out.LargeArenaSize = o.LargeArenaSize
	}
	if o.SplitMin > 0 {
		out.SplitMin = o.SplitMin
	}
	if o.Reserver != nil {
		out.Reserver = o.Reserver
	}
	out.Logger = o.Logger
	return out
}
