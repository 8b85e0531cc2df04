package freelist

import (
	"log/slog"

	"github.com/joshuapare/allockit/internal/region"
)

const (
	// DefaultMinGrowUnits is the smallest heap extension, in header units.
	// Small requests still grow the heap by this much to amortize growth calls.
	DefaultMinGrowUnits = 128

	// DefaultHeapLimit is the ceiling the heap break may reach.
	DefaultHeapLimit = 256 << 20
)

// Options configures a free-list allocator.
type Options struct {
	// MinGrowUnits is the minimum heap extension in 16-byte header units.
	// Default: 128 (2 KiB)
	MinGrowUnits uint64

	// HeapLimit is the maximum heap size in bytes. The range is reserved
	// once, on first allocation, and the break grows inside it.
	// Default: 256 MiB
	HeapLimit int

	// Reserver obtains the heap reservation.
	// Default: region.OS
	Reserver region.Reserver

	// Logger receives debug records for growth and failures.
	// Default: alloc.DefaultLogger()
	Logger *slog.Logger
}

// DefaultOptions returns the options used when New is given nil.
func DefaultOptions() *Options {
	return &Options{
		MinGrowUnits: DefaultMinGrowUnits,
		HeapLimit:    DefaultHeapLimit,
		Reserver:     region.OS,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o *Options) withDefaults() Options {
	out := *DefaultOptions()
	if o == nil {
		return out
	}
	if o.MinGrowUnits > 0 {
		out.MinGrowUnits = o.MinGrowUnits
	}
	if o.HeapLimit > 0 {
		out.HeapLimit = o.HeapLimit
	}
	if o.Reserver != nil {
		out.Reserver = o.Reserver
	}
	out.Logger = o.Logger
	return out
}
