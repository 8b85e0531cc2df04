package allocator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/alloc/freelist"
	"github.com/joshuapare/allockit/alloc/pool"
)

// Kind names an allocator engine.
type Kind string

const (
	// KindFreeList selects the growable, coalescing free-list engine.
	KindFreeList Kind = "freelist"

	// KindPool selects the segmented size-class pool engine.
	KindPool Kind = "pool"
)

// ErrUnknownKind is returned for an engine name that matches no Kind.
var ErrUnknownKind = errors.New("allocator: unknown engine")

// Kinds returns every supported engine.
func Kinds() []Kind {
	return []Kind{KindFreeList, KindPool}
}

// ParseKind maps an engine name to its Kind. Matching ignores case, and the
// short names "kr" and "sppool" are accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "freelist", "free-list", "kr":
		return KindFreeList, nil
	case "pool", "sppool":
		return KindPool, nil
	}
	return "", fmt.Errorf("%w: %q (want one of %v)", ErrUnknownKind, s, Kinds())
}

// Options selects and configures an engine.
type Options struct {
	// Kind is the engine to build.
	// Default: KindFreeList
	Kind Kind

	// FreeList configures the free-list engine. Nil means freelist defaults.
	FreeList *freelist.Options

	// Pool configures the pool engine. Nil means pool defaults.
	Pool *pool.Options
}

// DefaultOptions returns options for a free-list engine with its defaults.
func DefaultOptions() *Options {
	return &Options{Kind: KindFreeList}
}

// New builds the engine opts selects. Neither engine reserves memory until
// its first allocation.
func New(opts *Options) (alloc.Allocator, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	switch opts.Kind {
	case KindFreeList, "":
		return freelist.New(opts.FreeList), nil
	case KindPool:
		return pool.New(opts.Pool), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(opts.Kind))
}

// MustNew is New for callers with a fixed, known-good Kind.
func MustNew(opts *Options) alloc.Allocator {
	a, err := New(opts)
	if err != nil {
		panic(err)
	}
	return a
}
