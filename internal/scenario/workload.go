package scenario

import (
	"math/rand"

	"github.com/joshuapare/allockit/alloc"
)

// Workload describes a seeded random mix of allocator calls.
type Workload struct {
	Ops     int    // Number of calls to make
	Seed    int64  // Random seed; equal seeds give equal call sequences
	MaxSize uint64 // Largest request size
	Live    int    // Most blocks held at once
}

// DefaultWorkload returns a mixed workload of 10000 calls up to 4 KiB.
func DefaultWorkload() Workload {
	return Workload{Ops: 10000, Seed: 1, MaxSize: 4096, Live: 512}
}

// WorkloadResult summarizes a workload run.
type WorkloadResult struct {
	Ops         int `json:"ops"`
	Mallocs     int `json:"mallocs"`
	Frees       int `json:"frees"`
	Reallocs    int `json:"reallocs"`
	Callocs     int `json:"callocs"`
	NilReturns  int `json:"nil_returns"`
	Corruptions int `json:"corruptions"`
	PeakLive    int `json:"peak_live"`
}

type liveBlock struct {
	p    alloc.Ptr
	size uint64
	tag  byte
}

// RunWorkload drives a with w. Every block is stamped with a tag byte and
// checked before release, so overlapping blocks show up as corruptions.
// All blocks still held at the end are released.
func RunWorkload(a alloc.Allocator, w Workload) WorkloadResult {
	if w.MaxSize == 0 {
		w.MaxSize = DefaultWorkload().MaxSize
	}
	if w.Live <= 0 {
		w.Live = DefaultWorkload().Live
	}
	rng := rand.New(rand.NewSource(w.Seed))
	var res WorkloadResult
	live := make([]liveBlock, 0, w.Live)

	stamp := func(b liveBlock) {
		buf := a.Bytes(b.p, b.size)
		for i := range buf {
			buf[i] = b.tag
		}
	}
	verify := func(b liveBlock) {
		if _, ok := mismatch(a, b.p, b.tag, b.size); !ok {
			res.Corruptions++
		}
	}
	drop := func(i int) {
		verify(live[i])
		a.Free(live[i].p)
		res.Frees++
		live[i] = live[len(live)-1]
		live = live[:len(live)-1]
	}

	for op := 0; op < w.Ops; op++ {
		res.Ops++
		size := uint64(rng.Int63n(int64(w.MaxSize))) + 1
		tag := byte(op) | 1

		switch k := rng.Intn(10); {
		case len(live) > 0 && (k < 3 || len(live) >= w.Live):
			drop(rng.Intn(len(live)))
			continue
		case len(live) > 0 && k < 5:
			i := rng.Intn(len(live))
			b := live[i]
			verify(b)
			res.Reallocs++
			q := a.Realloc(b.p, size)
			if q == alloc.Nil {
				res.NilReturns++
				continue
			}
			// Realloc keeps the old contents up to the smaller size.
			b.p, b.size = q, min(b.size, size)
			verify(b)
			b.size, b.tag = size, tag
			stamp(b)
			live[i] = b
			continue
		case k < 6:
			res.Callocs++
			p := a.Calloc(1, size)
			if p == alloc.Nil {
				res.NilReturns++
				continue
			}
			b := liveBlock{p: p, size: size, tag: 0}
			verify(b)
			b.tag = tag
			stamp(b)
			live = append(live, b)
		default:
			res.Mallocs++
			p := a.Malloc(size)
			if p == alloc.Nil {
				res.NilReturns++
				continue
			}
			b := liveBlock{p: p, size: size, tag: tag}
			stamp(b)
			live = append(live, b)
		}
		res.PeakLive = max(res.PeakLive, len(live))
	}

	for len(live) > 0 {
		drop(len(live) - 1)
	}
	return res
}
