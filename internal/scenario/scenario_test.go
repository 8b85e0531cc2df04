package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/alloc/freelist"
	"github.com/joshuapare/allockit/alloc/pool"
	"github.com/joshuapare/allockit/internal/region"
)

func engines(t *testing.T) map[string]alloc.Allocator {
	t.Helper()
	out := map[string]alloc.Allocator{
		"freelist": freelist.New(&freelist.Options{HeapLimit: 8 << 20, Reserver: region.HeapReserver}),
		"pool": pool.New(&pool.Options{
			ClassArenaSize: 64 << 10,
			LargeArenaSize: 8 << 20,
			Reserver:       region.HeapReserver,
		}),
	}
	t.Cleanup(func() {
		for _, a := range out {
			require.NoError(t, a.Close())
		}
	})
	return out
}

func TestDefaultScenariosPass(t *testing.T) {
	for name, a := range engines(t) {
		t.Run(name, func(t *testing.T) {
			report := Run(name, a)
			for _, f := range report.Failures() {
				t.Errorf("[%s] %s: %s", f.Group, f.Name, f.Detail)
			}
			assert.True(t, report.OK())
			assert.Equal(t, report.Total(), report.Passed())
			assert.Equal(t, name, report.Engine)
		})
	}
}

func TestReportNamesMatchDriverOutput(t *testing.T) {
	a := freelist.New(&freelist.Options{Reserver: region.HeapReserver, HeapLimit: 1 << 20})
	defer a.Close()

	report := Run("freelist", a, Scenario{Name: "basics", Run: Basics})
	var names []string
	for _, r := range report.Results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"malloc(100) returns not-NULL",
		"free() is alright",
		"malloc(0) returns NULL",
		"calloc(10,20) returns not-NULL",
		"calloc zeros memory",
	}, names)
}

// leaky hands out overlapping blocks and never returns Nil.
type leaky struct {
	mem []byte
}

func (l *leaky) Malloc(uint64) alloc.Ptr                 { return 8 }
func (l *leaky) Free(alloc.Ptr)                          {}
func (l *leaky) Realloc(p alloc.Ptr, _ uint64) alloc.Ptr { return p }
func (l *leaky) Calloc(uint64, uint64) alloc.Ptr         { return 8 }
func (l *leaky) Usable(alloc.Ptr) uint64                 { return 256 }
func (l *leaky) Stats() alloc.Stats                      { return alloc.Stats{} }
func (l *leaky) Close() error                            { return nil }

func (l *leaky) Bytes(p alloc.Ptr, n uint64) []byte {
	if p == alloc.Nil || n > 256 {
		return nil
	}
	return l.mem[p : uint64(p)+n]
}

func TestScenariosCatchBrokenEngine(t *testing.T) {
	report := Run("leaky", &leaky{mem: make([]byte, 512)})
	require.False(t, report.OK())

	failed := map[string]bool{}
	for _, f := range report.Failures() {
		failed[f.Name] = true
	}
	assert.True(t, failed["malloc(0) returns NULL"])
	assert.True(t, failed["calloc(0, 100) -> NULL"])
	assert.True(t, failed["neighbours intact after write and free"])
	assert.True(t, failed["realloc(p, 0) -> NULL"])
}

func TestPanicIsRecorded(t *testing.T) {
	a := freelist.New(&freelist.Options{Reserver: region.HeapReserver, HeapLimit: 1 << 20})
	defer a.Close()

	boom := Scenario{Name: "boom", Run: func(c *Checker, a alloc.Allocator) {
		c.Check("before", true)
		panic("engine exploded")
	}}
	report := Run("freelist", a, boom, Scenario{Name: "basics", Run: Basics})

	require.False(t, report.OK())
	fails := report.Failures()
	require.Len(t, fails, 1)
	assert.Equal(t, "boom", fails[0].Group)
	assert.Contains(t, fails[0].Detail, "engine exploded")
	assert.Greater(t, report.Total(), 2, "later scenarios still run")
}

func TestWorkloadIsClean(t *testing.T) {
	w := Workload{Ops: 5000, Seed: 42, MaxSize: 2048, Live: 256}
	for name, a := range engines(t) {
		t.Run(name, func(t *testing.T) {
			res := RunWorkload(a, w)
			assert.Equal(t, 5000, res.Ops)
			assert.Zero(t, res.Corruptions)
			assert.Zero(t, res.NilReturns)
			assert.LessOrEqual(t, res.PeakLive, 256)
			assert.Zero(t, a.Stats().Live(), "every block is released at the end")
		})
	}
}

func TestWorkloadIsDeterministic(t *testing.T) {
	w := Workload{Ops: 2000, Seed: 7, MaxSize: 512}
	run := func() WorkloadResult {
		a := freelist.New(&freelist.Options{Reserver: region.HeapReserver, HeapLimit: 4 << 20})
		defer a.Close()
		return RunWorkload(a, w)
	}
	assert.Equal(t, run(), run())
}
