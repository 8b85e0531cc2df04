// Package scenario runs fixed call sequences against any alloc.Allocator and
// records a pass/fail result per check. The same sequences serve the engine
// tests and the allocctl check command.
package scenario

import (
	"fmt"

	"github.com/joshuapare/allockit/alloc"
)

// Result is the outcome of one named check.
type Result struct {
	Group  string `json:"group"`
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Report collects the results of a run.
type Report struct {
	Engine  string   `json:"engine"`
	Results []Result `json:"results"`
}

// Passed returns the number of passing checks.
func (r Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.OK {
			n++
		}
	}
	return n
}

// Total returns the number of checks.
func (r Report) Total() int {
	return len(r.Results)
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	return r.Passed() == r.Total()
}

// Failures returns the failing checks.
func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK {
			out = append(out, res)
		}
	}
	return out
}

// Scenario is one group of checks.
type Scenario struct {
	Name string
	Run  func(c *Checker, a alloc.Allocator)
}

// Checker records results for the scenario being run.
type Checker struct {
	group   string
	results []Result
}

// Check records a result.
func (c *Checker) Check(name string, ok bool) {
	c.results = append(c.results, Result{Group: c.group, Name: name, OK: ok})
}

// Checkf records a result with detail shown on failure.
func (c *Checker) Checkf(name string, ok bool, format string, args ...any) {
	res := Result{Group: c.group, Name: name, OK: ok}
	if !ok {
		res.Detail = fmt.Sprintf(format, args...)
	}
	c.results = append(c.results, res)
}

// NotNil checks that p is an allocation.
func (c *Checker) NotNil(name string, p alloc.Ptr) {
	c.Check(name, p != alloc.Nil)
}

// Nil checks that p is the Nil sentinel.
func (c *Checker) Nil(name string, p alloc.Ptr) {
	c.Checkf(name, p == alloc.Nil, "got 0x%x", uint64(p))
}

// Mem checks that the first n bytes of p all equal v.
func (c *Checker) Mem(name string, a alloc.Allocator, p alloc.Ptr, v byte, n uint64) {
	idx, ok := mismatch(a, p, v, n)
	c.Checkf(name, ok, "byte %d differs from 0x%02x", idx, v)
}

// mismatch returns the first index whose byte is not v.
func mismatch(a alloc.Allocator, p alloc.Ptr, v byte, n uint64) (int, bool) {
	buf := a.Bytes(p, n)
	if uint64(len(buf)) != n {
		return -1, false
	}
	for i, b := range buf {
		if b != v {
			return i, false
		}
	}
	return 0, true
}

// Run executes the scenarios against a, or Default() when none are given.
// A panic inside a scenario is recorded as a failed check and the run
// moves on to the next scenario.
func Run(engine string, a alloc.Allocator, scenarios ...Scenario) Report {
	if len(scenarios) == 0 {
		scenarios = Default()
	}
	report := Report{Engine: engine}
	for _, s := range scenarios {
		c := &Checker{group: s.Name}
		runOne(c, s, a)
		report.Results = append(report.Results, c.results...)
	}
	return report
}

func runOne(c *Checker, s Scenario, a alloc.Allocator) {
	defer func() {
		if r := recover(); r != nil {
			c.Checkf("completes without panic", false, "%v", r)
		}
	}()
	s.Run(c, a)
}
