package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult is one parsed benchmark line.
type BenchmarkResult struct {
	Name        string
	Operation   string // Everything between "Benchmark" and the engine, e.g. "Window/64B"
	Engine      string // "freelist" or "pool"
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// Comparison pairs the two engines on one operation.
type Comparison struct {
	Operation  string
	FreeListNs float64
	PoolNs     float64
	Ratio      float64 // FreeListNs / PoolNs; above 1 means the pool is faster
	Partial    bool    // Only one engine reported
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	var in io.Reader = os.Stdin
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	results := parseBenchmarks(bufio.NewScanner(in))
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	comparisons := compareEngines(results)
	report := markdownReport(comparisons, time.Now())

	if *outputFile == "" {
		fmt.Fprint(os.Stdout, report)
		return
	}
	if err := os.WriteFile(*outputFile, []byte(report), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
	}
}

// BenchmarkWindow/64B/pool-8    1000000    1043 ns/op    0 B/op    0 allocs/op
var benchmarkRegex = regexp.MustCompile(
	`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+(\d+)\s+B/op)?(?:\s+(\d+)\s+allocs/op)?`,
)

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult
	for scanner.Scan() {
		line := scanner.Text()

		// go test -json wraps each line in an event.
		var event struct{ Output string }
		if err := json.Unmarshal([]byte(line), &event); err == nil && event.Output != "" {
			line = event.Output
		}

		m := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		op, engine, ok := splitName(m[1])
		if !ok {
			continue
		}

		r := BenchmarkResult{Name: m[1], Operation: op, Engine: engine}
		r.Iterations, _ = strconv.Atoi(m[2])
		r.NsPerOp, _ = strconv.ParseFloat(m[3], 64)
		if m[4] != "" {
			r.BytesPerOp, _ = strconv.ParseInt(m[4], 10, 64)
		}
		if m[5] != "" {
			r.AllocsPerOp, _ = strconv.ParseInt(m[5], 10, 64)
		}
		results = append(results, r)
	}
	return results
}

// splitName turns "BenchmarkWindow/64B/pool-8" into ("Window/64B", "pool").
// Names whose last element is not an engine are skipped.
func splitName(name string) (op, engine string, ok bool) {
	parts := strings.Split(strings.TrimPrefix(name, "Benchmark"), "/")
	if len(parts) < 2 {
		return "", "", false
	}
	last := parts[len(parts)-1]
	if i := strings.LastIndex(last, "-"); i > 0 {
		last = last[:i]
	}
	if last != "freelist" && last != "pool" {
		return "", "", false
	}
	return strings.Join(parts[:len(parts)-1], "/"), last, true
}

func compareEngines(results []BenchmarkResult) []Comparison {
	byOp := make(map[string]map[string]BenchmarkResult)
	for _, r := range results {
		if byOp[r.Operation] == nil {
			byOp[r.Operation] = make(map[string]BenchmarkResult)
		}
		byOp[r.Operation][r.Engine] = r
	}

	var out []Comparison
	for op, engines := range byOp {
		fl, hasFL := engines["freelist"]
		pl, hasPool := engines["pool"]
		c := Comparison{Operation: op, FreeListNs: fl.NsPerOp, PoolNs: pl.NsPerOp}
		if hasFL && hasPool && pl.NsPerOp > 0 {
			c.Ratio = fl.NsPerOp / pl.NsPerOp
		} else {
			c.Partial = true
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

func markdownReport(comparisons []Comparison, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Allocator Benchmark Report\n\n")
	fmt.Fprintf(&sb, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	poolFaster, freelistFaster := 0, 0
	for _, c := range comparisons {
		switch {
		case c.Partial:
		case c.Ratio > 1:
			poolFaster++
		case c.Ratio < 1:
			freelistFaster++
		}
	}
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Operations**: %d\n", len(comparisons))
	fmt.Fprintf(&sb, "  - pool faster: %d\n", poolFaster)
	fmt.Fprintf(&sb, "  - freelist faster: %d\n\n", freelistFaster)

	sb.WriteString("## Results\n\n")
	sb.WriteString("| Operation | freelist (ns/op) | pool (ns/op) | freelist/pool |\n")
	sb.WriteString("|-----------|------------------|--------------|---------------|\n")
	for _, c := range comparisons {
		ratio := "*N/A*"
		if !c.Partial {
			ratio = fmt.Sprintf("%.2fx", c.Ratio)
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
			c.Operation, formatNs(c.FreeListNs), formatNs(c.PoolNs), ratio)
	}
	return sb.String()
}

func formatNs(n float64) string {
	switch {
	case n == 0:
		return "-"
	case n >= 1000000:
		return fmt.Sprintf("%.2fM", n/1000000)
	case n >= 1000:
		return fmt.Sprintf("%.1fK", n/1000)
	}
	return fmt.Sprintf("%.1f", n)
}
