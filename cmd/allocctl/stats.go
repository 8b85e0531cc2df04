package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/alloc/freelist"
	"github.com/joshuapare/allockit/alloc/pool"
	"github.com/joshuapare/allockit/internal/scenario"
)

var (
	statsEngine  string
	statsOps     int
	statsSeed    int64
	statsMaxSize uint64
	statsLive    int
	statsLocale  string
)

func init() {
	def := scenario.DefaultWorkload()
	cmd := newStatsCmd()
	cmd.Flags().StringVarP(&statsEngine, "engine", "e", "freelist", "Engine to run: freelist, pool or all")
	cmd.Flags().IntVar(&statsOps, "ops", def.Ops, "Number of calls to make")
	cmd.Flags().Int64Var(&statsSeed, "seed", def.Seed, "Random seed")
	cmd.Flags().Uint64Var(&statsMaxSize, "max-size", def.MaxSize, "Largest request in bytes")
	cmd.Flags().IntVar(&statsLive, "live", def.Live, "Most blocks held at once")
	cmd.Flags().StringVar(&statsLocale, "locale", "en", "Locale for number formatting")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Run a random workload and show engine counters",
		Long: `The stats command runs a seeded random mix of malloc, free, realloc
and calloc calls and prints the engine's counters afterwards.

Example:
  allocctl stats
  allocctl stats --engine pool --ops 100000 --max-size 256
  allocctl stats --engine all --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.OutOrStdout())
		},
	}
}

// EngineStats is the stats command's output for one engine.
type EngineStats struct {
	Engine     string                  `json:"engine"`
	Workload   scenario.Workload       `json:"workload"`
	Result     scenario.WorkloadResult `json:"result"`
	Counters   alloc.Stats             `json:"counters"`
	FreeBlocks int                     `json:"free_blocks,omitempty"`
	HeapSize   int                     `json:"heap_size,omitempty"`
	Classes    []pool.ClassInfo        `json:"classes,omitempty"`
	LargeFree  int                     `json:"large_free,omitempty"`
}

func runStats(w io.Writer) error {
	tag, err := language.Parse(statsLocale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", statsLocale, err)
	}
	if statsOps < 0 {
		return fmt.Errorf("--ops must not be negative")
	}
	if statsMaxSize == 0 {
		return fmt.Errorf("--max-size must be positive")
	}

	kinds, err := engineNames(statsEngine)
	if err != nil {
		return err
	}

	wl := scenario.Workload{Ops: statsOps, Seed: statsSeed, MaxSize: statsMaxSize, Live: statsLive}
	var all []EngineStats
	for _, kind := range kinds {
		a, err := newEngine(kind)
		if err != nil {
			return err
		}
		es := EngineStats{Engine: string(kind), Workload: wl}
		es.Result = scenario.RunWorkload(a, wl)
		es.Counters = a.Stats()
		switch e := a.(type) {
		case *freelist.Allocator:
			es.FreeBlocks = len(e.FreeBlocks())
			es.HeapSize = e.HeapSize()
		case *pool.Allocator:
			es.Classes = e.Classes()
			es.LargeFree = len(e.LargeBlocks())
		}
		if err := a.Close(); err != nil {
			return fmt.Errorf("close %s: %w", kind, err)
		}
		all = append(all, es)
	}

	if jsonOut {
		return printJSON(w, all)
	}
	p := message.NewPrinter(tag)
	for _, es := range all {
		printStats(w, p, es)
	}
	return nil
}

func printStats(w io.Writer, p *message.Printer, es EngineStats) {
	s := es.Counters
	line := func(label string, v any) {
		printInfo(w, "  %-18s %s\n", label+":", p.Sprintf("%d", v))
	}

	printInfo(w, "\nEngine: %s\n", es.Engine)
	printInfo(w, "Workload: %s calls, seed %d, sizes 1..%s\n\n",
		p.Sprintf("%d", es.Workload.Ops), es.Workload.Seed, p.Sprintf("%d", es.Workload.MaxSize))

	printInfo(w, "Calls:\n")
	line("malloc", s.AllocCalls)
	line("free", s.FreeCalls)
	line("realloc", s.ReallocCalls)
	line("calloc", s.CallocCalls)
	line("failures", s.Failures)
	line("nil returns", es.Result.NilReturns)
	line("corruptions", es.Result.Corruptions)
	line("peak live", es.Result.PeakLive)

	printInfo(w, "\nBytes:\n")
	line("allocated", s.BytesAllocated)
	line("freed", s.BytesFreed)
	line("live", s.Live())
	line("reserved", s.Reserved)
	line("in-place resizes", s.InPlaceResizes)

	switch {
	case es.Classes != nil:
		printInfo(w, "\nPool:\n")
		line("recycle hits", s.RecycleHits)
		line("bump allocs", s.BumpAllocs)
		line("fall-throughs", s.Fallthroughs)
		line("large allocs", s.LargeAllocs)
		line("large splits", s.LargeSplits)
		line("large free", es.LargeFree)
		printInfo(w, "\n  %6s %12s %10s\n", "class", "bumped", "recycled")
		for _, c := range es.Classes {
			if c.Bumped == 0 {
				continue
			}
			printInfo(w, "  %6d %12s %10s\n", c.BlockSize, p.Sprintf("%d", c.Bumped), p.Sprintf("%d", c.Recycled))
		}
	default:
		printInfo(w, "\nFree list:\n")
		line("heap size", es.HeapSize)
		line("grow calls", s.GrowCalls)
		line("grow bytes", s.GrowBytes)
		line("splits", s.SplitCount)
		line("merge forward", s.CoalesceForward)
		line("merge backward", s.CoalesceBackward)
		line("free blocks", es.FreeBlocks)
	}
	if s.LastError != "" {
		printInfo(w, "\nLast error: %s\n", s.LastError)
	}
}
