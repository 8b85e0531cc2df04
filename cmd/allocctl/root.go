package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/allockit/alloc"
	"github.com/joshuapare/allockit/alloc/freelist"
	"github.com/joshuapare/allockit/alloc/pool"
	"github.com/joshuapare/allockit/internal/logger"
	"github.com/joshuapare/allockit/pkg/allocator"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	logDir  string
)

var rootCmd = &cobra.Command{
	Use:   "allocctl",
	Short: "Exercise and inspect the allocator engines",
	Long: `allocctl runs the allocator engines through fixed call sequences and
seeded random workloads, and reports their counters.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		return logger.Init(logger.Options{
			Enabled: verbose || logDir != "",
			LogDir:  logDir,
			Level:   level,
			Stderr:  cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging from the engines")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write JSON logs to this directory instead of stderr")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// engineNames expands "all" to every engine.
func engineNames(name string) ([]allocator.Kind, error) {
	if strings.EqualFold(name, "all") {
		return allocator.Kinds(), nil
	}
	kind, err := allocator.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return []allocator.Kind{kind}, nil
}

// newEngine builds an engine with default sizing that logs through the CLI
// logger.
func newEngine(kind allocator.Kind) (alloc.Allocator, error) {
	fl := freelist.DefaultOptions()
	fl.Logger = logger.L
	pl := pool.DefaultOptions()
	pl.Logger = logger.L
	return allocator.New(&allocator.Options{Kind: kind, FreeList: fl, Pool: pl})
}

// printInfo prints to w unless in quiet mode.
func printInfo(w io.Writer, format string, args ...any) {
	if !quiet {
		fmt.Fprintf(w, format, args...)
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
