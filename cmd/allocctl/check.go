package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/joshuapare/allockit/internal/logger"
	"github.com/joshuapare/allockit/internal/scenario"
)

var errChecksFailed = errors.New("some checks failed")

var checkEngine string

func init() {
	cmd := newCheckCmd()
	cmd.Flags().StringVarP(&checkEngine, "engine", "e", "all", "Engine to check: freelist, pool or all")
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the built-in call sequences against an engine",
		Long: `The check command drives an engine through fixed call sequences
(basic malloc/free, realloc growth, 100 mixed allocations, calloc edge cases,
a canary sweep over sizes 1..128) and prints one line per check.

Example:
  allocctl check
  allocctl check --engine pool
  allocctl check --engine freelist --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout())
		},
	}
}

func runCheck(w io.Writer) error {
	kinds, err := engineNames(checkEngine)
	if err != nil {
		return err
	}

	var reports []scenario.Report
	for _, kind := range kinds {
		a, err := newEngine(kind)
		if err != nil {
			return err
		}
		report := scenario.Run(string(kind), a)
		if err := a.Close(); err != nil {
			return fmt.Errorf("close %s: %w", kind, err)
		}
		logger.Info("check finished", "engine", kind, "passed", report.Passed(), "total", report.Total())
		reports = append(reports, report)
	}

	if jsonOut {
		if err := printJSON(w, reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			printReport(w, r)
		}
	}

	for _, r := range reports {
		if !r.OK() {
			return errChecksFailed
		}
	}
	return nil
}

func printReport(w io.Writer, r scenario.Report) {
	printInfo(w, "testing for %s allocator\n", r.Engine)
	group := ""
	for _, res := range r.Results {
		if res.Group != group {
			group = res.Group
			printInfo(w, "\n=== %s ===\n", group)
		}
		status := "OK"
		if !res.OK {
			status = "FAIL"
		}
		printInfo(w, "[%s] %s\n", res.Name, status)
		if res.Detail != "" {
			printInfo(w, "    %s\n", res.Detail)
		}
	}
	printInfo(w, "\n result: %d/%d tests are passed\n", r.Passed(), r.Total())
	if r.OK() {
		printInfo(w, "%s: All tests are passed\n\n", r.Engine)
	} else {
		printInfo(w, "%s: %d failed\n\n", r.Engine, r.Total()-r.Passed())
	}
}
