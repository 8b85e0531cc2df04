package main

import (
	"bytes"
	"testing"

	"github.com/joshuapare/allockit/internal/logger"
	"github.com/joshuapare/allockit/internal/scenario"
)

// resetFlags restores every flag variable to its default, since cobra keeps
// values between Execute calls on the shared root command.
func resetFlags() {
	def := scenario.DefaultWorkload()
	verbose, quiet, jsonOut, logDir = false, false, false, ""
	checkEngine = "all"
	statsEngine, statsOps, statsSeed = "freelist", def.Ops, def.Seed
	statsMaxSize, statsLive, statsLocale = def.MaxSize, def.Live, "en"
}

// runCLI executes allocctl with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(func() {
		resetFlags()
		_ = logger.Init(logger.Options{})
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}
