package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledDiscards(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: false, Stderr: &buf}))
	Error("nobody hears this")
	assert.Empty(t, buf.String())
}

func TestStderrLevel(t *testing.T) {
	t.Cleanup(func() { _ = Init(Options{}) })

	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Level: slog.LevelDebug, Stderr: &buf}))
	Debug("grown", "bytes", 2048)
	assert.Contains(t, buf.String(), "grown")
	assert.Contains(t, buf.String(), "bytes=2048")

	buf.Reset()
	require.NoError(t, Init(Options{Enabled: true, Level: slog.LevelWarn, Stderr: &buf}))
	Info("hidden")
	Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFileLogging(t *testing.T) {
	t.Cleanup(func() { _ = Init(Options{}) })
	dir := t.TempDir()

	require.NoError(t, Init(Options{Enabled: true, LogDir: dir}))
	Info("check finished", "engine", "pool")

	name := filepath.Join(dir, logPrefix+time.Now().Format(dateLayout)+logSuffix)
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"check finished"`)
	assert.Contains(t, string(data), `"engine":"pool"`)
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	old := logPrefix + "2026-02-01" + logSuffix
	recent := logPrefix + "2026-03-19" + logSuffix
	other := "notes.txt"
	for _, n := range []string{old, recent, other} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}

	cleanOldLogs(dir, now)

	assert.NoFileExists(t, filepath.Join(dir, old))
	assert.FileExists(t, filepath.Join(dir, recent))
	assert.FileExists(t, filepath.Join(dir, other))
}
