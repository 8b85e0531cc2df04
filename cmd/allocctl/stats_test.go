package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFreeList(t *testing.T) {
	out, _, err := runCLI(t, "stats", "--ops", "20000", "--seed", "3", "--max-size", "512")
	require.NoError(t, err)

	assert.Contains(t, out, "Engine: freelist")
	assert.Contains(t, out, "Workload: 20,000 calls, seed 3, sizes 1..512")
	assert.Contains(t, out, "Free list:")
	assert.Contains(t, out, "grow calls:")
	assert.Regexp(t, `corruptions:\s+0\n`, out)
	assert.Regexp(t, `live:\s+0\n`, out)
}

func TestStatsPool(t *testing.T) {
	out, _, err := runCLI(t, "stats", "--engine", "pool", "--ops", "5000", "--max-size", "300")
	require.NoError(t, err)

	assert.Contains(t, out, "Engine: pool")
	assert.Contains(t, out, "Pool:")
	assert.Contains(t, out, "recycle hits:")
	assert.Contains(t, out, "bumped")
}

func TestStatsJSON(t *testing.T) {
	out, _, err := runCLI(t, "stats", "--engine", "all", "--ops", "3000", "--json")
	require.NoError(t, err)

	var all []EngineStats
	require.NoError(t, json.Unmarshal([]byte(out), &all))
	require.Len(t, all, 2)

	for _, es := range all {
		assert.Equal(t, 3000, es.Result.Ops, es.Engine)
		assert.Zero(t, es.Result.Corruptions, es.Engine)
		assert.Zero(t, es.Counters.Live(), es.Engine)
		assert.Positive(t, es.Counters.Reserved, es.Engine)
	}
	assert.Equal(t, "freelist", all[0].Engine)
	assert.Positive(t, all[0].HeapSize)
	assert.Equal(t, "pool", all[1].Engine)
	assert.Len(t, all[1].Classes, 16)
}

func TestStatsRejectsBadInput(t *testing.T) {
	_, _, err := runCLI(t, "stats", "--locale", "!!")
	require.Error(t, err)

	_, _, err = runCLI(t, "stats", "--max-size", "0")
	require.Error(t, err)

	_, _, err = runCLI(t, "stats", "--engine", "slab")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "allocctl dev")
}

func TestVerboseLogsToStderr(t *testing.T) {
	_, errOut, err := runCLI(t, "check", "--engine", "freelist", "--verbose", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, errOut, "check finished")
	assert.Contains(t, errOut, "freelist: heap grown")
}
