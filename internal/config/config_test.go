package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30, cfg.Bench.Runs)
	assert.Equal(t, "GA,SA,TS", cfg.Bench.Algos)
	assert.Equal(t, 20, cfg.GA.Population)
	assert.Equal(t, 50, cfg.GA.Generations)
	assert.InDelta(t, 0.8, cfg.GA.CrossoverRate, 1e-12)
	assert.InDelta(t, 2.0, cfg.GA.DeceptiveReward, 1e-12)
	assert.Equal(t, "flip", cfg.SA.Neighborhood)
	assert.Equal(t, 7, cfg.TS.TabuTenure)
	assert.Equal(t, time.Duration(0), cfg.Bench.PerRunTimeout)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BITGA_GA_POPULATION", "64")
	t.Setenv("BITGA_GA_MUTATION_RATE", "0.2")
	t.Setenv("BITGA_BENCH_LENGTHS", "8,16")
	t.Setenv("BITGA_BENCH_PER_RUN_TIMEOUT", "2s")
	t.Setenv("BITGA_SA_NEIGHBORHOOD", "burst")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.GA.Population)
	assert.InDelta(t, 0.2, cfg.GA.MutationRate, 1e-12)
	assert.Equal(t, "8,16", cfg.Bench.Lengths)
	assert.Equal(t, 2*time.Second, cfg.Bench.PerRunTimeout)
	assert.Equal(t, "burst", cfg.SA.Neighborhood)
}

func TestLoadConfigInvalidValue(t *testing.T) {
	t.Setenv("BITGA_GA_POPULATION", "many")

	_, err := LoadConfig()
	assert.Error(t, err)
}
