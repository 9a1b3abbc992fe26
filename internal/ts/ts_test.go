package ts

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitGA/internal/fitness"
	"bitGA/internal/opt"
	"bitGA/internal/rng"
)

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.TabuTenure = 0
	assert.ErrorIs(t, cfg.Validate(), opt.ErrInvalidConfiguration)

	cfg = DefaultConfig()
	cfg.NeighborsPerIter = 0
	assert.ErrorIs(t, cfg.Validate(), opt.ErrInvalidConfiguration)

	cfg = DefaultConfig()
	cfg.Iterations, cfg.IterationsPerBit = 0, 0
	assert.ErrorIs(t, cfg.Validate(), opt.ErrInvalidConfiguration)
}

func TestTabuList(t *testing.T) {
	tl := newTabuList(4)
	assert.False(t, tl.IsTabu(0, 0))

	tl.Add(0, 5)
	assert.True(t, tl.IsTabu(0, 4))
	assert.False(t, tl.IsTabu(0, 5))
	assert.False(t, tl.IsTabu(1, 0))

	// повторный запрет продлевает срок
	tl.Add(0, 9)
	assert.True(t, tl.IsTabu(0, 8))
}

func TestSolveTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Length = 24

	s, err := New(cfg, rng.New(5))
	require.NoError(t, err)

	target := fitness.RandomTarget(24, rng.New(6))
	res, err := s.Solve(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, target.Score(res.Best), res.BestScore)
	assert.Equal(t, 24.0, res.BestScore)
	assert.Len(t, res.BestTrace, res.Iterations)
}

func TestSolveKnapsackRespectsCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Length = 20

	s, err := New(cfg, rng.New(7))
	require.NoError(t, err)

	k := fitness.RandomKnapsack(20, 1, 30, rng.New(8))
	res, err := s.Solve(context.Background(), k)
	require.NoError(t, err)
	require.NoError(t, res.Best.Validate(20))
	assert.Equal(t, k.Score(res.Best), res.BestScore)
	assert.Positive(t, res.BestScore)
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New(DefaultConfig(), rng.New(4))
	require.NoError(t, err)
	res, err := s.Solve(ctx, fitness.OneMax{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "context", res.Meta["stopped"])
}

func TestSolveLogsProgressAtDebug(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Length = 16
	cfg.Iterations = 1200

	var buf bytes.Buffer
	s, err := New(cfg, rng.New(2))
	require.NoError(t, err)
	s.Log = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err = s.Solve(context.Background(), fitness.OneMax{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG msg=progress")
	assert.Contains(t, out, "iteration=1000")
	assert.Contains(t, out, "ts run finished")
}

func TestSolveWithoutLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Length = 8
	s, err := New(cfg, rng.New(2))
	require.NoError(t, err)
	require.Nil(t, s.Log)

	assert.NotPanics(t, func() {
		_, err = s.Solve(context.Background(), fitness.OneMax{})
	})
	assert.NoError(t, err)
}
