package ga

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitGA/internal/bitstring"
	"bitGA/internal/fitness"
	"bitGA/internal/opt"
	"bitGA/internal/rng"
)

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := []func(c *Config){
		func(c *Config) { c.Population = 0 },
		func(c *Config) { c.Length = -1 },
		func(c *Config) { c.Generations = -1 },
		func(c *Config) { c.CrossoverRate = 1.01 },
		func(c *Config) { c.MutationRate = -0.1 },
	}
	for i, mod := range bad {
		cfg := DefaultConfig()
		mod(&cfg)
		assert.ErrorIs(t, cfg.Validate(), opt.ErrInvalidConfiguration, "case %d", i)
	}

	cfg := DefaultConfig()
	cfg.Generations = 0
	assert.NoError(t, cfg.Validate())
}

func TestNewRequiresRng(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestRunRecordsEveryGeneration(t *testing.T) {
	cfg := Config{Population: 20, Length: 10, Generations: 50, CrossoverRate: 0.8, MutationRate: 0.05}
	h, err := Evolve(context.Background(), cfg, fitness.ModeOneMax, fitness.Params{}, 1)
	require.NoError(t, err)

	require.Equal(t, 50, h.Len())
	assert.Len(t, h.BestScores(), 50)
	assert.Len(t, h.Averages(), 50)
	assert.Len(t, h.BestChromosomes(), 50)
	for i, r := range h.Records {
		assert.Equal(t, i, r.Generation)
		assert.Len(t, r.Best, 10)
		assert.Equal(t, r.BestScore, fitness.OneMax{}.Score(r.Best))
		assert.LessOrEqual(t, r.Average, r.BestScore)
	}
}

func TestAverageImprovesAcrossRuns(t *testing.T) {
	cfg := Config{Population: 20, Length: 10, Generations: 50, CrossoverRate: 0.8, MutationRate: 0.05}
	const runs = 30
	var first, last float64
	for seed := int64(0); seed < runs; seed++ {
		h, err := Evolve(context.Background(), cfg, fitness.ModeOneMax, fitness.Params{}, seed)
		require.NoError(t, err)
		avgs := h.Averages()
		first += avgs[0]
		last += avgs[len(avgs)-1]
	}
	assert.Greater(t, last/runs, first/runs)
}

func TestPopulationInvariantsPerGeneration(t *testing.T) {
	cfg := Config{Population: 15, Length: 12, Generations: 30, CrossoverRate: 0.9, MutationRate: 0.3}
	s, err := New(cfg, rng.New(7))
	require.NoError(t, err)

	e, err := s.Start(fitness.Deceptive{Reward: fitness.DefaultDeceptiveReward}, nil)
	require.NoError(t, err)
	for !e.Done() {
		require.NoError(t, e.Step())
		require.NoError(t, e.Population().Validate(cfg.Population, cfg.Length))
	}
	assert.Equal(t, cfg.Generations, e.Generation())
	assert.Equal(t, cfg.Generations, e.History().Len())
}

func TestStateTransitions(t *testing.T) {
	cfg := Config{Population: 4, Length: 6, Generations: 2, CrossoverRate: 0.5, MutationRate: 0.5}
	s, err := New(cfg, rng.New(3))
	require.NoError(t, err)

	e, err := s.Start(fitness.OneMax{}, nil)
	require.NoError(t, err)
	assert.Equal(t, StateInitialized, e.State())

	require.NoError(t, e.Step())
	assert.Equal(t, StateRunning, e.State())
	assert.Equal(t, 1, e.Generation())

	require.NoError(t, e.Step())
	assert.Equal(t, StateCompleted, e.State())
	assert.ErrorIs(t, e.Step(), ErrCompleted)
	assert.Equal(t, "completed", e.State().String())
}

func TestZeroGenerations(t *testing.T) {
	cfg := Config{Population: 4, Length: 6, Generations: 0}
	s, err := New(cfg, rng.New(3))
	require.NoError(t, err)

	h, err := s.Run(context.Background(), fitness.OneMax{})
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())

	res, err := s.Solve(context.Background(), fitness.OneMax{})
	require.NoError(t, err)
	assert.Len(t, res.Best, 6)
	assert.Equal(t, 0, res.Iterations)
}

func TestRecordedBestIsNotAliased(t *testing.T) {
	cfg := Config{Population: 10, Length: 16, Generations: 40, CrossoverRate: 0.0, MutationRate: 1.0}
	s, err := New(cfg, rng.New(21))
	require.NoError(t, err)

	e, err := s.Start(fitness.OneMax{}, nil)
	require.NoError(t, err)

	snapshots := make([]string, 0, cfg.Generations)
	for !e.Done() {
		require.NoError(t, e.Step())
		h := e.History()
		snapshots = append(snapshots, h.Records[h.Len()-1].Best.String())
	}
	for i, r := range e.History().Records {
		assert.Equal(t, snapshots[i], r.Best.String(), "generation %d", i)
	}
}

func TestStartWithInitialPopulation(t *testing.T) {
	cfg := Config{Population: 2, Length: 3, Generations: 1}
	s, err := New(cfg, rng.New(1))
	require.NoError(t, err)

	initial := bitstring.Population{{1, 1, 0}, {0, 0, 0}}
	e, err := s.Start(fitness.OneMax{}, initial)
	require.NoError(t, err)
	require.NoError(t, e.Step())

	r := e.History().Records[0]
	assert.Equal(t, bitstring.Chromosome{1, 1, 0}, r.Best)
	assert.Equal(t, 2.0, r.BestScore)
	assert.Equal(t, 1.0, r.Average)
	// исходная популяция не изменяется
	assert.Equal(t, bitstring.Population{{1, 1, 0}, {0, 0, 0}}, initial)

	_, err = s.Start(fitness.OneMax{}, bitstring.Population{{1, 1}})
	assert.ErrorIs(t, err, opt.ErrInvalidConfiguration)
}

func TestInvalidConfigurationFailsFast(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()

	_, err := Evolve(ctx, cfg, fitness.ModeTarget, fitness.Params{}, 1)
	assert.ErrorIs(t, err, opt.ErrInvalidConfiguration)

	_, err = Evolve(ctx, cfg, fitness.ModeTarget, fitness.Params{Target: make(bitstring.Chromosome, cfg.Length+1)}, 1)
	assert.ErrorIs(t, err, opt.ErrInvalidConfiguration)

	_, err = Evolve(ctx, cfg, fitness.ModeKnapsack, fitness.Params{Knapsack: &fitness.KnapsackParams{
		Weight: []float64{1, 2}, Value: []float64{1, 2}, Size: 3,
	}}, 1)
	assert.ErrorIs(t, err, opt.ErrInvalidConfiguration)

	bad := cfg
	bad.Population = 0
	_, err = Evolve(ctx, bad, fitness.ModeOneMax, fitness.Params{}, 1)
	assert.ErrorIs(t, err, opt.ErrInvalidConfiguration)

	s, err := New(cfg, rng.New(1))
	require.NoError(t, err)
	_, err = s.Run(ctx, nil)
	assert.ErrorIs(t, err, opt.ErrInvalidConfiguration)
}

func TestTargetAndKnapsackRuns(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Population: 30, Length: 12, Generations: 60, CrossoverRate: 0.8, MutationRate: 0.05}

	target, err := bitstring.Parse("101100111000")
	require.NoError(t, err)
	h, err := Evolve(ctx, cfg, fitness.ModeTarget, fitness.Params{Target: target}, 5)
	require.NoError(t, err)
	best, ok := h.Overall()
	require.True(t, ok)
	assert.LessOrEqual(t, best.BestScore, 12.0)
	assert.GreaterOrEqual(t, best.BestScore, h.Records[0].BestScore)

	k := fitness.RandomKnapsack(cfg.Length, 1, 20, rng.New(2))
	h, err = Evolve(ctx, cfg, fitness.ModeKnapsack, fitness.Params{Knapsack: &fitness.KnapsackParams{
		Weight: k.Weight, Value: k.Value, Size: k.Size,
	}}, 5)
	require.NoError(t, err)
	assert.Equal(t, cfg.Generations, h.Len())
}

// countingProblem считает обращения к Score.
type countingProblem struct {
	fitness.OneMax
	calls *int
}

func (c countingProblem) Score(ch bitstring.Chromosome) float64 {
	*c.calls++
	return c.OneMax.Score(ch)
}

func TestEachMemberScoredOncePerGeneration(t *testing.T) {
	cfg := Config{Population: 7, Length: 6, Generations: 5, CrossoverRate: 0.8, MutationRate: 0.05}
	s, err := New(cfg, rng.New(3))
	require.NoError(t, err)

	calls := 0
	e, err := s.Start(countingProblem{calls: &calls}, nil)
	require.NoError(t, err)
	require.NoError(t, e.run(context.Background()))

	assert.Equal(t, cfg.Population*cfg.Generations, calls)
	assert.Equal(t, calls, e.Evaluations())
}

func TestKnapsackWithLongerItemLists(t *testing.T) {
	cfg := Config{Population: 4, Length: 2, Generations: 3, CrossoverRate: 0.8, MutationRate: 0.05}
	h, err := Evolve(context.Background(), cfg, fitness.ModeKnapsack, fitness.Params{Knapsack: &fitness.KnapsackParams{
		Weight: []float64{2, 3, 4}, Value: []float64{3, 4, 5}, Size: 5,
	}}, 9)
	require.NoError(t, err)
	assert.Equal(t, 3, h.Len())
	for _, r := range h.Records {
		assert.Len(t, r.Best, 2)
		assert.LessOrEqual(t, r.BestScore, 7.0)
	}
}

func TestSolveResult(t *testing.T) {
	cfg := Config{Population: 10, Length: 8, Generations: 25, CrossoverRate: 0.8, MutationRate: 0.1}
	s, err := New(cfg, rng.New(4))
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), fitness.OneMax{})
	require.NoError(t, err)
	assert.Equal(t, 25, res.Iterations)
	assert.Len(t, res.BestTrace, 25)
	assert.Len(t, res.MeanTrace, 25)
	assert.Equal(t, fitness.OneMax{}.Score(res.Best), res.BestScore)
	for _, v := range res.BestTrace {
		assert.LessOrEqual(t, v, res.BestScore)
	}
	assert.Positive(t, res.Evaluations)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New(DefaultConfig(), rng.New(1))
	require.NoError(t, err)

	h, err := s.Run(ctx, fitness.OneMax{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, h.Len())

	res, err := s.Solve(ctx, fitness.OneMax{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "context", res.Meta["stopped"])
}

func TestHistoryOverallPrefersEarliest(t *testing.T) {
	h := History{Records: []Record{
		{Generation: 0, BestScore: 3},
		{Generation: 1, BestScore: 5},
		{Generation: 2, BestScore: 5},
	}}
	r, ok := h.Overall()
	require.True(t, ok)
	assert.Equal(t, 1, r.Generation)

	_, ok = History{}.Overall()
	assert.False(t, ok)
}
