package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"bitGA/internal/fitness"
	"bitGA/internal/opt"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64, length int) (opt.Optimizer, error)
}

type Record struct {
	ID     string
	Algo   string
	Mode   fitness.Mode
	Length int
	Runs   int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	ScoreBest float64
	ScoreMean float64
	ScoreStd  float64

	// Optimum известен не для всех задач; HitRate — доля запусков, достигших его.
	Optimum      float64
	OptimumKnown bool
	HitRate      float64

	BestTrace []float64
	MeanTrace []float64
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
	Log           *slog.Logger
}

func (r Runner) logger() *slog.Logger {
	if r.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Log
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	if r.Runs <= 0 {
		return Record{}, opt.Invalid("runs must be > 0 (got %d)", r.Runs)
	}
	problem, err := c.Problem()
	if err != nil {
		return Record{}, fmt.Errorf("case %s: %w", c, err)
	}
	optimum, known := fitness.Optimum(problem, c.Length)

	scores := make([]float64, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)
	bestTraces := make([][]float64, 0, r.Runs)
	meanTraces := make([][]float64, 0, r.Runs)
	hits := 0

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		op, err := algo.Factory(runSeed, c.Length)
		if err != nil {
			return Record{}, fmt.Errorf("run %d: factory: %w", i, err)
		}

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		start := time.Now()
		res, err := op.Solve(runCtx, problem)
		dur := time.Since(start)
		cancel()

		if err != nil && runCtx.Err() != nil {
			return Record{}, fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
		}
		if err != nil {
			return Record{}, fmt.Errorf("run %d: solve error: %w", i, err)
		}
		if len(res.Best) != c.Length {
			return Record{}, fmt.Errorf("run %d: invalid chromosome length %d (want %d)", i, len(res.Best), c.Length)
		}

		scores = append(scores, res.BestScore)
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
		bestTraces = append(bestTraces, res.BestTrace)
		meanTraces = append(meanTraces, res.MeanTrace)
		if known && res.BestScore >= optimum {
			hits++
		}

		r.logger().Debug("run finished",
			slog.String("algo", algo.Name),
			slog.String("case", c.String()),
			slog.Int64("seed", runSeed),
			slog.Float64("best", res.BestScore),
			slog.Duration("duration", dur),
		)
	}

	sStats := CalcStats(scores)
	tStats := CalcStats(timesMs)

	rec := Record{
		ID:     uuid.NewString(),
		Algo:   algo.Name,
		Mode:   c.Mode,
		Length: c.Length,
		Runs:   r.Runs,

		TimeBestMs: tStats.Min,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		ScoreBest: sStats.Max,
		ScoreMean: sStats.Mean,
		ScoreStd:  sStats.Std,

		Optimum:      optimum,
		OptimumKnown: known,
		HitRate:      float64(hits) / float64(r.Runs),

		BestTrace: MeanTrace(bestTraces),
		MeanTrace: MeanTrace(meanTraces),
	}

	r.logger().Info("case finished",
		slog.String("id", rec.ID),
		slog.String("algo", rec.Algo),
		slog.String("case", c.String()),
		slog.Float64("score_best", rec.ScoreBest),
		slog.Float64("score_mean", rec.ScoreMean),
		slog.Float64("hit_rate", rec.HitRate),
	)
	return rec, nil
}

func createCSV(path string) (*os.File, *csv.Writer, error) {
	if d := dirOf(path); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, csv.NewWriter(f), nil
}

func WriteCSV(path string, records []Record) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header := []string{
		"id", "algo", "mode", "length", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"score_best", "score_mean", "score_std",
		"optimum", "hit_rate",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		optimum := ""
		if r.OptimumKnown {
			optimum = ftoa(r.Optimum)
		}
		row := []string{
			r.ID,
			r.Algo,
			string(r.Mode),
			itoa(r.Length),
			itoa(r.Runs),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			ftoa(r.ScoreBest),
			ftoa(r.ScoreMean),
			ftoa(r.ScoreStd),

			optimum,
			ftoa(r.HitRate),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteTraceCSV записывает усреднённые по запускам траектории (для GA по поколениям).
func WriteTraceCSV(path string, records []Record) error {
	f, w, err := createCSV(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write([]string{"id", "algo", "mode", "length", "iteration", "best_mean", "mean_mean"}); err != nil {
		return err
	}
	for _, r := range records {
		for i := 0; i < len(r.BestTrace) && i < len(r.MeanTrace); i++ {
			row := []string{
				r.ID,
				r.Algo,
				string(r.Mode),
				itoa(r.Length),
				itoa(i),
				ftoa(r.BestTrace[i]),
				ftoa(r.MeanTrace[i]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
