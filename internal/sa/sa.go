package sa

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"bitGA/internal/bitstring"
	"bitGA/internal/opt"
	"bitGA/internal/rng"
)

// Количество инвертируемых битов в окрестности burst.
const (
	burstMinFlips = 3
	burstMaxFlips = 5
)

// Промежуточная статистика пишется в Debug раз в logEvery итераций.
const logEvery = 1000

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg Config
	Rng *rng.Source
	Log *slog.Logger
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, src *rng.Source) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: src}, nil
}

func (s *Solver) logger() *slog.Logger {
	if s.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Log
}

// Solve — реализация эвристики (максимизация).
func (s *Solver) Solve(ctx context.Context, p opt.Problem) (opt.Result, error) {
	start := time.Now()

	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	if p == nil {
		return opt.Result{}, opt.Invalid("задача не задана (nil)")
	}
	n := s.Cfg.Length
	if err := p.Validate(n); err != nil {
		return opt.Result{}, err
	}

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerBit * n
	}

	// Текущее и кандидатное решения
	curr := bitstring.Random(n, s.Rng)
	cand := make(bitstring.Chromosome, n)

	currCost := p.Score(curr)
	bestCost := currCost
	best := curr.Clone()

	evals := 1
	T := s.Cfg.InitialTemp

	log := s.logger()
	bestTrace := make([]float64, 0, maxIter)
	currTrace := make([]float64, 0, maxIter)

	iter := 0
	for ; iter < maxIter && T > s.Cfg.FinalTemp; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return opt.Result{
				Best:        best,
				BestScore:   bestCost,
				Evaluations: evals,
				Iterations:  iter,
				Duration:    time.Since(start),
				BestTrace:   bestTrace,
				MeanTrace:   currTrace,
				Meta: map[string]any{
					"stopped": "context",
					"T":       T,
				},
			}, err
		}

		copy(cand, curr)
		switch s.Cfg.Neighborhood {
		case NeighborhoodBurst:
			neighborBurst(cand, s.Rng)
		default:
			neighborFlip(cand, s.Rng)
		}

		candCost := p.Score(cand)
		evals++

		delta := candCost - currCost
		accept := false
		if delta >= 0 {
			// Не ухудшающее решение принимаем всегда
			accept = true
		} else {
			// Критерий Метрополиса:
			// допускает принятие ухудшающих решений
			if s.Rng.Unit() < math.Exp(delta/T) {
				accept = true
			}
		}

		if accept {
			// Обмен ролей текущего и кандидатного решений
			curr, cand = cand, curr
			currCost = candCost

			// Обновление глобально лучшего решения
			if bestCost < currCost {
				bestCost = currCost
				copy(best, curr)
			}
		}

		bestTrace = append(bestTrace, bestCost)
		currTrace = append(currTrace, currCost)

		if (iter+1)%logEvery == 0 {
			log.Debug("progress",
				slog.Int("iteration", iter+1),
				slog.Float64("best", bestCost),
				slog.Float64("current", currCost),
			)
		}

		// Охлаждение температуры
		T *= s.Cfg.Alpha
	}

	res := opt.Result{
		Best:        best,
		BestScore:   bestCost,
		Evaluations: evals,
		Iterations:  iter,
		Duration:    time.Since(start),
		BestTrace:   bestTrace,
		MeanTrace:   currTrace,
		Meta: map[string]any{
			"initial_temp": s.Cfg.InitialTemp,
			"final_temp":   s.Cfg.FinalTemp,
			"alpha":        s.Cfg.Alpha,
			"neighborhood": string(s.Cfg.Neighborhood),
		},
	}
	log.Info("sa run finished",
		slog.String("problem", p.Name()),
		slog.Float64("best", bestCost),
		slog.Int("iterations", iter),
	)
	return res, nil
}

// Формирует соседнее решение инверсией одного случайного бита.
func neighborFlip(c bitstring.Chromosome, src *rng.Source) {
	c.Flip(src.Between(0, len(c)-1))
}

// Формирует соседнее решение инверсией 3..5 случайных битов (позиции могут повторяться).
func neighborBurst(c bitstring.Chromosome, src *rng.Source) {
	flips := src.Between(burstMinFlips, burstMaxFlips)
	for i := 0; i < flips; i++ {
		c.Flip(src.Between(0, len(c)-1))
	}
}
