package ts

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

// Промежуточная статистика пишется в Debug раз в logEvery итераций.
const logEvery = 500

// Solver - структура реализации табу-поиска над битовыми строками.
type Solver struct {
	Cfg Config
	Rng *rng.Source
	Log *slog.Logger
}

// New возвращает новый TS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Solve — основной цикл алгоритма (максимизация).
// Ход — инверсия одного бита; табуируется позиция инвертированного бита.
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
	evals := 1

	// Глобально лучшее решение
	best := curr.Clone()
	bestCost := currCost

	// Табу-список: срок запрета по каждой позиции
	tabu := newTabuList(n)

	log := s.logger()
	bestTrace := make([]float64, 0, maxIter)
	currTrace := make([]float64, 0, maxIter)

	iter := 0
	for ; iter < maxIter; iter++ {
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
				},
			}, err
		}

		// Лучший допустимый ход
		bestMove := -1
		bestMoveCost := math.Inf(-1)

		// Запасной ход (лучший без учёта табу),
		// используется если все допустимые ходы табуированы
		fallbackMove := -1
		fallbackCost := math.Inf(-1)

		// Итерация по случайно сгенерированным соседям
		for k := 0; k < s.Cfg.NeighborsPerIter; k++ {
			pos := s.Rng.Between(0, n-1)

			copy(cand, curr)
			cand.Flip(pos)

			cost := p.Score(cand)
			evals++

			if cost > fallbackCost {
				fallbackCost = cost
				fallbackMove = pos
			}

			isTabu := tabu.IsTabu(pos, iter)
			aspiration := cost > bestCost // критерий аспирации

			// Табуированный ход пропускается,
			// если не выполняется критерий аспирации
			if isTabu && !aspiration {
				continue
			}

			if cost > bestMoveCost {
				bestMoveCost = cost
				bestMove = pos
			}
		}

		// Выбор хода: сначала допустимый лучший,
		chosen, chosenCost := bestMove, bestMoveCost
		if chosen < 0 {
			chosen, chosenCost = fallbackMove, fallbackCost
		}

		// Нет допустимых ходов, поиск завершается
		if chosen < 0 {
			break
		}

		// Применение выбранного хода
		curr.Flip(chosen)
		currCost = chosenCost

		// Повторная инверсия этого бита запрещена на срок табу
		tenure := s.Cfg.TabuTenure
		if s.Cfg.TabuTenureRand > 0 {
			tenure += s.Rng.Between(0, s.Cfg.TabuTenureRand)
		}
		tabu.Add(chosen, iter+tenure)

		// Обновление глобально лучшего решения
		if currCost > bestCost {
			bestCost = currCost
			copy(best, curr)
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
	}

	log.Info("ts run finished",
		slog.String("problem", p.Name()),
		slog.Float64("best", bestCost),
		slog.Int("iterations", iter),
	)

	return opt.Result{
		Best:        best,
		BestScore:   bestCost,
		Evaluations: evals,
		Iterations:  iter,
		Duration:    time.Since(start),
		BestTrace:   bestTrace,
		MeanTrace:   currTrace,
		Meta: map[string]any{
			"tabu_tenure":        s.Cfg.TabuTenure,
			"tabu_tenure_rand":   s.Cfg.TabuTenureRand,
			"neighbors_per_iter": s.Cfg.NeighborsPerIter,
		},
	}, nil
}

// tabuList хранит для каждой позиции бита итерацию, до которой её инверсия запрещена.
type tabuList struct {
	until []int
}

func newTabuList(length int) *tabuList {
	return &tabuList{until: make([]int, length)}
}

// IsTabu проверяет, запрещена ли инверсия бита pos на итерации iter.
func (t *tabuList) IsTabu(pos, iter int) bool {
	return t.until[pos] > iter
}

// Add запрещает инверсию бита pos до итерации expiry (не включая её).
func (t *tabuList) Add(pos, expiry int) {
	t.until[pos] = expiry
}
