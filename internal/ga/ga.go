package ga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gonum.org/v1/gonum/stat"

	"bitGA/internal/bitstring"
	"bitGA/internal/fitness"
	"bitGA/internal/opt"
	"bitGA/internal/rng"
)

// ErrCompleted возвращается при попытке шага после завершения эволюции.
var ErrCompleted = errors.New("эволюция уже завершена")

// State — состояние цикла поколений.
type State int

const (
	StateInitialized State = iota
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Solver — генетический алгоритм над битовыми строками.
type Solver struct {
	Cfg Config
	Rng *rng.Source
	Log *slog.Logger
}

// New возвращает новый GA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Evolution — один запуск алгоритма: Initialized → Running → Completed.
type Evolution struct {
	cfg     Config
	problem opt.Problem
	src     *rng.Source
	log     *slog.Logger

	population  bitstring.Population
	generation  int
	state       State
	history     History
	evaluations int
}

// Start проверяет входные данные и готовит запуск.
// Если initial == nil, начальная популяция генерируется случайно.
func (s *Solver) Start(problem opt.Problem, initial bitstring.Population) (*Evolution, error) {
	if err := s.Cfg.Validate(); err != nil {
		return nil, err
	}
	if s.Rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	if problem == nil {
		return nil, opt.Invalid("задача не задана (nil)")
	}
	if err := problem.Validate(s.Cfg.Length); err != nil {
		return nil, err
	}

	var pop bitstring.Population
	if initial == nil {
		pop = bitstring.RandomPopulation(s.Cfg.Population, s.Cfg.Length, s.Rng)
	} else {
		if err := initial.Validate(s.Cfg.Population, s.Cfg.Length); err != nil {
			return nil, fmt.Errorf("%w: начальная популяция: %v", opt.ErrInvalidConfiguration, err)
		}
		pop = initial.Clone()
	}

	return &Evolution{
		cfg:        s.Cfg,
		problem:    problem,
		src:        s.Rng,
		log:        s.logger(),
		population: pop,
		state:      StateInitialized,
		history:    History{Records: make([]Record, 0, s.Cfg.Generations)},
	}, nil
}

func (e *Evolution) State() State { return e.state }

func (e *Evolution) Generation() int { return e.generation }

func (e *Evolution) Evaluations() int { return e.evaluations }

func (e *Evolution) Done() bool { return e.state == StateCompleted }

func (e *Evolution) History() History {
	return History{Records: append([]Record(nil), e.history.Records...)}
}

func (e *Evolution) Population() bitstring.Population { return e.population.Clone() }

// Step выполняет одно поколение: запись статистики, отбор, кроссовер, мутация.
func (e *Evolution) Step() error {
	switch e.state {
	case StateCompleted:
		return ErrCompleted
	case StateInitialized:
		e.state = StateRunning
	}
	if e.generation >= e.cfg.Generations {
		e.state = StateCompleted
		return nil
	}

	// Статистика текущей популяции (до отбора); каждая особь оценивается один раз
	scores := fitness.Scores(e.population, e.problem)
	e.evaluations += len(scores)
	bestIdx, err := fitness.BestIndex(scores)
	if err != nil {
		return err
	}
	bestScore := scores[bestIdx]
	avg := stat.Mean(scores, nil)
	e.history.Records = append(e.history.Records, Record{
		Generation: e.generation,
		Best:       e.population[bestIdx].Clone(),
		BestScore:  bestScore,
		Average:    avg,
	})

	// Турнирный отбор
	selected, err := tournamentSelect(e.population, scores, e.src)
	if err != nil {
		return fmt.Errorf("поколение %d: отбор: %w", e.generation, err)
	}

	// Кроссовер
	children, err := crossover(selected, e.cfg.CrossoverRate, e.src)
	if err != nil {
		return fmt.Errorf("поколение %d: кроссовер: %w", e.generation, err)
	}

	// Мутация
	mutated, err := mutate(children, e.cfg.MutationRate, e.src)
	if err != nil {
		return fmt.Errorf("поколение %d: мутация: %w", e.generation, err)
	}

	e.log.Debug("generation",
		slog.Int("generation", e.generation),
		slog.Float64("best", bestScore),
		slog.Float64("average", avg),
	)

	// Смена поколений
	e.population = mutated
	e.generation++
	if e.generation >= e.cfg.Generations {
		e.state = StateCompleted
	}
	return nil
}

// Run выполняет ровно Cfg.Generations поколений и возвращает историю.
// Контекст проверяется между поколениями; при отмене возвращается накопленная история.
func (s *Solver) Run(ctx context.Context, problem opt.Problem) (History, error) {
	e, err := s.Start(problem, nil)
	if err != nil {
		return History{}, err
	}
	if err := e.run(ctx); err != nil {
		return e.History(), err
	}
	return e.History(), nil
}

func (e *Evolution) run(ctx context.Context) error {
	for !e.Done() {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Solve — адаптер к opt.Optimizer для бенчмарка.
func (s *Solver) Solve(ctx context.Context, problem opt.Problem) (opt.Result, error) {
	start := time.Now()

	e, err := s.Start(problem, nil)
	if err != nil {
		return opt.Result{}, err
	}
	runErr := e.run(ctx)

	h := e.History()
	best, ok := h.Overall()
	if !ok {
		// Ноль поколений: лучшая особь начальной популяции
		idx, score, err := fitness.Fittest(e.population, problem)
		if err != nil {
			return opt.Result{}, err
		}
		best = Record{Best: e.population[idx], BestScore: score}
	}

	meta := map[string]any{
		"population":     s.Cfg.Population,
		"generations":    s.Cfg.Generations,
		"crossover_rate": s.Cfg.CrossoverRate,
		"mutation_rate":  s.Cfg.MutationRate,
	}
	if runErr != nil {
		meta["stopped"] = "context"
	}
	res := ToOptResult(best.Best, best.BestScore, e.evaluations, h, meta)
	res.Duration = time.Since(start)

	s.logger().Info("ga run finished",
		slog.String("problem", problem.Name()),
		slog.Float64("best", res.BestScore),
		slog.Int("generations", res.Iterations),
		slog.Duration("duration", res.Duration),
	)
	return res, runErr
}

// Evolve — точка входа одним вызовом: строит задачу по режиму и запускает GA с заданным сидом.
func Evolve(ctx context.Context, cfg Config, mode fitness.Mode, params fitness.Params, seed int64) (History, error) {
	problem, err := fitness.New(mode, params)
	if err != nil {
		return History{}, err
	}
	s, err := New(cfg, rng.New(seed))
	if err != nil {
		return History{}, err
	}
	return s.Run(ctx, problem)
}
