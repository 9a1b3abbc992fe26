package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"bitGA/internal/bench"
	"bitGA/internal/bitstring"
	"bitGA/internal/config"
	"bitGA/internal/fitness"
	"bitGA/internal/ga"
	"bitGA/internal/opt"
	"bitGA/internal/rng"
	"bitGA/internal/sa"
	"bitGA/internal/ts"
)

// Фабрики

func newGAFactory(cfg ga.Config, logger *slog.Logger) func(seed int64, length int) (opt.Optimizer, error) {
	return func(seed int64, length int) (opt.Optimizer, error) {
		c := cfg
		c.Length = length
		solver, err := ga.New(c, rng.New(seed))
		if err != nil {
			return nil, err
		}
		solver.Log = logger
		return solver, nil
	}
}

func newSAFactory(cfg sa.Config, logger *slog.Logger) func(seed int64, length int) (opt.Optimizer, error) {
	return func(seed int64, length int) (opt.Optimizer, error) {
		c := cfg
		c.Length = length
		solver, err := sa.New(c, rng.New(seed))
		if err != nil {
			return nil, err
		}
		solver.Log = logger
		return solver, nil
	}
}

func newTSFactory(cfg ts.Config, logger *slog.Logger) func(seed int64, length int) (opt.Optimizer, error) {
	return func(seed int64, length int) (opt.Optimizer, error) {
		c := cfg
		c.Length = length
		solver, err := ts.New(c, rng.New(seed))
		if err != nil {
			return nil, err
		}
		solver.Log = logger
		return solver, nil
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Значения по умолчанию берутся из окружения (BITGA_*), флаги их переопределяют
	env, err := config.LoadConfig()
	if err != nil {
		logger.Error("не удалось загрузить конфигурацию", "error", err)
		os.Exit(2)
	}

	// CLI флаги для настройки параметров алгоритмов и политики запуска
	var (
		out          = flag.String("out", env.Bench.Out, "путь к выходному CSV-файлу")
		traceOut     = flag.String("trace_out", env.Bench.TraceOut, "путь к CSV с усреднёнными траекториями (пусто — не писать)")
		modes        = flag.String("modes", env.Bench.Modes, "режимы fitness: onemax, deceptive, target, knapsack (через запятую)")
		lengths      = flag.String("lengths", env.Bench.Lengths, "длины хромосом (через запятую)")
		algos        = flag.String("algos", env.Bench.Algos, "список алгоритмов: GA, SA, TS (через запятую)")
		runs         = flag.Int("runs", env.Bench.Runs, "количество запусков каждого алгоритма (с разными сидами)")
		baseSeed     = flag.Int64("seed", env.Bench.Seed, "базовый сид для запусков алгоритмов")
		instanceSeed = flag.Int64("instance_seed", env.Bench.InstanceSeed, "базовый сид для генерации экземпляров задачи")
		perRunTO     = flag.Duration("per_run_timeout", env.Bench.PerRunTimeout, "таймаут одного запуска; 0 — без ограничения")
		logLevel     = flag.String("log_level", env.LogLevel, "уровень логирования: debug | info | warn | error")

		// --- Генетический алгоритм ---
		gaPop    = flag.Int("ga_pop", env.GA.Population, "размер популяции")
		gaGen    = flag.Int("ga_gen", env.GA.Generations, "количество поколений")
		gaCx     = flag.Float64("ga_cx", env.GA.CrossoverRate, "вероятность применения кроссовера")
		gaMut    = flag.Float64("ga_mut", env.GA.MutationRate, "вероятность мутации")
		gaReward = flag.Float64("ga_deceptive_reward", env.GA.DeceptiveReward, "множитель награды за нулевую хромосому в режиме deceptive")
		gaTarget = flag.String("ga_target", env.GA.Target, "фиксированная цель для режима target, например 0110 (пусто — случайная)")

		// --- Алгоритм имитации отжига ---
		saIterPerBit = flag.Int("sa_iter_per_bit", env.SA.IterationsPerBit, "количество итераций на один бит (используется, если sa_iter == 0)")
		saIter       = flag.Int("sa_iter", env.SA.Iterations, "общее количество итераций (0 => sa_iter_per_bit × length)")
		saT0         = flag.Float64("sa_t0", env.SA.InitialTemp, "начальная температура")
		saTmin       = flag.Float64("sa_tmin", env.SA.FinalTemp, "конечная температура")
		saAlpha      = flag.Float64("sa_alpha", env.SA.Alpha, "коэффициент охлаждения (alpha)")
		saNeigh      = flag.String("sa_neigh", env.SA.Neighborhood, "тип окрестности: flip | burst")

		// --- Табу-поиск ---
		tsIterPerBit = flag.Int("ts_iter_per_bit", env.TS.IterationsPerBit, "количество итераций на один бит (используется, если ts_iter == 0)")
		tsIter       = flag.Int("ts_iter", env.TS.Iterations, "общее количество итераций (0 => ts_iter_per_bit × length)")
		tsTenure     = flag.Int("ts_tenure", env.TS.TabuTenure, "длина табу-списка (в итерациях)")
		tsTenureRand = flag.Int("ts_tenure_rand", env.TS.TabuTenureRand, "случайное добавление к сроку табу [0..rand]")
		tsNeighbors  = flag.Int("ts_neighbors", env.TS.NeighborsPerIter, "количество рассматриваемых соседей на итерацию")
	)
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		logger.Error("неизвестный уровень логирования", "level", *logLevel)
		os.Exit(2)
	}
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var target bitstring.Chromosome
	if *gaTarget != "" {
		target, err = bitstring.Parse(*gaTarget)
		if err != nil {
			logger.Error("некорректная цель", "error", err)
			os.Exit(2)
		}
	}

	cases, err := parseCases(*modes, *lengths, *instanceSeed, target, *gaReward)
	if err != nil {
		logger.Error("конфликт в описании задач", "error", err)
		os.Exit(2)
	}

	// Длина хромосомы задаётся задачей; здесь проверяется только остальная конфигурация
	gaCfg := ga.Config{
		Population:    *gaPop,
		Length:        1,
		Generations:   *gaGen,
		CrossoverRate: *gaCx,
		MutationRate:  *gaMut,
	}
	if err := gaCfg.Validate(); err != nil {
		logger.Error("конфликт в конфигурации генетического алгоритма", "error", err)
		os.Exit(2)
	}

	saCfg := sa.Config{
		Length:           1,
		Iterations:       *saIter,
		IterationsPerBit: *saIterPerBit,
		InitialTemp:      *saT0,
		FinalTemp:        *saTmin,
		Alpha:            *saAlpha,
		Neighborhood:     sa.Neighborhood(*saNeigh),
	}
	if err := saCfg.Validate(); err != nil {
		logger.Error("конфликт в конфигурации алгоритма имитации отжига", "error", err)
		os.Exit(2)
	}

	tsCfg := ts.Config{
		Length:           1,
		Iterations:       *tsIter,
		IterationsPerBit: *tsIterPerBit,
		TabuTenure:       *tsTenure,
		TabuTenureRand:   *tsTenureRand,
		NeighborsPerIter: *tsNeighbors,
	}
	if err := tsCfg.Validate(); err != nil {
		logger.Error("конфликт в конфигурации табу-поиска", "error", err)
		os.Exit(2)
	}

	available := map[string]bench.Algorithm{
		"GA": {Name: "GA", Factory: newGAFactory(gaCfg, logger)},
		"SA": {Name: "SA", Factory: newSAFactory(saCfg, logger)},
		"TS": {Name: "TS", Factory: newTSFactory(tsCfg, logger)},
	}

	var selected []bench.Algorithm
	for _, a := range splitCSV(*algos) {
		al, ok := available[strings.ToUpper(a)]
		if !ok {
			logger.Error("алгоритм не предоставлен в программе", "algo", a, "available", keys(available))
			os.Exit(2)
		}
		selected = append(selected, al)
	}

	runner := bench.Runner{
		Runs:          *runs,
		BaseSeed:      *baseSeed,
		PerRunTimeout: *perRunTO,
		Log:           logger,
	}

	var records []bench.Record
	for _, c := range cases {
		for _, a := range selected {
			logger.Info("запуск", "algo", a.Name, "mode", c.Mode, "length", c.Length, "runs", runner.Runs)

			rec, err := runner.RunCase(ctx, c, a)
			if err != nil {
				logger.Error("ошибка запуска", "algo", a.Name, "case", c.String(), "error", err)
				os.Exit(1)
			}
			records = append(records, rec)

			fmt.Printf("  %s %s: лучшее=%.2f среднее=%.2f отклонение=%.2f попаданий=%.0f%% | Время: среднее=%.2fms отклонение=%.2fms\n",
				a.Name, c.String(),
				rec.ScoreBest, rec.ScoreMean, rec.ScoreStd, rec.HitRate*100,
				rec.TimeMeanMs, rec.TimeStdMs,
			)
		}
	}

	if err := bench.WriteCSV(*out, records); err != nil {
		logger.Error("ошибка при записи в CSV", "error", err)
		os.Exit(1)
	}
	logger.Info("результаты сохранены", "path", *out)

	if *traceOut != "" {
		if err := bench.WriteTraceCSV(*traceOut, records); err != nil {
			logger.Error("ошибка при записи траекторий в CSV", "error", err)
			os.Exit(1)
		}
		logger.Info("траектории сохранены", "path", *traceOut)
	}
}

// helpers

func parseCases(modes, lengths string, baseInstanceSeed int64, target bitstring.Chromosome, reward float64) ([]bench.Case, error) {
	var parsedModes []fitness.Mode
	for _, m := range splitCSV(modes) {
		mode, err := fitness.ParseMode(m)
		if err != nil {
			return nil, err
		}
		parsedModes = append(parsedModes, mode)
	}

	var parsedLengths []int
	for _, l := range splitCSV(lengths) {
		n, err := atoiStrict(l)
		if err != nil {
			return nil, fmt.Errorf("длина %q: %w", l, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("длина %q должна быть > 0", l)
		}
		parsedLengths = append(parsedLengths, n)
	}

	cases := make([]bench.Case, 0, len(parsedModes)*len(parsedLengths))
	for i, mode := range parsedModes {
		for _, n := range parsedLengths {
			c := bench.Case{
				Mode:            mode,
				Length:          n,
				InstanceSeed:    baseInstanceSeed + int64(i)*10_000 + int64(n),
				DeceptiveReward: reward,
			}
			if mode == fitness.ModeTarget && len(target) > 0 {
				if len(target) > n {
					return nil, fmt.Errorf("цель длины %d не помещается в хромосому длины %d", len(target), n)
				}
				c.Target = target
			}
			cases = append(cases, c)
		}
	}
	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiStrict(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
