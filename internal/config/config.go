package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config — значения по умолчанию для CLI, читаются из переменных окружения BITGA_*.
// Флаги командной строки имеют приоритет.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Bench struct {
		Out           string        `env:"OUT" envDefault:"artifacts/results.csv"`
		TraceOut      string        `env:"TRACE_OUT" envDefault:""`
		Modes         string        `env:"MODES" envDefault:"onemax,deceptive,target,knapsack"`
		Lengths       string        `env:"LENGTHS" envDefault:"10,50,100"`
		Algos         string        `env:"ALGOS" envDefault:"GA,SA,TS"`
		Runs          int           `env:"RUNS" envDefault:"30"`
		Seed          int64         `env:"SEED" envDefault:"1000"`
		InstanceSeed  int64         `env:"INSTANCE_SEED" envDefault:"777"`
		PerRunTimeout time.Duration `env:"PER_RUN_TIMEOUT" envDefault:"0s"`
	} `envPrefix:"BENCH_"`

	GA struct {
		Population      int     `env:"POPULATION" envDefault:"20"`
		Generations     int     `env:"GENERATIONS" envDefault:"50"`
		CrossoverRate   float64 `env:"CROSSOVER_RATE" envDefault:"0.8"`
		MutationRate    float64 `env:"MUTATION_RATE" envDefault:"0.05"`
		DeceptiveReward float64 `env:"DECEPTIVE_REWARD" envDefault:"2"`
		Target          string  `env:"TARGET" envDefault:""`
	} `envPrefix:"GA_"`

	SA struct {
		Iterations       int     `env:"ITERATIONS" envDefault:"0"`
		IterationsPerBit int     `env:"ITERATIONS_PER_BIT" envDefault:"200"`
		InitialTemp      float64 `env:"T0" envDefault:"10"`
		FinalTemp        float64 `env:"TMIN" envDefault:"0.01"`
		Alpha            float64 `env:"ALPHA" envDefault:"0.995"`
		Neighborhood     string  `env:"NEIGHBORHOOD" envDefault:"flip"`
	} `envPrefix:"SA_"`

	TS struct {
		Iterations       int `env:"ITERATIONS" envDefault:"0"`
		IterationsPerBit int `env:"ITERATIONS_PER_BIT" envDefault:"25"`
		TabuTenure       int `env:"TENURE" envDefault:"7"`
		TabuTenureRand   int `env:"TENURE_RAND" envDefault:"3"`
		NeighborsPerIter int `env:"NEIGHBORS" envDefault:"16"`
	} `envPrefix:"TS_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "BITGA_"}); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok && len(aggErr.Errors) > 0 {
			// Только первая ошибка, чтобы лог оставался читаемым
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return cfg, nil
}
