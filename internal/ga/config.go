package ga

import "bitGA/internal/opt"

// Количество инвертируемых битов при мутации одной особи: [mutationMinFlips, mutationMaxFlips].
const (
	mutationMinFlips = 3
	mutationMaxFlips = 5
)

type Config struct {
	Population    int     `validate:"gt=0"`
	Length        int     `validate:"gt=0"`
	Generations   int     `validate:"gte=0"`
	CrossoverRate float64 `validate:"gte=0,lte=1"`
	MutationRate  float64 `validate:"gte=0,lte=1"`
}

func (c Config) Validate() error {
	return opt.ValidateStruct(c)
}

func DefaultConfig() Config {
	return Config{
		Population:    20,
		Length:        10,
		Generations:   50,
		CrossoverRate: 0.80,
		MutationRate:  0.05,
	}
}
