package ts

import "bitGA/internal/opt"

type Config struct {
	Length int `validate:"gt=0"`

	Iterations       int `validate:"gte=0"`
	IterationsPerBit int `validate:"gte=0"`

	TabuTenure int `validate:"gt=0"`

	TabuTenureRand int `validate:"gte=0"`

	NeighborsPerIter int `validate:"gt=0"`
}

func DefaultConfig() Config {
	return Config{
		Length:           10,
		Iterations:       0,
		IterationsPerBit: 25,

		TabuTenure:     7,
		TabuTenureRand: 3,

		NeighborsPerIter: 16,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerBit <= 0 {
		return opt.Invalid("должно быть задано Iterations > 0 или IterationsPerBit > 0")
	}
	return opt.ValidateStruct(c)
}
