package sa

import "bitGA/internal/opt"

// Тип окрестности
type Neighborhood string

const (
	// NeighborhoodFlip — инверсия одного случайного бита
	NeighborhoodFlip Neighborhood = "flip"
	// NeighborhoodBurst — инверсия 3..5 случайных битов, как в мутации GA
	NeighborhoodBurst Neighborhood = "burst"
)

type Config struct {
	Length int `validate:"gt=0"`

	Iterations       int `validate:"gte=0"`
	IterationsPerBit int `validate:"gte=0"`

	InitialTemp float64 `validate:"gt=0,gtfield=FinalTemp"`
	FinalTemp   float64 `validate:"gt=0"`
	Alpha       float64 `validate:"gt=0,lt=1"`

	Neighborhood Neighborhood `validate:"oneof=flip burst"`
}

func DefaultConfig() Config {
	return Config{
		Length:           10,
		Iterations:       0,
		IterationsPerBit: 200,

		InitialTemp: 10.0,
		FinalTemp:   0.01,
		Alpha:       0.995,

		Neighborhood: NeighborhoodFlip,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerBit <= 0 {
		return opt.Invalid("должно быть задано Iterations > 0 или IterationsPerBit > 0")
	}
	return opt.ValidateStruct(c)
}
