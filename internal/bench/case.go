package bench

import (
	"fmt"

	"bitGA/internal/bitstring"
	"bitGA/internal/fitness"
	"bitGA/internal/opt"
	"bitGA/internal/rng"
)

// Case — одна конфигурация задачи: режим fitness, длина хромосомы и сид экземпляра.
type Case struct {
	Mode         fitness.Mode
	Length       int
	InstanceSeed int64

	// Фиксированная цель; если пусто, цель генерируется по InstanceSeed.
	Target          bitstring.Chromosome
	DeceptiveReward float64
}

func (c Case) String() string {
	return fmt.Sprintf("%s/%d", c.Mode, c.Length)
}

// Problem строит экземпляр задачи; при одном и том же сиде экземпляр одинаков для всех алгоритмов.
func (c Case) Problem() (opt.Problem, error) {
	if c.Length <= 0 {
		return nil, opt.Invalid("length must be > 0 (got %d)", c.Length)
	}
	src := rng.New(c.InstanceSeed)
	params := fitness.Params{DeceptiveReward: c.DeceptiveReward}

	switch c.Mode {
	case fitness.ModeTarget:
		params.Target = c.Target
		if len(params.Target) == 0 {
			params.Target = fitness.RandomTarget(c.Length, src).Bits
		}
	case fitness.ModeKnapsack:
		k := fitness.RandomKnapsack(c.Length, 1, 99, src)
		params.Knapsack = &fitness.KnapsackParams{Weight: k.Weight, Value: k.Value, Size: k.Size}
	}

	p, err := fitness.New(c.Mode, params)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(c.Length); err != nil {
		return nil, err
	}
	return p, nil
}
