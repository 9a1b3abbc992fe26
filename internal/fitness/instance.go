package fitness

import (
	"bitGA/internal/bitstring"
	"bitGA/internal/rng"
)

// RandomTarget builds a random target sequence of the given length.
func RandomTarget(length int, src *rng.Source) Target {
	if src == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	return Target{Bits: bitstring.Random(length, src)}
}

// RandomKnapsack draws integer weights in [minWeight, maxWeight] and values in [1, 99].
// The capacity is half of the total weight, so roughly half of the items fit.
func RandomKnapsack(length, minWeight, maxWeight int, src *rng.Source) Knapsack {
	if src == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if minWeight < 0 || maxWeight < minWeight {
		panic("invalid weight bounds")
	}
	k := Knapsack{
		Weight: make([]float64, length),
		Value:  make([]float64, length),
	}
	total := 0.0
	for i := 0; i < length; i++ {
		k.Weight[i] = float64(src.Between(minWeight, maxWeight))
		k.Value[i] = float64(src.Between(1, 99))
		total += k.Weight[i]
	}
	k.Size = total / 2
	return k
}
