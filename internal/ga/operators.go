package ga

import (
	"bitGA/internal/bitstring"
	"bitGA/internal/opt"
	"bitGA/internal/rng"
)

// tournamentSelect реализует турнирный отбор.
// Размер турнира k выбирается заново для каждого места из [1, N], участники
// выбираются с возвращением, поэтому повторы в одном турнире допустимы.
// Побеждает первый участник с максимальным значением fitness.
func tournamentSelect(pop bitstring.Population, scores []float64, src *rng.Source) (bitstring.Population, error) {
	n := len(pop)
	if n == 0 {
		return nil, opt.ErrEmptyPopulation
	}
	out := make(bitstring.Population, n)
	for i := range out {
		k := src.Between(1, n)
		best, err := src.Index(n)
		if err != nil {
			return nil, err
		}
		for j := 1; j < k; j++ {
			cand, err := src.Index(n)
			if err != nil {
				return nil, err
			}
			if scores[best] < scores[cand] {
				best = cand
			}
		}
		out[i] = pop[best].Clone()
	}
	return out, nil
}

// singlePointCrossover возвращает потомка p1[:split] + p2[split:].
func singlePointCrossover(p1, p2 bitstring.Chromosome, split int) bitstring.Chromosome {
	child := make(bitstring.Chromosome, len(p1))
	copy(child[:split], p1[:split])
	copy(child[split:], p2[split:])
	return child
}

// crossover формирует новую популяцию того же размера.
// С вероятностью rate место занимает потомок двух случайных родителей,
// иначе копия случайной особи.
func crossover(pop bitstring.Population, rate float64, src *rng.Source) (bitstring.Population, error) {
	n := len(pop)
	if n == 0 {
		return nil, opt.ErrEmptyPopulation
	}
	length := len(pop[0])
	out := make(bitstring.Population, 0, n)
	for len(out) < n {
		// rate == 0 исключает кроссовер даже при r == 0
		if r := src.Unit(); rate > 0 && r <= rate {
			p1, err := rng.Pick(src, pop)
			if err != nil {
				return nil, err
			}
			p2, err := rng.Pick(src, pop)
			if err != nil {
				return nil, err
			}
			split := src.Between(1, length)
			out = append(out, singlePointCrossover(p1, p2, split))
			continue
		}
		member, err := rng.Pick(src, pop)
		if err != nil {
			return nil, err
		}
		out = append(out, member.Clone())
	}
	return out, nil
}

// mutate проходит по всем позициям популяции; при срабатывании вероятности
// мутирует случайно выбранную особь (не обязательно текущую), инвертируя
// от 3 до 5 случайных битов. Позиции битов могут повторяться.
// Входная популяция не изменяется.
func mutate(pop bitstring.Population, rate float64, src *rng.Source) (bitstring.Population, error) {
	out := pop.Clone()
	for range out {
		if r := src.Unit(); rate <= 0 || r > rate {
			continue
		}
		j, err := src.Index(len(out))
		if err != nil {
			return nil, err
		}
		member := out[j]
		flips := src.Between(mutationMinFlips, mutationMaxFlips)
		for f := 0; f < flips; f++ {
			pos, err := src.Index(len(member))
			if err != nil {
				return nil, err
			}
			member.Flip(pos)
		}
	}
	return out, nil
}
