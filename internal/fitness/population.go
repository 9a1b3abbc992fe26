package fitness

import (
	"bitGA/internal/bitstring"
	"bitGA/internal/opt"
)

// Average returns the arithmetic mean score of the population.
func Average(pop bitstring.Population, p opt.Problem) (float64, error) {
	if len(pop) == 0 {
		return 0, opt.ErrEmptyPopulation
	}
	sum := 0.0
	for _, c := range pop {
		sum += p.Score(c)
	}
	return sum / float64(len(pop)), nil
}

// Fittest returns the index and score of the best member.
// Ties keep the earliest member.
func Fittest(pop bitstring.Population, p opt.Problem) (int, float64, error) {
	scores := Scores(pop, p)
	best, err := BestIndex(scores)
	if err != nil {
		return 0, 0, err
	}
	return best, scores[best], nil
}

// BestIndex picks the highest score from already computed scores; ties keep the earliest.
func BestIndex(scores []float64) (int, error) {
	if len(scores) == 0 {
		return 0, opt.ErrEmptyPopulation
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[best] < scores[i] {
			best = i
		}
	}
	return best, nil
}

// Scores evaluates every member once.
func Scores(pop bitstring.Population, p opt.Problem) []float64 {
	out := make([]float64, len(pop))
	for i, c := range pop {
		out[i] = p.Score(c)
	}
	return out
}
