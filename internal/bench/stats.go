package bench

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Stats struct {
	N    int
	Min  float64
	Max  float64
	Mean float64
	Std  float64
}

// CalcStats считает выборочные характеристики (несмещённое стандартное отклонение).
func CalcStats(values []float64) Stats {
	s := Stats{N: len(values)}
	if s.N == 0 {
		return s
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	if s.N < 2 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(values, nil)
	return s
}

// MeanTrace усредняет траектории по индексу итерации.
// Длина результата равна длине самой короткой траектории.
func MeanTrace(traces [][]float64) []float64 {
	if len(traces) == 0 {
		return nil
	}
	n := len(traces[0])
	for _, tr := range traces[1:] {
		n = min(n, len(tr))
	}
	out := make([]float64, n)
	column := make([]float64, len(traces))
	for i := 0; i < n; i++ {
		for j, tr := range traces {
			column[j] = tr[i]
		}
		out[i] = stat.Mean(column, nil)
	}
	return out
}
