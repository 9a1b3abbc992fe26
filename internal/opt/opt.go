package opt

import (
	"context"
	"time"

	"bitGA/internal/bitstring"
)

// Problem — целевая функция над битовыми строками (максимизация).
type Problem interface {
	Name() string
	// Score без скрытого состояния: одна и та же хромосома всегда даёт одно и то же значение.
	Score(c bitstring.Chromosome) float64
	// Validate проверяет, что задача применима к хромосомам длины length.
	Validate(length int) error
}

type Optimizer interface {
	Solve(ctx context.Context, p Problem) (Result, error)
}

type Result struct {
	Best        bitstring.Chromosome
	BestScore   float64
	Evaluations int
	Iterations  int
	Duration    time.Duration

	// BestTrace и MeanTrace: значения по итерациям (для GA по поколениям).
	BestTrace []float64
	MeanTrace []float64

	Meta map[string]any
}
