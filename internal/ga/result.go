package ga

import (
	"bitGA/internal/bitstring"
	"bitGA/internal/opt"
)

// Record — снимок поколения до отбора, кроссовера и мутации.
type Record struct {
	Generation int
	Best       bitstring.Chromosome
	BestScore  float64
	Average    float64
}

// History — упорядоченная по поколениям история запуска.
type History struct {
	Records []Record
}

func (h History) Len() int { return len(h.Records) }

func (h History) BestChromosomes() []bitstring.Chromosome {
	out := make([]bitstring.Chromosome, len(h.Records))
	for i, r := range h.Records {
		out[i] = r.Best.Clone()
	}
	return out
}

func (h History) BestScores() []float64 {
	out := make([]float64, len(h.Records))
	for i, r := range h.Records {
		out[i] = r.BestScore
	}
	return out
}

func (h History) Averages() []float64 {
	out := make([]float64, len(h.Records))
	for i, r := range h.Records {
		out[i] = r.Average
	}
	return out
}

// Overall возвращает лучшую запись за весь запуск (при равенстве самую раннюю).
func (h History) Overall() (Record, bool) {
	if len(h.Records) == 0 {
		return Record{}, false
	}
	best := h.Records[0]
	for _, r := range h.Records[1:] {
		if best.BestScore < r.BestScore {
			best = r
		}
	}
	return best, true
}

func ToOptResult(best bitstring.Chromosome, bestScore float64, evals int, h History, meta map[string]any) opt.Result {
	return opt.Result{
		Best:        best.Clone(),
		BestScore:   bestScore,
		Evaluations: evals,
		Iterations:  h.Len(),
		BestTrace:   h.BestScores(),
		MeanTrace:   h.Averages(),
		Meta:        meta,
	}
}
