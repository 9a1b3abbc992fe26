package fitness

import (
	"fmt"
	"strings"

	"bitGA/internal/bitstring"
	"bitGA/internal/opt"
)

// DefaultDeceptiveReward is the multiplier applied to the chromosome length
// when a deceptive problem sees an all-zero chromosome.
const DefaultDeceptiveReward = 2.0

type Mode string

const (
	ModeOneMax    Mode = "onemax"
	ModeDeceptive Mode = "deceptive"
	ModeTarget    Mode = "target"
	ModeKnapsack  Mode = "knapsack"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeOneMax, ModeDeceptive, ModeTarget, ModeKnapsack:
		return m, nil
	case "one-max":
		return ModeOneMax, nil
	default:
		return "", opt.Invalid("unknown fitness mode %q", s)
	}
}

// KnapsackParams holds parallel weight/value slices and the capacity.
type KnapsackParams struct {
	Weight []float64
	Value  []float64
	Size   float64
}

// Params carries the mode-specific inputs; only the fields of the chosen mode are read.
type Params struct {
	Target          bitstring.Chromosome
	Knapsack        *KnapsackParams
	DeceptiveReward float64 // 0 => DefaultDeceptiveReward
}

// New resolves the mode once and returns the typed problem.
func New(mode Mode, p Params) (opt.Problem, error) {
	switch mode {
	case ModeOneMax:
		return OneMax{}, nil
	case ModeDeceptive:
		reward := p.DeceptiveReward
		if reward == 0 {
			reward = DefaultDeceptiveReward
		}
		if reward < 0 {
			return nil, opt.Invalid("deceptive reward must be >= 0 (got %f)", reward)
		}
		return Deceptive{Reward: reward}, nil
	case ModeTarget:
		if len(p.Target) == 0 {
			return nil, opt.Invalid("target mode requires a target sequence")
		}
		return Target{Bits: p.Target.Clone()}, nil
	case ModeKnapsack:
		if p.Knapsack == nil {
			return nil, opt.Invalid("knapsack mode requires weight/value/size")
		}
		k := Knapsack{
			Weight: append([]float64(nil), p.Knapsack.Weight...),
			Value:  append([]float64(nil), p.Knapsack.Value...),
			Size:   p.Knapsack.Size,
		}
		if len(k.Weight) != len(k.Value) {
			return nil, opt.Invalid("knapsack weight and value lengths differ (%d != %d)", len(k.Weight), len(k.Value))
		}
		return k, nil
	default:
		return nil, opt.Invalid("unknown fitness mode %q", mode)
	}
}

type OneMax struct{}

func (OneMax) Name() string { return string(ModeOneMax) }

func (OneMax) Score(c bitstring.Chromosome) float64 { return float64(c.Ones()) }

func (OneMax) Validate(length int) error {
	if length <= 0 {
		return opt.Invalid("chromosome length must be > 0 (got %d)", length)
	}
	return nil
}

// Deceptive scores like OneMax, except the all-zero chromosome is the global optimum.
type Deceptive struct {
	Reward float64
}

func (Deceptive) Name() string { return string(ModeDeceptive) }

func (d Deceptive) Score(c bitstring.Chromosome) float64 {
	ones := c.Ones()
	if ones == 0 {
		return d.Reward * float64(len(c))
	}
	return float64(ones)
}

func (Deceptive) Validate(length int) error { return OneMax{}.Validate(length) }

// Target counts matches against Bits; positions past len(Bits) are not scored.
type Target struct {
	Bits bitstring.Chromosome
}

func (Target) Name() string { return string(ModeTarget) }

func (t Target) Score(c bitstring.Chromosome) float64 {
	score := 0
	for i := 0; i < len(t.Bits) && i < len(c); i++ {
		if c[i] == t.Bits[i] {
			score++
		}
	}
	return float64(score)
}

func (t Target) Validate(length int) error {
	if err := (OneMax{}).Validate(length); err != nil {
		return err
	}
	if len(t.Bits) == 0 {
		return opt.Invalid("target sequence is empty")
	}
	if len(t.Bits) > length {
		return opt.Invalid("target length %d exceeds chromosome length %d", len(t.Bits), length)
	}
	if err := t.Bits.Validate(len(t.Bits)); err != nil {
		return fmt.Errorf("%w: target: %v", opt.ErrInvalidConfiguration, err)
	}
	return nil
}

// Knapsack is a greedy, order-dependent inclusion score, not an optimal solve.
type Knapsack struct {
	Weight []float64
	Value  []float64
	Size   float64
}

func (Knapsack) Name() string { return string(ModeKnapsack) }

func (k Knapsack) Score(c bitstring.Chromosome) float64 {
	score, weight := 0.0, 0.0
	// Positions past Weight/Value are not scored.
	n := min(len(c), len(k.Weight), len(k.Value))
	for i := 0; i < n; i++ {
		if c[i] == 1 && weight+k.Weight[i] <= k.Size {
			score += k.Value[i]
			weight += k.Weight[i]
		}
	}
	return score
}

func (k Knapsack) Validate(length int) error {
	if err := (OneMax{}).Validate(length); err != nil {
		return err
	}
	if len(k.Weight) < length || len(k.Value) < length {
		return opt.Invalid("knapsack weight/value lengths (%d/%d) must be >= chromosome length %d",
			len(k.Weight), len(k.Value), length)
	}
	if k.Size < 0 {
		return opt.Invalid("knapsack size must be >= 0 (got %f)", k.Size)
	}
	for i := 0; i < length; i++ {
		if k.Weight[i] < 0 || k.Value[i] < 0 {
			return opt.Invalid("knapsack item %d has negative weight or value", i)
		}
	}
	return nil
}

// Optimum returns the best reachable score when it is known analytically.
func Optimum(p opt.Problem, length int) (float64, bool) {
	switch v := p.(type) {
	case OneMax:
		return float64(length), true
	case Deceptive:
		return max(v.Reward*float64(length), float64(length)), true
	case Target:
		return float64(len(v.Bits)), true
	default:
		return 0, false
	}
}
