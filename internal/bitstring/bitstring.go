package bitstring

import (
	"fmt"
	"strings"

	"bitGA/internal/rng"
)

// Chromosome is a fixed-length sequence of bits, one byte (0 or 1) per gene.
type Chromosome []byte

// Population is an ordered set of chromosomes of equal length.
type Population []Chromosome

func (c Chromosome) Clone() Chromosome {
	out := make(Chromosome, len(c))
	copy(out, c)
	return out
}

// Ones counts the 1 bits.
func (c Chromosome) Ones() int {
	n := 0
	for _, b := range c {
		if b == 1 {
			n++
		}
	}
	return n
}

// Flip inverts the bit at position i.
func (c Chromosome) Flip(i int) {
	c[i] ^= 1
}

func (c Chromosome) Equal(o Chromosome) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

func (c Chromosome) String() string {
	var sb strings.Builder
	sb.Grow(len(c))
	for _, b := range c {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

func (c Chromosome) Validate(length int) error {
	if len(c) != length {
		return fmt.Errorf("chromosome length must be %d (got %d)", length, len(c))
	}
	for i, b := range c {
		if b > 1 {
			return fmt.Errorf("bit[%d]=%d is not 0 or 1", i, b)
		}
	}
	return nil
}

// Parse reads a chromosome from text such as "01101".
func Parse(s string) (Chromosome, error) {
	s = strings.TrimSpace(s)
	c := make(Chromosome, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			c[i] = 0
		case '1':
			c[i] = 1
		default:
			return nil, fmt.Errorf("invalid bit %q at position %d", s[i], i)
		}
	}
	return c, nil
}

// Random generates a chromosome where each bit is 1 when a uniform sample exceeds 0.5.
func Random(length int, src *rng.Source) Chromosome {
	c := make(Chromosome, length)
	for i := range c {
		if src.Unit() > 0.5 {
			c[i] = 1
		}
	}
	return c
}

// RandomPopulation generates size independent random chromosomes.
func RandomPopulation(size, length int, src *rng.Source) Population {
	if src == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	pop := make(Population, size)
	for i := range pop {
		pop[i] = Random(length, src)
	}
	return pop
}

// Clone deep-copies every chromosome so the result shares no backing arrays with p.
func (p Population) Clone() Population {
	out := make(Population, len(p))
	for i, c := range p {
		out[i] = c.Clone()
	}
	return out
}

func (p Population) Validate(size, length int) error {
	if len(p) != size {
		return fmt.Errorf("population size must be %d (got %d)", size, len(p))
	}
	for i, c := range p {
		if err := c.Validate(length); err != nil {
			return fmt.Errorf("member %d: %w", i, err)
		}
	}
	return nil
}
