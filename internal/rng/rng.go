package rng

import (
	"errors"
	"math"
	"math/rand"
)

// ErrEmpty возвращается при попытке выбрать элемент из пустой последовательности.
var ErrEmpty = errors.New("empty sequence")

// Source — обёртка над *rand.Rand с операциями, которые нужны стохастическим операторам.
type Source struct {
	r *rand.Rand
}

// New создаёт источник с фиксированным сидом (воспроизводимые запуски).
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Wrap использует уже инициализированный генератор.
func Wrap(r *rand.Rand) *Source {
	if r == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	return &Source{r: r}
}

// Unit возвращает равномерное число из [0, 1).
func (s *Source) Unit() float64 {
	return s.r.Float64()
}

// Between возвращает целое из [min, max], обе границы включены.
// Равномерная выборка масштабируется и округляется вниз, поэтому max достижим.
func (s *Source) Between(min, max int) int {
	if min > max {
		panic("invalid bounds: min > max")
	}
	v := int(math.Floor(s.r.Float64()*float64(max-min+1))) + min
	// Float64 < 1, но после умножения на большой диапазон возможно округление вверх
	if v > max {
		v = max
	}
	return v
}

// Index возвращает случайный индекс в [0, n).
func (s *Source) Index(n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmpty
	}
	return s.Between(0, n-1), nil
}

// Pick возвращает случайный элемент последовательности.
func Pick[T any](s *Source, seq []T) (T, error) {
	i, err := s.Index(len(seq))
	if err != nil {
		var zero T
		return zero, err
	}
	return seq[i], nil
}
