package sampler

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
)

const Total = 100

var (
	ErrWeightsNotHundred = errors.New("weights must sum to exactly 100")
	ErrNegativeWeight    = errors.New("weights must not be negative")
	ErrEmpty             = errors.New("weighted table has no entries")
)

type Entry[T any] struct {
	Value  T
	Weight int
}

func E[T any](value T, weight int) Entry[T] {
	return Entry[T]{Value: value, Weight: weight}
}

// Weighted is a validated percentage table. Entries are kept ascending by
// weight, so lower-weight values own the upper end of the [0,100) range.
type Weighted[T any] struct {
	entries []Entry[T]
}

func New[T any](entries ...Entry[T]) (Weighted[T], error) {
	if len(entries) == 0 {
		return Weighted[T]{}, ErrEmpty
	}
	sum := 0
	for _, e := range entries {
		if e.Weight < 0 {
			return Weighted[T]{}, fmt.Errorf("%w: %d", ErrNegativeWeight, e.Weight)
		}
		sum += e.Weight
	}
	if sum != Total {
		return Weighted[T]{}, fmt.Errorf("%w: got %d", ErrWeightsNotHundred, sum)
	}
	sorted := make([]Entry[T], len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight < sorted[j].Weight
	})
	return Weighted[T]{entries: sorted}, nil
}

// MustNew is for static tables declared at package level.
func MustNew[T any](entries ...Entry[T]) Weighted[T] {
	w, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Weighted[T]) Draw(rng *rand.Rand) T {
	return w.at(rng.IntN(Total))
}

func (w Weighted[T]) at(p int) T {
	remaining := Total
	for _, e := range w.entries {
		remaining -= e.Weight
		if p >= remaining {
			return e.Value
		}
	}
	return w.entries[len(w.entries)-1].Value
}

func (w Weighted[T]) Len() int {
	return len(w.entries)
}
