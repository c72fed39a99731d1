package sampler

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestNewRejectsWeightsNotSummingToHundred(t *testing.T) {
	cases := [][]Entry[string]{
		{E("a", 30), E("b", 60)},
		{E("a", 50), E("b", 51)},
		{E("a", 0)},
		{E("a", 100), E("b", 1)},
		{E("a", 99)},
	}
	for i, entries := range cases {
		_, err := New(entries...)
		if !errors.Is(err, ErrWeightsNotHundred) {
			t.Fatalf("case %d: expected ErrWeightsNotHundred, got %v", i, err)
		}
	}
}

func TestNewRejectsNegativeAndEmpty(t *testing.T) {
	if _, err := New(E("a", 110), E("b", -10)); !errors.Is(err, ErrNegativeWeight) {
		t.Fatalf("expected ErrNegativeWeight, got %v", err)
	}
	if _, err := New[string](); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestMustNewPanicsOnInvalidTable(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for invalid table")
		}
	}()
	_ = MustNew(E(1, 40), E(2, 40))
}

func TestLowerWeightOwnsUpperRange(t *testing.T) {
	w := MustNew(E("b", 70), E("a", 30))
	for p := 0; p < 70; p++ {
		if got := w.at(p); got != "b" {
			t.Fatalf("expected b at p=%d, got %s", p, got)
		}
	}
	for p := 70; p < 100; p++ {
		if got := w.at(p); got != "a" {
			t.Fatalf("expected a at p=%d, got %s", p, got)
		}
	}
}

func TestEqualWeightsKeepInsertionOrder(t *testing.T) {
	w := MustNew(E("x", 50), E("y", 50))
	if got := w.at(99); got != "x" {
		t.Fatalf("expected first inserted entry to own top bracket, got %s", got)
	}
	if got := w.at(0); got != "y" {
		t.Fatalf("expected second entry to own bottom bracket, got %s", got)
	}
}

func TestZeroWeightNeverDrawn(t *testing.T) {
	w := MustNew(E("never", 0), E("always", 100))
	for p := 0; p < 100; p++ {
		if got := w.at(p); got != "always" {
			t.Fatalf("expected always at p=%d, got %s", p, got)
		}
	}
}

func TestDrawFrequencyMatchesWeights(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	w := MustNew(E("A", 30), E("B", 70))
	const draws = 10000
	countA := 0
	for i := 0; i < draws; i++ {
		if w.Draw(rng) == "A" {
			countA++
		}
	}
	freq := float64(countA) / draws
	if math.Abs(freq-0.30) > 0.03 {
		t.Fatalf("expected A frequency near 0.30, got %.3f", freq)
	}
}

func TestRangeHelpersStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 1000; i++ {
		if v := Between(rng, 15, 25); v < 15 || v > 25 {
			t.Fatalf("Between out of range: %d", v)
		}
		if v := Below(rng, 5, 10); v < 5 || v >= 10 {
			t.Fatalf("Below out of range: %d", v)
		}
		if v := Float(rng, 0.535, 2.14, 3); v < 0.535 || v > 2.14 {
			t.Fatalf("Float out of range: %f", v)
		}
	}
	if Chance(rng, 0) {
		t.Fatalf("expected 0%% chance to never fire")
	}
	if !Chance(rng, 100) {
		t.Fatalf("expected 100%% chance to always fire")
	}
}
