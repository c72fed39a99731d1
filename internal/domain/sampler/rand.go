package sampler

import (
	"math"
	"math/rand/v2"
)

// Chance reports true with the given percentage probability.
func Chance(rng *rand.Rand, percent float64) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return rng.Float64()*100 < percent
}

func OneIn(rng *rand.Rand, n int) bool {
	if n <= 1 {
		return true
	}
	return rng.IntN(n) == 0
}

// Between draws an int in [lo, hi].
func Between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// Below draws an int in [lo, hi).
func Below(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo)
}

// Float draws a float in [lo, hi) rounded to the given number of decimals.
func Float(rng *rand.Rand, lo, hi float64, decimals int) float64 {
	v := lo + rng.Float64()*(hi-lo)
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
