package bonus

import "math"

// LinearAdoption returns base + slope×bonus, clamped to [0, ceiling].
// A ceiling outside (0, 1] is treated as 1.
func LinearAdoption(base, slope, ceiling float64) AdoptionFunc {
	ceiling = normalizeCeiling(ceiling)
	return func(bonus float64) float64 {
		return clamp(base+slope*bonus, ceiling)
	}
}

// LogisticAdoption returns an S-curve reaching ceiling/2 at midpoint.
// Steepness controls how quickly adoption rises around the midpoint; it must
// be non-negative for the function to be non-decreasing.
func LogisticAdoption(midpoint, steepness, ceiling float64) AdoptionFunc {
	ceiling = normalizeCeiling(ceiling)
	return func(bonus float64) float64 {
		return clamp(ceiling/(1+math.Exp(-steepness*(bonus-midpoint))), ceiling)
	}
}

func normalizeCeiling(c float64) float64 {
	if !(c > 0) || c > 1 {
		return 1
	}
	return c
}

func clamp(p, ceiling float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > ceiling:
		return ceiling
	}
	return p
}
