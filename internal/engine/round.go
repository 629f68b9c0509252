package engine

import "math"

// Round1 rounds to 1 decimal place (liters).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to 2 decimal places (percents, hours).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CloseBuckets forces a set of buckets to sum exactly to the rounded total.
// Every bucket except parts[absorb] is rounded to 2 decimals independently;
// the absorbed bucket is derived by subtraction from the rounded total and
// clamped at zero. Returns the closed buckets and whether the clamp fired
// (the caller logs that case; it only happens under rounding noise).
func CloseBuckets(total float64, parts []float64, absorb int) ([]float64, bool) {
	closed := make([]float64, len(parts))
	rest := Round2(total)

	for i, p := range parts {
		if i == absorb {
			continue
		}
		closed[i] = Round2(p)
		rest -= closed[i]
	}

	clamped := false
	if rest < 0 {
		rest = 0
		clamped = true
	}
	closed[absorb] = Round2(rest)

	return closed, clamped
}
