package meta

import "math"

// BestSoFar returns the running maximum of results.
func BestSoFar(results []float64) []float64 {
	out := make([]float64, len(results))
	best := math.Inf(-1)
	for i, f := range results {
		if f > best {
			best = f
		}
		out[i] = best
	}
	return out
}

// Best returns the maximum of results, or -Inf when empty.
func Best(results []float64) float64 {
	best := math.Inf(-1)
	for _, f := range results {
		if f > best {
			best = f
		}
	}
	return best
}
