package opt

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// MayflyAdapter wraps the Mayfly library to conform to our Optimizer interface.
// The library uses scalar bounds, so the search runs on the unit cube and
// positions are mapped onto the per-dimension box.
type MayflyAdapter struct {
	maxIters int
	popSize  int
	seed     int64
}

// NewMayfly creates a new Mayfly optimizer adapter. popSize must be at least 20.
func NewMayfly(maxIters, popSize int, seed int64) *MayflyAdapter {
	return &MayflyAdapter{
		maxIters: maxIters,
		popSize:  popSize,
		seed:     seed,
	}
}

// Minimize runs Mayfly on the unit cube.
func (m *MayflyAdapter) Minimize(objective func([]float64) float64, lower, upper []float64) (Result, error) {
	if len(lower) == 0 || len(lower) != len(upper) {
		return Result{}, fmt.Errorf("bounds mismatch: %d lower, %d upper", len(lower), len(upper))
	}
	if m.popSize < 20 {
		return Result{}, fmt.Errorf("mayfly population must be >= 20, got %d", m.popSize)
	}

	evals := 0
	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = func(unit []float64) float64 {
		evals++
		return objective(Denormalize(unit, lower, upper))
	}
	config.ProblemSize = len(lower)
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize
	config.LowerBound = 0
	config.UpperBound = 1
	config.Rand = rand.New(rand.NewSource(m.seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		return Result{}, fmt.Errorf("mayfly optimization failed: %w", err)
	}
	return Result{
		Params:      Denormalize(result.GlobalBest.Position, lower, upper),
		Cost:        result.GlobalBest.Cost,
		Evaluations: evals,
	}, nil
}

// Denormalize maps a unit-cube point onto the box, clamping stray coordinates.
func Denormalize(unit, lower, upper []float64) []float64 {
	x := make([]float64, len(unit))
	for i, u := range unit {
		u = math.Min(1, math.Max(0, u))
		x[i] = lower[i] + u*(upper[i]-lower[i])
	}
	return x
}
