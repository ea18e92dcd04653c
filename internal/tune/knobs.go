// Package tune searches the continuous hyper-parameters of an algorithm
// with a continuous optimizer, scoring each candidate by seeded runs.
package tune

import (
	"fmt"
	"math"

	"github.com/cwbudde/paramsearch/internal/config"
)

// Knob is one tunable hyper-parameter with its search interval.
type Knob struct {
	Name  string
	Lower float64
	Upper float64
	Apply func(alg *config.AlgorithmConfig, v float64)
}

// Knobs returns the tunable hyper-parameters of algorithm for an instance
// with numParameters parameters.
func Knobs(algorithm string, numParameters int) ([]Knob, error) {
	switch algorithm {
	case config.AlgorithmSA:
		return []Knob{
			{"initial_prob", 0.05, 0.99, func(a *config.AlgorithmConfig, v float64) { a.SA.InitialProb = v }},
			{"annealing_factor", 0.9, 0.99999, func(a *config.AlgorithmConfig, v float64) { a.SA.AnnealingFactor = v }},
		}, nil
	case config.AlgorithmTS:
		return []Knob{
			{"tenure", 1, float64(max(1, numParameters-1)), func(a *config.AlgorithmConfig, v float64) { a.TS.Tenure = int(math.Round(v)) }},
		}, nil
	case config.AlgorithmGRASP:
		return []Knob{
			{"alpha", 0.01, 1, func(a *config.AlgorithmConfig, v float64) { a.GRASP.Alpha = v }},
		}, nil
	case config.AlgorithmIG:
		return []Knob{
			{"alpha", 0.01, 1, func(a *config.AlgorithmConfig, v float64) { a.IG.Alpha = v }},
		}, nil
	case config.AlgorithmACO:
		return []Knob{
			{"q0", 0, 1, func(a *config.AlgorithmConfig, v float64) { a.ACO.Q0 = v }},
			{"beta", 0, 5, func(a *config.AlgorithmConfig, v float64) { a.ACO.Beta = v }},
		}, nil
	case config.AlgorithmGA:
		return []Knob{
			{"cross_prob", 0, 1, func(a *config.AlgorithmConfig, v float64) { a.GA.CrossProb = v }},
			{"mut_prob", 0.001, 0.5, func(a *config.AlgorithmConfig, v float64) { a.GA.MutProb = v }},
		}, nil
	}
	return nil, fmt.Errorf("algorithm %q has no tunable parameters", algorithm)
}

func bounds(knobs []Knob) (lower, upper []float64) {
	for _, k := range knobs {
		lower = append(lower, k.Lower)
		upper = append(upper, k.Upper)
	}
	return lower, upper
}
