// Package experiment builds configured metaheuristics and runs seeded
// comparisons of them.
package experiment

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/paramsearch/internal/config"
	"github.com/cwbudde/paramsearch/internal/local"
	"github.com/cwbudde/paramsearch/internal/meta"
	"github.com/cwbudde/paramsearch/internal/meta/aco"
	"github.com/cwbudde/paramsearch/internal/meta/ga"
	"github.com/cwbudde/paramsearch/internal/meta/grasp"
	"github.com/cwbudde/paramsearch/internal/meta/ig"
	"github.com/cwbudde/paramsearch/internal/meta/sa"
	"github.com/cwbudde/paramsearch/internal/meta/ts"
	"github.com/cwbudde/paramsearch/internal/problem"
)

// Build creates the metaheuristic selected by alg. Strategies that need a
// starting point get a random solution.
func Build(alg config.AlgorithmConfig, inst problem.Instance, ev *problem.Evaluator, rng *rand.Rand) (meta.Metaheuristic, error) {
	var (
		m   meta.Metaheuristic
		err error
	)
	switch alg.Name {
	case config.AlgorithmSA:
		m, err = sa.New(alg.SA, inst, ev, rng)
	case config.AlgorithmTS:
		m, err = ts.New(alg.TS, inst, ev, rng)
	case config.AlgorithmGRASP:
		m, err = grasp.New(alg.GRASP, inst, ev, rng)
	case config.AlgorithmIG:
		m, err = ig.New(alg.IG, inst, ev, rng)
	case config.AlgorithmACO:
		m, err = aco.New(alg.ACO, inst, ev, rng)
	case config.AlgorithmGA:
		m, err = ga.New(alg.GA, inst, ev, rng)
	case config.AlgorithmLSFirst:
		m = local.NewRunner(local.PolicyFirst, inst, ev, rng)
	case config.AlgorithmLSBest:
		m = local.NewRunner(local.PolicyBest, inst, ev, rng)
	default:
		return nil, fmt.Errorf("unknown algorithm %q", alg.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialise %s: %w", alg.Name, err)
	}

	if setter, ok := m.(meta.SolutionSetter); ok {
		if err := setter.SetSolution(problem.RandomSolution(inst, ev, rng)); err != nil {
			return nil, fmt.Errorf("failed to set initial solution for %s: %w", alg.Name, err)
		}
	}
	return m, nil
}
