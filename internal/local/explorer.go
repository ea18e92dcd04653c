// Package local implements single-parameter neighborhood exploration and
// the local search that drives it to a local optimum.
package local

import (
	"math/rand"

	"github.com/cwbudde/paramsearch/internal/problem"
)

// Explorer scans the neighborhood of sol and proposes one improving operation.
// It reports false when no single-parameter change improves the fitness.
type Explorer interface {
	FindOperation(inst problem.Instance, ev *problem.Evaluator, sol *problem.Solution) (problem.Operation, bool)
}

// FirstImprovement returns the first improving operation found while scanning
// parameters in random order and values in domain order.
type FirstImprovement struct {
	Rng *rand.Rand
}

func (f *FirstImprovement) FindOperation(inst problem.Instance, ev *problem.Evaluator, sol *problem.Solution) (problem.Operation, bool) {
	for _, p := range problem.RandomPermutation(f.Rng, inst.NumParameters()) {
		for v := 0; v < inst.DomainWidth(p); v++ {
			if v == sol.Values[p] {
				continue
			}
			delta := ev.DeltaFitness(inst, sol, p, v)
			if delta > 0 {
				return problem.Operation{Param: p, Value: v, Delta: delta}, true
			}
		}
	}
	return problem.Operation{}, false
}

// BestImprovement scans the whole neighborhood and returns the operation with
// the strictly largest positive delta. Ties keep the first in scan order.
type BestImprovement struct {
	Rng *rand.Rand
}

func (b *BestImprovement) FindOperation(inst problem.Instance, ev *problem.Evaluator, sol *problem.Solution) (problem.Operation, bool) {
	best := problem.Operation{}
	found := false
	for _, p := range problem.RandomPermutation(b.Rng, inst.NumParameters()) {
		for v := 0; v < inst.DomainWidth(p); v++ {
			if v == sol.Values[p] {
				continue
			}
			delta := ev.DeltaFitness(inst, sol, p, v)
			if delta > best.Delta {
				best = problem.Operation{Param: p, Value: v, Delta: delta}
				found = true
			}
		}
	}
	return best, found
}
