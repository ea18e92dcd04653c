package problem

import "sync/atomic"

// Evaluator prices solutions and single-parameter changes and counts the
// delta evaluations it performs. Each run owns its own Evaluator.
type Evaluator struct {
	count atomic.Int64
}

// NewEvaluator returns an evaluator with a zero counter.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Fitness scores the full assignment of sol. It is not counted.
func (e *Evaluator) Fitness(inst Instance, sol *Solution) float64 {
	return inst.Fitness(sol.Values)
}

// DeltaFitness returns the fitness change of setting param to value, relative
// to the cached fitness of sol. The assignment is restored before returning
// and the cached fitness is left untouched. Counts one evaluation.
func (e *Evaluator) DeltaFitness(inst Instance, sol *Solution, param, value int) float64 {
	e.count.Add(1)
	old := sol.Values[param]
	sol.Values[param] = value
	after := inst.Fitness(sol.Values)
	sol.Values[param] = old
	return after - sol.Fitness
}

// Compare is positive when f1 is strictly better than f2 and zero on ties.
// Higher fitness is better.
func (e *Evaluator) Compare(f1, f2 float64) float64 {
	return f1 - f2
}

// Better reports whether f1 is strictly better than f2.
func (e *Evaluator) Better(f1, f2 float64) bool {
	return e.Compare(f1, f2) > 0
}

// ChargeFull adds n full-solution evaluations to the counter. Population
// based strategies that score whole genomes use it to share the budget.
func (e *Evaluator) ChargeFull(n int64) {
	e.count.Add(n)
}

// Count returns the number of evaluations charged so far.
func (e *Evaluator) Count() int64 {
	return e.count.Load()
}

// Reset zeroes the evaluation counter.
func (e *Evaluator) Reset() {
	e.count.Store(0)
}
