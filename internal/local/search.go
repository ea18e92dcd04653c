package local

import (
	"log/slog"
	"math/rand"

	"github.com/cwbudde/paramsearch/internal/problem"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// Optimise applies improving operations found by explorer until none is left.
// It returns the fitness trajectory: the starting fitness followed by the
// fitness after every applied operation.
func Optimise(inst problem.Instance, ev *problem.Evaluator, explorer Explorer, sol *problem.Solution) []float64 {
	return OptimiseWithin(inst, ev, explorer, sol, nil)
}

// OptimiseWithin is Optimise bounded by cond. A nil cond never stops early.
func OptimiseWithin(inst problem.Instance, ev *problem.Evaluator, explorer Explorer, sol *problem.Solution, cond *stop.Condition) []float64 {
	results := []float64{sol.Fitness}
	for cond == nil || !cond.Reached() {
		op, ok := explorer.FindOperation(inst, ev, sol)
		if !ok {
			break
		}
		op.Apply(sol)
		results = append(results, sol.Fitness)
	}
	return results
}

// Policy selects the neighborhood explorer of a Runner.
type Policy string

const (
	PolicyFirst Policy = "first"
	PolicyBest  Policy = "best"
)

// NewExplorer returns the explorer for policy. Unknown policies fall back to
// first improvement.
func NewExplorer(policy Policy, rng *rand.Rand) Explorer {
	if policy == PolicyBest {
		return &BestImprovement{Rng: rng}
	}
	return &FirstImprovement{Rng: rng}
}

// Runner runs local search from a random start as a standalone strategy.
// It restarts from a new random solution each time a local optimum is
// reached, until the stop condition fires.
type Runner struct {
	policy   Policy
	inst     problem.Instance
	ev       *problem.Evaluator
	rng      *rand.Rand
	explorer Explorer

	best    *problem.Solution
	results []float64
}

// NewRunner creates a local search runner.
func NewRunner(policy Policy, inst problem.Instance, ev *problem.Evaluator, rng *rand.Rand) *Runner {
	return &Runner{
		policy:   policy,
		inst:     inst,
		ev:       ev,
		rng:      rng,
		explorer: NewExplorer(policy, rng),
	}
}

func (r *Runner) Name() string { return "ls-" + string(r.policy) }

// Run performs descents until cond is reached. At least one descent runs.
func (r *Runner) Run(cond *stop.Condition) error {
	for {
		sol := problem.RandomSolution(r.inst, r.ev, r.rng)
		r.results = append(r.results, OptimiseWithin(r.inst, r.ev, r.explorer, sol, cond)...)
		if r.best == nil || r.ev.Better(sol.Fitness, r.best.Fitness) {
			r.best = sol
		}
		slog.Debug("Local search descent finished", "policy", r.policy, "fitness", sol.Fitness)
		cond.NotifyIteration()
		if cond.Reached() {
			return nil
		}
	}
}

func (r *Runner) BestSolution() *problem.Solution { return r.best }

func (r *Runner) Results() []float64 { return r.results }
