// Package ig implements iterated greedy: destroy part of the incumbent,
// rebuild it greedily, keep the result only when it improves.
package ig

import (
	"log/slog"
	"math/rand"

	"github.com/cwbudde/paramsearch/internal/problem"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// Greedy is an iterated greedy search over one incumbent.
type Greedy struct {
	Cfg Config

	inst problem.Instance
	ev   *problem.Evaluator
	rng  *rand.Rand

	sol     *problem.Solution
	best    *problem.Solution
	results []float64
}

// New validates cfg and creates an iterated greedy search for inst.
func New(cfg Config, inst problem.Instance, ev *problem.Evaluator, rng *rand.Rand) (*Greedy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Greedy{Cfg: cfg, inst: inst, ev: ev, rng: rng}, nil
}

func (g *Greedy) Name() string { return "ig" }

// chooseOperation returns the highest density assignment of a null parameter.
func (g *Greedy) chooseOperation() (problem.Operation, bool) {
	var best problem.Operation
	bestDensity := 0.0
	found := false
	for p := 0; p < g.inst.NumParameters(); p++ {
		if g.sol.Values[p] != 0 {
			continue
		}
		for v := 1; v < g.inst.DomainWidth(p); v++ {
			delta := g.ev.DeltaFitness(g.inst, g.sol, p, v)
			d := delta / float64(v)
			if !found || d > bestDensity {
				best = problem.Operation{Param: p, Value: v, Delta: delta}
				bestDensity = d
				found = true
			}
		}
	}
	return best, found
}

// rebuild greedily assigns null parameters while that improves fitness.
func (g *Greedy) rebuild(cond *stop.Condition) {
	op, ok := g.chooseOperation()
	for ok && op.Delta > 0 && !cond.Reached() {
		op.Apply(g.sol)
		g.results = append(g.results, g.sol.Fitness)
		op, ok = g.chooseOperation()
	}
}

// destroy resets each parameter to null with probability Alpha.
func (g *Greedy) destroy() {
	for p := range g.sol.Values {
		if g.rng.Float64() < g.Cfg.Alpha {
			g.sol.Set(p, 0)
		}
	}
	g.sol.Refresh(g.ev)
	g.results = append(g.results, g.sol.Fitness)
}

// Run performs the initial greedy build on first use, then destroy and
// rebuild cycles until cond is reached.
func (g *Greedy) Run(cond *stop.Condition) error {
	if g.sol == nil {
		g.sol = problem.NewSolution(g.inst)
		g.rebuild(cond)
		g.best = g.sol.Clone()
		slog.Debug("Iterated greedy initial build", "fitness", g.best.Fitness)
	}

	for !cond.Reached() {
		g.destroy()
		g.rebuild(cond)
		g.results = append(g.results, g.sol.Fitness)
		if g.ev.Better(g.sol.Fitness, g.best.Fitness) {
			g.best.CopyFrom(g.sol)
		} else {
			g.sol.CopyFrom(g.best)
		}
		cond.NotifyIteration()
	}
	return nil
}

func (g *Greedy) BestSolution() *problem.Solution { return g.best }

func (g *Greedy) Results() []float64 { return g.results }
