// Package grasp implements a greedy randomized adaptive search procedure:
// randomized density-greedy construction followed by first-improvement
// local search, restarted until the budget runs out.
package grasp

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/cwbudde/paramsearch/internal/local"
	"github.com/cwbudde/paramsearch/internal/meta"
	"github.com/cwbudde/paramsearch/internal/problem"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// Grasp alternates randomized greedy construction with first-improvement
// descent.
type Grasp struct {
	Cfg Config

	inst     problem.Instance
	ev       *problem.Evaluator
	rng      *rand.Rand
	explorer local.Explorer
	numTries int

	sol     *problem.Solution
	best    *problem.Solution
	results []float64
}

// New validates cfg and creates a GRASP search for inst.
func New(cfg Config, inst problem.Instance, ev *problem.Evaluator, rng *rand.Rand) (*Grasp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Grasp{
		Cfg:      cfg,
		inst:     inst,
		ev:       ev,
		rng:      rng,
		explorer: &local.FirstImprovement{Rng: rng},
		numTries: max(1, int(cfg.Alpha*float64(problem.TotalWidth(inst)))),
	}, nil
}

func (g *Grasp) Name() string { return "grasp" }

// density ranks a move by its delta per unit of value change.
func density(delta float64, from, to int) float64 {
	return delta / math.Abs(float64(from-to))
}

// chooseOperation samples numTries random value changes and keeps the one
// with the highest density.
func (g *Grasp) chooseOperation() (problem.Operation, bool) {
	var best problem.Operation
	bestDensity := 0.0
	found := false
	for try := 0; try < g.numTries; try++ {
		p := g.rng.Intn(g.inst.NumParameters())
		width := g.inst.DomainWidth(p)
		if width < 2 {
			continue
		}
		cur := g.sol.Values[p]
		v := g.rng.Intn(width - 1)
		if v >= cur {
			v++
		}
		delta := g.ev.DeltaFitness(g.inst, g.sol, p, v)
		d := density(delta, cur, v)
		if !found || d > bestDensity {
			best = problem.Operation{Param: p, Value: v, Delta: delta}
			bestDensity = d
			found = true
		}
	}
	return best, found
}

// buildInitialSolution restarts from the all-null assignment and applies
// sampled operations while they improve.
func (g *Grasp) buildInitialSolution(cond *stop.Condition) {
	g.sol = problem.NewSolution(g.inst)
	op, ok := g.chooseOperation()
	for ok && op.Delta > 0 && !cond.Reached() {
		op.Apply(g.sol)
		g.results = append(g.results, g.sol.Fitness)
		op, ok = g.chooseOperation()
	}
}

// Run restarts construction and local search until cond is reached.
func (g *Grasp) Run(cond *stop.Condition) error {
	if g.numTries == 0 {
		return fmt.Errorf("grasp: %w", meta.ErrNotInitialised)
	}
	// At least one construction runs so a best solution always exists.
	restarts := 0
	for first := true; first || !cond.Reached(); first = false {
		g.buildInitialSolution(cond)
		g.results = append(g.results, g.sol.Fitness)
		g.results = append(g.results, local.OptimiseWithin(g.inst, g.ev, g.explorer, g.sol, cond)...)

		if g.best == nil || g.ev.Better(g.sol.Fitness, g.best.Fitness) {
			g.best = g.sol.Clone()
		}
		restarts++
		cond.NotifyIteration()
	}
	slog.Debug("GRASP finished", "restarts", restarts, "best", g.bestFitness())
	return nil
}

func (g *Grasp) bestFitness() float64 {
	if g.best == nil {
		return math.Inf(-1)
	}
	return g.best.Fitness
}

func (g *Grasp) BestSolution() *problem.Solution { return g.best }

func (g *Grasp) Results() []float64 { return g.results }
