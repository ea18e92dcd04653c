// Package aco implements an ant colony system over parameter assignments.
// Ants assign one parameter per step, guided by move density and a
// pheromone matrix updated locally by every move and globally by the
// best-so-far solution.
package aco

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/cwbudde/paramsearch/internal/meta"
	"github.com/cwbudde/paramsearch/internal/problem"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// Colony is an ant colony system. Cfg may be tuned before the first Run.
type Colony struct {
	Cfg Config

	inst problem.Instance
	ev   *problem.Evaluator
	rng  *rand.Rand

	pheromone *Pheromone
	ants      []*ant
	best      *problem.Solution

	results          []float64
	bestPerIteration []float64
	meanPerIteration []float64
}

// New creates a colony whose best-so-far starts at a random solution.
func New(cfg Config, inst problem.Instance, ev *problem.Evaluator, rng *rand.Rand) (*Colony, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Colony{
		Cfg:       cfg,
		inst:      inst,
		ev:        ev,
		rng:       rng,
		pheromone: NewPheromone(inst, cfg.InitTau),
		ants:      make([]*ant, cfg.NumAnts),
		best:      problem.RandomSolution(inst, ev, rng),
	}
	for i := range c.ants {
		c.ants[i] = &ant{}
	}
	return c, nil
}

func (c *Colony) Name() string { return "aco" }

// Run releases the colony once per iteration until cond is reached.
func (c *Colony) Run(cond *stop.Condition) error {
	if c.pheromone == nil {
		return fmt.Errorf("aco: %w", meta.ErrNotInitialised)
	}
	for !cond.Reached() {
		c.releaseAnts(cond)
		c.saveStatistics()
		c.pheromone.Reinforce(c.best, c.Cfg.Evaporation, c.Cfg.InitTau)
		cond.NotifyIteration()
	}
	slog.Debug("Ant colony finished", "iterations", len(c.bestPerIteration), "best", c.best.Fitness)
	return nil
}

// releaseAnts lets every ant construct a solution, one step per ant in turn.
func (c *Colony) releaseAnts(cond *stop.Condition) {
	for _, a := range c.ants {
		a.reset(c.inst)
	}
	for moving := len(c.ants); moving > 0 && !cond.Reached(); {
		moving = 0
		for _, a := range c.ants {
			if !a.moving {
				continue
			}
			c.step(a)
			if a.moving {
				moving++
			}
		}
	}
	for _, a := range c.ants {
		if c.ev.Better(a.sol.Fitness, c.best.Fitness) {
			c.best.CopyFrom(a.sol)
		}
	}
}

// step applies one move for a, or stops it when no positive move remains.
func (c *Colony) step(a *ant) {
	var (
		op problem.Operation
		ok bool
	)
	if c.rng.Float64() < c.Cfg.Q0 {
		op, ok = c.selectBest(a)
	} else {
		op, ok = c.selectProportional(a)
	}
	if !ok {
		a.moving = false
		return
	}
	op.Apply(a.sol)
	a.consume(op.Param)
	c.pheromone.LocalUpdate(op.Param, op.Value, c.Cfg.Evaporation, c.Cfg.InitTau)
}

// scan visits positive moves of the ant's remaining parameters, spending at
// most CandidateListSize delta evaluations.
func (c *Colony) scan(a *ant, visit func(candidate)) {
	tries := 0
	for _, p := range a.left {
		cur := a.sol.Values[p]
		for v := 0; v < c.inst.DomainWidth(p); v++ {
			if v == cur {
				continue
			}
			if tries >= c.Cfg.CandidateListSize {
				return
			}
			tries++
			delta := c.ev.DeltaFitness(c.inst, a.sol, p, v)
			if delta <= 0 {
				continue
			}
			visit(candidate{
				op:           problem.Operation{Param: p, Value: v, Delta: delta},
				significance: c.significance(delta, p, cur, v),
			})
		}
	}
}

// significance is density^beta * tau^alpha.
func (c *Colony) significance(delta float64, param, from, to int) float64 {
	density := delta / math.Abs(float64(from-to))
	return fastPow(density, c.Cfg.Beta) * fastPow(c.pheromone.Get(param, to), c.Cfg.Alpha)
}

func (c *Colony) selectBest(a *ant) (problem.Operation, bool) {
	var best problem.Operation
	bestSig := -1.0
	found := false
	c.scan(a, func(cand candidate) {
		if cand.significance > bestSig {
			best = cand.op
			bestSig = cand.significance
			found = true
		}
	})
	return best, found
}

// selectProportional samples a positive move with probability proportional
// to its significance.
func (c *Colony) selectProportional(a *ant) (problem.Operation, bool) {
	var alternatives []candidate
	sum := 0.0
	c.scan(a, func(cand candidate) {
		alternatives = append(alternatives, cand)
		sum += cand.significance
	})
	if len(alternatives) == 0 {
		return problem.Operation{}, false
	}
	if sum <= 0 {
		return alternatives[c.rng.Intn(len(alternatives))].op, true
	}
	r := c.rng.Float64() * sum
	acc := 0.0
	for _, cand := range alternatives {
		acc += cand.significance
		if r <= acc {
			return cand.op, true
		}
	}
	return alternatives[len(alternatives)-1].op, true
}

func (c *Colony) saveStatistics() {
	best := math.Inf(-1)
	sum := 0.0
	for _, a := range c.ants {
		c.results = append(c.results, a.sol.Fitness)
		sum += a.sol.Fitness
		best = math.Max(best, a.sol.Fitness)
	}
	c.bestPerIteration = append(c.bestPerIteration, best)
	c.meanPerIteration = append(c.meanPerIteration, sum/float64(len(c.ants)))
}

func fastPow(x, p float64) float64 {
	switch p {
	case 0:
		return 1
	case 1:
		return x
	case 2:
		return x * x
	}
	return math.Pow(x, p)
}

// Pheromone exposes the matrix for inspection.
func (c *Colony) Pheromone() *Pheromone { return c.pheromone }

// BestPerIteration is the best ant fitness of each iteration.
func (c *Colony) BestPerIteration() []float64 { return c.bestPerIteration }

// MeanPerIteration is the mean ant fitness of each iteration.
func (c *Colony) MeanPerIteration() []float64 { return c.meanPerIteration }

func (c *Colony) BestSolution() *problem.Solution { return c.best }

func (c *Colony) Results() []float64 { return c.results }
