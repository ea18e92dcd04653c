// Package sa implements simulated annealing with Metropolis acceptance and
// geometric cooling.
package sa

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/cwbudde/paramsearch/internal/meta"
	"github.com/cwbudde/paramsearch/internal/problem"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// minEstimateDelta is the floor applied to sampled deltas when estimating
// the initial temperature.
const minEstimateDelta = 10.0

// Annealer is a simulated annealing search.
type Annealer struct {
	Cfg Config

	inst problem.Instance
	ev   *problem.Evaluator
	rng  *rand.Rand

	temperature float64
	iterations  int
	current     *problem.Solution
	best        *problem.Solution
	results     []float64
}

// New validates cfg and estimates the initial temperature from
// cfg.NumInitialEstimates random moves on random solutions.
func New(cfg Config, inst problem.Instance, ev *problem.Evaluator, rng *rand.Rand) (*Annealer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Annealer{Cfg: cfg, inst: inst, ev: ev, rng: rng}
	a.temperature = a.estimateTemperature()
	slog.Debug("Initial temperature estimated", "temperature", a.temperature, "samples", cfg.NumInitialEstimates)
	return a, nil
}

// estimateTemperature solves exp(-avg/T) = InitialProb for T.
func (a *Annealer) estimateTemperature() float64 {
	sum := 0.0
	for i := 0; i < a.Cfg.NumInitialEstimates; i++ {
		sol := problem.RandomSolution(a.inst, a.ev, a.rng)
		p := a.rng.Intn(a.inst.NumParameters())
		v := a.rng.Intn(a.inst.DomainWidth(p))
		delta := math.Abs(a.ev.DeltaFitness(a.inst, sol, p, v))
		sum += math.Max(delta, minEstimateDelta)
	}
	avg := sum / float64(a.Cfg.NumInitialEstimates)
	return -avg / math.Log(a.Cfg.InitialProb)
}

func (a *Annealer) Name() string { return "sa" }

// SetSolution sets the starting point. It may be called once.
func (a *Annealer) SetSolution(sol *problem.Solution) error {
	if a.temperature <= 0 {
		return meta.ErrNotInitialised
	}
	if a.current != nil {
		return meta.ErrSolutionAlreadySet
	}
	a.current = sol.Clone()
	a.best = sol.Clone()
	return nil
}

// Run anneals until cond is reached.
func (a *Annealer) Run(cond *stop.Condition) error {
	if a.temperature <= 0 {
		return fmt.Errorf("sa: %w", meta.ErrNotInitialised)
	}
	if a.current == nil {
		return fmt.Errorf("sa: %w", meta.ErrNoSolution)
	}

	for !cond.Reached() {
		p := a.rng.Intn(a.inst.NumParameters())
		v := a.rng.Intn(a.inst.DomainWidth(p))
		delta := a.ev.DeltaFitness(a.inst, a.current, p, v)

		if a.rng.Float64() < math.Exp(delta/a.temperature) {
			problem.Operation{Param: p, Value: v, Delta: delta}.Apply(a.current)
			if a.ev.Better(a.current.Fitness, a.best.Fitness) {
				a.best.CopyFrom(a.current)
			}
		}

		a.iterations++
		a.results = append(a.results, a.current.Fitness)
		if a.iterations%a.Cfg.ItersPerAnnealing == 0 {
			a.temperature *= a.Cfg.AnnealingFactor
		}
		cond.NotifyIteration()
	}
	return nil
}

// Temperature returns the current temperature.
func (a *Annealer) Temperature() float64 { return a.temperature }

func (a *Annealer) BestSolution() *problem.Solution { return a.best }

func (a *Annealer) Results() []float64 { return a.results }
