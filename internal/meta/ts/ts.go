// Package ts implements tabu search with a short-term memory of recently
// modified parameters.
package ts

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/cwbudde/paramsearch/internal/meta"
	"github.com/cwbudde/paramsearch/internal/problem"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// Search is a best-move tabu search. Non-improving moves are accepted.
type Search struct {
	Cfg Config

	inst problem.Instance
	ev   *problem.Evaluator
	rng  *rand.Rand

	memory     *memory
	current    *problem.Solution
	best       *problem.Solution
	results    []float64
	stalled    int
	iterations int
}

// New creates a tabu search. A zero tenure is replaced by DefaultTenure.
func New(cfg Config, inst problem.Instance, ev *problem.Evaluator, rng *rand.Rand) (*Search, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Tenure == 0 {
		cfg.Tenure = DefaultTenure(inst.NumParameters())
	}
	return &Search{
		Cfg:    cfg,
		inst:   inst,
		ev:     ev,
		rng:    rng,
		memory: newMemory(cfg.Tenure),
	}, nil
}

func (s *Search) Name() string { return "ts" }

// SetSolution sets the starting point. It may be called once.
func (s *Search) SetSolution(sol *problem.Solution) error {
	if s.memory == nil {
		return meta.ErrNotInitialised
	}
	if s.current != nil {
		return meta.ErrSolutionAlreadySet
	}
	s.current = sol.Clone()
	s.best = sol.Clone()
	return nil
}

// Run performs tabu iterations until cond is reached.
func (s *Search) Run(cond *stop.Condition) error {
	if s.memory == nil {
		return fmt.Errorf("ts: %w", meta.ErrNotInitialised)
	}
	if s.current == nil {
		return fmt.Errorf("ts: %w", meta.ErrNoSolution)
	}

	for !cond.Reached() {
		if op, ok := s.bestMove(); ok {
			op.Apply(s.current)
			s.memory.push(op.Param)
			if s.ev.Better(s.current.Fitness, s.best.Fitness) {
				s.best.CopyFrom(s.current)
			}
		} else {
			// Every parameter is tabu: no move this iteration, the oldest
			// entry is released so the memory keeps ageing.
			s.stalled++
			s.memory.popOldest()
		}
		s.iterations++
		s.results = append(s.results, s.current.Fitness)
		cond.NotifyIteration()
	}
	slog.Debug("Tabu search finished", "iterations", s.iterations, "stalled", s.stalled, "best", s.best.Fitness)
	return nil
}

// bestMove returns the best value change over every non-tabu parameter.
func (s *Search) bestMove() (problem.Operation, bool) {
	var best problem.Operation
	found := false
	for _, p := range problem.RandomPermutation(s.rng, s.inst.NumParameters()) {
		if s.memory.contains(p) {
			continue
		}
		for v := 0; v < s.inst.DomainWidth(p); v++ {
			if v == s.current.Values[p] {
				continue
			}
			delta := s.ev.DeltaFitness(s.inst, s.current, p, v)
			if !found || delta > best.Delta {
				best = problem.Operation{Param: p, Value: v, Delta: delta}
				found = true
			}
		}
	}
	return best, found
}

// MemoryLen returns the number of parameters currently tabu.
func (s *Search) MemoryLen() int { return s.memory.len() }

// IsTabu reports whether param is in the short-term memory.
func (s *Search) IsTabu(param int) bool { return s.memory.contains(param) }

// Stalled returns how many iterations found every parameter tabu.
func (s *Search) Stalled() int { return s.stalled }

func (s *Search) BestSolution() *problem.Solution { return s.best }

func (s *Search) Results() []float64 { return s.results }
