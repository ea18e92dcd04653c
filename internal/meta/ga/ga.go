// Package ga adapts the eaopt genetic algorithm engine to discrete
// assignments: uniform crossover, per-gene random mutation and tournament
// selection.
package ga

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/MaxHalford/eaopt"

	"github.com/cwbudde/paramsearch/internal/problem"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// Genetic is a generational GA evolving full parameter assignments.
type Genetic struct {
	Cfg Config

	inst problem.Instance
	ev   *problem.Evaluator
	rng  *rand.Rand

	best    *problem.Solution
	results []float64
}

// New validates cfg and creates a GA for inst. A zero MutProb becomes
// 1/NumParameters.
func New(cfg Config, inst problem.Instance, ev *problem.Evaluator, rng *rand.Rand) (*Genetic, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MutProb == 0 {
		cfg.MutProb = 1 / float64(inst.NumParameters())
	}
	return &Genetic{Cfg: cfg, inst: inst, ev: ev, rng: rng}, nil
}

func (g *Genetic) Name() string { return "ga" }

func (g *Genetic) gaConfig(cond *stop.Condition) eaopt.GAConfig {
	config := eaopt.NewDefaultGAConfig()
	config.NPops = 1
	config.PopSize = uint(g.Cfg.PopSize)
	config.NGenerations = math.MaxInt32
	if g.Cfg.Generations > 0 {
		config.NGenerations = uint(g.Cfg.Generations)
	}
	config.HofSize = 1
	config.Model = eaopt.ModGenerational{
		Selector:  eaopt.SelTournament{NContestants: uint(g.Cfg.TournamentSize)},
		MutRate:   1,
		CrossRate: g.Cfg.CrossProb,
	}
	config.RNG = g.rng
	config.ParallelEval = false
	config.EarlyStop = func(*eaopt.GA) bool { return cond.Reached() }
	config.Callback = func(ga *eaopt.GA) {
		g.record(ga)
		cond.NotifyIteration()
	}
	return config
}

// record keeps the hall of fame leader when it beats the best so far.
func (g *Genetic) record(ga *eaopt.GA) {
	if len(ga.HallOfFame) == 0 {
		return
	}
	leader := ga.HallOfFame[0]
	fitness := -leader.Fitness
	if g.best == nil || g.ev.Better(fitness, g.best.Fitness) {
		g.best = leader.Genome.(*genome).solution(fitness)
	}
	g.results = append(g.results, fitness)
}

// Run evolves a fresh population until cond is reached or the generation
// cap is hit. The best solution is kept across runs.
func (g *Genetic) Run(cond *stop.Condition) error {
	engine, err := g.gaConfig(cond).NewGA()
	if err != nil {
		return fmt.Errorf("ga: failed to create GA: %w", err)
	}
	err = engine.Minimize(func(rng *rand.Rand) eaopt.Genome {
		return newRandomGenome(g.inst, g.ev, g.Cfg.MutProb, rng)
	})
	if err != nil {
		return fmt.Errorf("ga: minimize failed: %w", err)
	}
	if g.best == nil {
		return fmt.Errorf("ga: no generation was evaluated")
	}
	slog.Debug("Genetic algorithm finished", "generations", engine.Generations, "best", g.best.Fitness)
	return nil
}

func (g *Genetic) BestSolution() *problem.Solution { return g.best }

func (g *Genetic) Results() []float64 { return g.results }
