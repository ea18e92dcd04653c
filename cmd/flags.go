package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/paramsearch/internal/config"
	"github.com/cwbudde/paramsearch/internal/meta/aco"
	"github.com/cwbudde/paramsearch/internal/meta/ga"
	"github.com/cwbudde/paramsearch/internal/meta/grasp"
	"github.com/cwbudde/paramsearch/internal/meta/ig"
	"github.com/cwbudde/paramsearch/internal/meta/sa"
	"github.com/cwbudde/paramsearch/internal/meta/ts"
	"github.com/cwbudde/paramsearch/internal/oracle"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// instanceFlags selects the oracle and the instance dimensions.
type instanceFlags struct {
	oracle string
	params int
	width  int
	seed   int64
}

func (f *instanceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.oracle, "oracle", "knapsack", "Fitness oracle (see 'paramsearch oracles')")
	cmd.Flags().IntVar(&f.params, "params", 30, "Number of parameters")
	cmd.Flags().IntVar(&f.width, "width", 5, "Domain width of every parameter")
	cmd.Flags().Int64Var(&f.seed, "instance-seed", 1, "Seed of the oracle's generated data")
}

func (f *instanceFlags) spec() oracle.Spec {
	return oracle.Spec{Oracle: f.oracle, Parameters: f.params, Width: f.width, Seed: f.seed}
}

// budgetFlags sets the per-run stop condition.
type budgetFlags struct {
	maxEvals int64
	maxIters int
	maxTime  time.Duration
}

func (f *budgetFlags) register(cmd *cobra.Command) {
	def := config.DefaultBudget()
	cmd.Flags().Int64Var(&f.maxEvals, "max-evals", def.MaxEvaluations, "Evaluation budget per run (0 = none)")
	cmd.Flags().IntVar(&f.maxIters, "max-iters", def.MaxIterations, "Iteration budget per run (0 = none)")
	cmd.Flags().DurationVar(&f.maxTime, "max-time", def.MaxTime, "Time budget per run (0 = none)")
}

func (f *budgetFlags) limits() stop.Limits {
	return stop.Limits{MaxEvaluations: f.maxEvals, MaxIterations: f.maxIters, MaxTime: f.maxTime}
}

// algorithmFlags carries the hyper-parameters of every engine. Flag defaults
// are the engine defaults, so unchanged flags leave a config untouched.
type algorithmFlags struct {
	name string
	sa   sa.Config
	ts   ts.Config
	gr   grasp.Config
	ig   ig.Config
	aco  aco.Config
	ga   ga.Config
}

func (f *algorithmFlags) register(cmd *cobra.Command) {
	d := config.DefaultAlgorithmConfig("")
	f.sa, f.ts, f.gr, f.ig, f.aco, f.ga = d.SA, d.TS, d.GRASP, d.IG, d.ACO, d.GA
	fl := cmd.Flags()
	fl.StringVar(&f.name, "algorithm", config.AlgorithmSA, "Algorithm to run (sa, ts, grasp, ig, aco, ga, ls-first, ls-best)")

	fl.Float64Var(&f.sa.InitialProb, "sa-initial-prob", d.SA.InitialProb, "SA: acceptance probability of an average worsening move at start")
	fl.IntVar(&f.sa.NumInitialEstimates, "sa-estimates", d.SA.NumInitialEstimates, "SA: random moves sampled to estimate the start temperature")
	fl.Float64Var(&f.sa.AnnealingFactor, "sa-annealing-factor", d.SA.AnnealingFactor, "SA: temperature multiplier per cooling step")
	fl.IntVar(&f.sa.ItersPerAnnealing, "sa-iters-per-annealing", d.SA.ItersPerAnnealing, "SA: iterations between cooling steps")

	fl.IntVar(&f.ts.Tenure, "ts-tenure", d.TS.Tenure, "TS: tabu tenure (0 = derived from the parameter count)")

	fl.Float64Var(&f.gr.Alpha, "grasp-alpha", d.GRASP.Alpha, "GRASP: fraction of the domain sampled per construction step")
	fl.Float64Var(&f.ig.Alpha, "ig-alpha", d.IG.Alpha, "IG: fraction of parameters reset per destruction")

	fl.IntVar(&f.aco.NumAnts, "aco-ants", d.ACO.NumAnts, "ACO: ants per iteration")
	fl.Float64Var(&f.aco.Q0, "aco-q0", d.ACO.Q0, "ACO: probability of greedy choice")
	fl.Float64Var(&f.aco.Alpha, "aco-alpha", d.ACO.Alpha, "ACO: pheromone exponent")
	fl.Float64Var(&f.aco.Beta, "aco-beta", d.ACO.Beta, "ACO: heuristic exponent")
	fl.Float64Var(&f.aco.Evaporation, "aco-evaporation", d.ACO.Evaporation, "ACO: pheromone evaporation rate")
	fl.IntVar(&f.aco.CandidateListSize, "aco-candidates", d.ACO.CandidateListSize, "ACO: candidate list size")

	fl.IntVar(&f.ga.PopSize, "ga-pop", d.GA.PopSize, "GA: population size")
	fl.Float64Var(&f.ga.CrossProb, "ga-cross-prob", d.GA.CrossProb, "GA: crossover probability")
	fl.Float64Var(&f.ga.MutProb, "ga-mut-prob", d.GA.MutProb, "GA: per-gene mutation probability (0 = 1/parameters)")
	fl.IntVar(&f.ga.Generations, "ga-generations", d.GA.Generations, "GA: generation cap (0 = none)")
}

func (f *algorithmFlags) config() config.AlgorithmConfig {
	cfg := config.DefaultAlgorithmConfig(f.name)
	cfg.SA = f.sa
	cfg.TS = f.ts
	cfg.GRASP = f.gr
	cfg.IG = f.ig
	cfg.ACO = f.aco
	cfg.GA = f.ga
	return cfg
}
