package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/cwbudde/paramsearch/internal/config"
	"github.com/cwbudde/paramsearch/internal/meta"
	"github.com/cwbudde/paramsearch/internal/problem"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// Outcome is the result of one seeded run of one algorithm.
type Outcome struct {
	Algorithm   string        `json:"algorithm"`
	Run         int           `json:"run"`
	Seed        int64         `json:"seed"`
	BestFitness float64       `json:"best_fitness"`
	BestValues  []int         `json:"best_values"`
	Evaluations int64         `json:"evaluations"`
	Iterations  int           `json:"iterations"`
	Elapsed     time.Duration `json:"elapsed"`
	StopReason  stop.Reason   `json:"stop_reason"`
	Trajectory  []float64     `json:"trajectory"`
}

// RunOne executes alg once on inst with its own evaluator and random source.
func RunOne(ctx context.Context, alg config.AlgorithmConfig, inst problem.Instance, budget stop.Limits, seed int64, opts ...stop.Option) (Outcome, error) {
	ev := problem.NewEvaluator()
	rng := rand.New(rand.NewSource(seed))

	m, err := Build(alg, inst, ev, rng)
	if err != nil {
		return Outcome{}, err
	}
	// Setup evaluations do not count against the budget.
	ev.Reset()

	cond := stop.New(ev, budget, append([]stop.Option{stop.WithContext(ctx)}, opts...)...)
	if err := m.Run(cond); err != nil {
		return Outcome{}, fmt.Errorf("run %s seed %d: %w", alg.Name, seed, err)
	}
	if m.BestSolution() == nil {
		return Outcome{}, fmt.Errorf("run %s seed %d: %w", alg.Name, seed, meta.ErrNoSolution)
	}
	return outcomeOf(alg.Name, seed, m, ev, cond), nil
}

func outcomeOf(name string, seed int64, m meta.Metaheuristic, ev *problem.Evaluator, cond *stop.Condition) Outcome {
	best := m.BestSolution()
	return Outcome{
		Algorithm:   name,
		Seed:        seed,
		BestFitness: best.Fitness,
		BestValues:  append([]int(nil), best.Values...),
		Evaluations: ev.Count(),
		Iterations:  cond.Iterations(),
		Elapsed:     cond.Elapsed(),
		StopReason:  cond.Reason(),
		Trajectory:  m.Results(),
	}
}

// Runner executes experiments on a bounded worker pool. Every run owns
// its evaluator, random source and stop condition; only the read-only
// instance is shared.
type Runner struct {
	Workers int
	// OnOutcome, when set, is called after each run completes. It may be
	// called concurrently.
	OnOutcome func(Outcome)
}

// RunAll runs exp.Runs seeds of every algorithm. Run r uses seed exp.Seed+r.
// Outcomes are ordered by algorithm, then run.
func (r Runner) RunAll(ctx context.Context, exp *config.Experiment) ([]Outcome, error) {
	inst, err := exp.Instance.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build instance: %w", err)
	}

	workers := r.Workers
	if workers <= 0 {
		workers = exp.Workers
	}
	outcomes := make([]Outcome, len(exp.Algorithms)*exp.Runs)

	p := pool.New().WithMaxGoroutines(max(1, workers)).WithContext(ctx).WithCancelOnError()
	for a, alg := range exp.Algorithms {
		for run := 0; run < exp.Runs; run++ {
			idx := a*exp.Runs + run
			alg, run := alg, run
			seed := exp.Seed + int64(run)
			p.Go(func(ctx context.Context) error {
				out, err := RunOne(ctx, alg, inst, exp.Budget, seed)
				if err != nil {
					return err
				}
				out.Run = run
				outcomes[idx] = out
				slog.Debug("Run completed",
					"algorithm", alg.Name,
					"run", run,
					"best_fitness", out.BestFitness,
					"evaluations", out.Evaluations,
					"stop_reason", out.StopReason,
				)
				if r.OnOutcome != nil {
					r.OnOutcome(out)
				}
				return nil
			})
		}
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return outcomes, fmt.Errorf("experiment cancelled: %w", err)
	}
	return outcomes, nil
}
