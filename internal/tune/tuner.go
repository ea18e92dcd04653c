package tune

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/sourcegraph/conc/pool"

	"github.com/cwbudde/paramsearch/internal/config"
	"github.com/cwbudde/paramsearch/internal/experiment"
	"github.com/cwbudde/paramsearch/internal/opt"
	"github.com/cwbudde/paramsearch/internal/oracle"
	"github.com/cwbudde/paramsearch/internal/problem"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// Tuner scores hyper-parameter candidates by the mean best fitness of
// Runs seeded runs on one instance.
type Tuner struct {
	Optimizer opt.Optimizer
	Instance  oracle.Spec
	Budget    stop.Limits
	Runs      int
	Seed      int64
	Workers   int
}

// Result is the best configuration found.
type Result struct {
	Config      config.AlgorithmConfig
	Values      map[string]float64
	MeanFitness float64
	Candidates  int
}

// Tune searches the knobs of base.Name, keeping every other field of base.
func (t *Tuner) Tune(ctx context.Context, base config.AlgorithmConfig) (Result, error) {
	if t.Runs <= 0 {
		return Result{}, fmt.Errorf("runs must be positive, got %d", t.Runs)
	}
	if t.Budget.Unbounded() {
		return Result{}, fmt.Errorf("tuning requires a bounded budget")
	}
	inst, err := t.Instance.Build()
	if err != nil {
		return Result{}, fmt.Errorf("failed to build instance: %w", err)
	}
	knobs, err := Knobs(base.Name, inst.NumParameters())
	if err != nil {
		return Result{}, err
	}

	objective := func(x []float64) float64 {
		if ctx.Err() != nil {
			return math.Inf(1)
		}
		alg := apply(base, knobs, x)
		mean, err := t.score(ctx, alg, inst)
		if err != nil {
			slog.Debug("Candidate rejected", "algorithm", alg.Name, "params", x, "error", err)
			return math.Inf(1)
		}
		return -mean
	}

	lower, upper := bounds(knobs)
	res, err := t.Optimizer.Minimize(objective, lower, upper)
	if err != nil {
		return Result{}, fmt.Errorf("tuning %s failed: %w", base.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("tuning cancelled: %w", err)
	}
	if math.IsInf(res.Cost, 1) {
		return Result{}, fmt.Errorf("tuning %s found no valid configuration", base.Name)
	}

	values := make(map[string]float64, len(knobs))
	for i, k := range knobs {
		values[k.Name] = res.Params[i]
	}
	return Result{
		Config:      apply(base, knobs, res.Params),
		Values:      values,
		MeanFitness: -res.Cost,
		Candidates:  res.Evaluations,
	}, nil
}

func apply(base config.AlgorithmConfig, knobs []Knob, x []float64) config.AlgorithmConfig {
	alg := base
	for i, k := range knobs {
		k.Apply(&alg, x[i])
	}
	return alg
}

// score returns the mean best fitness of t.Runs seeded runs of alg.
func (t *Tuner) score(ctx context.Context, alg config.AlgorithmConfig, inst problem.Instance) (float64, error) {
	if err := alg.Validate(); err != nil {
		return 0, err
	}
	best := make([]float64, t.Runs)
	p := pool.New().WithMaxGoroutines(max(1, t.Workers)).WithContext(ctx)
	for run := 0; run < t.Runs; run++ {
		run := run
		p.Go(func(ctx context.Context) error {
			out, err := experiment.RunOne(ctx, alg, inst, t.Budget, t.Seed+int64(run))
			if err != nil {
				return err
			}
			best[run] = out.BestFitness
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return 0, err
	}
	return experiment.CalcFloatStats(best).Mean, nil
}
