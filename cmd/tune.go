package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/paramsearch/internal/config"
	"github.com/cwbudde/paramsearch/internal/opt"
	"github.com/cwbudde/paramsearch/internal/tune"
)

var (
	tuneAlg      algorithmFlags
	tuneInstance instanceFlags
	tuneBudget   budgetFlags
	tuneRuns     int
	tuneWorkers  int
	tuneIters    int
	tunePop      int
	tuneSeed     int64
	tuneOut      string
)

var tuneCmd = &cobra.Command{
	Use:   "tune",
	Short: "Tune the continuous hyper-parameters of one algorithm",
	Long: `Searches the continuous hyper-parameters of an algorithm with the mayfly
optimizer. Every candidate is scored by the mean best fitness over --runs
seeded runs. The tuned algorithm can be written as an experiment file for
'paramsearch bench'.`,
	RunE: runTune,
}

func init() {
	tuneAlg.register(tuneCmd)
	tuneInstance.register(tuneCmd)
	tuneBudget.register(tuneCmd)
	tuneCmd.Flags().IntVar(&tuneRuns, "runs", 3, "Seeded runs per candidate")
	tuneCmd.Flags().IntVar(&tuneWorkers, "workers", 4, "Concurrent runs per candidate")
	tuneCmd.Flags().IntVar(&tuneIters, "iters", 10, "Mayfly iterations")
	tuneCmd.Flags().IntVar(&tunePop, "pop", 20, "Mayfly population size (at least 20)")
	tuneCmd.Flags().Int64Var(&tuneSeed, "seed", 42, "Base seed for tuner and runs")
	tuneCmd.Flags().StringVar(&tuneOut, "out", "", "Write an experiment YAML with the tuned algorithm")
	rootCmd.AddCommand(tuneCmd)
}

func runTune(cmd *cobra.Command, args []string) error {
	base := tuneAlg.config()
	if err := base.Validate(); err != nil {
		return fmt.Errorf("invalid algorithm config: %w", err)
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSignals()

	tuner := &tune.Tuner{
		Optimizer: opt.NewMayfly(tuneIters, tunePop, tuneSeed),
		Instance:  tuneInstance.spec(),
		Budget:    tuneBudget.limits(),
		Runs:      tuneRuns,
		Seed:      tuneSeed,
		Workers:   tuneWorkers,
	}

	slog.Info("Starting tuning",
		"algorithm", base.Name,
		"oracle", tuner.Instance.Oracle,
		"iters", tuneIters,
		"pop", tunePop,
		"runs", tuneRuns,
	)

	res, err := tuner.Tune(ctx, base)
	if err != nil {
		return err
	}

	slog.Info("Tuning complete", "mean_fitness", res.MeanFitness, "candidates", res.Candidates)

	names := make([]string, 0, len(res.Values))
	for name := range res.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Printf("%s: mean best fitness %.6f over %d candidates\n", base.Name, res.MeanFitness, res.Candidates)
	for _, name := range names {
		fmt.Printf("  %s = %.6g\n", name, res.Values[name])
	}

	if tuneOut != "" {
		exp := config.DefaultExperiment()
		exp.Name = "tuned-" + base.Name
		exp.Instance = tuner.Instance
		exp.Budget = tuner.Budget
		exp.Seed = tuneSeed
		exp.Algorithms = []config.AlgorithmConfig{res.Config}

		data, err := yaml.Marshal(&exp)
		if err != nil {
			return fmt.Errorf("failed to encode experiment: %w", err)
		}
		if err := os.WriteFile(tuneOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", tuneOut, err)
		}
		slog.Info("Wrote file", "path", tuneOut)
	}
	return nil
}
