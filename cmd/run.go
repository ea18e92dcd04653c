package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cwbudde/paramsearch/internal/experiment"
	"github.com/cwbudde/paramsearch/internal/store"
)

var (
	runAlg      algorithmFlags
	runInstance instanceFlags
	runBudget   budgetFlags
	runSeed     int64
	runSave     bool
	runTrace    bool
	runDataDir  string
	runJSON     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one algorithm once",
	Long: `Runs a single seeded search on one instance and prints the best
assignment found. Interrupting the run stops it early and still reports the
best solution so far.`,
	RunE: runSearch,
}

func init() {
	runAlg.register(runCmd)
	runInstance.register(runCmd)
	runBudget.register(runCmd)
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "Random seed of the search")
	runCmd.Flags().BoolVar(&runSave, "save", false, "Store the run record under --data-dir")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "Also store the fitness trajectory (with --save)")
	runCmd.Flags().StringVar(&runDataDir, "data-dir", "./data", "Base directory for run storage")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the outcome as JSON")
	rootCmd.AddCommand(runCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	alg := runAlg.config()
	if err := alg.Validate(); err != nil {
		return fmt.Errorf("invalid algorithm config: %w", err)
	}
	spec := runInstance.spec()
	inst, err := spec.Build()
	if err != nil {
		return fmt.Errorf("failed to build instance: %w", err)
	}
	budget := runBudget.limits()
	if budget.Unbounded() {
		return fmt.Errorf("at least one of --max-evals, --max-iters or --max-time must be set")
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSignals()

	slog.Info("Starting run",
		"algorithm", alg.Name,
		"oracle", spec.Oracle,
		"parameters", spec.Parameters,
		"width", spec.Width,
		"seed", runSeed,
	)

	out, err := experiment.RunOne(ctx, alg, inst, budget, runSeed)
	if err != nil {
		return err
	}

	slog.Info("Run complete",
		"best_fitness", out.BestFitness,
		"evaluations", out.Evaluations,
		"iterations", out.Iterations,
		"elapsed", out.Elapsed,
		"stop_reason", out.StopReason,
	)

	if runSave {
		runs, err := store.NewFSStore(runDataDir)
		if err != nil {
			return fmt.Errorf("failed to create run store: %w", err)
		}
		rec, err := experiment.Save(runs, out, spec, "", runTrace)
		if err != nil {
			return err
		}
		slog.Info("Run stored", "run_id", rec.ID)
	}

	if runJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	fmt.Printf("%s: best fitness %.6f after %d evaluations (%s, %s)\n",
		out.Algorithm, out.BestFitness, out.Evaluations, out.StopReason, out.Elapsed)
	fmt.Printf("values: %v\n", out.BestValues)
	return nil
}
