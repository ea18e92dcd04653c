package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/paramsearch/internal/config"
	"github.com/cwbudde/paramsearch/internal/experiment"
	"github.com/cwbudde/paramsearch/internal/store"
)

var (
	benchConfigPath string
	benchSummaryCSV string
	benchTrajCSV    string
	benchWorkers    int
	benchSave       bool
	benchTrace      bool
	benchDataDir    string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare algorithms from a YAML experiment file",
	Long: `Runs every algorithm of an experiment file for the configured number of
seeds on a bounded worker pool, then prints a ranked summary. Summaries and
per-run trajectories can be written as CSV.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVarP(&benchConfigPath, "config", "c", "", "Experiment YAML file (required)")
	benchCmd.Flags().StringVar(&benchSummaryCSV, "summary-csv", "", "Write the summary table to this CSV file")
	benchCmd.Flags().StringVar(&benchTrajCSV, "trajectories-csv", "", "Write best-so-far trajectories to this CSV file")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "Override the experiment's worker count")
	benchCmd.Flags().BoolVar(&benchSave, "save", false, "Store every run record under --data-dir")
	benchCmd.Flags().BoolVar(&benchTrace, "trace", false, "Also store fitness trajectories (with --save)")
	benchCmd.Flags().StringVar(&benchDataDir, "data-dir", "./data", "Base directory for run storage")
	benchCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	exp, err := config.LoadExperiment(benchConfigPath)
	if err != nil {
		return err
	}

	runner := experiment.Runner{Workers: benchWorkers}
	if benchSave {
		runs, err := store.NewFSStore(benchDataDir)
		if err != nil {
			return fmt.Errorf("failed to create run store: %w", err)
		}
		runner.OnOutcome = func(out experiment.Outcome) {
			if _, err := experiment.Save(runs, out, exp.Instance, exp.Name, benchTrace); err != nil {
				slog.Error("Failed to store run", "algorithm", out.Algorithm, "seed", out.Seed, "error", err)
			}
		}
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stopSignals()

	slog.Info("Starting experiment",
		"name", exp.Name,
		"oracle", exp.Instance.Oracle,
		"algorithms", len(exp.Algorithms),
		"runs", exp.Runs,
	)

	outcomes, err := runner.RunAll(ctx, exp)
	if err != nil {
		return err
	}
	summaries := experiment.Summarize(outcomes)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tALGORITHM\tRUNS\tMEAN\tSTD\tBEST\tWORST\tEVALS\tTIME")
	for _, s := range summaries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.0f\t%s\n",
			s.Rank, s.Algorithm, s.Runs, s.MeanFitness, s.StdFitness,
			s.BestFitness, s.WorstFitness, s.MeanEvaluations, s.MeanElapsed)
	}
	w.Flush()

	if benchSummaryCSV != "" {
		if err := writeFile(benchSummaryCSV, func(f *os.File) error {
			return experiment.WriteSummaryCSV(f, summaries)
		}); err != nil {
			return err
		}
	}
	if benchTrajCSV != "" {
		if err := writeFile(benchTrajCSV, func(f *os.File) error {
			return experiment.WriteTrajectoriesCSV(f, outcomes)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	slog.Info("Wrote file", "path", path)
	return nil
}
