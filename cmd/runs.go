package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/paramsearch/internal/store"
)

var (
	runsDataDir     string
	keepLast        int
	olderThanDays   int
	cleanExperiment string
	forceClean      bool
	showTrace       bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored run records",
	Long: `List, inspect and clean the run records written by 'run --save',
'bench --save' and the job server.`,
}

var listRunsCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs",
	RunE:  runListRuns,
}

var showRunCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print one run record",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRun,
}

var cleanRunsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete old runs",
	Long: `Delete runs based on a retention policy: keep only the newest N runs,
delete runs older than N days, or both.`,
	RunE: runCleanRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(listRunsCmd)
	runsCmd.AddCommand(showRunCmd)
	runsCmd.AddCommand(cleanRunsCmd)

	runsCmd.PersistentFlags().StringVar(&runsDataDir, "data-dir", "./data", "Base directory for run storage")

	showRunCmd.Flags().BoolVar(&showTrace, "trace", false, "Also print the stored trajectory")

	cleanRunsCmd.Flags().IntVar(&keepLast, "keep-last", 0, "Keep only the newest N runs (0 = keep all)")
	cleanRunsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete runs older than N days (0 = no age limit)")
	cleanRunsCmd.Flags().StringVar(&cleanExperiment, "experiment", "", "Only consider runs of this experiment")
	cleanRunsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func runListRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	infos, err := runs.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(infos) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tCREATED\tALGORITHM\tORACLE\tBEST\tEVALS\tEXPERIMENT\tSIZE")
	for _, info := range infos {
		sizeStr := "unknown"
		if size, err := getDirSize(filepath.Join(runsDataDir, "runs", info.ID)); err == nil {
			sizeStr = formatBytes(size)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.6f\t%d\t%s\t%s\n",
			shortID(info.ID),
			info.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			info.Algorithm,
			info.Oracle,
			info.BestFitness,
			info.Evaluations,
			info.Experiment,
			sizeStr,
		)
	}
	w.Flush()

	fmt.Printf("\nTotal runs: %d\n", len(infos))
	return nil
}

func runShowRun(cmd *cobra.Command, args []string) error {
	runs, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	rec, err := runs.LoadRun(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return err
	}

	if showTrace {
		entries, err := runs.LoadTrace(rec.ID)
		if err != nil {
			return fmt.Errorf("failed to load trace: %w", err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tFITNESS\tBEST")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%.6f\t%.6f\n", e.Index, e.Fitness, e.BestSoFar)
		}
		w.Flush()
	}
	return nil
}

func runCleanRuns(cmd *cobra.Command, args []string) error {
	if keepLast == 0 && olderThanDays == 0 {
		return fmt.Errorf("must specify either --keep-last or --older-than")
	}

	runs, err := store.NewFSStore(runsDataDir)
	if err != nil {
		return fmt.Errorf("failed to create run store: %w", err)
	}

	infos, err := runs.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if cleanExperiment != "" {
		infos = filterByExperiment(infos, cleanExperiment)
	}
	if len(infos) == 0 {
		fmt.Println("No runs to clean.")
		return nil
	}

	toDelete := selectRunsForDeletion(infos, keepLast, olderThanDays, time.Now())
	if len(toDelete) == 0 {
		fmt.Println("No runs match deletion criteria.")
		return nil
	}

	fmt.Printf("Found %d run(s) to delete:\n", len(toDelete))
	for _, info := range toDelete {
		fmt.Printf("  - %s (%s, %s)\n",
			shortID(info.ID),
			info.Algorithm,
			info.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		)
	}

	if !forceClean {
		fmt.Print("\nProceed with deletion? [y/N]: ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	deleted, failed := 0, 0
	for _, info := range toDelete {
		if err := runs.DeleteRun(info.ID); err != nil {
			slog.Error("Failed to delete run", "run_id", info.ID, "error", err)
			failed++
			continue
		}
		slog.Info("Deleted run", "run_id", info.ID)
		deleted++
	}

	fmt.Printf("\nDeleted %d run(s), %d failed.\n", deleted, failed)
	return nil
}

func filterByExperiment(infos []store.RunInfo, name string) []store.RunInfo {
	var out []store.RunInfo
	for _, info := range infos {
		if info.Experiment == name {
			out = append(out, info)
		}
	}
	return out
}

// selectRunsForDeletion applies the retention policy. keepLast keeps the
// newest runs; olderThanDays deletes by age relative to now. A run matched
// by both is listed once. The result is ordered oldest first.
func selectRunsForDeletion(infos []store.RunInfo, keepLast int, olderThanDays int, now time.Time) []store.RunInfo {
	sorted := make([]store.RunInfo, len(infos))
	copy(sorted, infos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	doomed := make(map[string]bool)
	if olderThanDays > 0 {
		cutoff := now.AddDate(0, 0, -olderThanDays)
		for _, info := range sorted {
			if info.CreatedAt.Before(cutoff) {
				doomed[info.ID] = true
			}
		}
	}
	if keepLast > 0 && len(sorted) > keepLast {
		for _, info := range sorted[:len(sorted)-keepLast] {
			doomed[info.ID] = true
		}
	}

	var toDelete []store.RunInfo
	for _, info := range sorted {
		if doomed[info.ID] {
			toDelete = append(toDelete, info)
		}
	}
	return toDelete
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}

// getDirSize calculates the total size of a directory
func getDirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
