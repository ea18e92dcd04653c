package experiment

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cwbudde/paramsearch/internal/meta"
)

// WriteSummaryCSV writes one row per summary.
func WriteSummaryCSV(out io.Writer, summaries []Summary) error {
	w := csv.NewWriter(out)
	header := []string{
		"rank", "algorithm", "runs",
		"best_fitness", "mean_fitness", "std_fitness", "worst_fitness",
		"mean_evaluations", "mean_elapsed_ms",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range summaries {
		row := []string{
			itoa(s.Rank),
			s.Algorithm,
			itoa(s.Runs),
			ftoa(s.BestFitness),
			ftoa(s.MeanFitness),
			ftoa(s.StdFitness),
			ftoa(s.WorstFitness),
			ftoa(s.MeanEvaluations),
			ftoa(float64(s.MeanElapsed.Microseconds()) / 1000),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteTrajectoriesCSV writes every trajectory point with its running best.
func WriteTrajectoriesCSV(out io.Writer, outcomes []Outcome) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"algorithm", "run", "index", "fitness", "best_so_far"}); err != nil {
		return err
	}
	for _, o := range outcomes {
		best := meta.BestSoFar(o.Trajectory)
		for i, f := range o.Trajectory {
			row := []string{o.Algorithm, itoa(o.Run), itoa(i), ftoa(f), ftoa(best[i])}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func itoa(v int) string { return strconv.Itoa(v) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
