package experiment

import (
	"fmt"
	"time"

	"github.com/cwbudde/paramsearch/internal/oracle"
	"github.com/cwbudde/paramsearch/internal/store"
)

// Record converts an outcome into a persistable run record with a fresh ID.
func Record(out Outcome, spec oracle.Spec, experimentName string) *store.RunRecord {
	return &store.RunRecord{
		ID:          store.NewRunID(),
		Algorithm:   out.Algorithm,
		Oracle:      spec.Oracle,
		Parameters:  spec.Parameters,
		Width:       spec.Width,
		Seed:        out.Seed,
		BestFitness: out.BestFitness,
		BestValues:  append([]int(nil), out.BestValues...),
		Evaluations: out.Evaluations,
		Iterations:  out.Iterations,
		ElapsedMS:   out.Elapsed.Milliseconds(),
		StopReason:  string(out.StopReason),
		Experiment:  experimentName,
		CreatedAt:   time.Now().UTC(),
	}
}

// Save stores out as a run record and, when withTrace is set, its trajectory.
func Save(st store.Store, out Outcome, spec oracle.Spec, experimentName string, withTrace bool) (*store.RunRecord, error) {
	rec := Record(out, spec, experimentName)
	if err := st.SaveRun(rec); err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}
	if withTrace {
		if err := st.SaveTrace(rec.ID, out.Trajectory); err != nil {
			return rec, fmt.Errorf("failed to save trajectory: %w", err)
		}
	}
	return rec, nil
}
