package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/paramsearch/internal/config"
	"github.com/cwbudde/paramsearch/internal/oracle"
	"github.com/cwbudde/paramsearch/internal/stop"
	"github.com/cwbudde/paramsearch/internal/store"
)

func TestSaveOutcome(t *testing.T) {
	spec := oracle.Spec{Oracle: "sum", Parameters: 6, Width: 4}
	inst, err := spec.Build()
	require.NoError(t, err)

	out, err := RunOne(context.Background(), config.DefaultAlgorithmConfig(config.AlgorithmLSBest), inst, stop.Limits{MaxEvaluations: 300}, 3)
	require.NoError(t, err)

	st, err := store.NewFSStore(t.TempDir())
	require.NoError(t, err)

	rec, err := Save(st, out, spec, "smoke", true)
	require.NoError(t, err)

	loaded, err := st.LoadRun(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "ls-best", loaded.Algorithm)
	assert.Equal(t, "sum", loaded.Oracle)
	assert.Equal(t, "smoke", loaded.Experiment)
	assert.Equal(t, out.BestFitness, loaded.BestFitness)
	assert.Equal(t, out.BestValues, loaded.BestValues)

	trace, err := st.LoadTrace(rec.ID)
	require.NoError(t, err)
	require.Len(t, trace, len(out.Trajectory))
	assert.Equal(t, out.Trajectory[0], trace[0].Fitness)
}

// failingTraceStore keeps records but refuses trajectories.
type failingTraceStore struct {
	store.Store
	saved []*store.RunRecord
}

func (f *failingTraceStore) SaveRun(rec *store.RunRecord) error {
	f.saved = append(f.saved, rec)
	return nil
}

func (f *failingTraceStore) SaveTrace(string, []float64) error {
	return errors.New("disk full")
}

func TestSaveOutcome_TraceFailureKeepsRecord(t *testing.T) {
	spec := oracle.Spec{Oracle: "sum", Parameters: 4, Width: 3}
	inst, err := spec.Build()
	require.NoError(t, err)
	out, err := RunOne(context.Background(), config.DefaultAlgorithmConfig(config.AlgorithmLSFirst), inst, stop.Limits{MaxEvaluations: 100}, 1)
	require.NoError(t, err)

	st := &failingTraceStore{}
	rec, err := Save(st, out, spec, "", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, rec)
	require.Len(t, st.saved, 1)
	assert.Equal(t, rec.ID, st.saved[0].ID)

	_, err = Save(st, out, spec, "", false)
	assert.NoError(t, err, "no trace requested")
}
