// Package store persists finished search runs: one JSON record per run plus
// an optional JSONL fitness trajectory. Search state is never stored.
package store

// Store defines the interface for run persistence operations.
// Implementations must be safe for concurrent use.
//
// Error handling conventions:
//   - Return ErrNotFound if the run doesn't exist (for Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveRun atomically saves a run record, overwriting any previous
	// record with the same ID.
	SaveRun(record *RunRecord) error

	// LoadRun retrieves the record with the given ID.
	// Returns ErrNotFound if no such run exists.
	LoadRun(runID string) (*RunRecord, error)

	// ListRuns returns metadata for all stored runs, newest first.
	ListRuns() ([]RunInfo, error)

	// DeleteRun removes the record and its trajectory.
	// Returns ErrNotFound if no such run exists.
	DeleteRun(runID string) error

	// SaveTrace writes the fitness trajectory of a run, replacing any
	// previous one.
	SaveTrace(runID string, trajectory []float64) error

	// LoadTrace reads the trajectory of a run.
	// Returns ErrNotFound if the run has no trace.
	LoadTrace(runID string) ([]TraceEntry, error)
}

// ErrNotFound is returned when a requested run does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing run.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	if e.RunID != "" {
		return "run not found: " + e.RunID
	}
	return "run not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
