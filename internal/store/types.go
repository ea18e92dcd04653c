package store

import (
	"time"

	"github.com/google/uuid"
)

// RunRecord is the persisted summary of one finished run.
type RunRecord struct {
	ID          string    `json:"id"`
	Algorithm   string    `json:"algorithm"`
	Oracle      string    `json:"oracle"`
	Parameters  int       `json:"parameters"`
	Width       int       `json:"width"`
	Seed        int64     `json:"seed"`
	BestFitness float64   `json:"best_fitness"`
	BestValues  []int     `json:"best_values"`
	Evaluations int64     `json:"evaluations"`
	Iterations  int       `json:"iterations"`
	ElapsedMS   int64     `json:"elapsed_ms"`
	StopReason  string    `json:"stop_reason"`
	Experiment  string    `json:"experiment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RunInfo is the listing view of a RunRecord.
type RunInfo struct {
	ID          string    `json:"id"`
	Algorithm   string    `json:"algorithm"`
	Oracle      string    `json:"oracle"`
	BestFitness float64   `json:"best_fitness"`
	Evaluations int64     `json:"evaluations"`
	Experiment  string    `json:"experiment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// ToInfo extracts listing metadata from the record.
func (r *RunRecord) ToInfo() RunInfo {
	return RunInfo{
		ID:          r.ID,
		Algorithm:   r.Algorithm,
		Oracle:      r.Oracle,
		BestFitness: r.BestFitness,
		Evaluations: r.Evaluations,
		Experiment:  r.Experiment,
		CreatedAt:   r.CreatedAt,
	}
}

// Validate checks that the record is complete and self-consistent.
func (r *RunRecord) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "ID", Reason: "cannot be empty"}
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		return &ValidationError{Field: "ID", Reason: "must be a UUID"}
	}
	if r.Algorithm == "" {
		return &ValidationError{Field: "Algorithm", Reason: "cannot be empty"}
	}
	if r.Parameters <= 0 {
		return &ValidationError{Field: "Parameters", Reason: "must be positive"}
	}
	if len(r.BestValues) != r.Parameters {
		return &ValidationError{Field: "BestValues", Reason: "length must equal Parameters"}
	}
	for _, v := range r.BestValues {
		if v < 0 || (r.Width > 0 && v >= r.Width) {
			return &ValidationError{Field: "BestValues", Reason: "value outside domain"}
		}
	}
	if r.Evaluations < 0 {
		return &ValidationError{Field: "Evaluations", Reason: "cannot be negative"}
	}
	if r.CreatedAt.IsZero() {
		return &ValidationError{Field: "CreatedAt", Reason: "cannot be zero"}
	}
	return nil
}

// ValidationError represents a run record validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}
