package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cwbudde/paramsearch/internal/config"
	"github.com/cwbudde/paramsearch/internal/oracle"
	"github.com/cwbudde/paramsearch/internal/stop"
)

// JobState represents the current state of a job
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
	StateCancelled JobState = "cancelled"
)

// Terminal reports whether the state is final.
func (s JobState) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// ErrJobNotFound is returned for unknown job IDs.
var ErrJobNotFound = errors.New("job not found")

// JobConfig describes one search run submitted over the API.
type JobConfig struct {
	Algorithm config.AlgorithmConfig `json:"algorithm"`
	Instance  oracle.Spec            `json:"instance"`
	Budget    stop.Limits            `json:"budget"`
	Seed      int64                  `json:"seed"`
	SaveTrace bool                   `json:"save_trace"`
}

// DefaultJobConfig returns a config with every algorithm block and the
// budget at their defaults. Decoding a request over it keeps unspecified
// fields at these values.
func DefaultJobConfig() JobConfig {
	return JobConfig{
		Algorithm: config.DefaultAlgorithmConfig(""),
		Budget:    config.DefaultBudget(),
		Seed:      1,
	}
}

// Validate checks the algorithm, instance and budget.
func (c JobConfig) Validate() error {
	if err := c.Algorithm.Validate(); err != nil {
		return err
	}
	if err := c.Instance.Validate(); err != nil {
		return fmt.Errorf("instance: %w", err)
	}
	if c.Budget.Unbounded() {
		return fmt.Errorf("budget: at least one limit must be set")
	}
	return nil
}

// Job represents a search run and its latest known progress.
type Job struct {
	ID          string     `json:"id"`
	State       JobState   `json:"state"`
	Config      JobConfig  `json:"config"`
	BestFitness float64    `json:"bestFitness"`
	BestValues  []int      `json:"bestValues,omitempty"`
	Evaluations int64      `json:"evaluations"`
	Iterations  int        `json:"iterations"`
	StopReason  string     `json:"stopReason,omitempty"`
	RunID       string     `json:"runId,omitempty"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Elapsed returns the running time so far, or the total once finished.
func (j *Job) Elapsed() time.Duration {
	if j.EndTime != nil {
		return j.EndTime.Sub(j.StartTime)
	}
	return time.Since(j.StartTime)
}

// JobManager manages the lifecycle of jobs
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	cancels     map[string]context.CancelFunc
	broadcaster *EventBroadcaster
}

// NewJobManager creates a new JobManager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:        make(map[string]*Job),
		cancels:     make(map[string]context.CancelFunc),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateJob registers a pending job and returns a snapshot of it.
func (jm *JobManager) CreateJob(config JobConfig) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        uuid.New().String(),
		State:     StatePending,
		Config:    config,
		StartTime: time.Now(),
	}

	jm.jobs[job.ID] = job
	snapshot := *job
	return &snapshot
}

// GetJob returns a snapshot of the job with the given ID
func (jm *JobManager) GetJob(id string) (*Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	if !exists {
		return nil, false
	}
	snapshot := *job
	return &snapshot, true
}

// ListJobs returns snapshots of all jobs, oldest first
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		snapshot := *job
		jobs = append(jobs, &snapshot)
	}
	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].StartTime.Before(jobs[k].StartTime)
	})
	return jobs
}

// UpdateJob atomically updates a job using the provided function
func (jm *JobManager) UpdateJob(id string, updateFn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	updateFn(job)
	return nil
}

// GetRunningJobs returns all jobs currently in the running state
func (jm *JobManager) GetRunningJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	runningJobs := make([]*Job, 0)
	for _, job := range jm.jobs {
		if job.State == StateRunning {
			snapshot := *job
			runningJobs = append(runningJobs, &snapshot)
		}
	}
	return runningJobs
}

// setCancel remembers how to stop the worker of a job.
func (jm *JobManager) setCancel(id string, cancel context.CancelFunc) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.cancels[id] = cancel
}

// clearCancel forgets the worker of a finished job.
func (jm *JobManager) clearCancel(id string) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	delete(jm.cancels, id)
}

// CancelJob asks the worker of a job to stop. The search keeps its best
// solution so far and the job ends in the cancelled state.
func (jm *JobManager) CancelJob(id string) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if job.State.Terminal() {
		return fmt.Errorf("job %s already %s", id, job.State)
	}
	if cancel, ok := jm.cancels[id]; ok {
		cancel()
	}
	return nil
}

// CancelAll stops every active worker.
func (jm *JobManager) CancelAll() {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	for _, cancel := range jm.cancels {
		cancel()
	}
}
