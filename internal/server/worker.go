package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cwbudde/paramsearch/internal/experiment"
	"github.com/cwbudde/paramsearch/internal/stop"
	"github.com/cwbudde/paramsearch/internal/store"
)

// progressInterval throttles job updates from the search loop.
const progressInterval = 250 * time.Millisecond

// runJob executes a search job. The search stops when its budget is spent
// or ctx is cancelled; in both cases the best solution found is kept. When
// runs is not nil the outcome is persisted as a run record.
func runJob(ctx context.Context, jm *JobManager, runs store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	cfg := job.Config

	err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	})
	if err != nil {
		return err
	}
	broadcastJob(jm, jobID)

	slog.Info("Starting job",
		"job_id", jobID,
		"algorithm", cfg.Algorithm.Name,
		"oracle", cfg.Instance.Oracle,
		"parameters", cfg.Instance.Parameters,
		"width", cfg.Instance.Width,
	)

	inst, err := cfg.Instance.Build()
	if err != nil {
		err = fmt.Errorf("failed to build instance: %w", err)
		markJobFailed(jm, jobID, err)
		return err
	}

	var mu sync.Mutex
	last := time.Now()
	progress := stop.WithProgress(func(iterations int, evaluations int64) {
		mu.Lock()
		defer mu.Unlock()
		if time.Since(last) < progressInterval {
			return
		}
		last = time.Now()
		jm.UpdateJob(jobID, func(j *Job) {
			j.Iterations = iterations
			j.Evaluations = evaluations
		})
		broadcastJob(jm, jobID)
	})

	out, err := experiment.RunOne(ctx, cfg.Algorithm, inst, cfg.Budget, cfg.Seed, progress)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	state := StateCompleted
	if out.StopReason == stop.ReasonCancelled {
		state = StateCancelled
	}

	var runID string
	if runs != nil {
		rec, err := experiment.Save(runs, out, cfg.Instance, "job-"+jobID, cfg.SaveTrace)
		if err != nil {
			slog.Error("Failed to persist run", "job_id", jobID, "error", err)
		}
		if rec != nil {
			runID = rec.ID
		}
	}

	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = state
		j.BestFitness = out.BestFitness
		j.BestValues = out.BestValues
		j.Evaluations = out.Evaluations
		j.Iterations = out.Iterations
		j.StopReason = string(out.StopReason)
		j.RunID = runID
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}
	broadcastJob(jm, jobID)

	slog.Info("Job finished",
		"job_id", jobID,
		"state", state,
		"best_fitness", out.BestFitness,
		"evaluations", out.Evaluations,
		"iterations", out.Iterations,
		"stop_reason", out.StopReason,
		"elapsed", out.Elapsed,
		"run_id", runID,
	)
	return nil
}

func broadcastJob(jm *JobManager, jobID string) {
	if job, ok := jm.GetJob(jobID); ok {
		jm.broadcaster.Broadcast(eventOf(job))
	}
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	broadcastJob(jm, jobID)
	slog.Error("Job failed", "job_id", jobID, "error", err)
}
