package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// ProgressEvent is one update pushed to stream subscribers.
type ProgressEvent struct {
	JobID       string    `json:"jobId"`
	State       JobState  `json:"state"`
	Iterations  int       `json:"iterations"`
	Evaluations int64     `json:"evaluations"`
	BestFitness float64   `json:"bestFitness"`
	Timestamp   time.Time `json:"timestamp"`
}

func eventOf(job *Job) ProgressEvent {
	return ProgressEvent{
		JobID:       job.ID,
		State:       job.State,
		Iterations:  job.Iterations,
		Evaluations: job.Evaluations,
		BestFitness: job.BestFitness,
		Timestamp:   time.Now(),
	}
}

const subscriberBuffer = 16

// EventBroadcaster fans job events out to stream subscribers. Slow
// subscribers drop progress events instead of blocking the search; a
// terminal event always reaches them, displacing the oldest queued one.
type EventBroadcaster struct {
	mu     sync.Mutex
	subs   map[string]map[int]chan ProgressEvent
	last   map[string]ProgressEvent
	nextID int
}

// NewEventBroadcaster creates an empty broadcaster.
func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{
		subs: make(map[string]map[int]chan ProgressEvent),
		last: make(map[string]ProgressEvent),
	}
}

// Subscribe registers a subscriber for jobID. The latest progress event, if
// any, is delivered first. The returned func unsubscribes and closes the
// channel.
func (eb *EventBroadcaster) Subscribe(jobID string) (<-chan ProgressEvent, func()) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan ProgressEvent, subscriberBuffer)
	id := eb.nextID
	eb.nextID++
	if eb.subs[jobID] == nil {
		eb.subs[jobID] = make(map[int]chan ProgressEvent)
	}
	eb.subs[jobID][id] = ch
	if ev, ok := eb.last[jobID]; ok {
		ch <- ev
	}
	slog.Debug("Stream subscriber added", "job_id", jobID, "subscribers", len(eb.subs[jobID]))

	var once sync.Once
	return ch, func() {
		once.Do(func() { eb.unsubscribe(jobID, id) })
	}
}

func (eb *EventBroadcaster) unsubscribe(jobID string, id int) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.subs[jobID]
	if ch, ok := subs[id]; ok {
		delete(subs, id)
		close(ch)
	}
	if len(subs) == 0 {
		delete(eb.subs, jobID)
	}
}

// Broadcast offers event to every subscriber of its job. Progress events are
// kept as the job's latest for late subscribers; a terminal event forgets the
// job, whose final state is then read from the job manager.
func (eb *EventBroadcaster) Broadcast(event ProgressEvent) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	terminal := event.State.Terminal()
	if terminal {
		delete(eb.last, event.JobID)
	} else {
		eb.last[event.JobID] = event
	}
	for _, ch := range eb.subs[event.JobID] {
		select {
		case ch <- event:
			continue
		default:
		}
		if !terminal {
			slog.Debug("Stream subscriber lagging, event dropped", "job_id", event.JobID)
			continue
		}
		// Only Broadcast sends, and it holds mu, so one free slot suffices.
		select {
		case <-ch:
		default:
		}
		ch <- event
	}
}

// Tracked returns the number of jobs with a retained latest event.
func (eb *EventBroadcaster) Tracked() int {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	return len(eb.last)
}

// Subscribers returns the number of subscribers of jobID.
func (eb *EventBroadcaster) Subscribers(jobID string) int {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	return len(eb.subs[jobID])
}

// handleJobStream handles GET /api/v1/jobs/:id/stream as server-sent events.
// The stream ends when the job reaches a terminal state or the client leaves.
func (s *Server) handleJobStream(w http.ResponseWriter, r *http.Request, jobID string) {
	if _, exists := s.jobManager.GetJob(jobID); !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Subscribe before taking the snapshot so a transition between the two
	// is still delivered on the channel.
	events, unsubscribe := s.jobManager.broadcaster.Subscribe(jobID)
	defer unsubscribe()

	send := func(ev ProgressEvent) bool {
		if err := writeSSEEvent(w, ev); err != nil {
			slog.Debug("Stream write failed", "job_id", jobID, "error", err)
			return false
		}
		flusher.Flush()
		return !ev.State.Terminal()
	}

	job, exists := s.jobManager.GetJob(jobID)
	if !exists || !send(eventOf(job)) {
		return
	}

	keepAlive := time.NewTicker(s.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok || !send(ev) {
				return
			}
		case <-keepAlive.C:
			if job, ok := s.jobManager.GetJob(jobID); ok && job.State.Terminal() {
				send(eventOf(job))
				return
			}
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, event ProgressEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: progress\ndata: %s\n\n", data)
	return err
}
