// Package stop tracks the evaluation, iteration and time budgets shared by
// every search loop.
package stop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Counter reports how many evaluations have been charged so far.
// *problem.Evaluator satisfies it.
type Counter interface {
	Count() int64
}

// Limits holds the budgets. A zero value disables that budget.
type Limits struct {
	MaxEvaluations int64         `json:"max_evaluations" yaml:"max_evaluations"`
	MaxIterations  int           `json:"max_iterations" yaml:"max_iterations"`
	MaxTime        time.Duration `json:"max_time" yaml:"max_time"`
}

// Unbounded reports whether no budget is set at all.
func (l Limits) Unbounded() bool {
	return l.MaxEvaluations <= 0 && l.MaxIterations <= 0 && l.MaxTime <= 0
}

type limitsJSON struct {
	MaxEvaluations int64           `json:"max_evaluations"`
	MaxIterations  int             `json:"max_iterations"`
	MaxTime        json.RawMessage `json:"max_time,omitempty"`
}

// MarshalJSON writes MaxTime as a duration string such as "1m30s".
func (l Limits) MarshalJSON() ([]byte, error) {
	maxTime, err := json.Marshal(l.MaxTime.String())
	if err != nil {
		return nil, err
	}
	return json.Marshal(limitsJSON{
		MaxEvaluations: l.MaxEvaluations,
		MaxIterations:  l.MaxIterations,
		MaxTime:        maxTime,
	})
}

// UnmarshalJSON accepts MaxTime as a duration string ("5s") or as an
// integer number of nanoseconds. Absent fields keep their current value.
func (l *Limits) UnmarshalJSON(data []byte) error {
	raw := limitsJSON{MaxEvaluations: l.MaxEvaluations, MaxIterations: l.MaxIterations}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	maxTime := l.MaxTime
	if raw.MaxTime != nil {
		d, err := parseMaxTime(raw.MaxTime)
		if err != nil {
			return err
		}
		maxTime = d
	}
	*l = Limits{
		MaxEvaluations: raw.MaxEvaluations,
		MaxIterations:  raw.MaxIterations,
		MaxTime:        maxTime,
	}
	return nil
}

func parseMaxTime(raw json.RawMessage) (time.Duration, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("invalid max_time: %w", err)
		}
		if s == "" {
			return 0, nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid max_time %q: %w", s, err)
		}
		return d, nil
	}
	var ns int64
	if err := json.Unmarshal(raw, &ns); err != nil {
		return 0, fmt.Errorf("invalid max_time %s: want a duration string or nanoseconds", raw)
	}
	return time.Duration(ns), nil
}

// Reason names the budget that ended a run.
type Reason string

const (
	ReasonNone        Reason = "none"
	ReasonEvaluations Reason = "evaluations"
	ReasonIterations  Reason = "iterations"
	ReasonTime        Reason = "time"
	ReasonCancelled   Reason = "cancelled"
)

// Condition decides when a search loop must stop. The first budget reached wins.
// A Condition is used by one run at a time.
type Condition struct {
	limits     Limits
	counter    Counter
	clock      Clock
	ctx        context.Context
	start      time.Time
	iterations int
	progress   func(iterations int, evaluations int64)
}

// Option customizes a Condition.
type Option func(*Condition)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(cond *Condition) { cond.clock = c }
}

// WithContext stops the run once ctx is done.
func WithContext(ctx context.Context) Option {
	return func(cond *Condition) { cond.ctx = ctx }
}

// WithProgress calls fn after every notified iteration. fn runs on the
// search goroutine and must be cheap.
func WithProgress(fn func(iterations int, evaluations int64)) Option {
	return func(cond *Condition) { cond.progress = fn }
}

// New creates a condition over counter and starts its timer.
func New(counter Counter, limits Limits, opts ...Option) *Condition {
	c := &Condition{
		limits:  limits,
		counter: counter,
		clock:   SystemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Start()
	return c
}

// Start resets the iteration count and the timer.
func (c *Condition) Start() {
	c.iterations = 0
	c.start = c.clock.Now()
}

// NotifyIteration records one completed iteration of the main loop.
func (c *Condition) NotifyIteration() {
	c.iterations++
	if c.progress != nil {
		var evals int64
		if c.counter != nil {
			evals = c.counter.Count()
		}
		c.progress(c.iterations, evals)
	}
}

// Reached reports whether any budget is exhausted.
func (c *Condition) Reached() bool {
	return c.Reason() != ReasonNone
}

// Reason returns the budget that is exhausted, or ReasonNone.
func (c *Condition) Reason() Reason {
	if c.ctx != nil && c.ctx.Err() != nil {
		return ReasonCancelled
	}
	if c.limits.MaxEvaluations > 0 && c.counter != nil && c.counter.Count() >= c.limits.MaxEvaluations {
		return ReasonEvaluations
	}
	if c.limits.MaxIterations > 0 && c.iterations >= c.limits.MaxIterations {
		return ReasonIterations
	}
	if c.limits.MaxTime > 0 && c.Elapsed() >= c.limits.MaxTime {
		return ReasonTime
	}
	return ReasonNone
}

// Iterations returns the number of notified iterations.
func (c *Condition) Iterations() int { return c.iterations }

// Elapsed returns the time since Start.
func (c *Condition) Elapsed() time.Duration { return c.clock.Now().Sub(c.start) }

// Limits returns the configured budgets.
func (c *Condition) Limits() Limits { return c.limits }
