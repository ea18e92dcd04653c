package stop

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct{ n int64 }

func (f *fakeCounter) Count() int64 { return f.n }

func TestEvaluationBudget(t *testing.T) {
	counter := &fakeCounter{}
	cond := New(counter, Limits{MaxEvaluations: 10})

	assert.False(t, cond.Reached())
	counter.n = 9
	assert.False(t, cond.Reached())
	counter.n = 10
	assert.True(t, cond.Reached())
	assert.Equal(t, ReasonEvaluations, cond.Reason())
}

func TestIterationBudget(t *testing.T) {
	cond := New(&fakeCounter{}, Limits{MaxIterations: 3})
	for i := 0; i < 3; i++ {
		assert.False(t, cond.Reached())
		cond.NotifyIteration()
	}
	assert.True(t, cond.Reached())
	assert.Equal(t, ReasonIterations, cond.Reason())
	assert.Equal(t, 3, cond.Iterations())
}

func TestTimeBudget(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	cond := New(&fakeCounter{}, Limits{MaxTime: time.Second}, WithClock(clock))

	clock.Advance(999 * time.Millisecond)
	assert.False(t, cond.Reached())
	clock.Advance(time.Millisecond)
	assert.True(t, cond.Reached())
	assert.Equal(t, ReasonTime, cond.Reason())
	assert.Equal(t, time.Second, cond.Elapsed())
}

func TestZeroLimitsNeverStop(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	counter := &fakeCounter{n: 1 << 40}
	cond := New(counter, Limits{}, WithClock(clock))
	for i := 0; i < 1000; i++ {
		cond.NotifyIteration()
	}
	clock.Advance(24 * time.Hour)
	assert.False(t, cond.Reached())
	assert.True(t, Limits{}.Unbounded())
}

func TestFirstBudgetWins(t *testing.T) {
	counter := &fakeCounter{}
	cond := New(counter, Limits{MaxEvaluations: 100, MaxIterations: 2})
	cond.NotifyIteration()
	cond.NotifyIteration()
	assert.Equal(t, ReasonIterations, cond.Reason())
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cond := New(&fakeCounter{}, Limits{MaxIterations: 1000}, WithContext(ctx))
	assert.False(t, cond.Reached())
	cancel()
	assert.True(t, cond.Reached())
	assert.Equal(t, ReasonCancelled, cond.Reason())
}

func TestStartResets(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	cond := New(&fakeCounter{}, Limits{MaxIterations: 1}, WithClock(clock))
	cond.NotifyIteration()
	clock.Advance(time.Minute)
	assert.True(t, cond.Reached())

	cond.Start()
	assert.False(t, cond.Reached())
	assert.Equal(t, time.Duration(0), cond.Elapsed())
}

func TestProgressHook(t *testing.T) {
	counter := &fakeCounter{}
	var gotIters []int
	var gotEvals []int64
	cond := New(counter, Limits{}, WithProgress(func(iters int, evals int64) {
		gotIters = append(gotIters, iters)
		gotEvals = append(gotEvals, evals)
	}))

	counter.n = 4
	cond.NotifyIteration()
	counter.n = 9
	cond.NotifyIteration()

	assert.Equal(t, []int{1, 2}, gotIters)
	assert.Equal(t, []int64{4, 9}, gotEvals)
}

func TestLimitsJSONDurations(t *testing.T) {
	cases := []struct {
		in   string
		want Limits
	}{
		{`{"max_time":"2s"}`, Limits{MaxTime: 2 * time.Second}},
		{`{"max_time":"1m30s","max_evaluations":50}`, Limits{MaxTime: 90 * time.Second, MaxEvaluations: 50}},
		{`{"max_time":1500000000}`, Limits{MaxTime: 1500 * time.Millisecond}},
		{`{"max_iterations":7,"max_time":null}`, Limits{MaxIterations: 7}},
		{`{"max_evaluations":10}`, Limits{MaxEvaluations: 10}},
	}
	for _, tc := range cases {
		var got Limits
		require.NoError(t, json.Unmarshal([]byte(tc.in), &got), tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, in := range []string{`{"max_time":"soon"}`, `{"max_time":true}`, `{"max_time":1.5}`} {
		var got Limits
		assert.Error(t, json.Unmarshal([]byte(in), &got), in)
	}
}

func TestLimitsJSONKeepsAbsentFields(t *testing.T) {
	got := Limits{MaxEvaluations: 100, MaxTime: time.Second}
	require.NoError(t, json.Unmarshal([]byte(`{"max_iterations":5}`), &got))
	assert.Equal(t, Limits{MaxEvaluations: 100, MaxIterations: 5, MaxTime: time.Second}, got)

	require.NoError(t, json.Unmarshal([]byte(`{"max_time":"3s"}`), &got))
	assert.Equal(t, 3*time.Second, got.MaxTime)
	assert.Equal(t, int64(100), got.MaxEvaluations)
}

func TestLimitsJSONRoundTrip(t *testing.T) {
	in := Limits{MaxEvaluations: 400, MaxIterations: 20, MaxTime: 750 * time.Millisecond}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"max_time":"750ms"`)

	var out Limits
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
