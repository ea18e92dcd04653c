package server

import (
	"testing"
	"time"
)

func TestEventBroadcaster_SubscribeAndBroadcast(t *testing.T) {
	eb := NewEventBroadcaster()

	events, unsubscribe := eb.Subscribe("job-1")
	if eb.Subscribers("job-1") != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", eb.Subscribers("job-1"))
	}

	eb.Broadcast(ProgressEvent{JobID: "job-1", State: StateRunning, Iterations: 3})
	eb.Broadcast(ProgressEvent{JobID: "job-2", State: StateRunning})

	select {
	case ev := <-events:
		if ev.Iterations != 3 {
			t.Errorf("Expected iterations 3, got %d", ev.Iterations)
		}
	case <-time.After(time.Second):
		t.Fatal("Event not delivered")
	}
	select {
	case ev := <-events:
		t.Errorf("Unexpected event for other job: %+v", ev)
	default:
	}

	unsubscribe()
	unsubscribe()
	if _, ok := <-events; ok {
		t.Error("Channel should be closed after unsubscribe")
	}
	if eb.Subscribers("job-1") != 0 {
		t.Errorf("Expected no subscribers, got %d", eb.Subscribers("job-1"))
	}
}

func TestEventBroadcaster_ReplaysLastEvent(t *testing.T) {
	eb := NewEventBroadcaster()
	eb.Broadcast(ProgressEvent{JobID: "job-1", State: StateRunning, Evaluations: 9})

	events, unsubscribe := eb.Subscribe("job-1")
	defer unsubscribe()

	ev := <-events
	if ev.State != StateRunning || ev.Evaluations != 9 {
		t.Errorf("Expected replayed running event, got %+v", ev)
	}
}

func TestEventBroadcaster_DropsWhenFull(t *testing.T) {
	eb := NewEventBroadcaster()
	events, unsubscribe := eb.Subscribe("job-1")
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+5; i++ {
		eb.Broadcast(ProgressEvent{JobID: "job-1", Iterations: i})
	}
	if len(events) != subscriberBuffer {
		t.Errorf("Expected a full buffer of %d, got %d", subscriberBuffer, len(events))
	}
}

func TestEventBroadcaster_TerminalEventSurvivesFullBuffer(t *testing.T) {
	eb := NewEventBroadcaster()
	events, unsubscribe := eb.Subscribe("job-1")
	defer unsubscribe()

	for i := 0; i < subscriberBuffer; i++ {
		eb.Broadcast(ProgressEvent{JobID: "job-1", State: StateRunning, Iterations: i})
	}
	eb.Broadcast(ProgressEvent{JobID: "job-1", State: StateCompleted, Iterations: 99})

	if len(events) != subscriberBuffer {
		t.Fatalf("Expected a full buffer of %d, got %d", subscriberBuffer, len(events))
	}
	var last ProgressEvent
	for i := 0; i < subscriberBuffer; i++ {
		last = <-events
	}
	if last.State != StateCompleted || last.Iterations != 99 {
		t.Errorf("Expected the completed event last, got %+v", last)
	}
}

func TestEventBroadcaster_ForgetsFinishedJobs(t *testing.T) {
	eb := NewEventBroadcaster()
	for _, id := range []string{"job-1", "job-2", "job-3"} {
		eb.Broadcast(ProgressEvent{JobID: id, State: StateRunning})
	}
	if eb.Tracked() != 3 {
		t.Fatalf("Expected 3 tracked jobs, got %d", eb.Tracked())
	}

	eb.Broadcast(ProgressEvent{JobID: "job-1", State: StateCompleted})
	eb.Broadcast(ProgressEvent{JobID: "job-2", State: StateFailed})
	eb.Broadcast(ProgressEvent{JobID: "job-3", State: StateCancelled})
	if eb.Tracked() != 0 {
		t.Errorf("Expected finished jobs to be forgotten, %d still tracked", eb.Tracked())
	}

	events, unsubscribe := eb.Subscribe("job-1")
	defer unsubscribe()
	select {
	case ev := <-events:
		t.Errorf("Unexpected replay for finished job: %+v", ev)
	default:
	}
}
