package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestTraceEntries_RunningBest(t *testing.T) {
	entries := TraceEntries([]float64{3, 1, 5, 4})
	want := []float64{3, 3, 5, 5}
	for i, e := range entries {
		if e.Index != i {
			t.Errorf("Entry %d: expected index %d, got %d", i, i, e.Index)
		}
		if e.BestSoFar != want[i] {
			t.Errorf("Entry %d: expected best %f, got %f", i, want[i], e.BestSoFar)
		}
	}
}

func TestSaveAndLoadTrajectory(t *testing.T) {
	dir := t.TempDir()
	runID := NewRunID()

	if err := SaveTrajectory(dir, runID, []float64{0, 2, 1, 6}); err != nil {
		t.Fatalf("SaveTrajectory failed: %v", err)
	}

	entries, err := LoadTrajectory(dir, runID)
	if err != nil {
		t.Fatalf("LoadTrajectory failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(entries))
	}
	if entries[2].Fitness != 1 || entries[2].BestSoFar != 2 {
		t.Errorf("Unexpected entry %+v", entries[2])
	}
}

func TestTraceWriter_PathBesideRecord(t *testing.T) {
	dir := t.TempDir()
	runID := NewRunID()

	tw, err := NewTraceWriter(dir, runID)
	if err != nil {
		t.Fatal(err)
	}
	defer tw.Close()

	want := filepath.Join(dir, "runs", runID, "trace.jsonl")
	if tw.Path() != want {
		t.Errorf("Expected trace path %s, got %s", want, tw.Path())
	}
	if _, err := os.Stat(tw.Path()); err != nil {
		t.Errorf("Expected trace file to exist: %v", err)
	}
}

func TestTraceWriter_Truncates(t *testing.T) {
	dir := t.TempDir()
	runID := NewRunID()

	if err := SaveTrajectory(dir, runID, []float64{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if err := SaveTrajectory(dir, runID, []float64{9}); err != nil {
		t.Fatal(err)
	}

	entries, err := LoadTrajectory(dir, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Fitness != 9 {
		t.Errorf("Expected trace to be replaced, got %v", entries)
	}
}

func TestTraceReader_ReadIteratively(t *testing.T) {
	dir := t.TempDir()
	runID := NewRunID()
	if err := SaveTrajectory(dir, runID, []float64{1, 2}); err != nil {
		t.Fatal(err)
	}

	reader, err := NewTraceReader(dir, runID)
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer reader.Close()

	for i := 0; i < 2; i++ {
		entry, err := reader.Read()
		if err != nil {
			t.Fatalf("Read %d failed: %v", i, err)
		}
		if entry.Index != i {
			t.Errorf("Expected index %d, got %d", i, entry.Index)
		}
	}
	if _, err := reader.Read(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestTraceReader_NotFound(t *testing.T) {
	_, err := NewTraceReader(t.TempDir(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTraceWriter_ConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	runID := NewRunID()

	writer, err := NewTraceWriter(dir, runID)
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := writer.Write(TraceEntry{Index: i, Fitness: float64(i)}); err != nil {
				t.Errorf("Write failed: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := LoadTrajectory(dir, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 50 {
		t.Errorf("Expected 50 entries, got %d", len(entries))
	}
}

func TestNewTraceWriter_EmptyRunID(t *testing.T) {
	if _, err := NewTraceWriter(t.TempDir(), ""); err == nil {
		t.Error("Expected error for empty run ID")
	}
}

func TestDeleteTrace(t *testing.T) {
	dir := t.TempDir()
	runID := NewRunID()
	if err := SaveTrajectory(dir, runID, []float64{1}); err != nil {
		t.Fatal(err)
	}

	if err := DeleteTrace(dir, runID); err != nil {
		t.Fatalf("DeleteTrace failed: %v", err)
	}
	if _, err := LoadTrajectory(dir, runID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected trace removed, got %v", err)
	}
	if err := DeleteTrace(dir, runID); err != nil {
		t.Errorf("Deleting a missing trace should succeed, got %v", err)
	}
}
