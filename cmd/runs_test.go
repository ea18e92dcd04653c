package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/paramsearch/internal/store"
)

func runInfos(now time.Time, ages ...int) []store.RunInfo {
	infos := make([]store.RunInfo, len(ages))
	for i, days := range ages {
		infos[i] = store.RunInfo{
			ID:        string(rune('a' + i)),
			CreatedAt: now.AddDate(0, 0, -days),
		}
	}
	return infos
}

func ids(infos []store.RunInfo) string {
	s := ""
	for _, info := range infos {
		s += info.ID
	}
	return s
}

func TestSelectRunsForDeletion_OlderThan(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	infos := runInfos(now, 1, 10, 3, 30)

	got := selectRunsForDeletion(infos, 0, 7, now)
	if ids(got) != "db" {
		t.Errorf("Expected runs d,b (oldest first), got %q", ids(got))
	}
}

func TestSelectRunsForDeletion_KeepLast(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	infos := runInfos(now, 1, 10, 3, 30)

	got := selectRunsForDeletion(infos, 2, 0, now)
	if ids(got) != "db" {
		t.Errorf("Expected runs d,b, got %q", ids(got))
	}

	if got := selectRunsForDeletion(infos, 10, 0, now); len(got) != 0 {
		t.Errorf("Expected nothing to delete, got %q", ids(got))
	}
}

func TestSelectRunsForDeletion_Combined(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	infos := runInfos(now, 1, 10, 3, 30)

	// keep-last 3 selects d; older-than 5 selects d and b. d is listed once.
	got := selectRunsForDeletion(infos, 3, 5, now)
	if ids(got) != "db" {
		t.Errorf("Expected runs d,b, got %q", ids(got))
	}
}

func TestFilterByExperiment(t *testing.T) {
	infos := []store.RunInfo{
		{ID: "a", Experiment: "x"},
		{ID: "b", Experiment: "y"},
		{ID: "c", Experiment: "x"},
	}
	if got := ids(filterByExperiment(infos, "x")); got != "ac" {
		t.Errorf("Expected a,c, got %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{500, "500 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAlgorithmFlagsDefaults(t *testing.T) {
	var f algorithmFlags
	f.register(&cobra.Command{Use: "test"})
	f.name = "ga"

	cfg := f.config()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default flags should produce a valid config: %v", err)
	}
	if cfg.GA.TournamentSize == 0 {
		t.Error("Fields without a flag should keep their defaults")
	}
}
