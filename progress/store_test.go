package progress

import (
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "progress.db")

	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	defer store.Close()

	if err := store.Save("mutex_counter", Fail); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save("mutex_counter", Pass); err != nil {
		t.Fatalf("Save (upsert) failed: %v", err)
	}
	if err := store.Save("raw_syscall", Skip); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	saved, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if saved["mutex_counter"] != Pass {
		t.Errorf("mutex_counter = %v, want Pass", saved["mutex_counter"])
	}
	if saved["raw_syscall"] != Skip {
		t.Errorf("raw_syscall = %v, want Skip", saved["raw_syscall"])
	}
	if len(saved) != 2 {
		t.Errorf("expected 2 entries, got %d", len(saved))
	}
}

func TestStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")

	store, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save("channel_pipeline", Pass); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	saved, err := reopened.Load()
	if err != nil {
		t.Fatal(err)
	}
	if saved["channel_pipeline"] != Pass {
		t.Errorf("channel_pipeline = %v, want Pass after reopen", saved["channel_pipeline"])
	}
}

func TestAttemptHistoryOnlyRealRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")

	store, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if err := store.Save("a", Pass); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("b", Skip); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("c", NotRun); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM attempts`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("attempts = %d, want 1 (skip and not-run are state, not attempts)", count)
	}

	var session string
	if err := store.db.QueryRow(`SELECT session_id FROM attempts`).Scan(&session); err != nil {
		t.Fatal(err)
	}
	if session == "" {
		t.Error("expected a session id on the attempt row")
	}
}

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		raw  string
		want Outcome
	}{
		{"pass", Pass},
		{"fail", Fail},
		{"skip", Skip},
		{"not-run", NotRun},
		{"garbage", NotRun},
	}
	for _, tt := range tests {
		if got := parseOutcome(tt.raw); got != tt.want {
			t.Errorf("parseOutcome(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
