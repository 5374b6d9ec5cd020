package progress

import (
	"testing"

	"github.com/oscamp/oscamp/registry"
)

var trackerManifest = []byte(`
[[exercise]]
name = "A"
package = "a"
path = "exercises/a"
module = "M1"

[[exercise]]
name = "B"
package = "b"
path = "exercises/b"
module = "M1"

[[exercise]]
name = "C"
package = "c"
path = "exercises/c"
module = "M2"
`)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	host := registry.Host{OS: "linux", Arch: "amd64", HasBinary: func(string) bool { return true }}
	reg, err := registry.Parse(trackerManifest, host)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return reg
}

func TestOutcomeDefaultsToNotRun(t *testing.T) {
	tr := NewTracker(testRegistry(t))
	if got := tr.Of("a"); got != NotRun {
		t.Errorf("Of = %v, want NotRun", got)
	}
	if got := tr.Of("never-heard-of-it"); got != NotRun {
		t.Errorf("Of for unknown package = %v, want NotRun", got)
	}
}

func TestRecordIdempotent(t *testing.T) {
	tr := NewTracker(testRegistry(t))

	tr.Record("a", Pass)
	first := tr.Aggregate()

	tr.Record("a", Pass)
	second := tr.Aggregate()

	if first != second {
		t.Errorf("aggregate changed on duplicate record: %+v -> %+v", first, second)
	}
	if first.Passed != 1 {
		t.Errorf("passed = %d, want 1", first.Passed)
	}
}

func TestRecordOverwrites(t *testing.T) {
	tr := NewTracker(testRegistry(t))

	tr.Record("a", Fail)
	tr.Record("a", Pass)

	if got := tr.Of("a"); got != Pass {
		t.Errorf("Of = %v, want Pass", got)
	}
	agg := tr.Aggregate()
	if agg.Failed != 0 || agg.Passed != 1 {
		t.Errorf("aggregate = %+v, want 1 pass and 0 fail", agg)
	}
}

func TestAggregateTotalIsRegistrySize(t *testing.T) {
	tr := NewTracker(testRegistry(t))

	if tr.Aggregate().Total != 3 {
		t.Errorf("total = %d, want 3 before any attempt", tr.Aggregate().Total)
	}

	tr.Record("a", Pass)
	tr.Record("b", Skip)

	if tr.Aggregate().Total != 3 {
		t.Errorf("total = %d, want 3 after partial attempts", tr.Aggregate().Total)
	}
}

func TestNextIncompleteWraps(t *testing.T) {
	tr := NewTracker(testRegistry(t))

	// Outcomes [Pass, Fail, NotRun], positioned at the last index: the
	// scan wraps past the end and lands on the Fail at index 1, skipping
	// the Pass at index 0.
	tr.Record("a", Pass)
	tr.Record("b", Fail)

	idx, ok := tr.NextIncomplete(2)
	if !ok {
		t.Fatal("expected an incomplete exercise")
	}
	if idx != 1 {
		t.Errorf("NextIncomplete(2) = %d, want 1", idx)
	}
}

func TestNextIncompleteAllComplete(t *testing.T) {
	tr := NewTracker(testRegistry(t))
	tr.Record("a", Pass)
	tr.Record("b", Skip)
	tr.Record("c", Pass)

	if _, ok := tr.NextIncomplete(0); ok {
		t.Error("expected no incomplete exercise")
	}
	if !tr.Done() {
		t.Error("expected Done")
	}
}

func TestNextIncompleteCurrentOnly(t *testing.T) {
	tr := NewTracker(testRegistry(t))
	tr.Record("b", Pass)
	tr.Record("c", Skip)

	// Only index 0 is incomplete; scanning from it must come back around
	// to it.
	idx, ok := tr.NextIncomplete(0)
	if !ok || idx != 0 {
		t.Errorf("NextIncomplete(0) = %d, %v; want 0, true", idx, ok)
	}
}

type fakeStore struct {
	saved  map[string]Outcome
	loaded map[string]Outcome
	err    error
}

func (s *fakeStore) Load() (map[string]Outcome, error) { return s.loaded, nil }
func (s *fakeStore) Save(pkg string, o Outcome) error {
	if s.err != nil {
		return s.err
	}
	s.saved[pkg] = o
	return nil
}
func (s *fakeStore) Close() error { return nil }

func TestAttachStoreSeedsAndWritesThrough(t *testing.T) {
	tr := NewTracker(testRegistry(t))
	store := &fakeStore{
		saved: make(map[string]Outcome),
		loaded: map[string]Outcome{
			"a":    Pass,
			"gone": Fail, // no longer in the registry, must be dropped
		},
	}

	if err := tr.AttachStore(store); err != nil {
		t.Fatalf("AttachStore failed: %v", err)
	}
	if tr.Of("a") != Pass {
		t.Error("expected seeded outcome for a")
	}
	if tr.Of("gone") != NotRun {
		t.Error("expected stale store entry to be ignored")
	}

	tr.Record("b", Fail)
	if store.saved["b"] != Fail {
		t.Error("expected write-through on Record")
	}

	// A duplicate record must not hit the store again.
	store.saved = make(map[string]Outcome)
	tr.Record("b", Fail)
	if len(store.saved) != 0 {
		t.Error("expected duplicate record to skip the store")
	}
}
