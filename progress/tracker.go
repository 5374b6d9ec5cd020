package progress

import (
	"github.com/oscamp/oscamp/registry"
)

// Outcome classifies an exercise's latest test attempt.
type Outcome int

const (
	// NotRun indicates the exercise has not been tested yet.
	NotRun Outcome = iota
	// Pass indicates the last run passed.
	Pass
	// Fail indicates the last run failed.
	Fail
	// Skip indicates the exercise's platform constraints are unmet on
	// this host. It is never produced by an actual test run.
	Skip
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Skip:
		return "skip"
	default:
		return "not-run"
	}
}

// Complete reports whether the exercise needs no further work: it either
// passed or is skipped on this host.
func (o Outcome) Complete() bool {
	return o == Pass || o == Skip
}

// Summary aggregates outcome counts over the whole curriculum.
type Summary struct {
	Passed  int
	Failed  int
	Skipped int
	Total   int
}

// Store persists outcomes across runs. It is an optional collaborator; a
// Tracker with no store keeps everything in memory.
type Store interface {
	Load() (map[string]Outcome, error)
	Save(pkg string, outcome Outcome) error
	Close() error
}

// Tracker owns the per-exercise outcome state. It is mutated only from the
// session's foreground loop, so it carries no locking.
type Tracker struct {
	reg      *registry.Registry
	outcomes map[string]Outcome
	store    Store
	storeErr error
}

// NewTracker creates a tracker over the given registry.
func NewTracker(reg *registry.Registry) *Tracker {
	return &Tracker{
		reg:      reg,
		outcomes: make(map[string]Outcome),
	}
}

// AttachStore seeds the tracker from the store and enables write-through on
// Record. Entries for packages no longer in the registry are ignored.
func (t *Tracker) AttachStore(s Store) error {
	saved, err := s.Load()
	if err != nil {
		return err
	}
	for pkg, outcome := range saved {
		if _, err := t.reg.IndexOf(pkg); err != nil {
			continue
		}
		t.outcomes[pkg] = outcome
	}
	t.store = s
	return nil
}

// Record overwrites the outcome for the given exercise. Recording the same
// outcome twice is observably a no-op. A store write failure never blocks
// recording; it is retained for StoreErr.
func (t *Tracker) Record(pkg string, outcome Outcome) {
	if prev, ok := t.outcomes[pkg]; ok && prev == outcome {
		return
	}
	t.outcomes[pkg] = outcome
	if t.store != nil {
		if err := t.store.Save(pkg, outcome); err != nil {
			t.storeErr = err
		}
	}
}

// Of returns the recorded outcome for the exercise, defaulting to NotRun.
func (t *Tracker) Of(pkg string) Outcome {
	return t.outcomes[pkg]
}

// StoreErr returns the most recent store write failure, if any.
func (t *Tracker) StoreErr() error {
	return t.storeErr
}

// Aggregate derives outcome counts. Total is always the registry size,
// independent of how many exercises have been attempted.
func (t *Tracker) Aggregate() Summary {
	s := Summary{Total: t.reg.Len()}
	for _, ex := range t.reg.All() {
		switch t.outcomes[ex.Package] {
		case Pass:
			s.Passed++
		case Fail:
			s.Failed++
		case Skip:
			s.Skipped++
		}
	}
	return s
}

// NextIncomplete scans the flattened list starting just after from, wrapping
// past the end, and returns the first index whose outcome is neither Pass
// nor Skip. The second return is false when the whole curriculum is
// complete.
func (t *Tracker) NextIncomplete(from int) (int, bool) {
	n := t.reg.Len()
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		ex, err := t.reg.At(idx)
		if err != nil {
			continue
		}
		if !t.outcomes[ex.Package].Complete() {
			return idx, true
		}
	}
	return 0, false
}

// Done reports whether every exercise is Pass or Skip.
func (t *Tracker) Done() bool {
	_, ok := t.NextIncomplete(0)
	return !ok
}
