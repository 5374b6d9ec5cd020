package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/oscamp/oscamp/filesystem"
	"github.com/oscamp/oscamp/progress"
	"github.com/oscamp/oscamp/registry"
	"github.com/oscamp/oscamp/runner"
	"github.com/oscamp/oscamp/session"
	"github.com/oscamp/oscamp/ui"
)

// stateDir holds the session log and the progress database, next to the
// manifest.
const stateDir = ".oscamp"

// watchMode seeds the tracker, then hands the terminal to the interactive
// session loop.
func watchMode(reg *registry.Registry) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return err
	}

	logFile, err := os.OpenFile(filepath.Join(stateDir, "session.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		Prefix:          "oscamp",
	})

	tracker := progress.NewTracker(reg)

	store, err := progress.OpenStore(filepath.Join(stateDir, "progress.db"))
	if err != nil {
		logger.Warn("progress store unavailable, state will not persist", "err", err)
	} else {
		defer store.Close()
		if err := tracker.AttachStore(store); err != nil {
			logger.Warn("could not load saved progress", "err", err)
		}
	}

	seedSkips(reg, tracker)

	r := runner.New(reg.Runner())
	scan(reg, tracker, r)

	sess := session.New(reg, tracker)

	watcher, err := filesystem.NewWatcher(logger)
	if err != nil {
		// Degraded but usable: manual re-run still works.
		logger.Warn("file watcher unavailable", "err", err)
		watcher = nil
	}

	p := tea.NewProgram(ui.NewModel(reg, sess, tracker, r, watcher, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	fmt.Println("Keep at it 💪")
	return nil
}

// seedSkips records Skip for every exercise whose platform constraints are
// unmet, so aggregates and navigation see them without ever running them.
func seedSkips(reg *registry.Registry, tracker *progress.Tracker) {
	for _, ex := range reg.All() {
		if !ex.Runnable {
			tracker.Record(ex.Package, progress.Skip)
		}
	}
}

// scan checks every exercise that has no recorded outcome yet, so a fresh
// checkout starts positioned at the first real gap. Previously recorded
// outcomes are trusted, which keeps restarts fast.
func scan(reg *registry.Registry, tracker *progress.Tracker, r *runner.Runner) {
	total := reg.Len()
	for i, ex := range reg.All() {
		if tracker.Of(ex.Package) != progress.NotRun {
			continue
		}
		fmt.Printf("  [%2d/%d] Checking %-24s\r", i+1, total, ex.Package)
		res := r.Check(context.Background(), ex)
		tracker.Record(ex.Package, res.Outcome)
	}
	fmt.Print("\r\033[K")
}

// listMode prints the curriculum with the stored per-exercise outcomes. It
// never runs any tests.
func listMode(reg *registry.Registry) error {
	tracker := progress.NewTracker(reg)

	store, err := progress.OpenStore(filepath.Join(stateDir, "progress.db"))
	if err == nil {
		defer store.Close()
		if err := tracker.AttachStore(store); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load saved progress: %v\n", err)
		}
	}

	// After the store so the constraint check wins over an outcome saved
	// on another host.
	seedSkips(reg, tracker)

	for _, mod := range reg.Modules() {
		fmt.Printf("\n[%s]\n", mod.Name)
		for _, ex := range mod.Exercises {
			fmt.Printf("  %s %2d. %-24s (%s)\n",
				outcomeMark(tracker.Of(ex.Package)), ex.Index+1, ex.Name, ex.Package)
		}
	}

	agg := tracker.Aggregate()
	fmt.Printf("\nProgress: %d passed, %d failed, %d skipped, %d total\n",
		agg.Passed, agg.Failed, agg.Skipped, agg.Total)
	return nil
}

// checkMode runs every exercise once and returns the process exit code:
// zero only when nothing failed.
func checkMode(reg *registry.Registry) int {
	tracker := progress.NewTracker(reg)
	r := runner.New(reg.Runner())
	total := reg.Len()

	for i, ex := range reg.All() {
		fmt.Printf("  [%2d/%d] %-24s ", i+1, total, ex.Package)
		res := r.Check(context.Background(), ex)
		tracker.Record(ex.Package, res.Outcome)
		switch res.Outcome {
		case progress.Pass:
			fmt.Println("✓ PASS")
		case progress.Skip:
			fmt.Printf("⊘ SKIP (%s)\n", res.Detail)
		default:
			if res.Detail != "" {
				fmt.Printf("✗ FAIL (%s)\n", res.Detail)
			} else {
				fmt.Println("✗ FAIL")
			}
		}
	}

	agg := tracker.Aggregate()
	fmt.Printf("\nResult: %d/%d passed, %d skipped, %d failed\n",
		agg.Passed, agg.Total, agg.Skipped, agg.Failed)
	if agg.Failed > 0 {
		return 1
	}
	return 0
}

// runMode runs a single exercise with its full captured output.
func runMode(reg *registry.Registry, pkg string) error {
	ex, err := lookup(reg, pkg, "run")
	if err != nil {
		return err
	}

	fmt.Printf("▶ %s: %s\n  📄 %s\n\n", ex.Name, ex.Description, ex.Path)

	r := runner.New(reg.Runner())
	res := r.Check(context.Background(), ex)
	fmt.Print(res.Output)

	switch res.Outcome {
	case progress.Pass:
		fmt.Println("\n✓ Test passed!")
	case progress.Skip:
		fmt.Printf("\n⊘ Skipped: %s\n", res.Detail)
	default:
		if res.Detail != "" {
			fmt.Printf("\n✗ Test failed: %s\n", res.Detail)
		} else {
			fmt.Println("\n✗ Test failed")
		}
		fmt.Printf("  💡 Try 'oscamp hint %s'\n", pkg)
		os.Exit(1)
	}
	return nil
}

// hintMode prints the static guidance text for one exercise.
func hintMode(reg *registry.Registry, pkg string) error {
	ex, err := lookup(reg, pkg, "hint")
	if err != nil {
		return err
	}
	hint := ex.Hint
	if hint == "" {
		hint = "No hint for this exercise."
	}
	fmt.Printf("💡 %s hint:\n\n%s\n", ex.Name, hint)
	return nil
}

func lookup(reg *registry.Registry, pkg, cmd string) (*registry.Exercise, error) {
	if pkg == "" {
		return nil, fmt.Errorf("usage: oscamp %s <package>", cmd)
	}
	ex, err := reg.ByPackage(pkg)
	if errors.Is(err, registry.ErrNotFound) {
		return nil, fmt.Errorf("exercise %q not found, see 'oscamp list'", pkg)
	}
	return ex, err
}

func outcomeMark(o progress.Outcome) string {
	switch o {
	case progress.Pass:
		return "✓"
	case progress.Fail:
		return "✗"
	case progress.Skip:
		return "⊘"
	default:
		return "·"
	}
}
