package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/oscamp/oscamp/progress"
	"github.com/oscamp/oscamp/registry"
)

// Result classifies one test invocation.
type Result struct {
	Outcome progress.Outcome
	// Detail carries the distinguished failure cause ("could not
	// launch: …", "timed out after …") or the skip reason.
	Detail string
	// Output is the captured combined stdout/stderr.
	Output string
}

// OutputUpdate carries one line of output from a streaming run.
type OutputUpdate string

// StatusUpdate carries the final result of a streaming run. Package
// identifies the exercise the run was started for, so a result that arrives
// after navigation has moved on is still attributed correctly.
type StatusUpdate struct {
	Package string
	Result  Result
}

// Runner executes the test command for one exercise at a time.
type Runner struct {
	cfg registry.RunnerConfig

	// Updates streams OutputUpdate and StatusUpdate values from Start.
	Updates chan any

	mu   sync.Mutex
	busy bool

	// start launches the prepared command. Overridable in tests to count
	// process spawns.
	start func(*exec.Cmd) error
}

// New creates a runner with the given command settings.
func New(cfg registry.RunnerConfig) *Runner {
	return &Runner{
		cfg:     cfg,
		Updates: make(chan any, 100), // Buffered to prevent blocking
		start:   func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// Busy reports whether a streaming run is in flight.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Check runs the exercise's test command synchronously and classifies the
// outcome. Exercises whose platform constraints are unmet yield Skip without
// spawning anything.
func (r *Runner) Check(ctx context.Context, ex *registry.Exercise) Result {
	// emit is called from both stream goroutines.
	var mu sync.Mutex
	var out []byte
	res := r.execute(ctx, ex, func(line string) {
		mu.Lock()
		out = append(out, line...)
		out = append(out, '\n')
		mu.Unlock()
	})
	res.Output = string(out)
	return res
}

// Start begins a streaming run for the exercise, delivering OutputUpdate
// lines and one final StatusUpdate on Updates. It returns false when a run
// is already in flight.
func (r *Runner) Start(ex *registry.Exercise) bool {
	r.mu.Lock()
	if r.busy {
		r.mu.Unlock()
		return false
	}
	r.busy = true
	r.mu.Unlock()

	go func() {
		res := r.execute(context.Background(), ex, func(line string) {
			r.Updates <- OutputUpdate(line)
		})

		r.mu.Lock()
		r.busy = false
		r.mu.Unlock()

		r.Updates <- StatusUpdate{Package: ex.Package, Result: res}
	}()
	return true
}

// execute spawns the test command and classifies its exit, forwarding each
// output line to emit.
func (r *Runner) execute(ctx context.Context, ex *registry.Exercise, emit func(string)) Result {
	if !ex.Runnable {
		return Result{Outcome: progress.Skip, Detail: ex.SkipReason}
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	name, args := buildArgs(r.cfg.Command, ex)
	if name == "" {
		return Result{Outcome: progress.Fail, Detail: "could not launch: empty test command"}
	}

	cmd := exec.CommandContext(ctx, name, args...)
	prepareCommand(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{Outcome: progress.Fail, Detail: fmt.Sprintf("could not launch: %v", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{Outcome: progress.Fail, Detail: fmt.Sprintf("could not launch: %v", err)}
	}

	if err := r.start(cmd); err != nil {
		return Result{Outcome: progress.Fail, Detail: fmt.Sprintf("could not launch: %v", err)}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		streamLines(stdout, emit)
	}()
	go func() {
		defer wg.Done()
		streamLines(stderr, emit)
	}()
	wg.Wait()

	err = cmd.Wait()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Result{
			Outcome: progress.Fail,
			Detail:  fmt.Sprintf("timed out after %s", r.cfg.Timeout),
		}
	}
	if err != nil {
		return Result{Outcome: progress.Fail, Detail: err.Error()}
	}
	return Result{Outcome: progress.Pass}
}

func streamLines(r io.Reader, emit func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		emit(scanner.Text())
	}
}
