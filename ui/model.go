package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/oscamp/oscamp/filesystem"
	"github.com/oscamp/oscamp/progress"
	"github.com/oscamp/oscamp/registry"
	"github.com/oscamp/oscamp/runner"
	"github.com/oscamp/oscamp/session"
)

// Messages

// watchMsg carries a debounced file-change event.
type watchMsg filesystem.Event

// watchErrMsg reports that the watcher could not observe the current
// exercise's path. The loop keeps running; manual re-run stays available.
type watchErrMsg struct{ err error }

// runRequestMsg asks the loop to start a test for the current exercise.
type runRequestMsg struct{}

// Model is the bubbletea model for the interactive session.
type Model struct {
	// UI state
	width    int
	height   int
	ready    bool
	showHelp bool
	viewport viewport.Model
	bar      progressbar.Model

	keys   KeyMap
	help   help.Model
	logger *log.Logger

	// Dependencies, all owned by this loop.
	reg        *registry.Registry
	sess       *session.Session
	tracker    *progress.Tracker
	testRunner *runner.Runner
	watcher    *filesystem.Watcher

	// Run state
	runningPkg  string
	pendingRun  bool
	output      string
	outputs     map[string]string
	notice      string
	watchBroken bool
	done        bool
}

// NewModel wires the session loop over its collaborators. The watcher may be
// nil, in which case only manual re-runs trigger tests.
func NewModel(reg *registry.Registry, sess *session.Session, tracker *progress.Tracker, r *runner.Runner, w *filesystem.Watcher, logger *log.Logger) Model {
	bar := progressbar.New(progressbar.WithDefaultGradient())

	return Model{
		keys:        NewKeyMap(),
		help:        help.New(),
		bar:         bar,
		logger:      logger,
		reg:         reg,
		sess:        sess,
		tracker:     tracker,
		testRunner:  r,
		watcher:     w,
		outputs:     make(map[string]string),
		watchBroken: w == nil,
		done:        tracker.Done(),
	}
}

// Init starts the watcher subscription, the channel pumps, and the first
// test run.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.watchCurrent(),
		m.waitForUpdates,
	}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForWatch)
	}
	if !m.done {
		cmds = append(cmds, func() tea.Msg { return runRequestMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = msg.Width - 24

		viewportWidth := m.width - 4
		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 3 {
			viewportHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(viewportWidth, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = viewportWidth
			m.viewport.Height = viewportHeight
		}
		m.viewport.SetContent(m.output)
		return m, nil

	case runRequestMsg:
		m.triggerRun(m.sess.Current())
		return m, nil

	case watchMsg:
		return m.handleWatch(msg)

	case watchErrMsg:
		m.watchBroken = true
		if m.logger != nil {
			m.logger.Warn("file watch degraded", "err", msg.err)
		}
		return m, nil

	case runner.OutputUpdate:
		if m.runningPkg != "" {
			m.output += string(msg) + "\n"
			m.outputs[m.runningPkg] = m.output
			m.viewport.SetContent(m.output)
			m.viewport.GotoBottom()
		}
		return m, m.waitForUpdates

	case runner.StatusUpdate:
		return m.handleStatus(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.watcher != nil {
			m.watcher.Close()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Hint):
		m.sess.ToggleHint()
		return m, nil

	case key.Matches(msg, m.keys.List):
		m.sess.ToggleList()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m.navigate(func() { m.sess.Next() })

	case key.Matches(msg, m.keys.Prev):
		return m.navigate(func() { m.sess.Prev() })

	case key.Matches(msg, m.keys.ReRun):
		if m.runningPkg != "" {
			m.notice = "a test is already running"
			return m, nil
		}
		m.notice = ""
		m.triggerRun(m.sess.Current())
		return m, nil
	}

	// Everything else scrolls the output pane.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// navigate applies a position change unless a run is in flight, then
// re-targets the watcher and starts a test for the newly selected exercise.
func (m Model) navigate(move func()) (tea.Model, tea.Cmd) {
	if m.runningPkg != "" {
		m.notice = "a test is already running"
		return m, nil
	}
	move()
	m.sess.Reset()
	m.notice = ""
	m.done = false
	m.output = m.outputs[m.sess.Current().Package]
	m.viewport.SetContent(m.output)
	m.triggerRun(m.sess.Current())
	return m, m.watchCurrent()
}

func (m Model) handleWatch(msg watchMsg) (tea.Model, tea.Cmd) {
	// An event from a replaced subscription belongs to an exercise that is
	// no longer current.
	if m.watcher == nil || msg.Gen != m.watcher.Gen() {
		return m, m.waitForWatch
	}
	if m.runningPkg != "" {
		// Coalesce: one re-run right after the in-flight one finishes.
		m.pendingRun = true
		return m, m.waitForWatch
	}
	m.triggerRun(m.sess.Current())
	return m, m.waitForWatch
}

func (m Model) handleStatus(msg runner.StatusUpdate) (tea.Model, tea.Cmd) {
	res := msg.Result

	// Outcomes are keyed by exercise identity, so a result that arrives
	// for a no-longer-current exercise is still recorded.
	m.tracker.Record(msg.Package, res.Outcome)

	final := m.outputs[msg.Package]
	switch res.Outcome {
	case progress.Pass:
		final += "\n" + passStyle.Render("✓ PASS") + "\n"
	case progress.Fail:
		final += "\n" + failStyle.Render("✗ FAIL") + "\n"
		if res.Detail != "" {
			final += failStyle.Render(res.Detail) + "\n"
		}
	}
	m.outputs[msg.Package] = final

	if m.runningPkg == msg.Package {
		m.runningPkg = ""
	}

	cmds := []tea.Cmd{m.waitForUpdates}

	cur := m.sess.Current()
	if cur != nil && cur.Package == msg.Package {
		m.output = final
		m.viewport.SetContent(m.output)
		m.viewport.GotoBottom()

		if res.Outcome == progress.Pass {
			m.pendingRun = false
			if m.sess.AdvanceAfterPass() {
				m.notice = fmt.Sprintf("passed, moving on to %s", m.sess.Current().Name)
				m.triggerRun(m.sess.Current())
				cmds = append(cmds, m.watchCurrent())
			} else {
				m.done = true
			}
			return m, tea.Batch(cmds...)
		}
	}

	if m.pendingRun && m.runningPkg == "" {
		m.pendingRun = false
		m.triggerRun(m.sess.Current())
	}

	return m, tea.Batch(cmds...)
}

// triggerRun starts a streaming test for the exercise. Exercises skipped by
// platform constraints never spawn a process.
func (m *Model) triggerRun(ex *registry.Exercise) {
	if ex == nil {
		return
	}
	if !ex.Runnable {
		m.tracker.Record(ex.Package, progress.Skip)
		m.output = skipStyle.Render("⊘ skipped: "+ex.SkipReason) + "\n"
		m.outputs[ex.Package] = m.output
		m.viewport.SetContent(m.output)
		return
	}
	if !m.testRunner.Start(ex) {
		m.notice = "a test is already running"
		return
	}
	m.runningPkg = ex.Package
	m.output = fmt.Sprintf("Testing %s...\n\n", ex.Package)
	m.outputs[ex.Package] = m.output
	m.viewport.SetContent(m.output)
}

// Commands

func (m Model) watchCurrent() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ex := m.sess.Current()
	return func() tea.Msg {
		if err := m.watcher.Watch(ex.Path); err != nil {
			return watchErrMsg{err: err}
		}
		return nil
	}
}

func (m Model) waitForWatch() tea.Msg {
	ev, ok := <-m.watcher.Events
	if !ok {
		return nil
	}
	return watchMsg(ev)
}

func (m Model) waitForUpdates() tea.Msg {
	update, ok := <-m.testRunner.Updates
	if !ok {
		return nil
	}
	return update
}
