package session

import (
	"github.com/oscamp/oscamp/progress"
	"github.com/oscamp/oscamp/registry"
)

// Mode is the UI display mode.
type Mode int

const (
	// ModeNormal shows the current exercise and its last test output.
	ModeNormal Mode = iota
	// ModeHint overlays the current exercise's hint.
	ModeHint
	// ModeList shows the module-grouped curriculum with outcomes.
	ModeList
)

// Session tracks the learner's position in the curriculum and the display
// mode. It is mutated only from the foreground loop; no other component may
// move the current index.
type Session struct {
	reg     *registry.Registry
	tracker *progress.Tracker

	current int
	mode    Mode
}

// New creates a session positioned at the first incomplete exercise, or at
// the start of the curriculum when everything is already complete.
func New(reg *registry.Registry, tracker *progress.Tracker) *Session {
	s := &Session{reg: reg, tracker: tracker}
	// NextIncomplete scans from the index after its argument, so seeding
	// with the last index makes the scan start at 0.
	if idx, ok := tracker.NextIncomplete(reg.Len() - 1); ok {
		s.current = idx
	}
	return s
}

// Index returns the current exercise's position in the flattened list.
func (s *Session) Index() int {
	return s.current
}

// Current returns the exercise the session is positioned at.
func (s *Session) Current() *registry.Exercise {
	ex, _ := s.reg.At(s.current)
	return ex
}

// Mode returns the current display mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// ToggleHint switches between hint display and the normal view.
func (s *Session) ToggleHint() {
	if s.mode == ModeHint {
		s.mode = ModeNormal
	} else {
		s.mode = ModeHint
	}
}

// ToggleList switches between the curriculum list and the normal view.
func (s *Session) ToggleList() {
	if s.mode == ModeList {
		s.mode = ModeNormal
	} else {
		s.mode = ModeList
	}
}

// Reset returns the display to the normal view.
func (s *Session) Reset() {
	s.mode = ModeNormal
}

// Next moves to the following exercise, wrapping past the end.
func (s *Session) Next() {
	s.current = (s.current + 1) % s.reg.Len()
}

// Prev moves to the preceding exercise, wrapping past the start.
func (s *Session) Prev() {
	s.current = (s.current - 1 + s.reg.Len()) % s.reg.Len()
}

// JumpTo positions the session at the given index.
func (s *Session) JumpTo(index int) error {
	if _, err := s.reg.At(index); err != nil {
		return err
	}
	s.current = index
	return nil
}

// JumpToFirstIncomplete moves to the next exercise that is neither Pass nor
// Skip, wrapping around. It reports whether such an exercise exists.
func (s *Session) JumpToFirstIncomplete() bool {
	idx, ok := s.tracker.NextIncomplete(s.current)
	if !ok {
		return false
	}
	s.current = idx
	return true
}

// AdvanceAfterPass moves to the next incomplete exercise after the current
// one just passed. When the curriculum is complete the position is
// unchanged and false is returned.
func (s *Session) AdvanceAfterPass() bool {
	idx, ok := s.tracker.NextIncomplete(s.current)
	if !ok {
		return false
	}
	s.current = idx
	return true
}
