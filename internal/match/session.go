package match

import (
	"sync"
	"time"
)

// Session is the live, concurrency-safe match shown by the app.
type Session struct {
	mu       sync.Mutex
	notifyMu sync.Mutex // keeps onChange calls in dispatch order
	history  History
	now      func() time.Time
	onChange func(State)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithClock replaces time.Now for set timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithOnChange registers fn to run after every change, in dispatch order.
// fn receives its own copy and must not call back into the Session.
func WithOnChange(fn func(State)) SessionOption {
	return func(s *Session) { s.onChange = fn }
}

// NewSession starts a session at initial.
func NewSession(initial State, opts ...SessionOption) *Session {
	s := &Session{
		history: NewHistory(initial),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dispatch validates and applies a, returning the resulting state.
func (s *Session) Dispatch(a Action) (State, error) {
	if err := Validate(a); err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	changed := s.history.Apply(a, s.now())
	current := s.history.Present.Clone()
	notify := changed && s.onChange != nil
	if notify {
		s.notifyMu.Lock()
	}
	s.mu.Unlock()

	if notify {
		defer s.notifyMu.Unlock()
		s.onChange(current.Clone())
	}
	return current, nil
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Present.Clone()
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// Replace swaps in st and clears the undo stack.
func (s *Session) Replace(st State) {
	s.mu.Lock()
	s.history = NewHistory(st)
	current := s.history.Present.Clone()
	notify := s.onChange != nil
	if notify {
		s.notifyMu.Lock()
	}
	s.mu.Unlock()

	if notify {
		defer s.notifyMu.Unlock()
		s.onChange(current)
	}
}
