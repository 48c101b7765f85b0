package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/riky97/volleyball-scoreboard/internal/match"
)

// Saver is what the Autosaver writes to.
type Saver interface {
	Save(match.State) error
}

// Autosaver coalesces bursts of changes into a single Save once delay has
// passed without a newer state.
type Autosaver struct {
	saver Saver
	delay time.Duration
	log   zerolog.Logger

	flushMu sync.Mutex // keeps saves in schedule order
	mu      sync.Mutex
	timer   *time.Timer
	pending *match.State
	stopped bool
}

// NewAutosaver returns an Autosaver writing to saver.
func NewAutosaver(saver Saver, delay time.Duration, log zerolog.Logger) *Autosaver {
	return &Autosaver{saver: saver, delay: delay, log: log}
}

// Schedule records st as the latest state and restarts the delay.
func (a *Autosaver) Schedule(st match.State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}

	cp := st.Clone()
	a.pending = &cp
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() { _ = a.Flush() })
}

// Flush saves the pending state now, if any.
func (a *Autosaver) Flush() error {
	a.flushMu.Lock()
	defer a.flushMu.Unlock()

	a.mu.Lock()
	st := a.pending
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	if st == nil {
		return nil
	}
	if err := a.saver.Save(*st); err != nil {
		a.log.Warn().Err(err).Msg("autosave failed")
		return err
	}
	a.log.Debug().Str("match", st.ID).Msg("match saved")
	return nil
}

// Discard drops the pending state without saving it.
func (a *Autosaver) Discard() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Close flushes the pending state and ignores later Schedule calls.
func (a *Autosaver) Close() error {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()
	return a.Flush()
}
