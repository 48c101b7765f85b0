// Package logging wires zerolog as the application's log sink and adapts it
// to the host runtime's logger interface.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a Sink.
type Options struct {
	Level  string // trace, debug, info, warn, error
	Format string // "console" (default) or "json"
	Out    io.Writer
}

// Sink owns the root logger. Its level can be changed while the app runs.
type Sink struct {
	filter *levelFilter
	root   zerolog.Logger
}

// NewSink builds a sink writing to opts.Out (stderr when nil).
func NewSink(opts Options) *Sink {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	var w io.Writer = out
	if strings.ToLower(opts.Format) != "json" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly, NoColor: out != os.Stderr && out != os.Stdout}
	}

	f := &levelFilter{w: w}
	f.min.Store(int32(ParseLevel(opts.Level)))

	return &Sink{
		filter: f,
		root:   zerolog.New(f).Level(zerolog.TraceLevel).With().Timestamp().Logger(),
	}
}

// Discard returns a sink that drops everything.
func Discard() *Sink {
	s := NewSink(Options{Out: io.Discard, Format: "json"})
	s.filter.min.Store(int32(zerolog.Disabled))
	return s
}

// Logger returns the root logger.
func (s *Sink) Logger() zerolog.Logger { return s.root }

// Component returns a child logger tagged with component=name.
func (s *Sink) Component(name string) zerolog.Logger {
	return s.root.With().Str("component", name).Logger()
}

// Level reports the current minimum level.
func (s *Sink) Level() zerolog.Level {
	return zerolog.Level(s.filter.min.Load())
}

// SetLevel changes the minimum level; unknown names fall back to info.
func (s *Sink) SetLevel(level string) {
	s.filter.min.Store(int32(ParseLevel(level)))
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// levelFilter drops events below min before they reach w.
type levelFilter struct {
	w   io.Writer
	min atomic.Int32
}

func (f *levelFilter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

func (f *levelFilter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	floor := zerolog.Level(f.min.Load())
	if floor == zerolog.Disabled || (l != zerolog.NoLevel && l < floor) {
		return len(p), nil
	}
	return f.w.Write(p)
}
