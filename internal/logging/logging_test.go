package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestSinkFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(Options{Level: "info", Format: "json", Out: &buf})
	log := s.Component("test")

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	log.Warn().Msg("also shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "shown", lines[0]["message"])
	assert.Equal(t, "test", lines[0]["component"])
	assert.Equal(t, "warn", lines[1]["level"])
}

func TestSinkSetLevelAppliesToExistingLoggers(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(Options{Level: "warn", Format: "json", Out: &buf})
	log := s.Component("reload")

	log.Info().Msg("before")
	s.SetLevel("debug")
	log.Debug().Msg("after")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "after", lines[0]["message"])
	assert.Equal(t, zerolog.DebugLevel, s.Level())
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel(" ERROR "))
}

func TestDiscardDropsEverything(t *testing.T) {
	s := Discard()
	l := s.Logger()
	l.Error().Msg("nowhere")
	assert.Equal(t, zerolog.Disabled, s.Level())
}

func TestWailsLoggerForwards(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(Options{Level: "info", Format: "json", Out: &buf})
	var wl logger.Logger = NewWailsLogger(s.Component("wails"))

	wl.Debug("dropped")
	wl.Info("asset server ready")
	wl.Warning("slow start")
	wl.Print("raw line")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "asset server ready", lines[0]["message"])
	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "raw line", lines[2]["message"])
}

func TestWailsLevel(t *testing.T) {
	assert.Equal(t, logger.TRACE, WailsLevel(zerolog.TraceLevel))
	assert.Equal(t, logger.DEBUG, WailsLevel(zerolog.DebugLevel))
	assert.Equal(t, logger.INFO, WailsLevel(zerolog.InfoLevel))
	assert.Equal(t, logger.WARNING, WailsLevel(zerolog.WarnLevel))
	assert.Equal(t, logger.ERROR, WailsLevel(zerolog.FatalLevel))
}
