package logging

import (
	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// WailsLogger forwards the host runtime's log lines into zerolog.
type WailsLogger struct {
	log zerolog.Logger
}

var _ logger.Logger = (*WailsLogger)(nil)

// NewWailsLogger wraps l for use as options.App.Logger.
func NewWailsLogger(l zerolog.Logger) *WailsLogger {
	return &WailsLogger{log: l}
}

func (w *WailsLogger) Print(message string)   { w.log.Log().Msg(message) }
func (w *WailsLogger) Trace(message string)   { w.log.Trace().Msg(message) }
func (w *WailsLogger) Debug(message string)   { w.log.Debug().Msg(message) }
func (w *WailsLogger) Info(message string)    { w.log.Info().Msg(message) }
func (w *WailsLogger) Warning(message string) { w.log.Warn().Msg(message) }
func (w *WailsLogger) Error(message string)   { w.log.Error().Msg(message) }

// Fatal logs and exits the process, matching the runtime's default logger.
func (w *WailsLogger) Fatal(message string) { w.log.Fatal().Msg(message) }

// WailsLevel converts a zerolog level to the runtime's level scale.
func WailsLevel(l zerolog.Level) logger.LogLevel {
	switch {
	case l <= zerolog.TraceLevel:
		return logger.TRACE
	case l == zerolog.DebugLevel:
		return logger.DEBUG
	case l == zerolog.InfoLevel:
		return logger.INFO
	case l == zerolog.WarnLevel:
		return logger.WARNING
	default:
		return logger.ERROR
	}
}
