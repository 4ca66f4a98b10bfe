// Package telemetry provides logging, metrics and tracing for the engine.
//
// Everything here is optional: a Runtime built without telemetry uses a
// disabled logger, nil-safe metrics and the global (no-op by default)
// OpenTelemetry tracer.
package telemetry

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error, disabled).
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	// Format selects console or json output.
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

// Logger wraps zerolog.Logger with engine-specific helpers.
type Logger struct {
	zlog zerolog.Logger
}

// NewLogger creates a logger writing to w.
func NewLogger(cfg LoggingConfig, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	zlog := zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(cfg.Level))
	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Component returns a child logger tagged with component.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("component", name).Logger()}
}

// Zerolog exposes the underlying logger.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

// Debug starts a debug event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Info starts an info event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Warn starts a warning event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
