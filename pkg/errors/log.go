package errors

import (
	"os"

	"github.com/rs/zerolog"
)

// LogHandler is an ErrorHandler that writes structured events through zerolog.
type LogHandler struct {
	// Verbose adds stack traces to every event.
	Verbose bool

	log zerolog.Logger
}

// NewLogHandler returns a handler logging to logger. A nil logger logs to
// stderr with the console writer.
func NewLogHandler(logger *zerolog.Logger) *LogHandler {
	if logger != nil {
		return &LogHandler{log: *logger}
	}
	return &LogHandler{
		log: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
	}
}

// HandleError logs an EngineError.
func (h *LogHandler) HandleError(err *EngineError) {
	if err == nil {
		return
	}
	ev := h.log.Error().
		Str("op", err.Op).
		Str("kind", err.Kind.String())
	if err.Component != "" {
		ev = ev.Str("component", err.Component)
	}
	if err.Recovered != nil {
		ev = ev.Interface("recovered", err.Recovered)
	}
	if err.Err != nil {
		ev = ev.Err(err.Err)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("engine error")
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	ev := h.log.Error().Interface("value", err.Value)
	if err.Op != "" {
		ev = ev.Str("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("recovered panic")
}

// HandleRenderError logs a RenderError.
func (h *LogHandler) HandleRenderError(err *RenderError) {
	if err == nil {
		return
	}
	ev := h.log.Error().
		Str("component", err.Component).
		Str("instance", err.Instance)
	if err.Recovered != nil {
		ev = ev.Interface("recovered", err.Recovered)
	}
	if err.Err != nil {
		ev = ev.Err(err.Err)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("render failed")
}
