// Package errors provides structured error reporting for the vdom engine.
//
// The engine never aborts a flush because a component misbehaved. Panics
// raised by render functions, lifecycle methods and effects are recovered,
// wrapped in one of the types below and sent to the global [ErrorHandler].
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindHost indicates a failing host adapter call.
	KindHost
	// KindRender indicates a render function failure or a runaway render loop.
	KindRender
	// KindLifecycle indicates a failing DidMount, DidUpdate or WillUnmount.
	KindLifecycle
	// KindEffect indicates a failing effect callback or cleanup.
	KindEffect
	// KindPanic indicates a recovered panic outside a component.
	KindPanic
	// KindConfig indicates an invalid configuration.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindHost:
		return "host"
	case KindRender:
		return "render"
	case KindLifecycle:
		return "lifecycle"
	case KindEffect:
		return "effect"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// EngineError represents a structured error in the engine.
type EngineError struct {
	// Op is the operation that failed (e.g., "core.DidMount").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Component is the name of the component involved, if any.
	Component string
	// Recovered is the panic value when the error came from a recover.
	Recovered any
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *EngineError) Error() string {
	cause := any(e.Err)
	if e.Recovered != nil {
		cause = e.Recovered
	}
	if e.Component != "" {
		return fmt.Sprintf("%s [%s] component=%s: %v", e.Op, e.Kind, e.Component, cause)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, cause)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "frame.Loop").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// RenderError represents a failure while rendering a component.
type RenderError struct {
	// Component is the name of the component that failed.
	Component string
	// Instance is the id of the failing instance.
	Instance string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s.Render(): %v", e.Component, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s.Render(): %v", e.Component, e.Err)
	}
	return fmt.Sprintf("unknown error in %s.Render()", e.Component)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an engine operation fails.
	HandleError(err *EngineError)
	// HandlePanic is called when a panic is recovered outside a component.
	HandlePanic(err *PanicError)
	// HandleRenderError is called when a component render fails.
	HandleRenderError(err *RenderError)
}
