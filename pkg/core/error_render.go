package core

import (
	"sync"

	"github.com/go-drift/vdom/pkg/errors"
)

// ErrorRenderer produces the fallback descriptor shown in place of a
// component whose render failed.
type ErrorRenderer func(err *errors.RenderError) any

var (
	errorRenderer   ErrorRenderer = DefaultErrorRenderer
	errorRendererMu sync.RWMutex
)

// SetErrorRenderer configures the global error renderer.
// Pass nil to restore the default renderer.
func SetErrorRenderer(renderer ErrorRenderer) {
	errorRendererMu.Lock()
	defer errorRendererMu.Unlock()
	if renderer == nil {
		errorRenderer = DefaultErrorRenderer
	} else {
		errorRenderer = renderer
	}
}

// GetErrorRenderer returns the current error renderer.
func GetErrorRenderer() ErrorRenderer {
	errorRendererMu.RLock()
	defer errorRendererMu.RUnlock()
	return errorRenderer
}

// DefaultErrorRenderer renders nothing, so a failing component simply
// disappears from the host tree. In DebugMode it renders the error message.
func DefaultErrorRenderer(err *errors.RenderError) any {
	if !DebugMode || err == nil {
		return nil
	}
	return H("pre", Props{"class": "vdom-error"}, err.Error())
}

// ErrorBoundary is implemented by class-style components that capture
// render errors from the components they enclose.
type ErrorBoundary interface {
	// CaptureError receives a render error from a descendant. Returning true
	// replaces the failing output with nothing; the boundary typically calls
	// SetState to show its own fallback.
	CaptureError(err *errors.RenderError) bool
}
