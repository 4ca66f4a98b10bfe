package testing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-drift/vdom/pkg/core"
	vdomerrors "github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/frame"
	"github.com/go-drift/vdom/pkg/host"
)

// DefaultMaxFrames bounds PumpUntilIdle when no limit is given.
const DefaultMaxFrames = 100

var (
	// ErrNotIdle is returned when PumpUntilIdle exceeds its frame budget.
	ErrNotIdle = errors.New("PumpUntilIdle: runtime did not become idle")
	// ErrNoMatch is returned when an event targets a finder with no matches.
	ErrNoMatch = errors.New("finder matched no elements")
	// ErrNoHandler is returned when the target has no handler for the event.
	ErrNoHandler = errors.New("no handler registered for event")
)

// Tester renders descriptors into an in-memory document and drives the
// scheduler with a manual frame source. Errors reported by the engine are
// captured instead of logged.
type Tester struct {
	doc    *host.Document
	rec    *host.Recorder
	frames *frame.Manual
	rt     *core.Runtime
	errs   *ErrorCapture
}

// NewTester creates a tester. Call Cleanup() when done, or use
// NewTesterWithT() instead.
func NewTester(opts ...core.Option) *Tester {
	doc := host.NewDocument()
	rec := host.NewRecorder(doc)
	frames := frame.NewManual()
	opts = append([]core.Option{core.WithFrames(frames)}, opts...)
	t := &Tester{
		doc:    doc,
		rec:    rec,
		frames: frames,
		rt:     core.NewRuntime(rec, opts...),
		errs:   &ErrorCapture{},
	}
	vdomerrors.SetHandler(t.errs)
	return t
}

// NewTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t testing.TB, opts ...core.Option) *Tester {
	tester := NewTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree and restores the default error handler.
func (t *Tester) Cleanup() {
	t.rt.Unmount(t.doc.Body())
	vdomerrors.SetHandler(nil)
}

// Document returns the host document.
func (t *Tester) Document() *host.Document { return t.doc }

// Runtime returns the runtime under test.
func (t *Tester) Runtime() *core.Runtime { return t.rt }

// Frames returns the manual frame source.
func (t *Tester) Frames() *frame.Manual { return t.frames }

// Recorder returns the adapter recorder. Every host mutation made by the
// runtime is logged there.
func (t *Tester) Recorder() *host.Recorder { return t.rec }

// Errors returns the captured engine errors.
func (t *Tester) Errors() *ErrorCapture { return t.errs }

// Render mounts desc into the document body, or reconciles against the
// previous render.
func (t *Tester) Render(desc any) host.Node {
	return t.rt.Render(desc, t.doc.Body())
}

// Pump runs the frames requested so far and returns how many ran.
func (t *Tester) Pump() int {
	return t.frames.Tick()
}

// PumpUntilIdle runs frames until none are pending. It returns ErrNotIdle
// if work is still pending after maxFrames frames (DefaultMaxFrames if
// maxFrames <= 0).
func (t *Tester) PumpUntilIdle(maxFrames int) error {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	for range maxFrames {
		if t.frames.Pending() == 0 {
			return nil
		}
		t.frames.Tick()
	}
	if t.frames.Pending() > 0 {
		return ErrNotIdle
	}
	return nil
}

// Markup serializes the document body.
func (t *Tester) Markup() string {
	return t.doc.Markup()
}

// Find evaluates f against the document body.
func (t *Tester) Find(f Finder) FinderResult {
	return FinderResult{elements: f.Evaluate(t.doc.Body()), finder: f}
}

// Fire dispatches event to the first element matched by f. Handlers that
// take a host.Event receive value.
func (t *Tester) Fire(f Finder, event string, value any) error {
	target := t.Find(f).FirstOrNil()
	if target == nil {
		return fmt.Errorf("fire %s on %s: %w", event, f.Description(), ErrNoMatch)
	}
	if !t.doc.Dispatch(target, event, value) {
		return fmt.Errorf("fire %s on %s: %w", event, f.Description(), ErrNoHandler)
	}
	return nil
}

// Click fires a click on the first element matched by f.
func (t *Tester) Click(f Finder) error {
	return t.Fire(f, "click", nil)
}

// Input fires an input event carrying value on the first element matched
// by f.
func (t *Tester) Input(f Finder, value any) error {
	return t.Fire(f, "input", value)
}

// ErrorCapture is an errors.ErrorHandler that keeps every report.
type ErrorCapture struct {
	Errors       []*vdomerrors.EngineError
	Panics       []*vdomerrors.PanicError
	RenderErrors []*vdomerrors.RenderError
}

// HandleError implements errors.ErrorHandler.
func (c *ErrorCapture) HandleError(err *vdomerrors.EngineError) {
	c.Errors = append(c.Errors, err)
}

// HandlePanic implements errors.ErrorHandler.
func (c *ErrorCapture) HandlePanic(err *vdomerrors.PanicError) {
	c.Panics = append(c.Panics, err)
}

// HandleRenderError implements errors.ErrorHandler.
func (c *ErrorCapture) HandleRenderError(err *vdomerrors.RenderError) {
	c.RenderErrors = append(c.RenderErrors, err)
}

// Count returns the total number of captured reports.
func (c *ErrorCapture) Count() int {
	return len(c.Errors) + len(c.Panics) + len(c.RenderErrors)
}

// Reset discards the captured reports.
func (c *ErrorCapture) Reset() {
	c.Errors, c.Panics, c.RenderErrors = nil, nil, nil
}
