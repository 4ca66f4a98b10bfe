package core

import (
	"testing"

	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/frame"
	"github.com/go-drift/vdom/pkg/host"
)

type fixture struct {
	rt     *Runtime
	doc    *host.Document
	rec    *host.Recorder
	frames *frame.Manual
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	doc := host.NewDocument()
	rec := host.NewRecorder(doc)
	frames := frame.NewManual()
	opts = append([]Option{WithFrames(frames)}, opts...)
	return &fixture{
		rt:     NewRuntime(rec, opts...),
		doc:    doc,
		rec:    rec,
		frames: frames,
	}
}

func (f *fixture) render(desc any) host.Node {
	return f.rt.Render(desc, f.doc.Body())
}

func (f *fixture) markup() string {
	return f.doc.Markup()
}

// find returns the first element under the body with tag.
func (f *fixture) find(tag string) *host.Element {
	var walk func(e *host.Element) *host.Element
	walk = func(e *host.Element) *host.Element {
		for _, c := range e.Children() {
			if c.Tag == tag {
				return c
			}
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(f.doc.Body())
}

func (f *fixture) click(tag string) {
	f.doc.Dispatch(f.find(tag), "click", nil)
}

type captureHandler struct {
	errs    []*errors.EngineError
	panics  []*errors.PanicError
	renders []*errors.RenderError
}

func (h *captureHandler) HandleError(err *errors.EngineError)       { h.errs = append(h.errs, err) }
func (h *captureHandler) HandlePanic(err *errors.PanicError)        { h.panics = append(h.panics, err) }
func (h *captureHandler) HandleRenderError(err *errors.RenderError) { h.renders = append(h.renders, err) }

func captureErrors(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

func list(keys ...string) *Element {
	items := make([]any, len(keys))
	for i, k := range keys {
		items[i] = H("li", Props{"key": k}, k)
	}
	return H("ul", nil, items)
}
