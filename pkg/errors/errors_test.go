package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestEngineErrorString(t *testing.T) {
	err := &EngineError{
		Op:   "core.DidMount",
		Kind: KindLifecycle,
		Err:  fmt.Errorf("boom"),
	}
	got := err.Error()
	want := "core.DidMount [lifecycle]: boom"
	if got != want {
		t.Errorf("EngineError.Error() = %q, want %q", got, want)
	}
}

func TestEngineErrorWithComponent(t *testing.T) {
	err := &EngineError{
		Op:        "core.Effect",
		Kind:      KindEffect,
		Component: "Counter",
		Recovered: "nil map",
	}
	got := err.Error()
	if !strings.Contains(got, "component=Counter") {
		t.Errorf("error string %q should contain component", got)
	}
	if !strings.Contains(got, "nil map") {
		t.Errorf("error string %q should contain the recovered value", got)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindHost, "host"},
		{KindRender, "render"},
		{KindLifecycle, "lifecycle"},
		{KindEffect, "effect"},
		{KindPanic, "panic"},
		{KindConfig, "config"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "test panic", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}

	err.Op = "frame.Loop"
	if got, want := err.Error(), "panic in frame.Loop: test panic"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestRenderErrorString(t *testing.T) {
	err := &RenderError{Component: "Counter", Recovered: "index out of range"}
	if got, want := err.Error(), "panic in Counter.Render(): index out of range"; got != want {
		t.Errorf("RenderError.Error() = %q, want %q", got, want)
	}

	err2 := &RenderError{Component: "Counter", Err: fmt.Errorf("bad props")}
	if got := err2.Error(); !strings.Contains(got, "error in Counter.Render()") {
		t.Errorf("RenderError.Error() = %q, should contain 'error in'", got)
	}

	err3 := &RenderError{Component: "Counter"}
	if got, want := err3.Error(), "unknown error in Counter.Render()"; got != want {
		t.Errorf("RenderError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	handler := &testHandler{}
	SetHandler(handler)
	defer SetHandler(nil)

	Report(&EngineError{Op: "test.op", Kind: KindHost})

	if len(handler.errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(handler.errors))
	}
	if handler.errors[0].Op != "test.op" {
		t.Errorf("Op = %q, want %q", handler.errors[0].Op, "test.op")
	}
	if handler.errors[0].Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	handler := &testHandler{}
	SetHandler(handler)
	defer SetHandler(nil)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if len(handler.panics) != 1 {
		t.Fatalf("expected panic to be recovered and captured")
	}
	if handler.panics[0].Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", handler.panics[0].Value, "intentional test panic")
	}
	if handler.panics[0].Op != "test.recover" {
		t.Errorf("Op = %q, want %q", handler.panics[0].Op, "test.recover")
	}
}

func TestGuard(t *testing.T) {
	handler := &testHandler{}
	SetHandler(handler)
	defer SetHandler(nil)

	if !Guard("core.Effect", KindEffect, "Clock", func() {}) {
		t.Error("Guard should report success for a normal call")
	}
	if Guard("core.Effect", KindEffect, "Clock", func() { panic(fmt.Errorf("tick failed")) }) {
		t.Error("Guard should report failure for a panicking call")
	}

	if len(handler.errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(handler.errors))
	}
	err := handler.errors[0]
	if err.Kind != KindEffect || err.Component != "Clock" {
		t.Errorf("unexpected error fields: %+v", err)
	}
	if err.Err == nil || err.Err.Error() != "tick failed" {
		t.Errorf("expected wrapped error, got %v", err.Err)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandlerWritesStructuredEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	h := NewLogHandler(&logger)

	h.HandleRenderError(&RenderError{Component: "List", Instance: "abc", Recovered: "boom"})
	h.HandleError(&EngineError{Op: "host.SetAttribute", Kind: KindHost, Err: fmt.Errorf("readonly")})

	out := buf.String()
	for _, want := range []string{`"component":"List"`, `"instance":"abc"`, `"kind":"host"`, `"error":"readonly"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q should contain %q", out, want)
		}
	}
}

type testHandler struct {
	errors  []*EngineError
	panics  []*PanicError
	renders []*RenderError
}

func (h *testHandler) HandleError(err *EngineError) {
	h.errors = append(h.errors, err)
}

func (h *testHandler) HandlePanic(err *PanicError) {
	h.panics = append(h.panics, err)
}

func (h *testHandler) HandleRenderError(err *RenderError) {
	h.renders = append(h.renders, err)
}
