// Package frame provides the display-tick sources that drive scheduler flushes.
//
// A Source runs a callback at the next frame boundary. The engine asks for at
// most one frame per batch of state changes, so sources never need to coalesce
// requests themselves.
package frame

import "time"

// DefaultInterval is the frame period used when none is configured.
const DefaultInterval = time.Second / 60

// Source schedules callbacks aligned to the next frame.
type Source interface {
	// RequestFrame arranges for cb to run on the UI goroutine at the next frame.
	RequestFrame(cb func())
}

// Manual is a Source whose frames run only when Tick is called.
// It is meant for tests and headless tools. Not safe for concurrent use.
type Manual struct {
	pending []func()
}

// NewManual returns an idle manual source.
func NewManual() *Manual {
	return &Manual{}
}

// RequestFrame implements Source.
func (m *Manual) RequestFrame(cb func()) {
	if cb != nil {
		m.pending = append(m.pending, cb)
	}
}

// Pending reports how many frame callbacks are waiting.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Tick runs every callback requested before the call. Callbacks requested
// while ticking wait for the next Tick. It returns the number of callbacks run.
func (m *Manual) Tick() int {
	pending := m.pending
	m.pending = nil
	for _, cb := range pending {
		cb()
	}
	return len(pending)
}
