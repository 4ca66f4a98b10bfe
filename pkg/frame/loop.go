package frame

import (
	"context"
	"errors"
	"sync"
	"time"

	vdomerrors "github.com/go-drift/vdom/pkg/errors"
)

var (
	// ErrLoopAlreadyRunning is returned when Run is called on a running loop.
	ErrLoopAlreadyRunning = errors.New("frame: loop is already running")
	// ErrLoopClosed is returned when Post is called after Run returned.
	ErrLoopClosed = errors.New("frame: loop is closed")
)

// Loop owns the UI goroutine. Every engine call, event handler and frame
// callback runs on the goroutine executing Run, one task at a time.
//
// Post is safe from any goroutine. RequestFrame arms a timer that posts the
// callback back onto the loop after the frame interval.
type Loop struct {
	interval time.Duration

	mu      sync.Mutex
	tasks   []func()
	wake    chan struct{}
	running bool
	closed  bool
}

// NewLoop creates a loop ticking at interval. A non-positive interval uses
// DefaultInterval.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Interval returns the frame period.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Post queues task to run on the loop goroutine.
func (l *Loop) Post(task func()) error {
	if task == nil {
		return nil
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopClosed
	}
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// RequestFrame implements Source.
func (l *Loop) RequestFrame(cb func()) {
	if cb == nil {
		return
	}
	time.AfterFunc(l.interval, func() {
		_ = l.Post(cb)
	})
}

// Run executes posted tasks until ctx is done. Tasks still queued when ctx is
// cancelled are dropped. A panicking task is reported and the loop continues.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrLoopAlreadyRunning
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.closed = true
		l.tasks = nil
		l.mu.Unlock()
	}()

	for {
		l.drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		tasks := l.tasks
		l.tasks = nil
		l.mu.Unlock()
		if len(tasks) == 0 {
			return
		}
		for _, task := range tasks {
			l.runTask(task)
		}
	}
}

func (l *Loop) runTask(task func()) {
	defer vdomerrors.Recover("frame.Loop")
	task()
}
