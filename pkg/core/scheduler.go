package core

import (
	"context"
	"slices"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/go-drift/vdom/pkg/frame"
	"github.com/go-drift/vdom/pkg/telemetry"
)

// Scheduler batches state changes into one flush per frame.
//
// Scheduler is NOT thread-safe. It must only be used from the UI goroutine;
// background work should hand results over with frame.Loop.Post.
type Scheduler struct {
	rt        *Runtime
	frames    frame.Source
	queue     []stateChange
	dirty     mapset.Set[*Instance]
	scheduled bool
	log       *telemetry.Logger

	// OnFlush, if set, is called after every flush with the number of
	// mutations applied and instances re-rendered.
	OnFlush func(mutations, instances int)
}

type stateChange struct {
	inst   *Instance
	change any
}

func newScheduler(rt *Runtime, frames frame.Source) *Scheduler {
	return &Scheduler{
		rt:     rt,
		frames: frames,
		dirty:  mapset.NewThreadUnsafeSet[*Instance](),
		log:    rt.log.Component("scheduler"),
	}
}

// EnqueueStateChange queues change for inst and marks it dirty.
func (s *Scheduler) EnqueueStateChange(inst *Instance, change any) {
	s.queue = append(s.queue, stateChange{inst: inst, change: change})
	s.EnqueueDirty(inst)
}

// EnqueueDirty marks inst for re-rendering at the next flush. The first
// enqueue since the last flush requests a frame.
func (s *Scheduler) EnqueueDirty(inst *Instance) {
	s.dirty.Add(inst)
	if s.scheduled {
		return
	}
	s.scheduled = true
	s.frames.RequestFrame(s.Flush)
}

// Pending reports whether a flush is scheduled.
func (s *Scheduler) Pending() bool {
	return s.scheduled
}

// Flush applies every queued state change in call order, re-renders each
// dirty instance once, shallowest first, and runs the passive effects armed
// on the way.
// Changes enqueued during the flush are left for the next one.
func (s *Scheduler) Flush() {
	s.scheduled = false
	queue := s.queue
	s.queue = nil
	dirty := s.dirty
	s.dirty = mapset.NewThreadUnsafeSet[*Instance]()
	if len(queue) == 0 && dirty.Cardinality() == 0 {
		return
	}

	start := time.Now()
	_, span := telemetry.StartFlush(context.Background(), len(queue), dirty.Cardinality())
	defer span.End()

	for _, c := range queue {
		if c.inst.component == nil {
			continue
		}
		c.inst.component.componentBase().applyStateChange(c.change)
	}

	s.rt.beginCommit()
	rendered := 0
	// Parents first, so a child re-rendered by its parent is skipped.
	pending := dirty.ToSlice()
	slices.SortFunc(pending, func(a, b *Instance) int {
		return a.depth - b.depth
	})
	for _, inst := range pending {
		before := inst.renderedAt
		inst.rerender()
		if inst.renderedAt != before {
			rendered++
		}
	}
	s.rt.endCommit()

	elapsed := time.Since(start)
	s.rt.metrics.ObserveFlush(elapsed, len(queue))
	s.log.Debug().Int("mutations", len(queue)).Int("instances", rendered).
		Dur("elapsed", elapsed).Msg("flush")
	if s.OnFlush != nil {
		s.OnFlush(len(queue), rendered)
	}
}
