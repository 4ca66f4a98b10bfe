package core

import (
	"context"

	"github.com/go-drift/vdom/pkg/frame"
	"github.com/go-drift/vdom/pkg/host"
	"github.com/go-drift/vdom/pkg/telemetry"
)

// DefaultMaxRenderLoops bounds the synchronous re-renders of one instance
// within a single render cycle.
const DefaultMaxRenderLoops = 25

// Runtime owns the host adapter, the scheduler and the roots rendered into
// host containers. A Runtime must only be used from the UI goroutine.
type Runtime struct {
	host      host.Adapter
	scheduler *Scheduler
	log       *telemetry.Logger
	metrics   *telemetry.Metrics

	maxRenderLoops int
	roots          map[host.Node]*root

	current    *Instance
	depth      int
	generation uint64
	passive    []*Instance
}

type root struct {
	desc any
	node host.Node
}

// Option configures a Runtime.
type Option func(*runtimeOptions)

type runtimeOptions struct {
	frames         frame.Source
	log            *telemetry.Logger
	metrics        *telemetry.Metrics
	maxRenderLoops int
}

// WithFrames sets the frame source driving scheduler flushes. The default
// is a frame.Manual that only flushes when ticked.
func WithFrames(src frame.Source) Option {
	return func(o *runtimeOptions) { o.frames = src }
}

// WithLogger sets the engine logger.
func WithLogger(l *telemetry.Logger) Option {
	return func(o *runtimeOptions) { o.log = l }
}

// WithMetrics records engine metrics, including every host adapter call.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *runtimeOptions) { o.metrics = m }
}

// WithMaxRenderLoops overrides DefaultMaxRenderLoops.
func WithMaxRenderLoops(n int) Option {
	return func(o *runtimeOptions) {
		if n > 0 {
			o.maxRenderLoops = n
		}
	}
}

// NewRuntime creates a runtime driving adapter.
func NewRuntime(adapter host.Adapter, opts ...Option) *Runtime {
	o := runtimeOptions{maxRenderLoops: DefaultMaxRenderLoops}
	for _, opt := range opts {
		opt(&o)
	}
	if o.frames == nil {
		o.frames = frame.NewManual()
	}
	if o.log == nil {
		o.log = telemetry.Nop()
	}
	if o.metrics != nil {
		m := o.metrics
		adapter = host.NewObserver(adapter, func(op host.Op) {
			m.RecordHostOp(op.Kind.String())
		})
	}
	rt := &Runtime{
		host:           adapter,
		log:            o.log,
		metrics:        o.metrics,
		maxRenderLoops: o.maxRenderLoops,
		roots:          make(map[host.Node]*root),
	}
	rt.scheduler = newScheduler(rt, o.frames)
	return rt
}

// Host returns the adapter the runtime mutates.
func (rt *Runtime) Host() host.Adapter { return rt.host }

// Scheduler returns the runtime's scheduler.
func (rt *Runtime) Scheduler() *Scheduler { return rt.scheduler }

// Render mounts desc into container and returns the node realizing it.
//
// The first Render into a container clears whatever it holds. Rendering
// into the same container again reconciles against the previous root.
func (rt *Runtime) Render(desc any, container host.Node) host.Node {
	_, span := telemetry.StartRender(context.Background())
	defer span.End()

	rt.beginCommit()
	defer rt.endCommit()

	if r, ok := rt.roots[container]; ok {
		r.node = rt.reconcile(container, currentNode(r.desc, r.node), r.desc, desc, nil)
		r.desc = desc
		return r.node
	}
	rt.host.ClearChildren(container)
	node := rt.mount(container, desc, nil, true)
	rt.roots[container] = &root{desc: desc, node: node}
	return node
}

// Unmount tears down the root rendered into container, running every
// unmount lifecycle and effect cleanup. It reports whether a root existed.
func (rt *Runtime) Unmount(container host.Node) bool {
	r, ok := rt.roots[container]
	if !ok {
		return false
	}
	delete(rt.roots, container)
	rt.beginCommit()
	defer rt.endCommit()
	rt.remove(r.desc, currentNode(r.desc, r.node))
	return true
}

func (rt *Runtime) beginCommit() {
	if rt.depth == 0 {
		rt.generation++
	}
	rt.depth++
}

// endCommit closes a commit; the outermost one runs passive effects.
func (rt *Runtime) endCommit() {
	rt.depth--
	if rt.depth > 0 {
		return
	}
	for len(rt.passive) > 0 {
		queued := rt.passive
		rt.passive = nil
		for _, inst := range queued {
			inst.passive = false
			if inst.unmounted {
				continue
			}
			inst.hooks.flushEffects()
		}
	}
}

func (rt *Runtime) queuePassive(inst *Instance) {
	if inst.passive || len(inst.hooks.pendingEffects) == 0 {
		return
	}
	inst.passive = true
	rt.passive = append(rt.passive, inst)
}
