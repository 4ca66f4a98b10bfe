package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/host"
)

// Instance is the live counterpart of a component element. It persists
// across renders while the component keeps its position and tag.
type Instance struct {
	// ID identifies the instance in logs and error reports.
	ID string

	rt        *Runtime
	typ       *ComponentType
	component Component
	props     Props
	hooks     *Hooks

	// container is the host node the component's output lives in and
	// nextSibling the node it is inserted before (nil appends).
	container   host.Node
	nextSibling host.Node
	base        host.Node
	rendered    any

	// parent is the nearest enclosing instance; owner is set when this
	// instance is the direct render output of another one, so base changes
	// propagate upward.
	parent *Instance
	owner  *Instance
	depth  int

	dirty      bool
	running    bool
	mounted    bool
	unmounted  bool
	passive    bool
	renderedAt uint64
}

func (rt *Runtime) newInstance(ct *ComponentType, el *Element, container, next host.Node) *Instance {
	inst := &Instance{
		ID:          uuid.NewString(),
		rt:          rt,
		typ:         ct,
		props:       el.Props,
		container:   container,
		nextSibling: next,
		parent:      rt.current,
	}
	if inst.parent != nil {
		inst.depth = inst.parent.depth + 1
	}
	inst.hooks = &Hooks{inst: inst}
	if ct.kind == statefulKind {
		var c Component
		inst.guard("core.Create", errors.KindLifecycle, func() {
			c = ct.create()
		})
		if c != nil {
			b := c.componentBase()
			b.inst = inst
			b.props = el.Props
			if init, ok := c.(interface{ InitialState() State }); ok {
				inst.guard("core.InitialState", errors.KindLifecycle, func() {
					if s := init.InitialState(); s != nil {
						b.state = s
					}
				})
			}
			if b.state == nil {
				b.state = State{}
			}
			inst.component = c
		}
	}
	return inst
}

// Name returns the component's display name.
func (inst *Instance) Name() string { return inst.typ.name }

// Base returns the host node currently realizing the component's output,
// or nil when it renders nothing.
func (inst *Instance) Base() host.Node { return inst.base }

// Mounted reports whether the instance is in the tree.
func (inst *Instance) Mounted() bool { return inst.mounted && !inst.unmounted }

// Component returns the class-style component value, or nil for function
// components.
func (inst *Instance) Component() Component { return inst.component }

// mount renders and commits the instance for the first time. When attach is
// false the realized base is left for the caller to insert.
func (inst *Instance) mount(attach bool) host.Node {
	inst.run(attach)
	return inst.base
}

// update receives new props from the parent's render.
func (inst *Instance) update(props Props, next host.Node) host.Node {
	inst.props = props
	if inst.component != nil {
		inst.component.componentBase().props = props
	}
	inst.nextSibling = next
	inst.run(true)
	return inst.base
}

// setAnchor updates the insertion point of the instance and of the
// components it renders directly, which share its position.
func (inst *Instance) setAnchor(next host.Node) {
	for cur := inst; cur != nil; {
		cur.nextSibling = next
		el, ok := cur.rendered.(*Element)
		if !ok || el == nil {
			return
		}
		cur = el.instance
	}
}

// rerender re-renders the instance on its own after a state change.
func (inst *Instance) rerender() {
	if inst.unmounted || !inst.mounted || inst.renderedAt == inst.rt.generation {
		return
	}
	inst.run(true)
}

// run renders until the instance is stable, commits, then runs layout
// effects. State set by a layout effect loops back to a synchronous
// re-render.
func (inst *Instance) run(attach bool) {
	rt := inst.rt
	prev := rt.current
	rt.current = inst
	inst.running = true
	defer func() {
		inst.running = false
		rt.current = prev
	}()

	for pass := 1; ; pass++ {
		out := inst.renderStable()
		inst.commit(out, attach)
		inst.hooks.flushLayoutEffects()
		if !inst.dirty || inst.unmounted {
			break
		}
		if pass >= rt.maxRenderLoops {
			inst.reportLoopLimit()
			inst.dirty = false
			break
		}
	}
	inst.renderedAt = rt.generation
	rt.queuePassive(inst)
}

// renderStable calls the render function, repeating while the render itself
// marked the instance dirty.
func (inst *Instance) renderStable() any {
	rt := inst.rt
	for i := 1; ; i++ {
		inst.hooks.reset()
		inst.dirty = false
		out := inst.safeRender()
		rt.metrics.RecordRender(inst.typ.name)
		if !inst.dirty {
			return out
		}
		if i >= rt.maxRenderLoops {
			inst.reportLoopLimit()
			inst.dirty = false
			return out
		}
	}
}

// safeRender executes the render function with panic recovery. A failing
// render is reported and replaced by the error renderer's output.
func (inst *Instance) safeRender() any {
	var out any
	var renderErr *errors.RenderError

	func() {
		defer func() {
			if r := recover(); r != nil {
				renderErr = &errors.RenderError{
					Component:  inst.typ.name,
					Instance:   inst.ID,
					Recovered:  r,
					StackTrace: errors.CaptureStack(),
					Timestamp:  time.Now(),
				}
				if err, ok := r.(error); ok {
					renderErr.Err = err
				}
			}
		}()
		switch {
		case inst.component != nil:
			out = inst.component.Render()
		case inst.typ.render != nil:
			out = inst.typ.render(inst.hooks, inst.props)
		}
	}()

	if renderErr == nil {
		return out
	}
	errors.ReportRenderError(renderErr)
	inst.rt.metrics.RecordRecovered(errors.KindRender.String())
	inst.rt.log.Warn().Str("instance", inst.ID).Str("name", inst.typ.name).
		Interface("recovered", renderErr.Recovered).Msg("render failed")

	if boundary := inst.findErrorBoundary(); boundary != nil {
		if boundary.CaptureError(renderErr) {
			return nil
		}
	}
	if renderer := GetErrorRenderer(); renderer != nil {
		return renderer(renderErr)
	}
	return nil
}

// findErrorBoundary searches enclosing instances for a component that
// captures render errors.
func (inst *Instance) findErrorBoundary() ErrorBoundary {
	for p := inst.parent; p != nil; p = p.parent {
		if p.unmounted {
			continue
		}
		if b, ok := p.component.(ErrorBoundary); ok {
			return b
		}
	}
	return nil
}

// commit reconciles the rendered output against the previous one and
// invokes the mount or update lifecycle.
func (inst *Instance) commit(out any, attach bool) {
	rt := inst.rt
	var base host.Node
	if !inst.mounted {
		base = rt.mount(inst.container, out, inst.nextSibling, attach)
	} else {
		base = rt.reconcile(inst.container, inst.base, inst.rendered, out, inst.nextSibling)
	}
	inst.rendered = out
	if el, ok := out.(*Element); ok && el != nil && el.instance != nil {
		el.instance.owner = inst
	}
	inst.setBase(base)

	if !inst.mounted {
		inst.mounted = true
		if c, ok := inst.component.(interface{ DidMount() }); ok {
			inst.guard("core.DidMount", errors.KindLifecycle, c.DidMount)
		}
		return
	}
	if c, ok := inst.component.(interface{ DidUpdate() }); ok {
		inst.guard("core.DidUpdate", errors.KindLifecycle, c.DidUpdate)
	}
}

// setBase records base and updates every owner whose output is this
// instance.
func (inst *Instance) setBase(base host.Node) {
	inst.base = base
	child := inst
	for o := inst.owner; o != nil; o = o.owner {
		el, ok := o.rendered.(*Element)
		if !ok || el == nil || el.instance != child {
			break
		}
		o.base = base
		child = o
	}
}

// invalidate marks the instance dirty. Outside its own render cycle the
// instance is also queued on the scheduler.
func (inst *Instance) invalidate() {
	inst.dirty = true
	if inst.unmounted || inst.running {
		return
	}
	inst.rt.scheduler.EnqueueDirty(inst)
}

// unmount runs the unmount lifecycle and effect cleanups for the instance
// and everything it rendered. Host nodes are detached by the caller.
func (inst *Instance) unmount() {
	if inst.unmounted {
		return
	}
	inst.unmounted = true
	if c, ok := inst.component.(interface{ WillUnmount() }); ok && inst.mounted {
		inst.guard("core.WillUnmount", errors.KindLifecycle, c.WillUnmount)
	}
	inst.hooks.cleanupAll()
	inst.rt.unmountTree(inst.rendered)
}

func (inst *Instance) guard(op string, kind errors.ErrorKind, fn func()) {
	if !errors.Guard(op, kind, inst.typ.name, fn) {
		inst.rt.metrics.RecordRecovered(kind.String())
	}
}

func (inst *Instance) reportLoopLimit() {
	errors.Report(&errors.EngineError{
		Op:        "core.Render",
		Kind:      errors.KindRender,
		Component: inst.typ.name,
		Err:       fmt.Errorf("state changed on every render for %d passes", inst.rt.maxRenderLoops),
	})
	inst.rt.log.Warn().Str("instance", inst.ID).Str("name", inst.typ.name).
		Int("loops", inst.rt.maxRenderLoops).Msg("render loop limit reached")
}

func (inst *Instance) String() string {
	return inst.typ.name + "#" + inst.ID
}
