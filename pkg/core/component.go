package core

import (
	"fmt"
	"maps"

	"github.com/go-drift/vdom/pkg/errors"
)

type componentKind int

const (
	statefulKind componentKind = iota
	functionKind
)

// RenderFunc renders a function component. It receives the instance's hook
// store and the latest props, and returns a descriptor.
type RenderFunc func(h *Hooks, props Props) any

// ComponentType is a component tag. Two elements have the same component tag
// when they reference the same *ComponentType.
type ComponentType struct {
	name   string
	kind   componentKind
	create func() Component
	render RenderFunc
}

// Stateful declares a class-style component. create is called once per
// mounted instance and must return a fresh value embedding ComponentBase.
func Stateful(name string, create func() Component) *ComponentType {
	return &ComponentType{name: name, kind: statefulKind, create: create}
}

// Func declares a function component rendered by render.
func Func(name string, render RenderFunc) *ComponentType {
	return &ComponentType{name: name, kind: functionKind, render: render}
}

// Name returns the display name of the component.
func (t *ComponentType) Name() string { return t.name }

func (t *ComponentType) tagName() string { return t.name }

// Component is implemented by class-style components. Embed ComponentBase to
// satisfy it and implement Render.
//
// Components may also implement any of:
//
//	InitialState() State  // called once before the first render
//	DidMount()            // after the first commit
//	DidUpdate()           // after every later commit
//	WillUnmount()         // before the component leaves the tree
type Component interface {
	Render() any
	componentBase() *ComponentBase
}

// State is the state record of a class-style component.
type State map[string]any

// StateUpdater computes a state patch from the previous state and current props.
type StateUpdater func(prev State, props Props) State

// ComponentBase carries the props and state of a class-style component.
//
// Example:
//
//	type counter struct {
//	    core.ComponentBase
//	}
//
//	func (c *counter) InitialState() core.State { return core.State{"n": 0} }
//
//	func (c *counter) Render() any {
//	    n := c.State()["n"].(int)
//	    return core.H("button", core.Props{"onClick": func() {
//	        c.SetState(core.State{"n": n + 1})
//	    }}, n)
//	}
type ComponentBase struct {
	props     Props
	state     State
	prevState State
	inst      *Instance
}

func (c *ComponentBase) componentBase() *ComponentBase { return c }

// Props returns the latest props.
func (c *ComponentBase) Props() Props { return c.props }

// State returns the live state record.
func (c *ComponentBase) State() State {
	if c.state == nil {
		c.state = State{}
	}
	return c.state
}

// Instance returns the mounted instance, or nil before mount.
func (c *ComponentBase) Instance() *Instance { return c.inst }

// SetState queues a state change. change is either a State patch or a
// StateUpdater (a plain func(State, Props) State is accepted too).
// Queued changes are applied in call order at the next flush and merged
// shallowly into the live state. Before mount the change applies at once.
func (c *ComponentBase) SetState(change any) {
	if c.inst == nil {
		c.applyStateChange(change)
		return
	}
	c.inst.rt.scheduler.EnqueueStateChange(c.inst, change)
}

func (c *ComponentBase) applyStateChange(change any) {
	if c.state == nil {
		c.state = State{}
	}
	if c.prevState == nil {
		c.prevState = maps.Clone(c.state)
	}
	var patch State
	switch ch := change.(type) {
	case nil:
		return
	case State:
		patch = ch
	case map[string]any:
		patch = ch
	case StateUpdater:
		patch = c.runUpdater(ch)
	case func(State, Props) State:
		patch = c.runUpdater(ch)
	default:
		errors.Report(&errors.EngineError{
			Op:        "core.SetState",
			Kind:      errors.KindLifecycle,
			Component: c.name(),
			Err:       errUnsupportedChange(change),
		})
		return
	}
	maps.Copy(c.state, patch)
	c.prevState = maps.Clone(c.state)
}

func (c *ComponentBase) runUpdater(fn func(State, Props) State) State {
	var patch State
	errors.Guard("core.SetState", errors.KindLifecycle, c.name(), func() {
		patch = fn(c.prevState, c.props)
	})
	return patch
}

func (c *ComponentBase) name() string {
	if c.inst == nil {
		return ""
	}
	return c.inst.Name()
}

func errUnsupportedChange(change any) error {
	return fmt.Errorf("unsupported state change of type %T", change)
}
