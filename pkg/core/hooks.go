package core

import (
	"reflect"

	"github.com/go-drift/vdom/pkg/errors"
)

// Hooks is the per-instance hook store of a function component.
//
// Hooks are matched to slots by call order: every render must call the same
// hooks in the same order. Calling them conditionally is undefined behavior.
type Hooks struct {
	inst *Instance

	states     []any
	stateIndex int

	effects              []*effect
	effectIndex          int
	pendingEffects       []*effect
	layoutEffects        []*effect
	layoutEffectIndex    int
	pendingLayoutEffects []*effect
}

type effect struct {
	deps     []any
	callback func() func()
	cleanup  func()
	seen     bool
	armed    bool
}

// reset rewinds the cursors before a render pass.
func (h *Hooks) reset() {
	h.stateIndex = 0
	h.effectIndex = 0
	h.layoutEffectIndex = 0
}

// Deps builds a dependency list. Deps() is an empty list, which arms an
// effect on the first render only. A nil dependency list re-arms every render.
func Deps(values ...any) []any {
	if values == nil {
		return []any{}
	}
	return values
}

// Setter updates one UseState slot.
type Setter[T any] struct {
	h     *Hooks
	index int
}

// Set stores value and schedules a re-render when it differs from the
// current value.
func (s Setter[T]) Set(value T) {
	s.h.setState(s.index, value)
}

// Update applies transform to the current value. Calls made in the same
// frame compose in order.
func (s Setter[T]) Update(transform func(T) T) {
	cur, _ := s.h.states[s.index].(T)
	s.h.setState(s.index, transform(cur))
}

// UseState returns the value of the next state slot and its setter. The slot
// is initialized with initial on the first render.
//
// Example:
//
//	counter := core.Func("Counter", func(h *core.Hooks, props core.Props) any {
//	    n, setN := core.UseState(h, 0)
//	    return core.H("button", core.Props{"onClick": func() { setN.Set(n + 1) }}, n)
//	})
func UseState[T any](h *Hooks, initial T) (T, Setter[T]) {
	i := h.nextState(initial)
	value, _ := h.states[i].(T)
	return value, Setter[T]{h: h, index: i}
}

// Ref is a mutable box that survives re-renders.
type Ref[T any] struct {
	Current T
}

// UseRef returns the same *Ref on every render of the instance.
func UseRef[T any](h *Hooks, initial T) *Ref[T] {
	i := h.nextState(&Ref[T]{Current: initial})
	ref, _ := h.states[i].(*Ref[T])
	return ref
}

type memo struct {
	deps  []any
	value any
}

// UseMemo returns compute() from the first render and recomputes it only
// when deps change.
func UseMemo[T any](h *Hooks, compute func() T, deps []any) T {
	i := h.nextState(nil)
	m, _ := h.states[i].(*memo)
	if m == nil || depsChanged(m.deps, deps) {
		m = &memo{deps: deps, value: compute()}
		h.states[i] = m
	}
	v, _ := m.value.(T)
	return v
}

// UseCallback returns fn from the render in which deps last changed.
func UseCallback[F any](h *Hooks, fn F, deps []any) F {
	return UseMemo(h, func() F { return fn }, deps)
}

// UseEffect arms callback to run after the commit has been painted, when
// deps changed since the last render. The function callback returns, if
// any, runs before the next arming and at unmount.
func UseEffect(h *Hooks, callback func() func(), deps []any) {
	rec := h.slot(&h.effects, &h.effectIndex)
	if rec.arm(callback, deps) {
		h.pendingEffects = append(h.pendingEffects, rec)
	}
}

// UseLayoutEffect is like UseEffect but runs synchronously right after the
// commit, before control returns to the frame. State set from a layout
// effect re-renders the instance before the commit completes.
func UseLayoutEffect(h *Hooks, callback func() func(), deps []any) {
	rec := h.slot(&h.layoutEffects, &h.layoutEffectIndex)
	if rec.arm(callback, deps) {
		h.pendingLayoutEffects = append(h.pendingLayoutEffects, rec)
	}
}

func (h *Hooks) nextState(initial any) int {
	i := h.stateIndex
	h.stateIndex++
	if i >= len(h.states) {
		h.states = append(h.states, initial)
	}
	return i
}

func (h *Hooks) slot(list *[]*effect, index *int) *effect {
	i := *index
	*index++
	if i >= len(*list) {
		*list = append(*list, &effect{})
	}
	return (*list)[i]
}

// arm records callback when deps changed and reports whether the effect
// must be queued.
func (e *effect) arm(callback func() func(), deps []any) bool {
	if e.seen && !depsChanged(e.deps, deps) {
		return false
	}
	e.seen = true
	e.deps = deps
	e.callback = callback
	if e.armed {
		return false
	}
	e.armed = true
	return true
}

func (h *Hooks) setState(i int, value any) {
	if sameValue(h.states[i], value) {
		return
	}
	h.states[i] = value
	h.inst.invalidate()
}

// flushLayoutEffects runs queued layout effects: every cleanup first, then
// every callback.
func (h *Hooks) flushLayoutEffects() {
	pending := h.pendingLayoutEffects
	h.pendingLayoutEffects = nil
	h.runEffects(pending, "core.UseLayoutEffect")
}

func (h *Hooks) flushEffects() {
	pending := h.pendingEffects
	h.pendingEffects = nil
	h.runEffects(pending, "core.UseEffect")
}

func (h *Hooks) runEffects(pending []*effect, op string) {
	if len(pending) == 0 {
		return
	}
	for _, e := range pending {
		h.runCleanup(e, op)
	}
	for _, e := range pending {
		e.armed = false
		if h.inst.unmounted {
			continue
		}
		cb := e.callback
		h.inst.guard(op, errors.KindEffect, func() {
			e.cleanup = cb()
		})
	}
}

func (h *Hooks) runCleanup(e *effect, op string) {
	if e.cleanup == nil {
		return
	}
	cleanup := e.cleanup
	e.cleanup = nil
	h.inst.guard(op+".cleanup", errors.KindEffect, cleanup)
}

// cleanupAll runs the cleanup of every armed effect, layout effects first.
func (h *Hooks) cleanupAll() {
	for _, e := range h.layoutEffects {
		h.runCleanup(e, "core.UseLayoutEffect")
	}
	for _, e := range h.effects {
		h.runCleanup(e, "core.UseEffect")
	}
	h.pendingEffects = nil
	h.pendingLayoutEffects = nil
}

// depsChanged compares dependency lists shallowly. A nil list always counts
// as changed.
func depsChanged(prev, next []any) bool {
	if prev == nil || next == nil {
		return true
	}
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if !sameValue(prev[i], next[i]) {
			return true
		}
	}
	return false
}

// sameValue reports whether a and b are the same value: equal comparable
// values, or the same reference for maps, slices, pointers and channels.
// Functions never compare equal.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Func:
		return false
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if va.Comparable() {
		return va.Equal(vb)
	}
	return false
}
