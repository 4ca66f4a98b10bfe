// Package core provides the descriptor model, reconciler, component runtime,
// hooks and update scheduler of the engine.
//
// Applications describe the UI as a tree of descriptors built with H and C.
// The Runtime realizes that tree through a host.Adapter and, on every later
// render, mutates only what changed between the previous and the new tree.
//
// # Descriptors
//
// A descriptor is an *Element, a string or number (rendered as text), or nil
// or a boolean (rendered as nothing). Elements are rebuilt on every render:
//
//	core.H("ul", nil, []any{
//	    core.H("li", core.Props{"key": "a"}, "A"),
//	    core.H("li", core.Props{"key": "b"}, "B"),
//	})
//
// A list as the first child of an element selects keyed reconciliation:
// children are matched by their "key" prop rather than by position, and
// reused nodes are moved instead of recreated.
//
// # Components
//
// Class-style components embed ComponentBase and are declared with Stateful:
//
//	type counter struct{ core.ComponentBase }
//
//	func (c *counter) Render() any { ... }
//
//	var Counter = core.Stateful("Counter", func() core.Component { return &counter{} })
//
// Function components are declared with Func and use hooks:
//
//	var Clock = core.Func("Clock", func(h *core.Hooks, props core.Props) any {
//	    now, setNow := core.UseState(h, time.Now())
//	    core.UseEffect(h, func() func() { ... }, core.Deps())
//	    return core.H("span", nil, now.Format(time.Kitchen))
//	})
//
// # Updates
//
// State changes are batched by the Scheduler: the first change after a flush
// requests a frame from the runtime's frame.Source, and all changes made
// before that frame are applied in a single pass, re-rendering each affected
// instance once.
//
// Render panics, lifecycle panics and effect panics are recovered and
// reported through the errors package; a failed render is replaced by the
// output of the ErrorRenderer or captured by an enclosing ErrorBoundary.
package core
