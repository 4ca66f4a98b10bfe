package demo

import (
	"fmt"

	"github.com/go-drift/vdom/pkg/host"
)

// Step is one simulated user interaction.
type Step struct {
	Name   string
	Target string // element id
	Event  string
	Value  any
}

// Script returns the interactions "vdom render" plays against the app.
// Each step expects the previous one to have been flushed.
func Script() []Step {
	return []Step{
		{Name: "increment class counter", Target: "class-inc", Event: "click"},
		{Name: "increment class counter", Target: "class-inc", Event: "click"},
		{Name: "increment hooks counter", Target: "hooks-inc", Event: "click"},
		{Name: "type a todo", Target: "todo-draft", Event: "input", Value: "write docs"},
		{Name: "add the todo", Target: "todo-add", Event: "click"},
		{Name: "complete the first todo", Target: "todo-1", Event: "click"},
		{Name: "reverse the list", Target: "todo-reverse", Event: "click"},
	}
}

// Apply dispatches the step's event on its target.
func (s Step) Apply(doc *host.Document) error {
	target := FindByID(doc.Body(), s.Target)
	if target == nil {
		return fmt.Errorf("step %q: no element with id %q", s.Name, s.Target)
	}
	if !doc.Dispatch(target, s.Event, s.Value) {
		return fmt.Errorf("step %q: no %s handler on #%s", s.Name, s.Event, s.Target)
	}
	return nil
}

// FindByID returns the first descendant of root whose id attribute is id.
func FindByID(root *host.Element, id string) *host.Element {
	for _, c := range root.Children() {
		if v, ok := c.Attr("id"); ok && v == id {
			return c
		}
		if found := FindByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
