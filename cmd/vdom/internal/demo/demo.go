// Package demo is the sample application rendered by "vdom render".
package demo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/vdom/pkg/core"
	"github.com/go-drift/vdom/pkg/host"
)

// Todo is one todo list entry.
type Todo struct {
	ID   int
	Text string
	Done bool
}

// New returns the root descriptor of the demo app.
func New(title string) *core.Element {
	return core.C(App, core.Props{"title": title})
}

// App composes the three demo widgets.
var App = core.Func("App", func(h *core.Hooks, props core.Props) any {
	return core.H("main", nil,
		core.H("h1", nil, core.Prop[string](props, "title")),
		core.C(ClassCounter, core.Props{"start": 0}),
		core.C(HooksCounter, nil),
		core.C(TodoList, core.Props{"initial": []string{"milk", "eggs"}}),
	)
})

// ClassCounter is a counter written as a stateful component.
var ClassCounter = core.Stateful("ClassCounter", func() core.Component {
	return &classCounter{}
})

type classCounter struct {
	core.ComponentBase
}

func (c *classCounter) InitialState() core.State {
	return core.State{"count": core.Prop[int](c.Props(), "start")}
}

func (c *classCounter) Render() any {
	count, _ := c.State()["count"].(int)
	return core.H("div", core.Props{"className": "class-counter"},
		core.H("span", nil, "class: ", count),
		core.H("button", core.Props{"id": "class-inc", "onClick": c.increment}, "+1"),
	)
}

func (c *classCounter) increment() {
	c.SetState(core.StateUpdater(func(prev core.State, _ core.Props) core.State {
		n, _ := prev["count"].(int)
		return core.State{"count": n + 1}
	}))
}

// HooksCounter is a counter written as a function component.
var HooksCounter = core.Func("HooksCounter", func(h *core.Hooks, props core.Props) any {
	n, setN := core.UseState(h, 0)
	doubled := core.UseMemo(h, func() int { return n * 2 }, core.Deps(n))
	inc := core.UseCallback(h, func() {
		setN.Update(func(v int) int { return v + 1 })
	}, core.Deps())
	return core.H("div", core.Props{"className": "hooks-counter"},
		core.H("span", nil, "hooks: ", n, " doubled: ", doubled),
		core.H("button", core.Props{"id": "hooks-inc", "onClick": inc}, "+1"),
	)
})

// TodoList renders a keyed list of todos seeded from the "initial" prop.
var TodoList = core.Func("TodoList", func(h *core.Hooks, props core.Props) any {
	initial := core.Prop[[]string](props, "initial")
	todos, setTodos := core.UseState(h, seed(initial))
	draft, setDraft := core.UseState(h, "")
	nextID := core.UseRef(h, len(initial)+1)

	add := func() {
		text := strings.TrimSpace(draft)
		if text == "" {
			return
		}
		id := nextID.Current
		nextID.Current++
		setTodos.Update(func(ts []Todo) []Todo {
			return append(slices.Clone(ts), Todo{ID: id, Text: text})
		})
		setDraft.Set("")
	}
	toggle := func(id int) {
		setTodos.Update(func(ts []Todo) []Todo {
			out := slices.Clone(ts)
			for i := range out {
				if out[i].ID == id {
					out[i].Done = !out[i].Done
				}
			}
			return out
		})
	}
	reverse := func() {
		setTodos.Update(func(ts []Todo) []Todo {
			out := slices.Clone(ts)
			slices.Reverse(out)
			return out
		})
	}

	remaining := 0
	items := make([]any, len(todos))
	for i, t := range todos {
		if !t.Done {
			remaining++
		}
		items[i] = core.C(TodoItem, core.Props{"key": t.ID, "todo": t, "onToggle": toggle})
	}

	return core.H("section", core.Props{"className": "todos"},
		core.H("input", core.Props{
			"id":    "todo-draft",
			"value": draft,
			"onInput": func(e host.Event) {
				s, _ := e.Value.(string)
				setDraft.Set(s)
			},
		}),
		core.H("button", core.Props{"id": "todo-add", "onClick": add}, "add"),
		core.H("button", core.Props{"id": "todo-reverse", "onClick": reverse}, "reverse"),
		core.H("ul", nil, items),
		core.H("p", core.Props{"className": "summary"}, remaining, " left"),
	)
})

// TodoItem renders one entry; clicking it toggles completion.
var TodoItem = core.Func("TodoItem", func(h *core.Hooks, props core.Props) any {
	t := core.Prop[Todo](props, "todo")
	toggle := core.Prop[func(int)](props, "onToggle")
	class := "todo"
	if t.Done {
		class = "todo done"
	}
	return core.H("li", core.Props{
		"id":        fmt.Sprintf("todo-%d", t.ID),
		"className": class,
		"onClick": func() {
			if toggle != nil {
				toggle(t.ID)
			}
		},
	}, t.Text)
})

func seed(texts []string) []Todo {
	out := make([]Todo, len(texts))
	for i, text := range texts {
		out[i] = Todo{ID: i + 1, Text: text}
	}
	return out
}
