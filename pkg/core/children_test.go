package core

import (
	"testing"

	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/host"
)

func nodesByText(e *host.Element) map[string]*host.Element {
	out := make(map[string]*host.Element)
	for _, c := range e.Children() {
		out[c.TextContent()] = c
	}
	return out
}

func TestKeyed_ReorderReusesNodes(t *testing.T) {
	f := newFixture(t)
	f.render(list("A", "B", "C"))
	ul := f.find("ul")
	before := nodesByText(ul)
	f.rec.Reset()

	f.render(list("C", "A", "B"))

	if got := f.markup(); got != "<ul><li>C</li><li>A</li><li>B</li></ul>" {
		t.Fatalf("markup = %s", got)
	}
	for text, node := range nodesByText(ul) {
		if before[text] != node {
			t.Errorf("node %s was recreated", text)
		}
	}
	for _, kind := range []host.OpKind{host.OpCreateElement, host.OpCreateText, host.OpRemoveChild, host.OpSetAttribute} {
		if n := f.rec.Count(kind); n != 0 {
			t.Errorf("%s calls = %d, want 0", kind, n)
		}
	}
	if n := f.rec.Count(host.OpInsertBefore); n != 2 {
		t.Errorf("moves = %d, want 2", n)
	}
}

func TestKeyed_Reverse(t *testing.T) {
	f := newFixture(t)
	f.render(list("A", "B", "C", "D"))
	before := nodesByText(f.find("ul"))

	f.render(list("D", "C", "B", "A"))

	if got := f.markup(); got != "<ul><li>D</li><li>C</li><li>B</li><li>A</li></ul>" {
		t.Fatalf("markup = %s", got)
	}
	for text, node := range nodesByText(f.find("ul")) {
		if before[text] != node {
			t.Errorf("node %s was recreated", text)
		}
	}
}

func TestKeyed_InsertAndRemove(t *testing.T) {
	f := newFixture(t)
	f.render(list("A", "B", "C"))
	before := nodesByText(f.find("ul"))
	f.rec.Reset()

	f.render(list("B", "D", "C"))

	if got := f.markup(); got != "<ul><li>B</li><li>D</li><li>C</li></ul>" {
		t.Fatalf("markup = %s", got)
	}
	after := nodesByText(f.find("ul"))
	if after["B"] != before["B"] || after["C"] != before["C"] {
		t.Error("surviving keys must keep their nodes")
	}
	if n := f.rec.Count(host.OpRemoveChild); n != 1 {
		t.Errorf("remove_child calls = %d, want 1", n)
	}
	if n := f.rec.Count(host.OpCreateElement); n != 1 {
		t.Errorf("create_element calls = %d, want 1", n)
	}
}

func TestKeyed_AppendAndClear(t *testing.T) {
	f := newFixture(t)
	f.render(list("A"))
	f.render(list("A", "B", "C"))
	if got := f.markup(); got != "<ul><li>A</li><li>B</li><li>C</li></ul>" {
		t.Fatalf("markup = %s", got)
	}

	f.render(list())
	if got := f.markup(); got != "<ul></ul>" {
		t.Errorf("markup = %s", got)
	}
}

func TestKeyed_UnkeyedSiblingsMatchByPosition(t *testing.T) {
	f := newFixture(t)
	view := func(keys ...string) any {
		items := []any{H("li", nil, "head")}
		for _, k := range keys {
			items = append(items, H("li", Props{"key": k}, k))
		}
		return H("ul", nil, items)
	}
	f.render(view("A", "B"))
	head := f.find("li")

	f.render(view("B", "A"))

	if got := f.markup(); got != "<ul><li>head</li><li>B</li><li>A</li></ul>" {
		t.Fatalf("markup = %s", got)
	}
	if f.find("li") != head {
		t.Error("unkeyed child at the same position should be reused")
	}
}

func TestKeyed_DuplicateKeysStayConsistent(t *testing.T) {
	f := newFixture(t)
	f.render(list("A", "A", "B"))
	f.render(list("B", "A", "A"))

	if got := f.markup(); got != "<ul><li>B</li><li>A</li><li>A</li></ul>" {
		t.Errorf("markup = %s", got)
	}
	if n := len(f.find("ul").Children()); n != 3 {
		t.Errorf("children = %d, want 3", n)
	}
}

func TestUnkeyed_ShrinkRemovesTail(t *testing.T) {
	f := newFixture(t)
	items := func(n int) []any {
		out := make([]any, n)
		for i := range out {
			out[i] = H("p", nil, i)
		}
		return out
	}
	f.render(H("div", nil, items(5)[0], items(5)[1], items(5)[2], items(5)[3], items(5)[4]))
	div := f.find("div")
	before := div.Children()
	kept := []*host.Element{before[0], before[1]}
	removed := []*host.Element{before[2], before[3], before[4]}

	var removedOps []host.Op
	f.rec.OnOp = func(op host.Op) {
		if op.Kind == host.OpRemoveChild {
			removedOps = append(removedOps, op)
		}
	}
	f.rec.Reset()

	f.render(H("div", nil, H("p", nil, 0), H("p", nil, 1)))

	if len(f.rec.Ops()) != 3 || len(removedOps) != 3 {
		t.Fatalf("ops = %+v, want exactly 3 removals", f.rec.Ops())
	}
	for i, op := range removedOps {
		if op.Node != host.Node(removed[i]) || op.Parent != host.Node(div) {
			t.Errorf("removal %d hit the wrong node", i)
		}
	}
	after := div.Children()
	if after[0] != kept[0] || after[1] != kept[1] {
		t.Error("leading children must be diffed in place")
	}
}

func TestUnkeyed_Grow(t *testing.T) {
	f := newFixture(t)
	f.render(H("div", nil, "a"))
	f.render(H("div", nil, "a", H("b", nil), "c"))

	if got := f.markup(); got != "<div>a<b></b>c</div>" {
		t.Errorf("markup = %s", got)
	}
}

func TestNormalize_FlattensOneLevel(t *testing.T) {
	el := H("div", nil, "a", []any{"b", []any{"c"}}, []*Element{H("i", nil)})
	kids := el.kids()
	if len(kids) != 4 {
		t.Fatalf("kids = %d, want 4", len(kids))
	}
	if _, ok := kids[2].([]any); !ok {
		t.Error("second-level lists must not be flattened")
	}
	if el.keyed() {
		t.Error("a leading primitive selects the unkeyed path")
	}
	if !H("ul", nil, []*Element{}).keyed() {
		t.Error("a leading list selects the keyed path")
	}
}

// toggle renders nothing until show is set.
func toggle(show *Setter[bool]) *ComponentType {
	return Func("Toggle", func(h *Hooks, props Props) any {
		on, set := UseState(h, false)
		*show = set
		if !on {
			return nil
		}
		return H("span", nil, "S")
	})
}

func TestUnkeyed_ComponentAnchorFollowsReplacedSibling(t *testing.T) {
	f := newFixture(t)
	var show Setter[bool]
	tog := toggle(&show)
	f.render(H("div", nil, C(tog, nil), H("b", nil, "x")))
	f.render(H("div", nil, C(tog, nil), H("i", nil, "y")))

	show.Set(true)
	f.frames.Tick()

	if got := f.markup(); got != "<div><span>S</span><i>y</i></div>" {
		t.Errorf("markup = %s", got)
	}
}

func TestKeyed_ComponentAnchorFollowsReplacedSibling(t *testing.T) {
	f := newFixture(t)
	var show Setter[bool]
	tog := toggle(&show)
	f.render(H("div", nil, []any{C(tog, Props{"key": "t"}), H("b", Props{"key": "x"}, "x")}))
	f.render(H("div", nil, []any{C(tog, Props{"key": "t"}), H("i", Props{"key": "x"}, "y")}))

	show.Set(true)
	f.frames.Tick()

	if got := f.markup(); got != "<div><span>S</span><i>y</i></div>" {
		t.Errorf("markup = %s", got)
	}
}

func TestKeyed_UncomparableKeysFallBackToPosition(t *testing.T) {
	h := captureErrors(t)
	f := newFixture(t)
	items := func(texts ...string) *Element {
		kids := make([]any, len(texts))
		for i, s := range texts {
			kids[i] = H("li", nil, s).WithKey([]int{i})
		}
		return H("ul", nil, kids)
	}
	f.render(items("a", "b"))
	f.render(items("c", "d", "e"))

	if got := f.markup(); got != "<ul><li>c</li><li>d</li><li>e</li></ul>" {
		t.Errorf("markup = %s", got)
	}
	if len(h.errs) == 0 {
		t.Fatal("expected a render error for the slice keys")
	}
	if h.errs[0].Kind != errors.KindRender {
		t.Errorf("kind = %v, want render", h.errs[0].Kind)
	}
}
