package host

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Element is a node of the in-memory Document. Text nodes have an empty Tag.
type Element struct {
	Tag      string
	Text     string
	Attrs    map[string]string
	Handlers map[string]any

	parent   *Element
	children []*Element
}

// IsText reports whether e is a text node.
func (e *Element) IsText() bool {
	return e.Tag == ""
}

// Parent returns the parent element, or nil when detached.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the child nodes in order. The slice must not be modified.
func (e *Element) Children() []*Element {
	return e.children
}

// Attr returns the attribute value and whether it is set.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[TranslateName(name)]
	return v, ok
}

// Handler returns the event handler registered under name ("onclick").
func (e *Element) Handler(name string) any {
	return e.Handlers[EventName(name)]
}

// TextContent concatenates the text of e and its descendants.
func (e *Element) TextContent() string {
	if e.IsText() {
		return e.Text
	}
	var sb strings.Builder
	for _, c := range e.children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// Markup serializes e as HTML-like markup. Attributes are sorted; handlers
// are listed by name only.
func (e *Element) Markup() string {
	var sb strings.Builder
	e.writeMarkup(&sb)
	return sb.String()
}

func (e *Element) writeMarkup(sb *strings.Builder) {
	if e.IsText() {
		sb.WriteString(e.Text)
		return
	}
	sb.WriteByte('<')
	sb.WriteString(e.Tag)
	for _, name := range sortedKeys(e.Attrs) {
		fmt.Fprintf(sb, " %s=%q", name, e.Attrs[name])
	}
	for _, name := range sortedKeys(e.Handlers) {
		sb.WriteByte(' ')
		sb.WriteString(name)
	}
	sb.WriteByte('>')
	for _, c := range e.children {
		c.writeMarkup(sb)
	}
	sb.WriteString("</")
	sb.WriteString(e.Tag)
	sb.WriteByte('>')
}

func (e *Element) indexOf(child *Element) int {
	return slices.Index(e.children, child)
}

// Event is passed to handlers that accept an argument.
type Event struct {
	Type   string
	Target *Element
	Value  any
}

// Document is an in-memory host tree implementing Adapter.
// It is not safe for concurrent use.
type Document struct {
	body *Element
}

// NewDocument creates a document with an empty body element.
func NewDocument() *Document {
	return &Document{body: &Element{Tag: "body"}}
}

// Body returns the root container of the document.
func (d *Document) Body() *Element {
	return d.body
}

// CreateElement implements Adapter.
func (d *Document) CreateElement(tag string) Node {
	return &Element{Tag: tag}
}

// CreateText implements Adapter.
func (d *Document) CreateText(value string) Node {
	return &Element{Text: value}
}

// SetAttribute implements Adapter.
func (d *Document) SetAttribute(node Node, name string, value any) {
	e := node.(*Element)
	attr := Translate(name, value)
	if attr.Kind == AttrEvent {
		if e.Handlers == nil {
			e.Handlers = make(map[string]any)
		}
		e.Handlers[attr.Name] = attr.Value
		return
	}
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[attr.Name] = stringify(attr.Value)
}

// RemoveAttribute implements Adapter.
func (d *Document) RemoveAttribute(node Node, name string) {
	e := node.(*Element)
	name = TranslateName(name)
	if strings.HasPrefix(name, "on") {
		delete(e.Handlers, name)
		return
	}
	delete(e.Attrs, name)
}

// InsertBefore implements Adapter.
func (d *Document) InsertBefore(parent, node, ref Node) {
	p, n := parent.(*Element), node.(*Element)
	if r, ok := ref.(*Element); ok && r == n {
		return
	}
	if n.parent != nil {
		n.parent.remove(n)
	}
	idx := len(p.children)
	if r, ok := ref.(*Element); ok && r != nil {
		if i := p.indexOf(r); i >= 0 {
			idx = i
		}
	}
	p.children = slices.Insert(p.children, idx, n)
	n.parent = p
}

// AppendChild implements Adapter.
func (d *Document) AppendChild(parent, node Node) {
	d.InsertBefore(parent, node, nil)
}

// RemoveChild implements Adapter.
func (d *Document) RemoveChild(parent, node Node) {
	parent.(*Element).remove(node.(*Element))
}

// Parent implements Adapter.
func (d *Document) Parent(node Node) Node {
	e, ok := node.(*Element)
	if !ok || e == nil || e.parent == nil {
		return nil
	}
	return e.parent
}

// ClearChildren implements Adapter.
func (d *Document) ClearChildren(node Node) {
	e := node.(*Element)
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

// Dispatch invokes the handler for event ("click") on target. Handlers may be
// func() or func(Event). It reports whether a handler ran.
func (d *Document) Dispatch(target *Element, event string, value any) bool {
	if target == nil {
		return false
	}
	switch h := target.Handler("on" + event).(type) {
	case func():
		h()
	case func(Event):
		h(Event{Type: event, Target: target, Value: value})
	default:
		return false
	}
	return true
}

// Markup serializes the body's children.
func (d *Document) Markup() string {
	var sb strings.Builder
	for _, c := range d.body.children {
		c.writeMarkup(&sb)
	}
	return sb.String()
}

// Digest returns a stable hash of the document markup.
func (d *Document) Digest() uint64 {
	return xxhash.Sum64String(d.Markup())
}

func (e *Element) remove(child *Element) {
	if i := e.indexOf(child); i >= 0 {
		e.children = slices.Delete(e.children, i, i+1)
		child.parent = nil
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	}
	return fmt.Sprint(v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
