package host

// OpKind identifies a recorded adapter call.
type OpKind int

const (
	OpCreateElement OpKind = iota
	OpCreateText
	OpSetAttribute
	OpRemoveAttribute
	OpInsertBefore
	OpAppendChild
	OpRemoveChild
	OpClearChildren
)

var opNames = [...]string{
	OpCreateElement:   "create_element",
	OpCreateText:      "create_text",
	OpSetAttribute:    "set_attribute",
	OpRemoveAttribute: "remove_attribute",
	OpInsertBefore:    "insert_before",
	OpAppendChild:     "append_child",
	OpRemoveChild:     "remove_child",
	OpClearChildren:   "clear_children",
}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return "unknown"
}

// Op is one recorded adapter call.
type Op struct {
	Kind   OpKind
	Name   string // tag, text or attribute name
	Node   Node
	Parent Node
	Ref    Node
}

// Recorder wraps an Adapter and records every mutating call.
// Parent lookups are not recorded.
type Recorder struct {
	Adapter
	ops     []Op
	discard bool

	// OnOp, if set, is called after each recorded operation.
	OnOp func(Op)
}

// NewRecorder wraps a.
func NewRecorder(a Adapter) *Recorder {
	return &Recorder{Adapter: a}
}

// NewObserver wraps a and calls fn for every mutating call without
// keeping a log of them.
func NewObserver(a Adapter, fn func(Op)) *Recorder {
	return &Recorder{Adapter: a, OnOp: fn, discard: true}
}

// Ops returns the recorded operations in call order.
func (r *Recorder) Ops() []Op {
	return r.ops
}

// Reset discards the recorded operations.
func (r *Recorder) Reset() {
	r.ops = nil
}

// Count returns how many operations of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) record(op Op) {
	if !r.discard {
		r.ops = append(r.ops, op)
	}
	if r.OnOp != nil {
		r.OnOp(op)
	}
}

// CreateElement implements Adapter.
func (r *Recorder) CreateElement(tag string) Node {
	n := r.Adapter.CreateElement(tag)
	r.record(Op{Kind: OpCreateElement, Name: tag, Node: n})
	return n
}

// CreateText implements Adapter.
func (r *Recorder) CreateText(value string) Node {
	n := r.Adapter.CreateText(value)
	r.record(Op{Kind: OpCreateText, Name: value, Node: n})
	return n
}

// SetAttribute implements Adapter.
func (r *Recorder) SetAttribute(node Node, name string, value any) {
	r.Adapter.SetAttribute(node, name, value)
	r.record(Op{Kind: OpSetAttribute, Name: name, Node: node})
}

// RemoveAttribute implements Adapter.
func (r *Recorder) RemoveAttribute(node Node, name string) {
	r.Adapter.RemoveAttribute(node, name)
	r.record(Op{Kind: OpRemoveAttribute, Name: name, Node: node})
}

// InsertBefore implements Adapter.
func (r *Recorder) InsertBefore(parent, node, ref Node) {
	r.Adapter.InsertBefore(parent, node, ref)
	r.record(Op{Kind: OpInsertBefore, Node: node, Parent: parent, Ref: ref})
}

// AppendChild implements Adapter.
func (r *Recorder) AppendChild(parent, node Node) {
	r.Adapter.AppendChild(parent, node)
	r.record(Op{Kind: OpAppendChild, Node: node, Parent: parent})
}

// RemoveChild implements Adapter.
func (r *Recorder) RemoveChild(parent, node Node) {
	r.Adapter.RemoveChild(parent, node)
	r.record(Op{Kind: OpRemoveChild, Node: node, Parent: parent})
}

// ClearChildren implements Adapter.
func (r *Recorder) ClearChildren(node Node) {
	r.Adapter.ClearChildren(node)
	r.record(Op{Kind: OpClearChildren, Node: node})
}
