// Package host defines the platform surface the reconciler mutates.
//
// The engine never touches a platform tree directly. Every structural or
// attribute change goes through an [Adapter], which keeps the reconciler
// independent from the concrete tree (a browser DOM, a terminal screen, or
// the in-memory [Document] shipped here for tests and tooling).
//
// # Naming conventions
//
// Adapters are expected to honor the attribute conventions implemented by
// [Translate]:
//
//   - "className" and "class" set the class-list attribute "class".
//   - Names starting with "on" are event handlers, lower-cased, with
//     "ondoubleclick" mapped to "ondblclick" and "onchange" mapped to "oninput".
//   - "style" accepts a string or a map of camelCase properties, which is
//     converted to "prop-name: value;" pairs.
package host

// Node is an opaque host node. Adapters define the concrete type.
type Node any

// Adapter creates and mutates host nodes.
type Adapter interface {
	// CreateElement creates a detached element node for tag.
	CreateElement(tag string) Node
	// CreateText creates a detached text node.
	CreateText(value string) Node
	// SetAttribute sets name to value on node, applying the naming conventions.
	SetAttribute(node Node, name string, value any)
	// RemoveAttribute removes name from node, applying the naming conventions.
	RemoveAttribute(node Node, name string)
	// InsertBefore inserts node into parent before ref. A nil ref appends.
	// A node that is already attached elsewhere is moved.
	InsertBefore(parent, node, ref Node)
	// AppendChild appends node as the last child of parent.
	AppendChild(parent, node Node)
	// RemoveChild detaches node from parent.
	RemoveChild(parent, node Node)
	// Parent returns the parent of node, or nil when detached.
	Parent(node Node) Node
	// ClearChildren removes every child of node.
	ClearChildren(node Node)
}

// Detach removes node from its current parent, if any.
func Detach(a Adapter, node Node) {
	if node == nil {
		return
	}
	if parent := a.Parent(node); parent != nil {
		a.RemoveChild(parent, node)
	}
}
