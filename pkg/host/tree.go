package host

import (
	"maps"
	"slices"
)

// TreeNode is a plain copy of a document node, suitable for encoding.
// Text nodes only carry Text.
type TreeNode struct {
	Tag      string            `json:"tag,omitempty"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Handlers []string          `json:"handlers,omitempty"`
	Children []*TreeNode       `json:"children,omitempty"`
}

// Tree copies e and its descendants. Handlers are listed by sorted name.
func (e *Element) Tree() *TreeNode {
	if e.IsText() {
		return &TreeNode{Text: e.Text}
	}
	n := &TreeNode{Tag: e.Tag}
	if len(e.Attrs) > 0 {
		n.Attrs = maps.Clone(e.Attrs)
	}
	if len(e.Handlers) > 0 {
		n.Handlers = slices.Sorted(maps.Keys(e.Handlers))
	}
	for _, c := range e.children {
		n.Children = append(n.Children, c.Tree())
	}
	return n
}

// Tree copies the body's children. The result is never nil.
func (d *Document) Tree() []*TreeNode {
	out := make([]*TreeNode, 0, len(d.body.children))
	for _, c := range d.body.children {
		out = append(out, c.Tree())
	}
	return out
}
