package core

import (
	"fmt"
	"slices"

	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/host"
)

// Reconcile brings the host subtree at oldNode, which realizes oldDesc, in
// line with newDesc and returns the node that now realizes newDesc (nil when
// it renders nothing). next is the sibling a newly mounted node is inserted
// before; nil appends to container.
//
// Reconciling a tree against an identical one touches the host only for
// function-valued attributes such as event handlers, which never compare
// equal and are set again on every diff.
//
// Passive effects armed during the call run before Reconcile returns.
func (rt *Runtime) Reconcile(container, oldNode host.Node, oldDesc, newDesc any, next host.Node) host.Node {
	rt.beginCommit()
	defer rt.endCommit()
	return rt.reconcile(container, oldNode, oldDesc, newDesc, next)
}

func (rt *Runtime) reconcile(container, oldNode host.Node, oldDesc, newDesc any, next host.Node) host.Node {
	if isNil(oldDesc) {
		if isNil(newDesc) {
			rt.reportInvalid(newDesc)
			return nil
		}
		return rt.mount(container, newDesc, next, true)
	}
	if isNil(newDesc) {
		rt.reportInvalid(newDesc)
		rt.remove(oldDesc, oldNode)
		return nil
	}

	oldText, oldPrim := primitiveText(oldDesc)
	newText, newPrim := primitiveText(newDesc)
	if oldPrim || newPrim {
		if oldPrim && newPrim && oldText == newText {
			return oldNode
		}
		return rt.replace(container, oldNode, oldDesc, newDesc, next)
	}

	oldEl, newEl := oldDesc.(*Element), newDesc.(*Element)
	if oldEl.Tag != newEl.Tag {
		return rt.replace(container, oldNode, oldDesc, newDesc, next)
	}

	if ct := newEl.componentType(); ct != nil {
		inst := oldEl.instance
		if inst == nil || inst.unmounted || inst.typ != ct {
			return rt.replace(container, oldNode, oldDesc, newDesc, next)
		}
		newEl.instance = inst
		return inst.update(newEl.Props, next)
	}

	rt.updateProps(oldNode, oldEl.Props, newEl.Props)
	newEl.childNodes = rt.updateChildren(oldNode, oldEl, newEl)
	return oldNode
}

// mount realizes desc and, when attach is set, inserts it into container
// before next.
func (rt *Runtime) mount(container host.Node, desc any, next host.Node, attach bool) host.Node {
	switch kindOf(desc) {
	case kindNil:
		return nil
	case kindInvalid:
		rt.reportInvalid(desc)
		return nil
	case kindText:
		text, _ := primitiveText(desc)
		node := rt.host.CreateText(text)
		if attach {
			rt.insert(container, node, next)
		}
		return node
	}

	el := desc.(*Element)
	if ct := el.componentType(); ct != nil {
		inst := rt.newInstance(ct, el, container, next)
		el.instance = inst
		return inst.mount(attach)
	}

	node := rt.host.CreateElement(string(el.Tag.(HostTag)))
	for _, name := range sortedNames(el.Props) {
		if reservedProp(name) {
			continue
		}
		rt.host.SetAttribute(node, name, el.Props[name])
	}
	kids := el.kids()
	el.childNodes = make([]host.Node, len(kids))
	for i, c := range kids {
		el.childNodes[i] = rt.mount(node, c, nil, true)
	}
	refreshAnchors(kids, el.childNodes)
	if attach {
		rt.insert(container, node, next)
	}
	return node
}

// replace substitutes a freshly mounted newDesc for oldNode, unmounting the
// old side first.
func (rt *Runtime) replace(container, oldNode host.Node, oldDesc, newDesc any, next host.Node) host.Node {
	rt.unmountTree(oldDesc)
	anchor := next
	if oldNode != nil {
		anchor = oldNode
	}
	node := rt.mount(container, newDesc, anchor, true)
	host.Detach(rt.host, oldNode)
	return node
}

// remove unmounts desc and detaches its host node.
func (rt *Runtime) remove(desc any, node host.Node) {
	rt.unmountTree(desc)
	host.Detach(rt.host, node)
}

// unmountTree runs the unmount lifecycle for every component in desc,
// parents before children.
func (rt *Runtime) unmountTree(desc any) {
	el, ok := desc.(*Element)
	if !ok || el == nil {
		return
	}
	if el.instance != nil {
		el.instance.unmount()
		return
	}
	for _, c := range el.kids() {
		rt.unmountTree(c)
	}
}

func (rt *Runtime) updateProps(node host.Node, oldProps, newProps Props) {
	for _, name := range sortedNames(oldProps) {
		if reservedProp(name) {
			continue
		}
		if _, ok := newProps[name]; !ok {
			rt.host.RemoveAttribute(node, name)
		}
	}
	for _, name := range sortedNames(newProps) {
		if reservedProp(name) {
			continue
		}
		value := newProps[name]
		if prev, ok := oldProps[name]; ok && sameValue(prev, value) {
			continue
		}
		rt.host.SetAttribute(node, name, value)
	}
}

func (rt *Runtime) insert(container, node, next host.Node) {
	if container == nil || node == nil {
		return
	}
	if next != nil {
		rt.host.InsertBefore(container, node, next)
		return
	}
	rt.host.AppendChild(container, node)
}

func (rt *Runtime) reportInvalid(desc any) {
	if kindOf(desc) != kindInvalid {
		return
	}
	errors.Report(&errors.EngineError{
		Op:   "core.Reconcile",
		Kind: errors.KindRender,
		Err:  fmt.Errorf("unsupported descriptor of type %T renders nothing", desc),
	})
}

// currentNode returns the node realizing desc, preferring the live base of
// a component instance over the recorded node.
func currentNode(desc any, recorded host.Node) host.Node {
	if el, ok := desc.(*Element); ok && el != nil && el.instance != nil {
		return el.instance.base
	}
	return recorded
}

// refreshAnchors points every component child at the node now following it.
// Siblings reconciled after a component may have been replaced, so anchors
// captured during the diff can be detached.
func refreshAnchors(kids []any, nodes []host.Node) {
	for i, c := range kids {
		if child, ok := c.(*Element); ok && child != nil && child.instance != nil {
			child.instance.setAnchor(nextNode(nodes, i))
		}
	}
}

// nextNode returns the first non-nil node after index i.
func nextNode(nodes []host.Node, i int) host.Node {
	for j := i + 1; j < len(nodes); j++ {
		if nodes[j] != nil {
			return nodes[j]
		}
	}
	return nil
}

func sortedNames(p Props) []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
