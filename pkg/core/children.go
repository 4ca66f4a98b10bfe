package core

import (
	"fmt"
	"slices"

	"github.com/go-drift/vdom/pkg/errors"
	"github.com/go-drift/vdom/pkg/host"
)

// updateChildren diffs the children of two elements sharing a host node and
// returns the nodes realizing the new children, index-aligned with them.
func (rt *Runtime) updateChildren(parent host.Node, oldEl, newEl *Element) []host.Node {
	oldKids := oldEl.kids()
	oldNodes := make([]host.Node, len(oldKids))
	for i, c := range oldKids {
		var recorded host.Node
		if i < len(oldEl.childNodes) {
			recorded = oldEl.childNodes[i]
		}
		oldNodes[i] = currentNode(c, recorded)
	}
	if newEl.keyed() {
		return rt.updateKeyed(parent, oldKids, oldNodes, newEl.kids())
	}
	return rt.updateUnkeyed(parent, oldKids, oldNodes, newEl.kids())
}

// updateUnkeyed pairs children by position. Surplus old children are
// unmounted.
func (rt *Runtime) updateUnkeyed(parent host.Node, oldKids []any, oldNodes []host.Node, newKids []any) []host.Node {
	nodes := make([]host.Node, len(newKids))
	for i, c := range newKids {
		var oldDesc any
		var oldNode host.Node
		if i < len(oldKids) {
			oldDesc, oldNode = oldKids[i], oldNodes[i]
		}
		nodes[i] = rt.reconcile(parent, oldNode, oldDesc, c, nextNode(oldNodes, i))
		if i < len(oldNodes) {
			oldNodes[i] = nodes[i]
		}
	}
	for i := len(newKids); i < len(oldKids); i++ {
		rt.remove(oldKids[i], oldNodes[i])
	}
	refreshAnchors(newKids, nodes)
	return nodes
}

type keyedChild struct {
	desc  any
	index int
}

// updateKeyed pairs children by key. Old children are reused and moved only
// when they fall behind the furthest old position visited so far; fresh
// children are inserted before the next reused sibling.
func (rt *Runtime) updateKeyed(parent host.Node, oldKids []any, oldNodes []host.Node, newKids []any) []host.Node {
	oldNodes = slices.Clone(oldNodes)
	byKey := make(map[any]keyedChild, len(oldKids))
	for i, c := range oldKids {
		byKey[childKey(c, i)] = keyedChild{desc: c, index: i}
	}

	for _, c := range newKids {
		if el, ok := c.(*Element); ok && el != nil && el.Key != nil && !hashableKey(el.Key) {
			errors.Report(&errors.EngineError{
				Op:   "core.Reconcile",
				Kind: errors.KindRender,
				Err:  fmt.Errorf("key of type %T is not comparable; using the position instead", el.Key),
			})
		}
	}

	nodes := make([]host.Node, len(newKids))
	reused := make([]bool, len(newKids))
	used := make(map[any]bool, len(newKids))
	lastIndex := 0
	for i, c := range newKids {
		key := childKey(c, i)
		old, ok := byKey[key]
		if !ok || used[key] {
			nodes[i] = rt.mount(parent, c, nil, false)
			continue
		}
		used[key] = true
		reused[i] = true

		next := nextNode(oldNodes, lastIndex)
		node := rt.reconcile(parent, oldNodes[old.index], old.desc, c, next)
		oldNodes[old.index] = node
		nodes[i] = node
		if old.index < lastIndex && node != nil {
			rt.host.InsertBefore(parent, node, next)
		}
		lastIndex = max(lastIndex, old.index)
	}

	for i, node := range nodes {
		if reused[i] || node == nil {
			continue
		}
		var anchor host.Node
		for j := i + 1; j < len(nodes); j++ {
			if reused[j] && nodes[j] != nil {
				anchor = nodes[j]
				break
			}
		}
		rt.insert(parent, node, anchor)
	}

	for i, c := range oldKids {
		key := childKey(c, i)
		if byKey[key].index == i && used[key] {
			continue
		}
		rt.remove(c, oldNodes[i])
	}
	refreshAnchors(newKids, nodes)
	return nodes
}
