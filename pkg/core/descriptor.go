package core

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-drift/vdom/pkg/host"
)

// Tag identifies what an Element describes: a host tag or a component type.
// The only implementations are HostTag and *ComponentType.
type Tag interface {
	tagName() string
}

// HostTag is a platform tag name such as "div".
type HostTag string

func (t HostTag) tagName() string { return string(t) }

// Props holds the attributes of a host element or the props of a component.
type Props map[string]any

// Prop returns props[name] as T, or the zero value when absent or of another type.
func Prop[T any](p Props, name string) T {
	v, _ := p[name].(T)
	return v
}

// Children returns the children passed to a component through C.
func Children(p Props) []any {
	v, _ := p["children"].([]any)
	return v
}

// Element describes one node of the tree for a single render pass.
//
// Elements are produced fresh on every render and are not modified after
// creation, except for the bookkeeping the reconciler attaches to them: the
// realized host nodes of their children and the instance backing a
// component tag.
type Element struct {
	Tag      Tag
	Props    Props
	Children []any
	Key      any

	flat       []any
	normalized bool
	childNodes []host.Node
	instance   *Instance
}

// H describes a host element. A "key" prop becomes the element's identity key.
//
// Children may be *Element values, strings, numbers, nil or booleans (which
// render nothing), or one level of nested []any / []*Element lists. A list as
// the first child selects keyed reconciliation for the children.
func H(tag string, props Props, children ...any) *Element {
	return newElement(HostTag(tag), props, children)
}

// C describes a component. Children, if any, are passed as props["children"].
func C(t *ComponentType, props Props, children ...any) *Element {
	if len(children) > 0 {
		merged := make(Props, len(props)+1)
		for k, v := range props {
			merged[k] = v
		}
		merged["children"] = children
		props = merged
	}
	return newElement(t, props, children)
}

func newElement(tag Tag, props Props, children []any) *Element {
	if props == nil {
		props = Props{}
	}
	return &Element{
		Tag:      tag,
		Props:    props,
		Children: children,
		Key:      props["key"],
	}
}

// WithKey sets the identity key of el and returns it. Keys must be
// comparable; slices, maps and funcs are treated as positional and reported.
func (el *Element) WithKey(key any) *Element {
	el.Key = key
	return el
}

// kids returns the children with nested lists flattened one level.
func (el *Element) kids() []any {
	if !el.normalized {
		el.flat = normalizeChildren(el.Children)
		el.normalized = true
	}
	return el.flat
}

// keyed reports whether the children use the keyed strategy: the first child
// is a list.
func (el *Element) keyed() bool {
	return len(el.Children) > 0 && isList(el.Children[0])
}

func (el *Element) componentType() *ComponentType {
	ct, _ := el.Tag.(*ComponentType)
	return ct
}

func elementsToAny(list []*Element) []any {
	out := make([]any, len(list))
	for i, e := range list {
		out[i] = e
	}
	return out
}

func normalizeChildren(children []any) []any {
	flat := false
	for _, c := range children {
		if isList(c) {
			flat = true
			break
		}
	}
	if !flat {
		return children
	}
	out := make([]any, 0, len(children))
	for _, c := range children {
		switch list := c.(type) {
		case []any:
			out = append(out, list...)
		case []*Element:
			out = append(out, elementsToAny(list)...)
		default:
			out = append(out, c)
		}
	}
	return out
}

type nodeKind int

const (
	kindNil nodeKind = iota
	kindText
	kindElement
	kindInvalid
)

func kindOf(v any) nodeKind {
	switch d := v.(type) {
	case nil, bool:
		return kindNil
	case *Element:
		if d == nil {
			return kindNil
		}
		return kindElement
	}
	if _, ok := primitiveText(v); ok {
		return kindText
	}
	return kindInvalid
}

func isNil(v any) bool {
	k := kindOf(v)
	return k == kindNil || k == kindInvalid
}

func isList(v any) bool {
	switch v.(type) {
	case []any, []*Element:
		return true
	}
	return false
}

// primitiveText returns the text a string or number child renders to.
func primitiveText(v any) (string, bool) {
	switch p := v.(type) {
	case string:
		return p, true
	case int:
		return strconv.Itoa(p), true
	case int8:
		return strconv.FormatInt(int64(p), 10), true
	case int16:
		return strconv.FormatInt(int64(p), 10), true
	case int32:
		return strconv.FormatInt(int64(p), 10), true
	case int64:
		return strconv.FormatInt(p, 10), true
	case uint:
		return strconv.FormatUint(uint64(p), 10), true
	case uint8:
		return strconv.FormatUint(uint64(p), 10), true
	case uint16:
		return strconv.FormatUint(uint64(p), 10), true
	case uint32:
		return strconv.FormatUint(uint64(p), 10), true
	case uint64:
		return strconv.FormatUint(p, 10), true
	case float32:
		return strconv.FormatFloat(float64(p), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(p, 'g', -1, 64), true
	}
	return "", false
}

// positionKey is the synthetic key given to unkeyed children of a keyed list.
type positionKey int

// childKey returns the identity of c within a keyed list. Keys that cannot
// be map keys fall back to the position.
func childKey(c any, index int) any {
	if el, ok := c.(*Element); ok && el != nil && el.Key != nil && hashableKey(el.Key) {
		return el.Key
	}
	return positionKey(index)
}

func hashableKey(key any) bool {
	return reflect.TypeOf(key).Comparable()
}

// reservedProp reports whether name is bookkeeping that never reaches the host.
func reservedProp(name string) bool {
	return name == "key" || strings.HasPrefix(name, "__")
}
