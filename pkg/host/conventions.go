package host

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// AttrKind classifies a translated attribute.
type AttrKind int

const (
	// AttrPlain is a regular attribute.
	AttrPlain AttrKind = iota
	// AttrClass is the class-list attribute.
	AttrClass
	// AttrEvent is an event handler assignment.
	AttrEvent
	// AttrStyle is an inline style declaration.
	AttrStyle
)

// Attr is an attribute after the naming conventions were applied.
type Attr struct {
	Kind  AttrKind
	Name  string
	Value any
}

// Translate applies the attribute naming conventions to name and value.
// Style maps are rendered to a declaration string; every other value is
// passed through untouched.
func Translate(name string, value any) Attr {
	switch {
	case name == "className" || name == "class":
		return Attr{Kind: AttrClass, Name: "class", Value: value}
	case strings.HasPrefix(name, "on"):
		return Attr{Kind: AttrEvent, Name: EventName(name), Value: value}
	case name == "style":
		return Attr{Kind: AttrStyle, Name: "style", Value: StyleString(value)}
	}
	return Attr{Kind: AttrPlain, Name: name, Value: value}
}

// TranslateName applies the naming conventions to an attribute name only.
func TranslateName(name string) string {
	switch {
	case name == "className":
		return "class"
	case strings.HasPrefix(name, "on"):
		return EventName(name)
	}
	return name
}

// EventName lower-cases an "on*" handler name and resolves the aliases.
func EventName(name string) string {
	k := strings.ToLower(name)
	switch k {
	case "ondoubleclick":
		return "ondblclick"
	case "onchange":
		return "oninput"
	}
	return k
}

// StyleString renders a style value. Strings pass through; maps of camelCase
// properties become "prop-name: value;" pairs joined by spaces and sorted so
// the output is stable.
func StyleString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		return joinStyle(len(v), func(yield func(string, any)) {
			for k, val := range v {
				yield(k, val)
			}
		})
	case map[string]string:
		return joinStyle(len(v), func(yield func(string, any)) {
			for k, val := range v {
				yield(k, val)
			}
		})
	}
	// Named map types such as core.Props or maps of numbers.
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		return joinStyle(rv.Len(), func(yield func(string, any)) {
			iter := rv.MapRange()
			for iter.Next() {
				yield(iter.Key().String(), iter.Value().Interface())
			}
		})
	}
	return fmt.Sprint(value)
}

func joinStyle(n int, each func(func(string, any))) string {
	decls := make([]string, 0, n)
	each(func(k string, v any) {
		decls = append(decls, fmt.Sprintf("%s: %v;", Hyphenate(k), v))
	})
	sort.Strings(decls)
	return strings.Join(decls, " ")
}

// Hyphenate converts a camelCase name to its hyphenated form.
func Hyphenate(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			sb.WriteByte('-')
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
