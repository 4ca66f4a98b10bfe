package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/vdom/pkg/host"
)

// Finder locates elements in the host document.
type Finder interface {
	// Evaluate returns all matching elements under root (depth-first
	// pre-order). The root itself is never matched.
	Evaluate(root *host.Element) []*host.Element
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []*host.Element
	finder   Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *host.Element {
	if len(r.elements) == 0 {
		panic(fmt.Sprintf("Finder found no elements: %s", r.describe()))
	}
	return r.elements[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *host.Element {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *host.Element {
	if index < 0 || index >= len(r.elements) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.elements), r.describe()))
	}
	return r.elements[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*host.Element {
	return r.elements
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.elements)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.elements) > 0
}

// Text returns the text content of the first match. Panics if no matches.
func (r FinderResult) Text() string {
	return r.First().TextContent()
}

// Texts returns the text content of every match.
func (r FinderResult) Texts() []string {
	out := make([]string, len(r.elements))
	for i, e := range r.elements {
		out[i] = e.TextContent()
	}
	return out
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

type tagFinder struct {
	tag string
}

func (f *tagFinder) Evaluate(root *host.Element) []*host.Element {
	return collectMatches(root, func(e *host.Element) bool {
		return e.Tag == f.tag
	})
}

func (f *tagFinder) Description() string {
	return fmt.Sprintf("ByTag(%q)", f.tag)
}

// ByTag returns a finder that matches elements with the given tag.
func ByTag(tag string) Finder {
	return &tagFinder{tag: tag}
}

// textFinder matches the innermost elements whose text content equals text.
type textFinder struct {
	text     string
	contains bool
}

func (f *textFinder) match(s string) bool {
	if f.contains {
		return strings.Contains(s, f.text)
	}
	return s == f.text
}

func (f *textFinder) Evaluate(root *host.Element) []*host.Element {
	return collectMatches(root, func(e *host.Element) bool {
		if e.IsText() || !f.match(e.TextContent()) {
			return false
		}
		for _, c := range e.Children() {
			if !c.IsText() && f.match(c.TextContent()) {
				return false
			}
		}
		return true
	})
}

func (f *textFinder) Description() string {
	if f.contains {
		return fmt.Sprintf("ByTextContaining(%q)", f.text)
	}
	return fmt.Sprintf("ByText(%q)", f.text)
}

// ByText returns a finder that matches elements whose text content equals
// text. Ancestors that only wrap a matching element are skipped.
func ByText(text string) Finder {
	return &textFinder{text: text}
}

// ByTextContaining is like ByText but matches on a substring.
func ByTextContaining(substring string) Finder {
	return &textFinder{text: substring, contains: true}
}

type attrFinder struct {
	name  string
	value string
}

func (f *attrFinder) Evaluate(root *host.Element) []*host.Element {
	return collectMatches(root, func(e *host.Element) bool {
		v, ok := e.Attr(f.name)
		return ok && v == f.value
	})
}

func (f *attrFinder) Description() string {
	return fmt.Sprintf("ByAttr(%q, %q)", f.name, f.value)
}

// ByAttr returns a finder that matches elements whose attribute name has
// value. Prop spellings like "className" are translated.
func ByAttr(name, value string) Finder {
	return &attrFinder{name: name, value: value}
}

type predicateFinder struct {
	fn   func(*host.Element) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *host.Element) []*host.Element {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches elements satisfying fn.
func ByPredicate(fn func(*host.Element) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds elements matching 'matching' that are descendants
// of elements matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *host.Element) []*host.Element {
	var results []*host.Element
	seen := make(map[*host.Element]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, match := range f.matching.Evaluate(ancestor) {
			if !seen[match] {
				seen[match] = true
				results = append(results, match)
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches elements found by matching
// inside the subtrees of elements found by of.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

func collectMatches(root *host.Element, pred func(*host.Element) bool) []*host.Element {
	var results []*host.Element
	var walk func(e *host.Element)
	walk = func(e *host.Element) {
		for _, c := range e.Children() {
			if pred(c) {
				results = append(results, c)
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return results
}
