package graphstyle

import (
	"sort"
	"strings"
)

// Element tags.
const (
	TagNode         = "node"
	TagRelationship = "relationship"
)

// Selector is a CSS-like selector: a tag plus zero or more classes (labels
// for nodes, the type for relationships).
type Selector struct {
	Tag     string
	Classes []string
}

// NewSelector builds a selector.
func NewSelector(tag string, classes ...string) Selector {
	return Selector{Tag: tag, Classes: append([]string(nil), classes...)}
}

// ParseSelector parses "node.Person.Actor". Class names may contain dots if
// escaped with a backslash.
func ParseSelector(s string) Selector {
	s = strings.TrimSpace(s)
	var parts []string
	var cur strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '.':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	parts = append(parts, cur.String())

	sel := Selector{Tag: parts[0]}
	for _, c := range parts[1:] {
		if c != "" {
			sel.Classes = append(sel.Classes, c)
		}
	}
	return sel
}

// String formats the selector, escaping dots inside class names.
func (s Selector) String() string {
	var b strings.Builder
	b.WriteString(s.Tag)
	for _, c := range s.Classes {
		b.WriteByte('.')
		b.WriteString(strings.ReplaceAll(c, ".", `\.`))
	}
	return b.String()
}

// Specificity is the number of classes.
func (s Selector) Specificity() int {
	return len(s.Classes)
}

// Matches reports whether rule selector s applies to element selector el:
// same tag and every class of s present on el.
func (s Selector) Matches(el Selector) bool {
	if s.Tag != el.Tag {
		return false
	}
	for _, c := range s.Classes {
		if !contains(el.Classes, c) {
			return false
		}
	}
	return true
}

// Equal reports whether two selectors name the same rule, ignoring class
// order.
func (s Selector) Equal(o Selector) bool {
	if s.Tag != o.Tag || len(s.Classes) != len(o.Classes) {
		return false
	}
	a := append([]string(nil), s.Classes...)
	b := append([]string(nil), o.Classes...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
