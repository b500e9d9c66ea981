// Package graphstyle resolves node and relationship appearance from a
// cascading, selector-keyed rule sheet.
//
// Rules are applied in ascending specificity; within one specificity the
// rule defined last wins. Labels seen for the first time get a rule with the
// next unused palette colour, the default size and a caption guessed from
// their properties.
package graphstyle

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/wesen/neograph/pkg/graphmodel"
)

// Rule is one selector with its properties.
type Rule struct {
	Selector Selector
	Props    Props
}

// GraphStyle is a mutable rule sheet.
type GraphStyle struct {
	rules []*Rule
}

// New creates a style holding the default sheet.
func New() *GraphStyle {
	s := &GraphStyle{}
	s.ResetToDefault()
	return s
}

// ResetToDefault drops all rules and restores the base sheet.
func (s *GraphStyle) ResetToDefault() {
	s.rules = nil
	s.LoadRules(sheetFrom(DefaultStyle()))
}

// Rules returns the rules in definition order.
func (s *GraphStyle) Rules() []*Rule {
	return s.rules
}

// ForSelector computes the style of an element with the given selector.
func (s *GraphStyle) ForSelector(el Selector) *StyleElement {
	matching := make([]*Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.Selector.Matches(el) {
			matching = append(matching, r)
		}
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Selector.Specificity() < matching[j].Selector.Specificity()
	})

	props := make(Props)
	for _, r := range matching {
		for k, v := range r.Props {
			props[k] = v
		}
		if props["caption"] == "" && props["defaultCaption"] != "" {
			props["caption"] = props["defaultCaption"]
		}
	}
	return &StyleElement{Selector: el, props: props}
}

// NodeSelector returns the element selector of n.
func NodeSelector(n *graphmodel.NodeModel) Selector {
	return NewSelector(TagNode, n.Labels...)
}

// RelationshipSelector returns the element selector of r.
func RelationshipSelector(r *graphmodel.RelationshipModel) Selector {
	if r.Type == "" {
		return NewSelector(TagRelationship)
	}
	return NewSelector(TagRelationship, r.Type)
}

// ForNode returns the computed style of n, creating default rules for a
// label seen for the first time.
func (s *GraphStyle) ForNode(n *graphmodel.NodeModel) *StyleElement {
	sel := NodeSelector(n)
	if len(n.Labels) > 0 {
		s.setDefaultNodeStyling(sel, n)
	}
	return s.ForSelector(sel)
}

// ForRelationship returns the computed style of r.
func (s *GraphStyle) ForRelationship(r *graphmodel.RelationshipModel) *StyleElement {
	return s.ForSelector(RelationshipSelector(r))
}

// ChangeForSelector merges props into the rule for sel, creating it if
// needed, and returns that rule.
func (s *GraphStyle) ChangeForSelector(sel Selector, props Props) *Rule {
	r := s.findRule(sel)
	if r == nil {
		r = &Rule{Selector: NewSelector(sel.Tag, sel.Classes...), Props: make(Props)}
		s.rules = append(s.rules, r)
	}
	for k, v := range props {
		r.Props[k] = v
	}
	return r
}

// DestroyRule removes the rule for sel.
func (s *GraphStyle) DestroyRule(sel Selector) {
	for i, r := range s.rules {
		if r.Selector.Equal(sel) {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return
		}
	}
}

func (s *GraphStyle) findRule(sel Selector) *Rule {
	for _, r := range s.rules {
		if r.Selector.Equal(sel) {
			return r
		}
	}
	return nil
}

// setDefaultNodeStyling fills in colour, size and caption for labels whose
// class rules leave them unset. Defaults land on the rule of the
// alphabetically first label.
func (s *GraphStyle) setDefaultNodeStyling(sel Selector, n *graphmodel.NodeModel) {
	needColor, needSize, needCaption := true, true, true
	for _, r := range s.rules {
		if r.Selector.Specificity() == 0 || !r.Selector.Matches(sel) {
			continue
		}
		if _, ok := r.Props["color"]; ok {
			needColor = false
		}
		if _, ok := r.Props["diameter"]; ok {
			needSize = false
		}
		if _, ok := r.Props["caption"]; ok {
			needCaption = false
		}
	}

	classes := append([]string(nil), sel.Classes...)
	sort.Strings(classes)
	minimal := NewSelector(sel.Tag, classes[0])

	if needColor {
		s.ChangeForSelector(minimal, s.nextAvailableColor())
	}
	if needSize {
		s.ChangeForSelector(minimal, defaultSize)
	}
	if needCaption {
		s.ChangeForSelector(minimal, Props{"caption": DefaultNodeCaption(n)})
	}
}

// nextAvailableColor returns the first palette entry whose colour no class
// rule uses yet, cycling through the palette once every entry is taken.
func (s *GraphStyle) nextAvailableColor() Props {
	palette := DefaultColors()
	used := make(map[string]bool)
	count := 0
	for _, r := range s.rules {
		if r.Selector.Specificity() == 0 {
			continue
		}
		if c, ok := r.Props["color"]; ok {
			used[strings.ToUpper(c)] = true
			count++
		}
	}
	for _, p := range palette {
		if !used[strings.ToUpper(p["color"])] {
			return copyProps(p)
		}
	}
	return copyProps(palette[count%len(palette)])
}

var captionPriority = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^name$`),
	regexp.MustCompile(`(?i)^title$`),
	regexp.MustCompile(`(?i)^label$`),
	regexp.MustCompile(`(?i)name$`),
	regexp.MustCompile(`(?i)description$`),
	regexp.MustCompile(`^.+`),
}

// DefaultNodeCaption picks a caption template for n from its property keys,
// falling back to the node id.
func DefaultNodeCaption(n *graphmodel.NodeModel) string {
	for _, re := range captionPriority {
		for _, p := range n.PropertyList {
			if re.MatchString(p.Key) {
				return "{" + p.Key + "}"
			}
		}
	}
	return "<id>"
}

// StyleElement is the computed style of one element.
type StyleElement struct {
	Selector Selector
	props    Props
}

// Get returns the value of a property, or "".
func (e *StyleElement) Get(prop string) string {
	return e.props[prop]
}

// Float parses a pixel-valued property ("50px"), returning def when the
// property is missing or malformed.
func (e *StyleElement) Float(prop string, def float64) float64 {
	v := strings.TrimSuffix(strings.TrimSpace(e.props[prop]), "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Props returns a copy of the computed properties.
func (e *StyleElement) Props() Props {
	return copyProps(e.props)
}

func copyProps(p Props) Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
