package graphstyle

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	grassCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	grassBareRe    = regexp.MustCompile(`^[\w#.\-]+$`)
)

// ParseGrass parses a GraSS style sheet:
//
//	node.Person {
//	  color: #C990C0;
//	  caption: '{name}';
//	}
//
// Rules are returned in source order. Unknown properties are dropped.
func ParseGrass(text string) ([]Rule, error) {
	text = grassCommentRe.ReplaceAllString(text, "")
	var rules []Rule
	rest := text
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.TrimSpace(rest) != "" {
				return nil, fmt.Errorf("parsing grass: trailing content %q", strings.TrimSpace(rest))
			}
			return rules, nil
		}
		selText := strings.TrimSpace(rest[:open])
		if selText == "" {
			return nil, fmt.Errorf("parsing grass: rule without selector")
		}
		end := closingBrace(rest, open)
		if end < 0 {
			return nil, fmt.Errorf("parsing grass: unterminated rule %q", selText)
		}
		props, err := parseGrassBody(rest[open+1 : end])
		if err != nil {
			return nil, fmt.Errorf("parsing grass rule %q: %w", selText, err)
		}
		rules = append(rules, Rule{Selector: ParseSelector(selText), Props: props})
		rest = rest[end+1:]
	}
}

// closingBrace finds the '}' closing the rule opened at open, skipping
// braces inside quoted values such as '{name}'.
func closingBrace(s string, open int) int {
	var quote rune
	for i, r := range s[open+1:] {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '}':
			return open + 1 + i
		}
	}
	return -1
}

func parseGrassBody(body string) (Props, error) {
	props := make(Props)
	for _, decl := range splitDeclarations(body) {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		key, value, ok := strings.Cut(decl, ":")
		if !ok {
			return nil, fmt.Errorf("declaration %q has no value", decl)
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))
		if KnownProperties[key] {
			props[key] = value
		}
	}
	return props, nil
}

func splitDeclarations(body string) []string {
	var out []string
	var quote rune
	start := 0
	for i, r := range body {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ';':
			out = append(out, body[start:i])
			start = i + 1
		}
	}
	return append(out, body[start:])
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// LoadGrass replaces the rules with a parsed GraSS sheet.
func (s *GraphStyle) LoadGrass(text string) error {
	rules, err := ParseGrass(text)
	if err != nil {
		return err
	}
	s.rules = nil
	for _, r := range rules {
		s.ChangeForSelector(r.Selector, r.Props)
	}
	return nil
}

// Grass formats the rules as a GraSS sheet, properties sorted by name.
func (s *GraphStyle) Grass() string {
	var b strings.Builder
	for i, r := range s.rules {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.Selector.String())
		b.WriteString(" {\n")
		keys := make([]string, 0, len(r.Props))
		for k := range r.Props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := r.Props[k]
			if !grassBareRe.MatchString(v) {
				v = "'" + v + "'"
			}
			fmt.Fprintf(&b, "  %s: %s;\n", k, v)
		}
		b.WriteString("}\n")
	}
	return b.String()
}
