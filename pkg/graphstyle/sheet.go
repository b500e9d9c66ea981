package graphstyle

import "sort"

// Sheet is the flat persisted form: selector string → properties.
type Sheet map[string]map[string]string

// ToSheet serializes the rules.
func (s *GraphStyle) ToSheet() Sheet {
	out := make(Sheet, len(s.rules))
	for _, r := range s.rules {
		out[r.Selector.String()] = copyProps(r.Props)
	}
	return out
}

// LoadRules replaces the rule set with sheet, ignoring unknown properties.
// Selectors are applied tag rules first, then by specificity and name, so
// loading is deterministic.
func (s *GraphStyle) LoadRules(sheet Sheet) {
	s.rules = nil
	s.MergeSheet(sheet)
}

// MergeSheet applies sheet on top of the current rules.
func (s *GraphStyle) MergeSheet(sheet Sheet) {
	keys := make([]string, 0, len(sheet))
	for k := range sheet {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := ParseSelector(keys[i]), ParseSelector(keys[j])
		if si.Specificity() != sj.Specificity() {
			return si.Specificity() < sj.Specificity()
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		s.ChangeForSelector(ParseSelector(k), knownOnly(sheet[k]))
	}
}

func knownOnly(props map[string]string) Props {
	out := make(Props, len(props))
	for p, v := range props {
		if KnownProperties[p] {
			out[p] = v
		}
	}
	return out
}

func sheetFrom(m map[string]Props) Sheet {
	out := make(Sheet, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
