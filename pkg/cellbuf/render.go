package cellbuf

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Spec describes a cell style by colour. Empty colours are left unset.
type Spec struct {
	FG, BG string
	Bold   bool
}

// Palette interns styles so cells only carry a key. Key 0 is the base
// style given to NewPalette.
type Palette struct {
	styles []lipgloss.Style
	index  map[Spec]StyleKey
}

// NewPalette creates a palette whose key 0 renders with base.
func NewPalette(base Spec) *Palette {
	p := &Palette{index: make(map[Spec]StyleKey)}
	p.Intern(base)
	return p
}

// Intern returns the key for spec, creating it on first use.
func (p *Palette) Intern(spec Spec) StyleKey {
	if k, ok := p.index[spec]; ok {
		return k
	}
	s := lipgloss.NewStyle()
	if spec.FG != "" {
		s = s.Foreground(lipgloss.Color(spec.FG))
	}
	if spec.BG != "" {
		s = s.Background(lipgloss.Color(spec.BG))
	}
	if spec.Bold {
		s = s.Bold(true)
	}
	k := StyleKey(len(p.styles))
	p.styles = append(p.styles, s)
	p.index[spec] = k
	return k
}

// Len returns the number of interned styles.
func (p *Palette) Len() int { return len(p.styles) }

// Style returns the style for k. Unknown keys render unstyled.
func (p *Palette) Style(k StyleKey) (lipgloss.Style, bool) {
	if k < 0 || int(k) >= len(p.styles) {
		return lipgloss.Style{}, false
	}
	return p.styles[k], true
}

// Render converts the buffer into a styled string.
//
// Consecutive cells with the same StyleKey are merged into runs and
// rendered with one Style.Render call per run. Rows are joined with "\n".
// An empty buffer returns "".
func (b *Buffer) Render(p *Palette) string {
	if b.W == 0 || b.H == 0 {
		return ""
	}
	lines := make([]string, b.H)
	chunk := make([]rune, 0, b.W)
	for y, row := range b.Cells {
		var sb strings.Builder
		flush := func(style StyleKey) {
			if s, ok := p.Style(style); ok {
				sb.WriteString(s.Render(string(chunk)))
			} else {
				sb.WriteString(string(chunk))
			}
			chunk = chunk[:0]
		}
		runStyle := row[0].Style
		for _, c := range row {
			if c.Style != runStyle {
				flush(runStyle)
				runStyle = c.Style
			}
			chunk = append(chunk, c.Ch)
		}
		flush(runStyle)
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}
