package browserui

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/viz"
)

const panelWidth = 34

var panelBG = c("#23262E")

// Panel styles share the panel background.
var (
	panelTitleStyle = lipgloss.NewStyle().
			Foreground(headerColor).
			Background(panelBG).
			Bold(true)

	panelDimStyle = lipgloss.NewStyle().
			Foreground(c("#6B7080")).
			Background(panelBG)

	panelTextStyle = lipgloss.NewStyle().
			Foreground(c("#E0E3EA")).
			Background(panelBG)

	panelKeyStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Background(panelBG)

	panelLineStyle = lipgloss.NewStyle().
			Background(panelBG)
)

// line kinds of the inspector
type lineKind int

const (
	lineText lineKind = iota
	lineTitle
	lineDim
	lineProp
)

type panelLine struct {
	kind       lineKind
	text, prop string
}

// padLine right-pads and renders a line with consistent background to the given width.
func padLine(s string, width int) string {
	vis := lipgloss.Width(s)
	pad := width - vis
	if pad > 0 {
		s += panelLineStyle.Render(strings.Repeat(" ", pad))
	}
	return s
}

// inspectorLines describes item. Nodes and relationships list their
// properties; the canvas lists label and type counts.
func inspectorLines(g *graphmodel.Graph, item viz.Item) []panelLine {
	var lines []panelLine
	switch item.Kind {
	case viz.ItemNode:
		n := item.Node
		lines = append(lines, panelLine{kind: lineTitle, text: "◉ NODE"})
		if len(n.Labels) > 0 {
			lines = append(lines, panelLine{text: ":" + strings.Join(n.Labels, " :")})
		}
		lines = append(lines, panelLine{kind: lineProp, prop: "<id>", text: n.ID})
		for _, p := range n.PropertyList {
			lines = append(lines, panelLine{kind: lineProp, prop: p.Key, text: p.Value})
		}
		var flags []string
		if n.Fixed {
			flags = append(flags, "pinned")
		}
		if n.Expanded {
			flags = append(flags, "expanded")
		}
		if len(flags) > 0 {
			lines = append(lines, panelLine{kind: lineDim, text: strings.Join(flags, ", ")})
		}

	case viz.ItemRelationship:
		r := item.Relationship
		lines = append(lines,
			panelLine{kind: lineTitle, text: "→ RELATIONSHIP"},
			panelLine{text: "[:" + r.Type + "]"},
			panelLine{kind: lineProp, prop: "<id>", text: r.ID},
			panelLine{kind: lineDim, text: captionOf(g, r.SourceID) + " → " + captionOf(g, r.TargetID)},
		)
		for _, p := range r.PropertyList {
			lines = append(lines, panelLine{kind: lineProp, prop: p.Key, text: p.Value})
		}
		if r.Internal {
			lines = append(lines, panelLine{kind: lineDim, text: "found between visible nodes"})
		}

	default:
		lines = append(lines,
			panelLine{kind: lineTitle, text: "▦ OVERVIEW"},
			panelLine{text: fmt.Sprintf("%d nodes, %d relationships", g.NodeCount(), g.RelationshipCount())},
		)
		labels := map[string]int{}
		for _, n := range g.Nodes() {
			for _, l := range n.Labels {
				labels[l]++
			}
		}
		types := map[string]int{}
		for _, r := range g.Relationships() {
			types[r.Type]++
		}
		for _, k := range sortedKeys(labels) {
			lines = append(lines, panelLine{kind: lineProp, prop: ":" + k, text: fmt.Sprint(labels[k])})
		}
		for _, k := range sortedKeys(types) {
			lines = append(lines, panelLine{kind: lineProp, prop: "[:" + k + "]", text: fmt.Sprint(types[k])})
		}
	}
	return lines
}

func captionOf(g *graphmodel.Graph, id string) string {
	if n := g.Node(id); n != nil && n.Caption != "" {
		return n.Caption
	}
	return id
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var helpLines = []panelLine{
	{kind: lineTitle, text: "⌨ KEYS"},
	{kind: lineProp, prop: "+ - 0", text: "zoom, fit"},
	{kind: lineProp, prop: "e / dbl", text: "expand, collapse"},
	{kind: lineProp, prop: "p u", text: "pin, release all"},
	{kind: lineProp, prop: "d", text: "dismiss node"},
	{kind: lineProp, prop: "t", text: "tree layout"},
	{kind: lineProp, prop: "s R", text: "edit, reset style"},
	{kind: lineProp, prop: "tab esc", text: "cycle, clear"},
	{kind: lineProp, prop: "f q", text: "fullscreen, quit"},
}

// renderPanelLines styles lines into a width × height block.
func renderPanelLines(lines []panelLine, width, height int) string {
	out := make([]string, 0, height)
	for _, l := range lines {
		if len(out) == height {
			break
		}
		var s string
		switch l.kind {
		case lineTitle:
			s = panelTitleStyle.Render(clipText(l.text, width))
		case lineDim:
			s = panelDimStyle.Render(clipText(l.text, width))
		case lineProp:
			key := clipText(l.prop, width/2)
			s = panelKeyStyle.Render(key) +
				panelDimStyle.Render(" ") +
				panelTextStyle.Render(clipText(l.text, width-lipgloss.Width(key)-1))
		default:
			s = panelTextStyle.Render(clipText(l.text, width))
		}
		out = append(out, s)
	}
	for len(out) < height {
		out = append(out, "")
	}
	for i, l := range out {
		out[i] = padLine(l, width)
	}
	return strings.Join(out, "\n")
}

// buildInspectorLayer renders the inspector above the key help.
func buildInspectorLayer(g *graphmodel.Graph, item viz.Item, x, y, width, height int) *lipgloss.Layer {
	helpH := min(len(helpLines), max(height/2, 0))
	var parts []string
	if h := height - helpH; h > 0 {
		parts = append(parts, renderPanelLines(inspectorLines(g, item), width, h))
	}
	if helpH > 0 {
		parts = append(parts, renderPanelLines(helpLines, width, helpH))
	}
	return lipgloss.NewLayer(strings.Join(parts, "\n")).X(x).Y(y).Z(1).ID("inspector")
}

// clipText shortens s to width cells, ending in "…" when cut.
func clipText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
