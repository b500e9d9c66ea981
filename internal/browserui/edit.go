package browserui

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/wesen/neograph/pkg/graphstyle"
	"github.com/wesen/neograph/pkg/tealayout"
	"github.com/wesen/neograph/pkg/viz"
)

// Properties offered by the style editor.
var (
	nodeEditProps         = []string{"color", "border-color", "diameter", "caption"}
	relationshipEditProps = []string{"color", "shaft-width", "caption"}
)

// editSelector returns the rule a style edit of item should change: the
// alphabetically first label of a node, or a relationship's type.
func editSelector(item viz.Item) (graphstyle.Selector, []string, bool) {
	switch item.Kind {
	case viz.ItemNode:
		if len(item.Node.Labels) == 0 {
			return graphstyle.NewSelector(graphstyle.TagNode), nodeEditProps, true
		}
		labels := slices.Clone(item.Node.Labels)
		slices.Sort(labels)
		return graphstyle.NewSelector(graphstyle.TagNode, labels[0]), nodeEditProps, true
	case viz.ItemRelationship:
		return graphstyle.RelationshipSelector(item.Relationship), relationshipEditProps, true
	}
	return graphstyle.Selector{}, nil, false
}

// openEditModal opens the style editor for the selected item.
func (m Model) openEditModal() (Model, tea.Cmd) {
	sel, props, ok := editSelector(m.ctrl.Selected())
	if !ok {
		m.st.setStatus("select a node or relationship to edit its style")
		return m, nil
	}
	current := m.ctrl.Style().ForSelector(sel)

	m.EditOpen = true
	m.EditSelector = sel
	m.EditProps = props
	m.EditFocus = 0
	m.EditInputs = make([]textinput.Model, len(props))
	for i, p := range props {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 40
		in.SetValue(current.Get(p))
		m.EditInputs[i] = in
	}

	cmd := m.EditInputs[0].Focus()
	return m, cmd
}

// handleEditKeys processes keys when the edit modal is open.
func (m Model) handleEditKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "escape":
		m.EditOpen = false
		return m, nil

	case "enter":
		return m.applyEdit()

	case "tab", "down":
		return m.focusField(m.EditFocus + 1)

	case "shift+tab", "up":
		return m.focusField(m.EditFocus - 1)

	case "ctrl+n":
		m.cyclePreset()
		return m, nil

	default:
		var cmd tea.Cmd
		m.EditInputs[m.EditFocus], cmd = m.EditInputs[m.EditFocus].Update(msg)
		return m, cmd
	}
}

func (m Model) focusField(i int) (Model, tea.Cmd) {
	n := len(m.EditInputs)
	m.EditInputs[m.EditFocus].Blur()
	m.EditFocus = ((i % n) + n) % n
	cmd := m.EditInputs[m.EditFocus].Focus()
	return m, cmd
}

// cyclePreset replaces the focused value with the next palette entry for
// its property.
func (m *Model) cyclePreset() {
	presets := graphstyle.Presets(m.EditProps[m.EditFocus])
	if len(presets) == 0 {
		return
	}
	in := &m.EditInputs[m.EditFocus]
	next := 0
	if i := slices.Index(presets, strings.TrimSpace(in.Value())); i >= 0 {
		next = (i + 1) % len(presets)
	}
	in.SetValue(presets[next])
}

// applyEdit writes the non-empty fields into the rule, restyles the graph
// and saves the sheet.
func (m Model) applyEdit() (Model, tea.Cmd) {
	props := graphstyle.Props{}
	for i, p := range m.EditProps {
		if v := strings.TrimSpace(m.EditInputs[i].Value()); v != "" {
			props[p] = v
		}
	}
	style := m.ctrl.Style()
	style.ChangeForSelector(m.EditSelector, props)
	m.ctrl.Restyle()
	m.EditOpen = false
	m.st.setStatus("updated %s", m.EditSelector)
	m.log.Info("style changed", "selector", m.EditSelector.String(), "props", len(props))
	return m, saveSheetCmd(m.store, m.sheet, style.ToSheet())
}

// buildEditModalLayer renders the style editor as a centered modal layer.
func buildEditModalLayer(m Model) *lipgloss.Layer {
	titleStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Background(modalBGColor).
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(accentColor).
		Background(modalBGColor)

	hintLine := lipgloss.NewStyle().
		Foreground(c("#6B7080")).
		Background(modalBGColor).
		Italic(true)

	lines := []string{
		titleStyle.Render(fmt.Sprintf("  STYLE %s", m.EditSelector)),
		"",
	}
	for i, p := range m.EditProps {
		focus := "  "
		if i == m.EditFocus {
			focus = "▸ "
		}
		lines = append(lines,
			labelStyle.Render(focus+p+":"),
			"  "+m.EditInputs[i].View(),
		)
	}
	lines = append(lines, "", hintLine.Render("  [tab] next  [^n] preset  [enter] save  [esc] cancel"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(headerColor).
		Background(modalBGColor).
		Width(48).
		Padding(1, 2)

	return tealayout.ModalLayer(strings.Join(lines, "\n"), m.Width, m.Height, boxStyle)
}
