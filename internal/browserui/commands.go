package browserui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wesen/neograph/internal/source"
	"github.com/wesen/neograph/internal/store"
	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/graphstyle"
)

// Results of background work. Graph results carry the generation they were
// requested under so a rebound controller can drop them.
type (
	loadedMsg struct {
		recs graphmodel.Records
		err  error
	}

	expandedMsg struct {
		generation uint64
		parentID   string
		exp        source.Expansion
		err        error
	}

	internalMsg struct {
		generation uint64
		rels       []graphmodel.RelationshipRecord
		err        error
	}

	savedMsg struct {
		what string
		err  error
	}

	hintExpiredMsg struct{}
)

func loadCmd(src source.Source, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		recs, err := src.Initial(ctx)
		return loadedMsg{recs: recs, err: err}
	}
}

func expandCmd(src source.Source, timeout time.Duration, generation uint64, nodeID string, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		exp, err := src.Expand(ctx, nodeID, limit)
		return expandedMsg{generation: generation, parentID: nodeID, exp: exp, err: err}
	}
}

func betweenCmd(src source.Source, timeout time.Duration, generation uint64, ids []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rels, err := src.Between(ctx, ids)
		return internalMsg{generation: generation, rels: rels, err: err}
	}
}

func saveSheetCmd(st *store.Store, name string, sheet graphstyle.Sheet) tea.Cmd {
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		err := st.SaveSheet(context.Background(), name, sheet)
		return savedMsg{what: "style " + name, err: err}
	}
}

func saveFlagCmd(st *store.Store, key string) tea.Cmd {
	if st == nil {
		return nil
	}
	return func() tea.Msg {
		err := st.SetFlag(context.Background(), key, true)
		return savedMsg{what: key, err: err}
	}
}

func hintTimeoutCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return hintExpiredMsg{} })
}
