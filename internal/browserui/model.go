// Package browserui is the interactive terminal graph browser: a bubbletea
// model that drives the visualization controller from keys and mouse, and
// fetches expansions from a graph source in the background.
package browserui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"

	"github.com/wesen/neograph/internal/config"
	"github.com/wesen/neograph/internal/source"
	"github.com/wesen/neograph/internal/store"
	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/graphstyle"
	"github.com/wesen/neograph/pkg/termrender"
	"github.com/wesen/neograph/pkg/treelayout"
	"github.com/wesen/neograph/pkg/viz"
)

// Options wires a Model to its collaborators.
type Options struct {
	Source source.Source
	// Store persists the style sheet and one-time hints. It may be nil.
	Store  *store.Store
	Config *config.Config
	// Style defaults to a fresh sheet.
	Style *graphstyle.GraphStyle
	// SheetName is the store key edits are saved under.
	SheetName string
	// Title is shown in the header, usually the database or fixture.
	Title  string
	Logger *slog.Logger

	FrameInterval time.Duration
	HintDuration  time.Duration
}

// session holds what controller callbacks write. It is shared by every
// copy of the Model.
type session struct {
	hovered   viz.Item
	zoom      viz.ZoomEvent
	hint      string
	hintShown bool
	status    string
	failed    bool
	fitted    bool
	cmds      []tea.Cmd
}

func (s *session) queue(cmd tea.Cmd) {
	if cmd != nil {
		s.cmds = append(s.cmds, cmd)
	}
}

func (s *session) drain() tea.Cmd {
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}

func (s *session) setStatus(format string, args ...any) {
	s.status = fmt.Sprintf(format, args...)
	s.failed = false
}

func (s *session) setError(err error) {
	s.status = err.Error()
	s.failed = true
}

// Model is the main application state.
type Model struct {
	Width, Height  int
	MouseX, MouseY int
	Fullscreen     bool
	Loaded         bool

	ctrl       *viz.Controller
	renderer   *termrender.Renderer
	sched      *frameScheduler
	src        source.Source
	store      *store.Store
	cfg        *config.Config
	vizOpts    viz.Options
	layoutOpts treelayout.Options
	sheet      string
	title      string
	hintFor    time.Duration
	timeout    time.Duration
	log        *slog.Logger
	st         *session

	// Pan state
	panning      bool
	lastX, lastY int

	// Double-click detection
	lastClickID string
	lastClickAt time.Time

	// Edit modal state
	EditOpen     bool
	EditSelector graphstyle.Selector
	EditProps    []string
	EditInputs   []textinput.Model
	EditFocus    int
}

// New builds a Model. The first result is fetched by Init.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	layoutOpts, err := cfg.LayoutOptions()
	if err != nil {
		return Model{}, fmt.Errorf("layout options: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	style := opts.Style
	if style == nil {
		style = graphstyle.New()
	}
	sheet := opts.SheetName
	if sheet == "" {
		sheet = "default"
	}
	hintFor := opts.HintDuration
	if hintFor <= 0 {
		hintFor = 4 * time.Second
	}
	timeout := cfg.Neo4j.Timeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	st := &session{}
	if opts.Store != nil {
		shown, err := opts.Store.Flag(context.Background(), store.PrefZoomLimitHintShown)
		if err != nil {
			log.Warn("reading zoom hint flag", "error", err)
		}
		st.hintShown = shown
	}

	vizOpts := cfg.VizOptions()
	vizOpts.Logger = log
	m := Model{
		renderer:   termrender.New(style, cfg.RenderOptions()),
		sched:      newFrameScheduler(opts.FrameInterval),
		src:        opts.Source,
		store:      opts.Store,
		cfg:        cfg,
		vizOpts:    vizOpts,
		layoutOpts: layoutOpts,
		sheet:      sheet,
		title:      opts.Title,
		hintFor:    hintFor,
		timeout:    timeout,
		log:        log,
		st:         st,
	}
	m.ctrl = viz.New(graphmodel.New(), style, m.sched, vizOpts, m.events(), m.renderer)
	return m, nil
}

// events routes controller callbacks into the shared session.
func (m Model) events() viz.Events {
	st, src, cfg, log := m.st, m.src, m.cfg, m.log
	hintFor, timeout, db := m.hintFor, m.timeout, m.store
	return viz.Events{
		OnItemHovered: func(item viz.Item) { st.hovered = item },
		OnNodeExpandRequested: func(n *graphmodel.NodeModel, generation uint64) {
			st.setStatus("expanding %s…", n.Caption)
			st.queue(expandCmd(src, timeout, generation, n.ID, cfg.Viewer.MaxNeighbours))
		},
		OnNodeCollapsed: func(n *graphmodel.NodeModel) {
			st.setStatus("collapsed %s", n.Caption)
		},
		OnZoom: func(e viz.ZoomEvent) {
			st.zoom = e
			if e.FitLoweredMinScale {
				st.setStatus("zoomed out to %.0f%% to fit the graph", e.Scale*100)
			}
			if e.LimitJustReached && !st.hintShown {
				st.hintShown = true
				st.hint = "Zoom limit reached. Press 0 to fit the graph."
				log.Debug("showing zoom limit hint", "scale", e.Scale)
				st.queue(saveFlagCmd(db, store.PrefZoomLimitHintShown))
				st.queue(hintTimeoutCmd(hintFor))
			}
		},
		OnSimulationEnd: func() {
			log.Debug("layout settled")
		},
	}
}

// Controller exposes the visualization controller.
func (m Model) Controller() *viz.Controller { return m.ctrl }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	m.st.setStatus("loading…")
	return loadCmd(m.src, m.timeout)
}
