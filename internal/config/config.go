// Package config loads and saves the neograph TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/wesen/neograph/pkg/forcesim"
	"github.com/wesen/neograph/pkg/termrender"
	"github.com/wesen/neograph/pkg/textmeasure"
	"github.com/wesen/neograph/pkg/treelayout"
	"github.com/wesen/neograph/pkg/viz"
)

// Config holds neograph configuration.
type Config struct {
	Viewer     ViewerConfig     `toml:"viewer"`
	Layout     LayoutConfig     `toml:"layout"`
	Simulation SimulationConfig `toml:"simulation"`
	Text       TextConfig       `toml:"text"`
	Style      StyleConfig      `toml:"style"`
	Neo4j      Neo4jConfig      `toml:"neo4j"`
	Log        LogConfig        `toml:"log"`
	Store      StoreConfig      `toml:"store"`
}

// ViewerConfig controls zoom and how much of a result is shown.
type ViewerConfig struct {
	MinZoom            float64 `toml:"min_zoom"`
	MaxZoom            float64 `toml:"max_zoom"`
	FitPadding         float64 `toml:"fit_padding"`
	InitialNodeDisplay int     `toml:"initial_node_display"`
	MaxNeighbours      int     `toml:"max_neighbours"`
	GridSpacing        float64 `toml:"grid_spacing"`
}

// LayoutConfig controls the tree layout.
type LayoutConfig struct {
	RowSpacing    float64 `toml:"row_spacing"`
	ColumnSpacing float64 `toml:"column_spacing"`
	RootOrder     string  `toml:"root_order"` // "discovery" or "sorted"
}

// SimulationConfig tunes the force simulation.
type SimulationConfig struct {
	Charge          float64 `toml:"charge"`
	LinkGap         float64 `toml:"link_gap"`
	VelocityDecay   float64 `toml:"velocity_decay"`
	AlphaMin        float64 `toml:"alpha_min"`
	PrecomputeTicks int     `toml:"precompute_ticks"`
	TicksPerRender  int     `toml:"ticks_per_render"`
	Seed            uint64  `toml:"seed"`
}

// TextConfig controls caption measurement and the cell projection.
type TextConfig struct {
	CacheCapacity int     `toml:"cache_capacity"`
	CellWidth     float64 `toml:"cell_width"`
	CellHeight    float64 `toml:"cell_height"`
}

// StyleConfig points at a GraSS or YAML style sheet to load on start.
type StyleConfig struct {
	Path string `toml:"path"`
}

// Neo4jConfig is the database connection.
type Neo4jConfig struct {
	URI      string `toml:"uri"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	// ExpandRate limits expand queries per second.
	ExpandRate float64  `toml:"expand_rate"`
	Timeout    Duration `toml:"timeout"`
	// InitialQuery must return nodes, relationships or paths.
	InitialQuery string `toml:"initial_query"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
	File  string `toml:"file"`
}

// StoreConfig locates the preference database.
type StoreConfig struct {
	Path string `toml:"path"`
}

// Duration is a time.Duration written as a string ("10s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	vo := viz.DefaultOptions()
	lo := treelayout.DefaultOptions()
	so := forcesim.DefaultOptions()
	ro := termrender.DefaultOptions()
	return &Config{
		Viewer: ViewerConfig{
			MinZoom:            vo.MinZoom,
			MaxZoom:            vo.MaxZoom,
			FitPadding:         vo.FitPadding,
			InitialNodeDisplay: vo.InitialNodeDisplay,
			MaxNeighbours:      100,
		},
		Layout: LayoutConfig{
			RowSpacing:    lo.RowSpacing,
			ColumnSpacing: lo.ColumnSpacing,
			RootOrder:     lo.RootOrder.String(),
		},
		Simulation: SimulationConfig{
			Charge:          so.Charge,
			LinkGap:         so.LinkGap,
			VelocityDecay:   so.VelocityDecay,
			AlphaMin:        so.AlphaMin,
			PrecomputeTicks: so.PrecomputeTicks,
			TicksPerRender:  so.TicksPerRender,
			Seed:            so.Seed,
		},
		Text: TextConfig{
			CacheCapacity: 10000,
			CellWidth:     ro.CellWidth,
			CellHeight:    ro.CellHeight,
		},
		Neo4j: Neo4jConfig{
			URI:          "neo4j://localhost:7687",
			Username:     "neo4j",
			Database:     "neo4j",
			ExpandRate:   5,
			Timeout:      Duration{10 * time.Second},
			InitialQuery: "MATCH (n)-[r]->(m) RETURN n, r, m LIMIT 100",
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(StateDir(), "neograph.log"),
		},
		Store: StoreConfig{
			Path: filepath.Join(StateDir(), "neograph.db"),
		},
	}
}

// ConfigDir returns the neograph config directory.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the directory for logs and the preference store.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	dir := os.Getenv(env)
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, fallback)
	}
	return filepath.Join(dir, "neograph")
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides the Neo4j connection from NEO4J_URI, NEO4J_USERNAME,
// NEO4J_PASSWORD and NEO4J_DATABASE when they are set.
func (c *Config) ApplyEnv() {
	for env, dst := range map[string]*string{
		"NEO4J_URI":      &c.Neo4j.URI,
		"NEO4J_USERNAME": &c.Neo4j.Username,
		"NEO4J_PASSWORD": &c.Neo4j.Password,
		"NEO4J_DATABASE": &c.Neo4j.Database,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
}

// VizOptions builds controller options from the config.
func (c *Config) VizOptions() viz.Options {
	o := viz.DefaultOptions()
	o.MinZoom = c.Viewer.MinZoom
	o.MaxZoom = c.Viewer.MaxZoom
	o.FitPadding = c.Viewer.FitPadding
	o.InitialNodeDisplay = c.Viewer.InitialNodeDisplay
	o.Simulation = c.SimulationOptions()
	o.TextCache = textmeasure.NewCache(c.Text.CacheCapacity)
	return o
}

// SimulationOptions builds force simulation options from the config.
func (c *Config) SimulationOptions() forcesim.Options {
	o := forcesim.DefaultOptions()
	o.Charge = c.Simulation.Charge
	o.LinkGap = c.Simulation.LinkGap
	o.VelocityDecay = c.Simulation.VelocityDecay
	o.AlphaMin = c.Simulation.AlphaMin
	o.PrecomputeTicks = c.Simulation.PrecomputeTicks
	o.TicksPerRender = c.Simulation.TicksPerRender
	o.Seed = c.Simulation.Seed
	return o
}

// LayoutOptions builds tree layout options from the config.
func (c *Config) LayoutOptions() (treelayout.Options, error) {
	order, err := treelayout.ParseRootOrder(c.Layout.RootOrder)
	if err != nil {
		return treelayout.Options{}, err
	}
	return treelayout.Options{
		RowSpacing:    c.Layout.RowSpacing,
		ColumnSpacing: c.Layout.ColumnSpacing,
		RootOrder:     order,
	}, nil
}

// RenderOptions builds terminal renderer options from the config.
func (c *Config) RenderOptions() termrender.Options {
	o := termrender.DefaultOptions()
	o.CellWidth = c.Text.CellWidth
	o.CellHeight = c.Text.CellHeight
	o.GridSpacing = c.Viewer.GridSpacing
	return o
}
