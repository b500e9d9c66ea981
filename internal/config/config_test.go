package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wesen/neograph/pkg/forcesim"
	"github.com/wesen/neograph/pkg/treelayout"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0.1, cfg.Viewer.MinZoom)
	assert.Equal(t, 2.0, cfg.Viewer.MaxZoom)
	assert.Equal(t, 300, cfg.Viewer.InitialNodeDisplay)
	assert.Equal(t, 250.0, cfg.Layout.RowSpacing)
	assert.Equal(t, 200.0, cfg.Layout.ColumnSpacing)
	assert.Equal(t, "discovery", cfg.Layout.RootOrder)
	assert.Equal(t, -400.0, cfg.Simulation.Charge)
	assert.Equal(t, 300, cfg.Simulation.PrecomputeTicks)
	assert.Equal(t, 10*time.Second, cfg.Neo4j.Timeout.Duration)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Viewer.MaxZoom = 3
	cfg.Layout.RootOrder = "sorted"
	cfg.Neo4j.Timeout = Duration{30 * time.Second}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[viewer]
initial_node_display = 50

[neo4j]
uri = "neo4j://db:7687"
timeout = "2s"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Viewer.InitialNodeDisplay)
	assert.Equal(t, "neo4j://db:7687", cfg.Neo4j.URI)
	assert.Equal(t, 2*time.Second, cfg.Neo4j.Timeout.Duration)
	// Untouched keys keep their defaults.
	assert.Equal(t, 2.0, cfg.Viewer.MaxZoom)
}

func TestZeroAlphaMinFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[simulation]\nalpha_min = 0\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Simulation.AlphaMin)

	sim := forcesim.New(cfg.SimulationOptions())
	assert.Equal(t, forcesim.DefaultOptions().AlphaMin, sim.Options().AlphaMin)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[viewer\n"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	dur := filepath.Join(dir, "dur.toml")
	require.NoError(t, os.WriteFile(dur, []byte("[neo4j]\ntimeout = \"soon\"\n"), 0o644))
	_, err = Load(dur)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("NEO4J_URI", "neo4j+s://remote:7687")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("NEO4J_USERNAME", "")
	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "neo4j+s://remote:7687", cfg.Neo4j.URI)
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	assert.Equal(t, "neo4j", cfg.Neo4j.Username)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	assert.Equal(t, "/tmp/cfg/neograph/config.toml", DefaultPath())
	assert.Equal(t, "/tmp/state/neograph", StateDir())
}

func TestDerivedOptions(t *testing.T) {
	cfg := Default()
	cfg.Viewer.MinZoom = 0.2
	cfg.Simulation.Seed = 42
	cfg.Viewer.GridSpacing = 80

	vo := cfg.VizOptions()
	assert.Equal(t, 0.2, vo.MinZoom)
	assert.Equal(t, uint64(42), vo.Simulation.Seed)
	require.NotNil(t, vo.TextCache)
	assert.Equal(t, 80.0, cfg.RenderOptions().GridSpacing)

	cfg.Layout.RootOrder = "sorted"
	lo, err := cfg.LayoutOptions()
	require.NoError(t, err)
	assert.Equal(t, treelayout.SortedOrder, lo.RootOrder)

	cfg.Layout.RootOrder = "random"
	_, err = cfg.LayoutOptions()
	assert.Error(t, err)
}
