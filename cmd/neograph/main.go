// neograph browses graph query results in the terminal.
//
// Run: go run ./cmd/neograph view --fixture internal/source/testdata/movies.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wesen/neograph/internal/config"
	"github.com/wesen/neograph/internal/source"
	"github.com/wesen/neograph/internal/store"
	"github.com/wesen/neograph/pkg/graphstyle"
)

var (
	configPath string
	logFile    string
	logLevel   string
)

func main() {
	// Load .env file if present (for NEO4J_PASSWORD)
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		// SilenceErrors is set, so cobra leaves printing to us.
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "neograph",
		Short: "Browse graph query results in the terminal",
		Long: `neograph draws Neo4j query results as a force-directed graph in the
terminal. Nodes can be expanded, pinned, dragged and dismissed; labels and
relationship types are styled with GraSS sheets.

Connection settings come from the config file, .env and NEO4J_* variables.
YAML fixtures can stand in for a database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/neograph/config.toml)")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (default from config)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newViewCmd(),
		newLayoutCmd(),
		newStyleCmd(),
		newRenderCmd(),
		newConfigCmd(),
	)
	return root
}

// loadConfig reads the config file and applies environment and flag
// overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// openLog appends to the configured log file. The viewer owns the terminal,
// so nothing is logged to stderr while it runs.
func openLog(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return log, func() { f.Close() }, nil
}

// stderrLog is the logger of the one-shot commands: warnings and up unless
// --log-level says otherwise.
func stderrLog() *slog.Logger {
	level := slog.LevelWarn
	if logLevel != "" {
		if l, err := parseLevel(logLevel); err == nil {
			level = l
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openSource opens the fixture when one is given, the database otherwise.
// The second result names the source for display.
func openSource(ctx context.Context, cfg *config.Config, fixture string, log *slog.Logger) (source.Source, string, error) {
	if fixture != "" {
		f, err := source.LoadFixture(fixture)
		if err != nil {
			return nil, "", err
		}
		return f, filepath.Base(fixture), nil
	}
	s, err := source.OpenNeo4j(ctx, source.Neo4jConfig{
		URI:          cfg.Neo4j.URI,
		Username:     cfg.Neo4j.Username,
		Password:     cfg.Neo4j.Password,
		Database:     cfg.Neo4j.Database,
		ExpandRate:   cfg.Neo4j.ExpandRate,
		Timeout:      cfg.Neo4j.Timeout.Duration,
		InitialQuery: cfg.Neo4j.InitialQuery,
	}, log)
	if err != nil {
		return nil, "", err
	}
	return s, cfg.Neo4j.URI, nil
}

// loadStyle builds the style sheet: defaults, then the configured file
// (GraSS, or YAML in sheet form), then the named sheet saved in st.
func loadStyle(ctx context.Context, cfg *config.Config, st *store.Store, sheet string) (*graphstyle.GraphStyle, error) {
	style := graphstyle.New()
	if path := cfg.Style.Path; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading style: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			var s graphstyle.Sheet
			if err := yaml.Unmarshal(data, &s); err != nil {
				return nil, fmt.Errorf("parsing style %s: %w", path, err)
			}
			style.MergeSheet(s)
		default:
			if err := style.LoadGrass(string(data)); err != nil {
				return nil, fmt.Errorf("parsing style %s: %w", path, err)
			}
		}
	}
	if st == nil || sheet == "" {
		return style, nil
	}
	saved, err := st.LoadSheet(ctx, sheet)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		style.MergeSheet(saved)
	}
	return style, nil
}
