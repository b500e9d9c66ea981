package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesen/neograph/internal/source"
	"github.com/wesen/neograph/pkg/forcesim"
	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/termrender"
	"github.com/wesen/neograph/pkg/viz"
)

// maxRenderFrames bounds the frames run to settle the layout.
const maxRenderFrames = 2000

func newRenderCmd() *cobra.Command {
	var (
		width, height int
		expand        []string
		tree          bool
		plain         bool
		stylePath     string
	)

	cmd := &cobra.Command{
		Use:   "render <fixture>",
		Short: "Render a fixture once and print the frame",
		Long: `Load a YAML fixture, let the force layout settle, fit the graph to the
frame and print it. --expand fetches neighbours of the given nodes first;
--tree arranges the graph as a tree instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("frame size must be positive, got %dx%d", width, height)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if stylePath != "" {
				cfg.Style.Path = stylePath
			}
			ctx := cmd.Context()
			log := stderrLog()

			f, err := source.LoadFixture(args[0])
			if err != nil {
				return err
			}
			style, err := loadStyle(ctx, cfg, nil, "")
			if err != nil {
				return err
			}
			recs, err := f.Initial(ctx)
			if err != nil {
				return err
			}

			sched := forcesim.NewManualScheduler()
			r := termrender.New(style, cfg.RenderOptions())
			opts := cfg.VizOptions()
			opts.Logger = log
			ctrl := viz.New(graphmodel.New(), style, sched, opts, viz.Events{}, r)
			defer ctrl.Destroy()

			if err := ctrl.Load(recs); err != nil {
				log.Warn("records rejected", "error", err)
			}
			ctrl.Init()

			for _, id := range expand {
				if err := expandNode(cmd, f, ctrl, id, cfg.Viewer.MaxNeighbours); err != nil {
					return err
				}
			}
			if tree {
				lo, err := cfg.LayoutOptions()
				if err != nil {
					return err
				}
				ctrl.LayoutTree(lo)
			}
			sched.RunUntilIdle(maxRenderFrames)

			sw, sh := r.ScreenSize(width, height)
			ctrl.Resize(false, sw, sh)
			ctrl.ZoomToFitClick()

			var frame string
			if plain {
				frame = r.Draw(ctrl.Graph(), ctrl.Transform(), width, height).String()
			} else {
				frame = r.Render(ctrl.Graph(), ctrl.Transform(), width, height)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), frame)
			return err
		},
	}

	cmd.Flags().IntVarP(&width, "width", "W", 100, "frame width in cells")
	cmd.Flags().IntVarP(&height, "height", "H", 30, "frame height in cells")
	cmd.Flags().StringSliceVarP(&expand, "expand", "e", nil, "node ids to expand before rendering")
	cmd.Flags().BoolVar(&tree, "tree", false, "apply the tree layout")
	cmd.Flags().BoolVar(&plain, "plain", false, "print characters without colors")
	cmd.Flags().StringVar(&stylePath, "style", "", "GraSS or YAML style file (overrides config)")
	return cmd
}

// expandNode fetches the neighbours of id and adds them around it.
func expandNode(cmd *cobra.Command, src source.Source, ctrl *viz.Controller, id string, limit int) error {
	if ctrl.Graph().Node(id) == nil {
		return fmt.Errorf("expand %s: node not shown", id)
	}
	exp, err := src.Expand(cmd.Context(), id, limit)
	if err != nil {
		return fmt.Errorf("expand %s: %w", id, err)
	}
	batch, err := graphmodel.Convert(ctrl.Graph(), exp.Records)
	if err != nil {
		stderrLog().Warn("records rejected", "node", id, "error", err)
	}
	added, err := ctrl.ApplyExpansion(ctrl.Generation(), id, batch)
	if err != nil && !errors.Is(err, viz.ErrStale) {
		return err
	}
	if shown := len(exp.Records.Nodes); shown < exp.Total {
		Warn.Fprintf(cmd.ErrOrStderr(), "%s: added %d, showing %d of %d neighbours\n", id, added, shown, exp.Total)
	}
	return nil
}
