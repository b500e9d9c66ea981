package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesen/neograph/internal/source"
	"github.com/wesen/neograph/pkg/graphmodel"
	"github.com/wesen/neograph/pkg/graphstyle"
	"github.com/wesen/neograph/pkg/treelayout"
)

// layoutNode is one node of the layout report.
type layoutNode struct {
	ID      string   `json:"id"`
	Labels  []string `json:"labels"`
	Caption string   `json:"caption"`
	Placed  bool     `json:"placed"`
	Row     int      `json:"row"`
	Column  float64  `json:"column"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Parent  string   `json:"parent,omitempty"`
}

type layoutReport struct {
	Roots []string     `json:"roots"`
	Nodes []layoutNode `json:"nodes"`
}

func newLayoutCmd() *cobra.Command {
	var (
		asJSON  bool
		initial bool
		order   string
	)

	cmd := &cobra.Command{
		Use:   "layout <fixture>",
		Short: "Print the tree layout of a fixture",
		Long: `Lay out a YAML fixture as a tree with its root nodes on top and print
the grid cell and position of every node.

Nodes that no root reaches (root-less cycles, isolated nodes) are listed
as unplaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if order != "" {
				cfg.Layout.RootOrder = order
			}
			opts, err := cfg.LayoutOptions()
			if err != nil {
				return err
			}

			g, err := fixtureGraph(cmd.Context(), args[0], initial)
			if err != nil {
				return err
			}
			res := treelayout.LayoutGraphWithRootNodeOnTop(g, opts)
			report := buildLayoutReport(g, res)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printLayout(cmd.OutOrStdout(), report, opts)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&initial, "initial", false, "lay out only the fixture's initial records")
	cmd.Flags().StringVar(&order, "order", "", "root order: discovery or sorted (default from config)")
	return cmd
}

// fixtureGraph ingests a fixture into a new graph. Rejected records are
// logged and skipped.
func fixtureGraph(ctx context.Context, path string, initialOnly bool) (*graphmodel.Graph, error) {
	f, err := source.LoadFixture(path)
	if err != nil {
		return nil, err
	}
	recs := f.All()
	if initialOnly {
		if recs, err = f.Initial(ctx); err != nil {
			return nil, err
		}
	}
	g := graphmodel.New()
	if err := g.Ingest(recs); err != nil {
		stderrLog().Warn("records rejected", "fixture", path, "error", err)
	}
	return g, nil
}

// buildLayoutReport lists placed nodes by row and column, then the unplaced
// ones in graph order.
func buildLayoutReport(g *graphmodel.Graph, res treelayout.Result) layoutReport {
	style := graphstyle.New()
	report := layoutReport{Roots: res.Roots}
	if report.Roots == nil {
		report.Roots = []string{}
	}
	for _, n := range g.Nodes() {
		ln := layoutNode{
			ID:      n.ID,
			Labels:  n.Labels,
			Caption: style.ForNode(n).Caption(n),
			X:       n.X,
			Y:       n.Y,
		}
		if c, ok := res.Cells[n.ID]; ok {
			ln.Placed = true
			ln.Row, ln.Column = c.Row, c.Column
			ln.Parent = res.Parent[n.ID]
		}
		report.Nodes = append(report.Nodes, ln)
	}
	slices.SortStableFunc(report.Nodes, func(a, b layoutNode) int {
		switch {
		case a.Placed != b.Placed:
			if a.Placed {
				return -1
			}
			return 1
		case !a.Placed:
			return 0
		case a.Row != b.Row:
			return a.Row - b.Row
		case a.Column < b.Column:
			return -1
		case a.Column > b.Column:
			return 1
		}
		return 0
	})
	return report
}

func printLayout(w io.Writer, report layoutReport, opts treelayout.Options) {
	fmt.Fprintf(w, "%s %d nodes, roots: %s  %s\n\n",
		Brand.Sprint("tree layout"),
		len(report.Nodes),
		strings.Join(report.Roots, ", "),
		Subtle.Sprintf("(%s order, %gx%g px)", opts.RootOrder, opts.ColumnSpacing, opts.RowSpacing))

	rows := make([][]string, 0, len(report.Nodes))
	unplaced := 0
	for _, n := range report.Nodes {
		labels := ""
		if len(n.Labels) > 0 {
			labels = ":" + strings.Join(n.Labels, ":")
		}
		if !n.Placed {
			unplaced++
			rows = append(rows, []string{n.ID, labels, n.Caption, "-", "-", "-", "-", ""})
			continue
		}
		rows = append(rows, []string{
			n.ID, labels, n.Caption,
			strconv.Itoa(n.Row),
			strconv.FormatFloat(n.Column, 'g', -1, 64),
			strconv.FormatFloat(n.X, 'f', 0, 64),
			strconv.FormatFloat(n.Y, 'f', 0, 64),
			n.Parent,
		})
	}
	printTable(w, []string{"NODE", "LABELS", "CAPTION", "ROW", "COL", "X", "Y", "PARENT"}, rows)
	if unplaced > 0 {
		fmt.Fprintln(w)
		Warn.Fprintf(w, "  %d nodes not reached from a root\n", unplaced)
	}
}
