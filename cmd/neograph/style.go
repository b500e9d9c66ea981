package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wesen/neograph/internal/store"
	"github.com/wesen/neograph/pkg/graphstyle"
)

func newStyleCmd() *cobra.Command {
	var (
		sheet     string
		stylePath string
		save      string
		asYAML    bool
	)

	cmd := &cobra.Command{
		Use:   "style [fixture]",
		Short: "Print the resolved style sheet",
		Long: `Print the style sheet the viewer would use: the defaults, the configured
style file and the saved sheet named by --sheet, in that order.

Given a fixture, every label and relationship type in it gets its default
rule first, so the output shows the colors the viewer would assign.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if stylePath != "" {
				cfg.Style.Path = stylePath
			}

			ctx := cmd.Context()
			var st *store.Store
			if sheet != "" || save != "" {
				if st, err = store.Open(cfg.Store.Path); err != nil {
					return err
				}
				defer st.Close()
			}

			style, err := loadStyle(ctx, cfg, st, sheet)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				g, err := fixtureGraph(ctx, args[0], false)
				if err != nil {
					return err
				}
				for _, n := range g.Nodes() {
					style.ForNode(n)
				}
				for _, r := range g.Relationships() {
					style.ForRelationship(r)
				}
			}

			if save != "" {
				if err := st.SaveSheet(ctx, save, style.ToSheet()); err != nil {
					return err
				}
				Good.Fprintf(cmd.ErrOrStderr(), "saved sheet %q\n", save)
			}
			return printStyle(cmd, style, asYAML)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "saved style sheet to merge")
	cmd.Flags().StringVar(&stylePath, "style", "", "GraSS or YAML style file (overrides config)")
	cmd.Flags().StringVar(&save, "save", "", "save the resolved sheet under this name")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of GraSS")

	cmd.AddCommand(newStyleListCmd())
	return cmd
}

func printStyle(cmd *cobra.Command, style *graphstyle.GraphStyle, asYAML bool) error {
	if !asYAML {
		_, err := fmt.Fprint(cmd.OutOrStdout(), style.Grass())
		return err
	}
	out, err := yaml.Marshal(style.ToSheet())
	if err != nil {
		return fmt.Errorf("encoding sheet: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func newStyleListCmd() *cobra.Command {
	var remove string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved style sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			if remove != "" {
				if err := st.DeleteSheet(ctx, remove); err != nil {
					return err
				}
				Good.Fprintf(cmd.ErrOrStderr(), "deleted sheet %q\n", remove)
			}

			names, err := st.SheetNames(ctx)
			if err != nil {
				return err
			}
			active, _, err := st.Pref(ctx, store.PrefActiveSheet)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				Subtle.Fprintln(cmd.OutOrStdout(), "  no saved sheets")
				return nil
			}
			rows := make([][]string, 0, len(names))
			for _, n := range names {
				mark := ""
				if n == active {
					mark = "active"
				}
				rows = append(rows, []string{n, mark})
			}
			printTable(cmd.OutOrStdout(), []string{"SHEET", ""}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&remove, "delete", "", "delete the named sheet first")
	return cmd
}
