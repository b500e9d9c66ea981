package main

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/wesen/neograph/internal/browserui"
	"github.com/wesen/neograph/internal/store"
)

func newViewCmd() *cobra.Command {
	var fixture, sheet, stylePath string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive graph browser",
		Long: `Open the graph browser on the initial query of the configured database,
or on a YAML fixture with --fixture.

Style edits are saved in the preference store under the sheet name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if stylePath != "" {
				cfg.Style.Path = stylePath
			}
			log, closeLog, err := openLog(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			if sheet == "" {
				if active, ok, err := st.Pref(ctx, store.PrefActiveSheet); err == nil && ok {
					sheet = active
				} else {
					sheet = "default"
				}
			}

			src, title, err := openSource(ctx, cfg, fixture, log)
			if err != nil {
				return err
			}
			defer src.Close(context.Background())

			style, err := loadStyle(ctx, cfg, st, sheet)
			if err != nil {
				return err
			}

			m, err := browserui.New(browserui.Options{
				Source:    src,
				Store:     st,
				Config:    cfg,
				Style:     style,
				SheetName: sheet,
				Title:     title,
				Logger:    log,
			})
			if err != nil {
				return err
			}
			log.Info("viewer starting", "source", title, "sheet", sheet, "session", m.Controller().Session())

			if _, err := tea.NewProgram(m).Run(); err != nil {
				return fmt.Errorf("running viewer: %w", err)
			}
			m.Controller().Destroy()
			return st.SetPref(ctx, store.PrefActiveSheet, sheet)
		},
	}

	cmd.Flags().StringVarP(&fixture, "fixture", "f", "", "YAML fixture to browse instead of the database")
	cmd.Flags().StringVar(&sheet, "sheet", "", "saved style sheet to use and update (default: last used)")
	cmd.Flags().StringVar(&stylePath, "style", "", "GraSS or YAML style file (overrides config)")
	return cmd
}
