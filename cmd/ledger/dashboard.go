package main

import (
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/report"
	"github.com/Veraticus/spice-ledger/internal/tui"
	"github.com/Veraticus/spice-ledger/internal/tui/themes"
	"github.com/spf13/cobra"
)

func (a *app) dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Open a terminal dashboard with an entry form and a live report.

Keys: Tab switches between form and report, Ctrl+S saves an entry,
w changes the spending window, q quits from the report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			themeName, _ := cmd.Flags().GetString("theme")
			windowFlag, _ := cmd.Flags().GetString("window")
			window, err := report.ParseWindow(windowFlag)
			if err != nil {
				return err
			}

			return a.withSession(cmd.Context(), func(session *ledger.Session) error {
				return tui.Run(cmd.Context(), session,
					tui.WithTheme(themes.GetTheme(themeName)),
					tui.WithCurrency(a.cfg.Report.Currency),
					tui.WithWindow(window))
			})
		},
	}

	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.Flags().StringP("window", "w", "month", "initial spending window (week, month, all)")
	return cmd
}
