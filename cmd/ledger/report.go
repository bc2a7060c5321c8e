package main

import (
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/report"
	"github.com/spf13/cobra"
)

func (a *app) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show balance, charts, recent transactions and advice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			windowFlag, _ := cmd.Flags().GetString("window")
			window, err := report.ParseWindow(windowFlag)
			if err != nil {
				return err
			}

			return a.withSession(cmd.Context(), func(session *ledger.Session) error {
				out := cli.RenderReport(session.Summary(window), session.Advice(), a.cfg.Report.Currency)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			})
		},
	}

	cmd.Flags().StringP("window", "w", "month", "spending window (week, month, all)")
	return cmd
}

func (a *app) recentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the latest transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			if limit <= 0 {
				limit = a.cfg.Report.Recent
			}

			return a.withSession(cmd.Context(), func(session *ledger.Session) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRecent(session.Recent(limit), a.cfg.Report.Currency))
				return err
			})
		},
	}

	cmd.Flags().IntP("limit", "n", 0, "number of transactions (default: report.recent)")
	return cmd
}

func (a *app) spendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spending",
		Short: "Chart spending per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			windowFlag, _ := cmd.Flags().GetString("window")
			window, err := report.ParseWindow(windowFlag)
			if err != nil {
				return err
			}

			return a.withSession(cmd.Context(), func(session *ledger.Session) error {
				s := session.Summary(window)
				w := cmd.OutOrStdout()
				if _, err := fmt.Fprintln(w, cli.FormatTitle(fmt.Sprintf("Spending (%s)", window))); err != nil {
					return err
				}
				if _, err := fmt.Fprintln(w, cli.RenderSpending(s.Spending, cli.DefaultChartWidth, a.cfg.Report.Currency)); err != nil {
					return err
				}
				if s.Spending.Len() > 0 {
					_, err := fmt.Fprintf(w, "\nTotal: %s\n", cli.FormatAmount(s.Spending.Total(), a.cfg.Report.Currency))
					return err
				}
				return nil
			})
		},
	}

	cmd.Flags().StringP("window", "w", "all", "spending window (week, month, all)")
	return cmd
}
