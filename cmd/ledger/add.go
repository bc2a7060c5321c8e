package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/entry"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/spf13/cobra"
)

const dateFlagLayout = "2006-01-02"

func (a *app) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Long: `Record a transaction. The category decides whether it is income or an expense.
Without --amount and --category the fields are asked for interactively.

Examples:
  ledger add -u alice --amount 1500 --category Salary
  ledger add -u alice -a 249,90 -c Groceries -d "weekly shop"
  ledger add -u alice`,
		Args: cobra.NoArgs,
		RunE: a.runAdd,
	}

	cmd.Flags().StringP("amount", "a", "", "amount, e.g. 12.50 or 12,50")
	cmd.Flags().StringP("category", "c", "", "category name (see `ledger categories`)")
	cmd.Flags().StringP("description", "d", "", "optional description")
	cmd.Flags().String("date", "", "transaction date as YYYY-MM-DD (default: now)")

	return cmd
}

func (a *app) runAdd(cmd *cobra.Command, _ []string) error {
	amount, _ := cmd.Flags().GetString("amount")
	categoryName, _ := cmd.Flags().GetString("category")
	description, _ := cmd.Flags().GetString("description")
	dateFlag, _ := cmd.Flags().GetString("date")

	var date time.Time
	if dateFlag != "" {
		d, err := time.ParseInLocation(dateFlagLayout, dateFlag, time.Local)
		if err != nil {
			return common.NewUserError("Date must look like 2024-01-31", err)
		}
		date = d
	}

	out := cmd.OutOrStdout()
	prompter := cli.NewPrompter(cmd.InOrStdin(), out)

	return a.withSession(cmd.Context(), func(session *ledger.Session) error {
		form := entry.Form{
			Date:        date,
			Amount:      amount,
			Category:    categoryName,
			Description: description,
		}

		if amount == "" && categoryName == "" {
			promptCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			interrupts := cli.NewInterruptHandler(out, "Entry")
			promptCtx = interrupts.HandleInterrupts(promptCtx)
			prompted, err := prompter.PromptForm(promptCtx, session.Registry())
			if err != nil {
				if interrupts.WasInterrupted() {
					return nil
				}
				return err
			}
			prompted.Date = date
			form = prompted
		}

		txn, err := session.Add(cmd.Context(), form)
		if errors.Is(err, ledger.ErrNotPersisted) {
			_, _ = fmt.Fprintln(out, cli.FormatWarning("The transaction was recorded but could not be saved"))
			return err
		}
		if err != nil {
			return err
		}

		prompter.ShowAdded(txn, a.cfg.Report.Currency)
		return nil
	})
}
