package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/spf13/cobra"
)

func (a *app) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register [username]",
		Short: "Create a new user",
		Long: `Create a new user with an empty ledger. The username comes from the
argument, or from --user / LEDGER_USER when no argument is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := a.cfg.User
			if len(args) == 1 {
				username = args[0]
			}

			ctx := cmd.Context()
			store, registry, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Warn("Failed to close store", "error", closeErr)
				}
			}()

			session, err := ledger.Register(ctx, store, registry, username)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Registered "+session.User().Username))
			return err
		},
	}
}
