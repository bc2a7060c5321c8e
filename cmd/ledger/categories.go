package main

import (
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/spf13/cobra"
)

func (a *app) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "List the available categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.RenderCategories(category.Default()))
			return err
		},
	}
}
