package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/ofx"
	"github.com/spf13/cobra"
)

func (a *app) importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX files exported from your bank.
Credits are filed under the income category and debits under the expense category.

Examples:
  # Import a single file
  ledger import-ofx -u alice ~/Downloads/statement_jan.qfx

  # Import every file in a directory, filing debits under Housing
  ledger import-ofx -u alice --expense-category Housing ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runImportOFX,
	}

	cmd.Flags().String("income-category", category.Salary, "category for credits")
	cmd.Flags().String("expense-category", category.Groceries, "category for debits")
	cmd.Flags().BoolP("dry-run", "n", false, "parse and count without saving")

	return cmd
}

// expandFiles resolves globs, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

func (a *app) runImportOFX(cmd *cobra.Command, args []string) error {
	incomeName, _ := cmd.Flags().GetString("income-category")
	expenseName, _ := cmd.Flags().GetString("expense-category")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	mapping := ofx.Mapping{Income: incomeName, Expense: expenseName}
	parser := ofx.NewParser()
	out := cmd.OutOrStdout()

	return a.withSession(cmd.Context(), func(session *ledger.Session) error {
		bar := cli.NewProgressBar(out, len(files), "Reading statements...")

		var all []model.Transaction
		for _, file := range files {
			txns, err := parseOFXFile(cmd, parser, file, session, mapping)
			if err != nil {
				return err
			}
			all = append(all, txns...)
			cli.Advance(bar, 1)
		}

		if dryRun {
			_, err := fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions from %d files", len(all), len(files))))
			return err
		}

		if err := session.Import(cmd.Context(), all); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions from %d files", len(all), len(files))))
		return err
	})
}

func parseOFXFile(cmd *cobra.Command, parser *ofx.Parser, path string, session *ledger.Session, mapping ofx.Mapping) ([]model.Transaction, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied import path
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close file", "file", path, "error", closeErr)
		}
	}()

	txns, err := parser.Parse(cmd.Context(), f, session.Registry(), mapping)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("Parsed statement", "file", path, "transactions", len(txns))
	return txns, nil
}
