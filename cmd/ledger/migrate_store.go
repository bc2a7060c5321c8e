package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/Veraticus/spice-ledger/internal/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func (a *app) migrateStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate-store",
		Short: "Copy every user from the configured store into another backend",
		Long: `Copy all users from the configured store into another store, for example
from the JSON data file into SQLite. Users already present in the target are replaced.

Example:
  ledger migrate-store --to-backend sqlite --to-path ~/.local/share/ledger/ledger.db`,
		Args: cobra.NoArgs,
		RunE: a.runMigrateStore,
	}

	cmd.Flags().String("to-backend", config.BackendSQLite, "target backend (json, sqlite)")
	cmd.Flags().String("to-path", "", "target path (default: the backend's default path)")

	return cmd
}

func (a *app) runMigrateStore(cmd *cobra.Command, _ []string) error {
	backend, _ := cmd.Flags().GetString("to-backend")
	path, _ := cmd.Flags().GetString("to-path")

	target := config.StorageConfig{Backend: backend, Path: path}
	if target.Path == "" {
		switch backend {
		case config.BackendJSON:
			target.Path = config.DefaultJSONPath
		case config.BackendSQLite:
			target.Path = config.DefaultSQLitePath
		}
	}
	target.Path = config.ExpandPath(target.Path)

	if target.Backend == a.cfg.Storage.Backend && target.Path == a.cfg.Storage.Path {
		return fmt.Errorf("source and target are the same store: %s", target.Path)
	}

	ctx := cmd.Context()
	src, _, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			slog.Warn("Failed to close source store", "error", closeErr)
		}
	}()

	dst, err := storage.Open(ctx, target, category.Default())
	if err != nil {
		return fmt.Errorf("failed to open target store: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil {
			slog.Warn("Failed to close target store", "error", closeErr)
		}
	}()

	out := cmd.OutOrStdout()
	var bar *progressbar.ProgressBar
	result, err := storage.CopyUsers(ctx, src, dst, func(username string, _, total int) {
		if bar == nil {
			bar = cli.NewProgressBar(out, total, "Copying users...")
		}
		slog.Debug("Processed user", "username", username)
		cli.Advance(bar, 1)
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Copied %d users to %s (%s)", result.Copied, target.Path, target.Backend))); err != nil {
		return err
	}
	if result.Skipped > 0 {
		_, err = fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Skipped %d unreadable users", result.Skipped)))
	}
	return err
}
