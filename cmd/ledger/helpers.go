package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/spice-ledger/internal/advice"
	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/ledger"
	"github.com/Veraticus/spice-ledger/internal/report"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/Veraticus/spice-ledger/internal/storage"
)

// openStore opens the configured backend with the default category registry.
func (a *app) openStore(ctx context.Context) (service.UserStore, *category.Registry, error) {
	registry := category.Default()
	store, err := storage.Open(ctx, a.cfg.Storage, registry)
	if err != nil {
		return nil, nil, err
	}
	return store, registry, nil
}

func (a *app) sessionOptions() ([]ledger.Option, error) {
	window, err := report.ParseWindow(a.cfg.Report.AdviceWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid report.advice_window: %w", err)
	}
	return []ledger.Option{
		ledger.WithAdvisor(advice.NewGenerator(advice.WithCurrency(a.cfg.Report.Currency))),
		ledger.WithAdviceWindow(window),
		ledger.WithRecent(a.cfg.Report.Recent),
	}, nil
}

// withSession logs in the configured user and runs fn, closing the store afterwards.
func (a *app) withSession(ctx context.Context, fn func(*ledger.Session) error) error {
	username, err := a.cfg.RequireUser()
	if err != nil {
		return err
	}

	opts, err := a.sessionOptions()
	if err != nil {
		return err
	}

	store, registry, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close store", "error", closeErr)
		}
	}()

	session, err := ledger.Login(ctx, store, registry, username, opts...)
	if err != nil {
		return err
	}
	return fn(session)
}
