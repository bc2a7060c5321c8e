// Package ledger ties the registry, entry validation, storage and reporting
// together for a single signed-in user.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/advice"
	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/entry"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/report"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// Session errors.
var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrEmptyName    = errors.New("username cannot be empty")
	// ErrNotPersisted means a transaction was recorded in memory but could not be saved.
	ErrNotPersisted = errors.New("transaction recorded but not saved")
)

// Session is a signed-in user together with the collaborators needed to work with their ledger.
type Session struct {
	store        service.UserStore
	registry     *category.Registry
	user         *model.User
	advisor      *advice.Generator
	clock        func() time.Time
	adviceWindow report.Window
	recent       int
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithAdvisor sets the advice generator.
func WithAdvisor(g *advice.Generator) Option {
	return func(s *Session) {
		s.advisor = g
	}
}

// WithAdviceWindow sets the window used to rank top spending categories in advice.
func WithAdviceWindow(w report.Window) Option {
	return func(s *Session) {
		s.adviceWindow = w
	}
}

// WithRecent sets how many recent transactions a summary lists.
func WithRecent(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.recent = n
		}
	}
}

func newSession(store service.UserStore, registry *category.Registry, user *model.User, opts ...Option) *Session {
	s := &Session{
		store:        store,
		registry:     registry,
		user:         user,
		advisor:      advice.NewGenerator(),
		clock:        time.Now,
		adviceWindow: report.WindowMonth,
		recent:       10,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", common.NewUserError("Enter a username", ErrEmptyName)
	}
	return username, nil
}

// Register creates and saves a new user with an empty ledger.
func Register(ctx context.Context, store service.UserStore, registry *category.Registry, username string, opts ...Option) (*Session, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	exists, err := store.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if exists {
		return nil, common.NewUserError("User already exists", ErrUserExists)
	}

	user := model.NewUser(username)
	if err := store.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save new user: %w", err)
	}

	slog.Info("Registered user", "username", username)
	return newSession(store, registry, user, opts...), nil
}

// Login loads an existing user.
func Login(ctx context.Context, store service.UserStore, registry *category.Registry, username string, opts ...Option) (*Session, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	user, err := store.Load(ctx, username)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError("User not found", ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	slog.Debug("Logged in", "username", username, "transactions", user.Len())
	return newSession(store, registry, user, opts...), nil
}

// User returns the signed-in user.
func (s *Session) User() *model.User {
	return s.user
}

// Registry returns the category registry the session validates against.
func (s *Session) Registry() *category.Registry {
	return s.registry
}

// Add validates the form, appends the transaction and saves the user.
// When saving fails the transaction stays in memory and the error wraps ErrNotPersisted.
func (s *Session) Add(ctx context.Context, form entry.Form) (model.Transaction, error) {
	txn, err := entry.Build(s.registry, form, s.clock())
	if err != nil {
		return model.Transaction{}, err
	}

	s.user.Append(txn)

	if err := s.store.Save(ctx, s.user); err != nil {
		common.LogError(err, "Failed to save transaction", common.Fields{
			"username": s.user.Username,
			"category": txn.Category.Name,
		})
		return txn, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}

	slog.Info("Added transaction",
		"username", s.user.Username,
		"category", txn.Category.Name,
		"amount", txn.Amount.String())
	return txn, nil
}

// Import appends already-validated transactions and saves once.
func (s *Session) Import(ctx context.Context, txns []model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	for _, txn := range txns {
		s.user.Append(txn)
	}
	if err := s.store.Save(ctx, s.user); err != nil {
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	slog.Info("Imported transactions", "username", s.user.Username, "count", len(txns))
	return nil
}

// Summary computes a fresh summary with spending limited to window.
func (s *Session) Summary(window report.Window) report.Summary {
	return report.Summarize(s.user, window, s.clock(), s.recent)
}

// Advice generates recommendations, ranking spending over the advice window.
func (s *Session) Advice() []advice.Advice {
	return s.advisor.Generate(s.Summary(s.adviceWindow))
}

// Recent returns up to n of the latest transactions, most recent first.
func (s *Session) Recent(n int) []model.Transaction {
	return s.user.Recent(n)
}
