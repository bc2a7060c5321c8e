package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements service.UserStore using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	registry *category.Registry
	now      func() time.Time
	dbPath   string
}

// NewSQLiteStorage opens the database at dbPath. Call Migrate before use.
func NewSQLiteStorage(dbPath string, registry *category.Registry) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: registry", ErrNilParameter)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:       db,
		dbPath:   dbPath,
		registry: registry,
		now:      time.Now,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Load returns the user stored under username with transactions in entry order.
func (s *SQLiteStorage) Load(ctx context.Context, username string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(username, "username"); err != nil {
		return nil, err
	}

	exists, err := s.Exists(ctx, username)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("user %q: %w", username, common.ErrNotFound)
	}

	user := model.NewUser(username)

	rows, err := s.db.QueryContext(ctx, `
		SELECT amount_cents, category, date, description
		FROM transactions
		WHERE username = ?
		ORDER BY position`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	now := s.now()
	dropped := 0
	for rows.Next() {
		var (
			cents       int64
			catName     string
			date        string
			description string
		)
		if err := rows.Scan(&cents, &catName, &date, &description); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		cat, ok := s.registry.FindByName(catName)
		if !ok {
			slog.Warn("Dropping transaction with unknown category",
				"username", username,
				"category", catName)
			dropped++
			continue
		}

		txnDate, err := parseDate(date)
		if err != nil {
			slog.Warn("Unreadable transaction date, using load time", "date", date, "error", err)
			txnDate = now
		}

		user.Append(model.Transaction{
			Amount:      model.Money(cents),
			Category:    cat,
			Date:        txnDate,
			Description: description,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	if err := s.loadBudgets(ctx, user); err != nil {
		return nil, err
	}

	slog.Debug("Loaded user",
		"username", username,
		"transactions", user.Len(),
		"dropped", dropped)
	return user, nil
}

func (s *SQLiteStorage) loadBudgets(ctx context.Context, user *model.User) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, limit_amount FROM budgets WHERE username = ?`, user.Username)
	if err != nil {
		return fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name  string
			limit float64
		)
		if err := rows.Scan(&name, &limit); err != nil {
			return fmt.Errorf("failed to scan budget: %w", err)
		}
		user.Budgets[name] = limit
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating budgets: %w", err)
	}
	return nil
}

// Save replaces every stored row for the user inside one database transaction.
func (s *SQLiteStorage) Save(ctx context.Context, user *model.User) (err error) {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUser(user); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO users (username) VALUES (?) ON CONFLICT(username) DO NOTHING`, user.Username); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM transactions WHERE username = ?`, user.Username); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM budgets WHERE username = ?`, user.Username); err != nil {
		return fmt.Errorf("failed to clear budgets: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (username, position, amount_cents, category, type, date, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, txn := range user.All() {
		if _, err = stmt.ExecContext(ctx,
			user.Username,
			i,
			txn.Amount.Cents(),
			txn.Category.Name,
			string(txn.Type()),
			formatDate(txn.Date),
			txn.Description,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %d: %w", i, err)
		}
	}

	for name, limit := range user.Budgets {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO budgets (username, category, limit_amount) VALUES (?, ?, ?)`,
			user.Username, name, limit); err != nil {
			return fmt.Errorf("failed to insert budget %q: %w", name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user %q: %w", user.Username, err)
	}

	slog.Debug("Saved user", "username", user.Username, "transactions", user.Len())
	return nil
}

// Exists reports whether the user has been saved.
func (s *SQLiteStorage) Exists(ctx context.Context, username string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	var found string
	err := s.db.QueryRowContext(ctx, `SELECT username FROM users WHERE username = ?`, username).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query user: %w", err)
	}
	return true, nil
}

// Usernames lists every stored username in ascending order.
func (s *SQLiteStorage) Usernames(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT username FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return names, nil
}
