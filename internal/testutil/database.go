// Package testutil provides shared fixtures for tests that need a store, a
// registry or a populated user.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/storage"
)

// TestDB is an in-memory SQLite store with the default registry.
type TestDB struct {
	Store    *storage.SQLiteStorage
	Registry *category.Registry
	t        *testing.T
}

// SetupTestDB creates a migrated in-memory database that is closed when the test ends.
// Any users passed in are saved before it is returned.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewUserBuilder(t, "alice").
//			Income(category.Salary, "1000").
//			Build(),
//	)
func SetupTestDB(t *testing.T, users ...*model.User) *TestDB {
	t.Helper()

	registry := category.Default()
	store, err := storage.NewSQLiteStorage(":memory:", registry)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	db := &TestDB{
		Store:    store,
		Registry: registry,
		t:        t,
	}
	for _, u := range users {
		db.SeedUser(u)
	}
	return db
}

// SeedUser saves u or fails the test.
func (db *TestDB) SeedUser(u *model.User) {
	db.t.Helper()
	if err := db.Store.Save(context.Background(), u); err != nil {
		db.t.Fatalf("failed to seed user %q: %v", u.Username, err)
	}
}
