// Package service defines the interfaces shared between application layers.
package service

import (
	"context"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// UserStore persists users and their transactions, keyed by username.
type UserStore interface {
	// Load returns the stored user, or an error wrapping common.ErrNotFound.
	Load(ctx context.Context, username string) (*model.User, error)
	// Save replaces the stored record for user.Username.
	Save(ctx context.Context, user *model.User) error
	Exists(ctx context.Context, username string) (bool, error)
	// Usernames lists stored users in ascending order.
	Usernames(ctx context.Context) ([]string, error)
	Close() error
}
