package testutil

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// ErrSaveFailed is returned by FailingStore while saves are failing.
var ErrSaveFailed = errors.New("save failed")

// FailingStore wraps a store and fails Save on demand.
type FailingStore struct {
	service.UserStore
	failing atomic.Bool
}

// NewFailingStore wraps store; saves succeed until FailSaves(true) is called.
func NewFailingStore(store service.UserStore) *FailingStore {
	return &FailingStore{UserStore: store}
}

// FailSaves switches save failures on or off.
func (s *FailingStore) FailSaves(fail bool) {
	s.failing.Store(fail)
}

// Save delegates to the wrapped store unless failures are switched on.
func (s *FailingStore) Save(ctx context.Context, user *model.User) error {
	if s.failing.Load() {
		return ErrSaveFailed
	}
	return s.UserStore.Save(ctx, user)
}
