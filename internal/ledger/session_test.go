package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/advice"
	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/entry"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/report"
	"github.com/Veraticus/spice-ledger/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

// memoryStore keeps users in a map and can be told to fail saves.
type memoryStore struct {
	users    map[string]*model.User
	failSave bool
	saves    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[string]*model.User)}
}

func (m *memoryStore) Load(_ context.Context, username string) (*model.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (m *memoryStore) Save(_ context.Context, user *model.User) error {
	if m.failSave {
		return errDiskFull
	}
	m.saves++
	m.users[user.Username] = user
	return nil
}

func (m *memoryStore) Exists(_ context.Context, username string) (bool, error) {
	_, ok := m.users[username]
	return ok, nil
}

func (m *memoryStore) Usernames(context.Context) ([]string, error) {
	names := make([]string, 0, len(m.users))
	for name := range m.users {
		names = append(names, name)
	}
	return names, nil
}

func (m *memoryStore) Close() error {
	return nil
}

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	registry := category.Default()

	t.Run("creates empty user", func(t *testing.T) {
		store := newMemoryStore()
		s, err := Register(ctx, store, registry, "  alice  ")
		require.NoError(t, err)
		assert.Equal(t, "alice", s.User().Username)
		assert.Equal(t, 0, s.User().Len())
		assert.Equal(t, 1, store.saves)

		exists, err := store.Exists(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate", func(t *testing.T) {
		store := newMemoryStore()
		_, err := Register(ctx, store, registry, "alice")
		require.NoError(t, err)

		_, err = Register(ctx, store, registry, "alice")
		require.ErrorIs(t, err, ErrUserExists)
		assert.Equal(t, "User already exists", common.UserMessage(err))
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := Register(ctx, newMemoryStore(), registry, "   ")
		require.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("save failure", func(t *testing.T) {
		store := newMemoryStore()
		store.failSave = true
		_, err := Register(ctx, store, registry, "alice")
		require.ErrorIs(t, err, errDiskFull)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	registry := category.Default()
	store := newMemoryStore()

	_, err := Register(ctx, store, registry, "alice")
	require.NoError(t, err)

	s, err := Login(ctx, store, registry, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", s.User().Username)

	_, err = Login(ctx, store, registry, "bob")
	require.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, "User not found", common.UserMessage(err))

	_, err = Login(ctx, store, registry, "")
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestSessionAdd(t *testing.T) {
	ctx := context.Background()
	registry := category.Default()

	tests := []struct {
		name    string
		form    entry.Form
		wantErr error
	}{
		{
			name: "valid expense",
			form: entry.Form{Amount: "12,50", Category: category.Groceries, Description: " bread "},
		},
		{
			name:    "negative amount",
			form:    entry.Form{Amount: "-5", Category: category.Groceries},
			wantErr: entry.ErrNonPositiveAmount,
		},
		{
			name:    "garbage amount",
			form:    entry.Form{Amount: "abc", Category: category.Groceries},
			wantErr: entry.ErrInvalidAmount,
		},
		{
			name:    "unknown category",
			form:    entry.Form{Amount: "5", Category: "Yachts"},
			wantErr: entry.ErrUnknownCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			s, err := Register(ctx, store, registry, "alice", WithClock(fixedClock))
			require.NoError(t, err)

			txn, err := s.Add(ctx, tt.form)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, s.User().Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.Money(1250), txn.Amount)
			assert.Equal(t, "bread", txn.Description)
			assert.True(t, txn.Date.Equal(fixedNow))
			assert.Equal(t, 1, s.User().Len())
			assert.Equal(t, 2, store.saves)
		})
	}
}

func TestSessionAdd_SaveFailureKeepsTransaction(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	s, err := Register(ctx, store, category.Default(), "alice", WithClock(fixedClock))
	require.NoError(t, err)

	store.failSave = true
	txn, err := s.Add(ctx, entry.Form{Amount: "100", Category: category.Salary})
	require.ErrorIs(t, err, ErrNotPersisted)
	require.ErrorIs(t, err, errDiskFull)

	assert.Equal(t, model.Money(10000), txn.Amount)
	require.Equal(t, 1, s.User().Len())
	assert.Equal(t, model.Money(10000), s.Summary(report.WindowAllTime).Totals.Income)
}

func TestSessionImport(t *testing.T) {
	ctx := context.Background()
	registry := category.Default()
	store := newMemoryStore()
	s, err := Register(ctx, store, registry, "alice")
	require.NoError(t, err)

	groceries, _ := registry.FindByName(category.Groceries)
	txns := []model.Transaction{
		{Amount: 500, Category: groceries, Date: fixedNow},
		{Amount: 700, Category: groceries, Date: fixedNow},
	}

	require.NoError(t, s.Import(ctx, nil))
	assert.Equal(t, 1, store.saves)

	require.NoError(t, s.Import(ctx, txns))
	assert.Equal(t, 2, store.saves)
	assert.Equal(t, 2, s.User().Len())
}

func TestSession_EndToEndWithJSONStore(t *testing.T) {
	ctx := context.Background()
	registry := category.Default()
	store, err := storage.NewJSONStore(filepath.Join(t.TempDir(), "finance_data.json"), registry)
	require.NoError(t, err)

	s, err := Register(ctx, store, registry, "alice", WithClock(fixedClock))
	require.NoError(t, err)

	_, err = s.Add(ctx, entry.Form{Amount: "1000", Category: category.Salary})
	require.NoError(t, err)
	_, err = s.Add(ctx, entry.Form{Amount: "200", Category: category.Groceries})
	require.NoError(t, err)

	s, err = Login(ctx, store, registry, "alice", WithClock(fixedClock))
	require.NoError(t, err)

	summary := s.Summary(report.WindowAllTime)
	assert.Equal(t, model.Money(80000), summary.Balance())
	assert.Equal(t, report.Totals{Income: 100000, Expense: 20000}, summary.Totals)

	messages := advice.Messages(s.Advice())
	assert.Contains(t, messages, advice.MsgNeedMoreData)
	assert.NotContains(t, messages, advice.MsgOverspend)
	assert.NotContains(t, messages, advice.MsgNegativeBalance)

	recent := s.Recent(5)
	require.Len(t, recent, 2)
	assert.Equal(t, category.Groceries, recent[0].Category.Name)
}

func TestSessionAdvice_UsesAdviceWindow(t *testing.T) {
	ctx := context.Background()
	registry := category.Default()
	store := newMemoryStore()
	s, err := Register(ctx, store, registry, "alice",
		WithClock(fixedClock),
		WithAdviceWindow(report.WindowWeek),
		WithAdvisor(advice.NewGenerator(advice.WithCurrency("RUB"))))
	require.NoError(t, err)

	_, err = s.Add(ctx, entry.Form{Amount: "50", Category: category.Housing, Date: fixedNow.AddDate(0, 0, -20)})
	require.NoError(t, err)
	_, err = s.Add(ctx, entry.Form{Amount: "10", Category: category.Groceries})
	require.NoError(t, err)

	messages := advice.Messages(s.Advice())
	assert.Contains(t, messages, "Biggest expense: Groceries - 10.00 RUB")
	assert.NotContains(t, messages, "Biggest expense: Housing - 50.00 RUB")
}
