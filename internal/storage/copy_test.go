package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyUsers_JSONToSQLite(t *testing.T) {
	ctx := context.Background()
	src := newTestJSONStore(t)
	dst := newTestSQLiteStore(t)

	alice := sampleUser(t, "alice")
	bob := sampleUser(t, "bob")
	require.NoError(t, src.Save(ctx, alice))
	require.NoError(t, src.Save(ctx, bob))

	var seen []string
	result, err := CopyUsers(ctx, src, dst, func(name string, done, total int) {
		seen = append(seen, name)
		assert.Equal(t, 2, total)
		assert.Equal(t, len(seen), done)
	})
	require.NoError(t, err)
	assert.Equal(t, CopyResult{Copied: 2}, result)
	assert.Equal(t, []string{"alice", "bob"}, seen)

	loaded, err := dst.Load(ctx, "bob")
	require.NoError(t, err)
	assertSameTransactions(t, bob.All(), loaded.All())
}

func TestCopyUsers_SkipsUnreadableRecord(t *testing.T) {
	ctx := context.Background()
	src := writeDocument(t, `{
  "alice": {"transactions": [{"amount": 5, "category": "Groceries", "date": "2024-01-06T10:00:00"}]},
  "bob": 42,
  "carol": {"transactions": []}
}`)
	dst := newTestSQLiteStore(t)

	var done []int
	result, err := CopyUsers(ctx, src, dst, func(_ string, n, total int) {
		assert.Equal(t, 3, total)
		done = append(done, n)
	})
	require.NoError(t, err)
	assert.Equal(t, CopyResult{Copied: 2, Skipped: 1}, result)
	assert.Equal(t, []int{1, 2, 3}, done)

	names, err := dst.Usernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "carol"}, names)
}

func TestCopyUsers_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CopyUsers(ctx, newTestJSONStore(t), newTestSQLiteStore(t), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
