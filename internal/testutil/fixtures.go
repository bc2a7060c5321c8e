package testutil

import (
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/entry"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// ReferenceTime is the default "now" for fixtures.
var ReferenceTime = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// UserBuilder assembles a user with transactions through a fluent API.
// Amounts are written the way a user would type them.
type UserBuilder struct {
	t        *testing.T
	registry *category.Registry
	user     *model.User
	date     time.Time
}

// NewUserBuilder starts a user dated at ReferenceTime with the default registry.
func NewUserBuilder(t *testing.T, username string) *UserBuilder {
	t.Helper()
	return &UserBuilder{
		t:        t,
		registry: category.Default(),
		user:     model.NewUser(username),
		date:     ReferenceTime,
	}
}

// On dates the following transactions at d.
func (b *UserBuilder) On(d time.Time) *UserBuilder {
	b.date = d
	return b
}

// DaysAgo dates the following transactions n days before ReferenceTime.
func (b *UserBuilder) DaysAgo(n int) *UserBuilder {
	return b.On(ReferenceTime.AddDate(0, 0, -n))
}

// Income appends a transaction without a description.
func (b *UserBuilder) Income(categoryName, amount string) *UserBuilder {
	return b.Add(categoryName, amount, "")
}

// Expense appends a transaction without a description.
func (b *UserBuilder) Expense(categoryName, amount string) *UserBuilder {
	return b.Add(categoryName, amount, "")
}

// Add appends a transaction built through entry validation, failing the test on bad input.
func (b *UserBuilder) Add(categoryName, amount, description string) *UserBuilder {
	b.t.Helper()
	txn, err := entry.Build(b.registry, entry.Form{
		Date:        b.date,
		Amount:      amount,
		Category:    categoryName,
		Description: description,
	}, b.date)
	if err != nil {
		b.t.Fatalf("invalid fixture transaction %s %s: %v", categoryName, amount, err)
	}
	b.user.Append(txn)
	return b
}

// Build returns the assembled user.
func (b *UserBuilder) Build() *model.User {
	return b.user
}
