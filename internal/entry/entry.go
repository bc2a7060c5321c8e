// Package entry validates user input before it becomes a transaction.
package entry

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// Validation errors.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrUnknownCategory   = errors.New("unknown category")
)

// Form is the raw input for a new transaction.
type Form struct {
	Date        time.Time
	Amount      string
	Category    string
	Description string
}

// ParseAmount parses a user-entered amount into Money.
// Both "12.34" and "12,34" are accepted; the value must be greater than zero.
func ParseAmount(s string) (model.Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	amount, err := model.CheckedMoneyFromFloat(f)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if !amount.IsPositive() {
		return 0, ErrNonPositiveAmount
	}
	return amount, nil
}

// Build validates the form against the registry and returns the transaction it describes.
// The returned errors carry a message suitable for showing to the user.
func Build(registry *category.Registry, form Form, now time.Time) (model.Transaction, error) {
	amount, err := ParseAmount(form.Amount)
	switch {
	case errors.Is(err, ErrNonPositiveAmount):
		return model.Transaction{}, common.NewUserError("Amount must be positive", err)
	case err != nil:
		return model.Transaction{}, common.NewUserError("Enter a valid amount", err)
	}

	name := strings.TrimSpace(form.Category)
	if name == "" {
		return model.Transaction{}, common.NewUserError("Choose a category", ErrUnknownCategory)
	}
	cat, ok := registry.FindByName(name)
	if !ok {
		return model.Transaction{}, common.NewUserError("Choose a category", ErrUnknownCategory)
	}

	date := form.Date
	if date.IsZero() {
		date = now
	}

	return model.Transaction{
		Amount:      amount,
		Category:    cat,
		Date:        date,
		Description: strings.TrimSpace(form.Description),
	}, nil
}
