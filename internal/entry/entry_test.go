package entry

import (
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		wantErr error
		input   string
		want    model.Money
	}{
		{input: "12.34", want: 1234},
		{input: "12,34", want: 1234},
		{input: " 1000 ", want: 100000},
		{input: "0.006", want: 1},
		{input: "1e3", want: 100000},
		{input: "", wantErr: ErrInvalidAmount},
		{input: "abc", wantErr: ErrInvalidAmount},
		{input: "1.2.3", wantErr: ErrInvalidAmount},
		{input: "+5", wantErr: ErrInvalidAmount},
		{input: "NaN", wantErr: ErrInvalidAmount},
		{input: "Inf", wantErr: ErrInvalidAmount},
		{input: "1e20", wantErr: ErrInvalidAmount},
		{input: "0", wantErr: ErrNonPositiveAmount},
		{input: "0.001", wantErr: ErrNonPositiveAmount},
		{input: "-5", wantErr: ErrNonPositiveAmount},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild(t *testing.T) {
	registry := category.Default()
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	earlier := now.Add(-48 * time.Hour)

	tests := []struct {
		wantErr     error
		name        string
		wantMessage string
		form        Form
		wantDate    time.Time
	}{
		{
			name:     "valid expense defaults date to now",
			form:     Form{Amount: "200", Category: category.Groceries, Description: " market "},
			wantDate: now,
		},
		{
			name:     "explicit date is kept",
			form:     Form{Amount: "1000", Category: category.Salary, Date: earlier},
			wantDate: earlier,
		},
		{
			name:        "non numeric amount",
			form:        Form{Amount: "ten", Category: category.Groceries},
			wantErr:     ErrInvalidAmount,
			wantMessage: "Enter a valid amount",
		},
		{
			name:        "negative amount",
			form:        Form{Amount: "-3", Category: category.Groceries},
			wantErr:     ErrNonPositiveAmount,
			wantMessage: "Amount must be positive",
		},
		{
			name:        "missing category",
			form:        Form{Amount: "3"},
			wantErr:     ErrUnknownCategory,
			wantMessage: "Choose a category",
		},
		{
			name:        "unknown category",
			form:        Form{Amount: "3", Category: "Lottery"},
			wantErr:     ErrUnknownCategory,
			wantMessage: "Choose a category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, err := Build(registry, tt.form, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantMessage, common.UserMessage(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, txn.Amount.IsPositive())
			assert.Equal(t, tt.form.Category, txn.Category.Name)
			assert.Equal(t, tt.wantDate, txn.Date)
		})
	}
}

func TestBuild_TrimsDescriptionAndResolvesType(t *testing.T) {
	txn, err := Build(category.Default(), Form{Amount: "200", Category: category.Groceries, Description: " market "}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "market", txn.Description)
	assert.Equal(t, model.CategoryTypeExpense, txn.Type())
	assert.Equal(t, model.Money(20000), txn.Amount)
}
