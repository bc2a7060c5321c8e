package model

import "time"

// Transaction is a single income or expense entry.
// Amount is always positive; the direction comes from Category.Type.
type Transaction struct {
	Date        time.Time
	Category    Category
	Description string
	Amount      Money
}

// Type returns the direction of the transaction as recorded by its category.
func (t Transaction) Type() CategoryType {
	return t.Category.Type
}

// IsIncome reports whether the transaction is income.
func (t Transaction) IsIncome() bool {
	return t.Category.IsIncome()
}

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool {
	return t.Category.IsExpense()
}

// SignedAmount returns the amount as a balance contribution: positive for income,
// negative for expenses.
func (t Transaction) SignedAmount() Money {
	if t.IsExpense() {
		return -t.Amount
	}
	return t.Amount
}
