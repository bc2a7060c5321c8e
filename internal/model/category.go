package model

import "fmt"

// CategoryType indicates whether a category is for income or expense.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
)

// ParseCategoryType converts a persisted type string into a CategoryType.
func ParseCategoryType(s string) (CategoryType, error) {
	switch CategoryType(s) {
	case CategoryTypeIncome, CategoryTypeExpense:
		return CategoryType(s), nil
	default:
		return "", fmt.Errorf("unknown category type %q", s)
	}
}

// Category is a named bucket that transactions are recorded against.
// Categories are fixed at startup and never change.
type Category struct {
	Name  string
	Type  CategoryType
	Color string
}

// IsIncome reports whether transactions in this category add to the balance.
func (c Category) IsIncome() bool {
	return c.Type == CategoryTypeIncome
}

// IsExpense reports whether transactions in this category subtract from the balance.
func (c Category) IsExpense() bool {
	return c.Type == CategoryTypeExpense
}
