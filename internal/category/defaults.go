package category

import "github.com/Veraticus/spice-ledger/internal/model"

// Names of the built-in categories.
const (
	Salary        = "Salary"
	Freelance     = "Freelance"
	Investments   = "Investments"
	Gifts         = "Gifts"
	Groceries     = "Groceries"
	Transport     = "Transport"
	Housing       = "Housing"
	Entertainment = "Entertainment"
	Health        = "Health"
	Clothing      = "Clothing"
)

var defaults = []model.Category{
	{Name: Salary, Type: model.CategoryTypeIncome, Color: "#2ecc71"},
	{Name: Freelance, Type: model.CategoryTypeIncome, Color: "#27ae60"},
	{Name: Investments, Type: model.CategoryTypeIncome, Color: "#3498db"},
	{Name: Gifts, Type: model.CategoryTypeIncome, Color: "#9b59b6"},
	{Name: Groceries, Type: model.CategoryTypeExpense, Color: "#e74c3c"},
	{Name: Transport, Type: model.CategoryTypeExpense, Color: "#e67e22"},
	{Name: Housing, Type: model.CategoryTypeExpense, Color: "#f39c12"},
	{Name: Entertainment, Type: model.CategoryTypeExpense, Color: "#d35400"},
	{Name: Health, Type: model.CategoryTypeExpense, Color: "#c0392b"},
	{Name: Clothing, Type: model.CategoryTypeExpense, Color: "#8e44ad"},
}

// Default returns a registry with the compiled-in categories.
func Default() *Registry {
	return MustNew(defaults...)
}
