package report

import (
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// TopCategoryCount is how many categories a summary ranks.
const TopCategoryCount = 2

// Summary bundles the figures a report is built from.
type Summary struct {
	GeneratedAt      time.Time
	Spending         Spending
	Top              []CategoryAmount
	Recent           []model.Transaction
	Totals           Totals
	Window           Window
	TransactionCount int
	IncomeIrregular  bool
}

// Balance returns income minus expense for the whole history.
func (s Summary) Balance() model.Money {
	return s.Totals.Balance()
}

// Summarize computes a summary of the user's transactions. Totals and the
// balance cover all history; spending and the ranking are limited to window.
func Summarize(user *model.User, window Window, now time.Time, recent int) Summary {
	txns := user.All()
	spending := SpendingByCategory(txns, window, now)

	return Summary{
		GeneratedAt:      now,
		Window:           window,
		Totals:           ComputeTotals(txns),
		Spending:         spending,
		Top:              TopCategories(spending, TopCategoryCount),
		Recent:           user.Recent(recent),
		TransactionCount: len(txns),
		IncomeIrregular:  IncomeIrregular(txns),
	}
}
