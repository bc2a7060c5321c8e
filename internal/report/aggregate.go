// Package report computes balances, spending breakdowns and summaries from transactions.
// Every function recomputes from its input; nothing is cached.
package report

import (
	"sort"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// Income regularity thresholds.
const (
	irregularIncomeSpanDays = 60
	irregularIncomeMaxCount = 3
)

// Totals holds summed income and expense.
type Totals struct {
	Income  model.Money
	Expense model.Money
}

// Balance returns income minus expense.
func (t Totals) Balance() model.Money {
	return t.Income - t.Expense
}

// CategoryAmount is a category's summed spending.
type CategoryAmount struct {
	Category model.Category
	Amount   model.Money
}

// Spending maps categories to summed expense, remembering the order in which
// categories were first encountered.
type Spending struct {
	index   map[string]int
	entries []CategoryAmount
}

func (s *Spending) add(cat model.Category, amount model.Money) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[cat.Name]; ok {
		s.entries[i].Amount += amount
		return
	}
	s.index[cat.Name] = len(s.entries)
	s.entries = append(s.entries, CategoryAmount{Category: cat, Amount: amount})
}

// Entries returns the per-category sums in first-encountered order.
func (s Spending) Entries() []CategoryAmount {
	out := make([]CategoryAmount, len(s.entries))
	copy(out, s.entries)
	return out
}

// Amount returns the sum for a category name, or zero when it has no spending.
func (s Spending) Amount(name string) model.Money {
	if i, ok := s.index[name]; ok {
		return s.entries[i].Amount
	}
	return 0
}

// Total returns the sum across all categories.
func (s Spending) Total() model.Money {
	var total model.Money
	for _, e := range s.entries {
		total += e.Amount
	}
	return total
}

// Len returns the number of categories with spending.
func (s Spending) Len() int {
	return len(s.entries)
}

// Balance returns income minus expense over all transactions.
func Balance(txns []model.Transaction) model.Money {
	return ComputeTotals(txns).Balance()
}

// ComputeTotals sums income and expense separately.
func ComputeTotals(txns []model.Transaction) Totals {
	var totals Totals
	for _, t := range txns {
		switch {
		case t.IsIncome():
			totals.Income += t.Amount
		case t.IsExpense():
			totals.Expense += t.Amount
		}
	}
	return totals
}

// SpendingByCategory sums expenses per category for transactions inside the window.
func SpendingByCategory(txns []model.Transaction, window Window, now time.Time) Spending {
	var s Spending
	for _, t := range txns {
		if !t.IsExpense() || !window.Contains(t.Date, now) {
			continue
		}
		s.add(t.Category, t.Amount)
	}
	return s
}

// TopCategories returns the k largest spending entries in descending order.
// Equal amounts keep their first-encountered order.
func TopCategories(s Spending, k int) []CategoryAmount {
	if k <= 0 {
		return []CategoryAmount{}
	}
	entries := s.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount > entries[j].Amount
	})
	if k < len(entries) {
		entries = entries[:k]
	}
	return entries
}

// IncomeIrregular reports whether income looks sparse: at least two income
// transactions more than 60 whole days apart, but fewer than three in total.
func IncomeIrregular(txns []model.Transaction) bool {
	var earliest, latest time.Time
	count := 0
	for _, t := range txns {
		if !t.IsIncome() {
			continue
		}
		if count == 0 || t.Date.Before(earliest) {
			earliest = t.Date
		}
		if count == 0 || t.Date.After(latest) {
			latest = t.Date
		}
		count++
	}

	if count < 2 {
		return false
	}
	days := int(latest.Sub(earliest) / (24 * time.Hour))
	return days > irregularIncomeSpanDays && count < irregularIncomeMaxCount
}

// Share returns amount as a percentage of total, or zero when total is zero.
func Share(amount, total model.Money) float64 {
	if total == 0 {
		return 0
	}
	return float64(amount) / float64(total) * 100
}
