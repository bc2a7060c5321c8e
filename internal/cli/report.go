package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/advice"
	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/report"
	"github.com/charmbracelet/lipgloss"
)

// DefaultChartWidth is the width of the longest bar in a chart.
const DefaultChartWidth = 30

const barRune = "█"

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Color string
	Value model.Money
	// Share is shown as a percentage when positive.
	Share float64
}

// FormatAmount renders m with two decimals and an optional currency label.
func FormatAmount(m model.Money, currency string) string {
	if currency == "" {
		return m.String()
	}
	return m.String() + " " + currency
}

// RenderBars draws a text bar chart. Bars scale to the largest value; any
// non-zero value gets at least one block.
func RenderBars(bars []Bar, width int, currency string) string {
	if len(bars) == 0 {
		return ""
	}
	if width <= 0 {
		width = DefaultChartWidth
	}

	var maxValue model.Money
	labelWidth := 0
	for _, b := range bars {
		if b.Value > maxValue {
			maxValue = b.Value
		}
		if w := lipgloss.Width(b.Label); w > labelWidth {
			labelWidth = w
		}
	}

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		n := 0
		if maxValue > 0 && b.Value > 0 {
			n = int(int64(b.Value) * int64(width) / int64(maxValue))
			if n == 0 {
				n = 1
			}
		}
		bar := CategoryStyle(b.Color).Render(strings.Repeat(barRune, n))
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(b.Label))

		line := fmt.Sprintf("%s%s  %s%s %s", b.Label, pad, bar, strings.Repeat(" ", width-n), FormatAmount(b.Value, currency))
		if b.Share > 0 {
			line += SubtleStyle.Render(fmt.Sprintf(" (%.1f%%)", b.Share))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderTotals lists income, expense and the balance.
func RenderTotals(t report.Totals, currency string) string {
	balance := t.Balance()
	balanceStyle := IncomeStyle
	if balance < 0 {
		balanceStyle = ExpenseStyle
	}
	return strings.Join([]string{
		"Income:   " + IncomeStyle.Render(FormatAmount(t.Income, currency)),
		"Expenses: " + ExpenseStyle.Render(FormatAmount(t.Expense, currency)),
		"Balance:  " + BoldStyle.Inherit(balanceStyle).Render(FormatAmount(balance, currency)),
	}, "\n")
}

// RenderSpending charts spending per category with each category's share of the total.
func RenderSpending(s report.Spending, width int, currency string) string {
	if s.Len() == 0 {
		return SubtleStyle.Render("No expenses recorded")
	}
	total := s.Total()
	entries := s.Entries()
	bars := make([]Bar, 0, len(entries))
	for _, e := range entries {
		bars = append(bars, Bar{
			Label: e.Category.Name,
			Color: e.Category.Color,
			Value: e.Amount,
			Share: report.Share(e.Amount, total),
		})
	}
	return RenderBars(bars, width, currency)
}

// RenderIncomeExpense charts income against expense.
func RenderIncomeExpense(t report.Totals, width int, currency string) string {
	if t.Income == 0 && t.Expense == 0 {
		return SubtleStyle.Render("No transactions yet")
	}
	return RenderBars([]Bar{
		{Label: "Income", Color: string(IncomeColor), Value: t.Income},
		{Label: "Expenses", Color: string(ExpenseColor), Value: t.Expense},
	}, width, currency)
}

// RenderRecent lists transactions one per line, expenses with a minus sign.
func RenderRecent(txns []model.Transaction, currency string) string {
	if len(txns) == 0 {
		return SubtleStyle.Render("No transactions yet")
	}
	nameWidth := 0
	for _, t := range txns {
		if w := lipgloss.Width(t.Category.Name); w > nameWidth {
			nameWidth = w
		}
	}

	lines := make([]string, 0, len(txns))
	for _, t := range txns {
		amountStyle := IncomeStyle
		if t.IsExpense() {
			amountStyle = ExpenseStyle
		}
		name := CategoryStyle(t.Category.Color).Render(t.Category.Name)
		pad := strings.Repeat(" ", nameWidth-lipgloss.Width(t.Category.Name))
		line := fmt.Sprintf("%s  %s%s  %s",
			t.Date.Format("2006-01-02"),
			name, pad,
			amountStyle.Render(FormatAmount(t.SignedAmount(), currency)))
		if t.Description != "" {
			line += "  " + SubtleStyle.Render(t.Description)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RenderAdvice lists recommendations with an icon per kind.
func RenderAdvice(items []advice.Advice) string {
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(items))
	for _, a := range items {
		switch a.Kind {
		case advice.KindWarning:
			lines = append(lines, FormatWarning(a.Message))
		case advice.KindFlag, advice.KindDataVolume:
			lines = append(lines, FormatInfo(a.Message))
		case advice.KindPraise:
			lines = append(lines, FormatSuccess(a.Message))
		case advice.KindTopCategory:
			lines = append(lines, ChartIcon+" "+a.Message)
		default:
			lines = append(lines, TipIcon+" "+a.Message)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderCategories lists the registry grouped by type.
func RenderCategories(registry *category.Registry) string {
	var b strings.Builder
	for i, group := range []struct {
		title string
		typ   model.CategoryType
	}{
		{"Income", model.CategoryTypeIncome},
		{"Expenses", model.CategoryTypeExpense},
	} {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(BoldStyle.Render(group.title) + "\n")
		for _, c := range registry.ListByType(group.typ) {
			b.WriteString("  " + CategoryStyle(c.Color).Render(barRune) + " " + c.Name + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderReport combines the balance, charts, recent transactions and advice.
func RenderReport(s report.Summary, items []advice.Advice, currency string) string {
	sections := []string{
		RenderBox("Balance", RenderTotals(s.Totals, currency)),
		RenderBox("Income vs expenses", RenderIncomeExpense(s.Totals, DefaultChartWidth, currency)),
		RenderBox(fmt.Sprintf("Spending (%s)", s.Window), RenderSpending(s.Spending, DefaultChartWidth, currency)),
		RenderBox("Recent transactions", RenderRecent(s.Recent, currency)),
	}
	if len(items) > 0 {
		sections = append(sections, RenderBox("Advice", RenderAdvice(items)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
