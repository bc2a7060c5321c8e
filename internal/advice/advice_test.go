package advice

import (
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

type entry struct {
	name    string
	amount  model.Money
	daysAgo int
}

func summaryOf(t *testing.T, entries ...entry) report.Summary {
	t.Helper()
	registry := category.Default()
	user := model.NewUser("alice")
	for _, e := range entries {
		c, ok := registry.FindByName(e.name)
		require.True(t, ok)
		user.Append(model.Transaction{
			Amount:   e.amount,
			Category: c,
			Date:     now.Add(-time.Duration(e.daysAgo) * 24 * time.Hour),
		})
	}
	return report.Summarize(user, report.WindowMonth, now, 10)
}

func kinds(advice []Advice) []Kind {
	out := make([]Kind, len(advice))
	for i, a := range advice {
		out[i] = a.Kind
	}
	return out
}

func TestGenerate_SalaryAndGroceries(t *testing.T) {
	s := summaryOf(t,
		entry{category.Salary, 100000, 1},
		entry{category.Groceries, 20000, 0},
	)
	require.Equal(t, model.Money(80000), s.Balance())

	got := NewGenerator(WithCurrency("RUB")).Generate(s)
	msgs := Messages(got)

	assert.NotContains(t, msgs, MsgOverspend)
	assert.NotContains(t, msgs, MsgNegativeBalance)
	assert.Contains(t, msgs, MsgNeedMoreData)
	assert.Contains(t, msgs, MsgFinancesFine)
	assert.Contains(t, msgs, "Biggest expense: Groceries - 200.00 RUB")
	assert.Equal(t, []Kind{KindTopCategory, KindDataVolume, KindPraise, KindTip, KindTip}, kinds(got))
}

func TestGenerate_Overspend(t *testing.T) {
	s := summaryOf(t,
		entry{category.Salary, 100000, 10},
		entry{category.Housing, 60000, 5},
		entry{category.Groceries, 15000, 2},
	)

	msgs := Messages(NewGenerator().Generate(s))

	assert.Contains(t, msgs, MsgOverspend)
	assert.NotContains(t, msgs, MsgFinancesFine)
	assert.NotContains(t, msgs, MsgNegativeBalance)
	assert.NotContains(t, msgs, MsgNeedMoreData)
	assert.Contains(t, msgs, MsgTipTrackDaily)
	assert.Contains(t, msgs, MsgTipSetLimits)
}

func TestGenerate_OverspendThresholdIsStrict(t *testing.T) {
	s := summaryOf(t,
		entry{category.Salary, 100000, 10},
		entry{category.Housing, 70000, 5},
	)
	require.Equal(t, model.Money(70000), s.Totals.Expense)

	msgs := Messages(NewGenerator().Generate(s))
	assert.NotContains(t, msgs, MsgOverspend)
	assert.Contains(t, msgs, MsgFinancesFine)
}

func TestGenerate_NegativeBalance(t *testing.T) {
	s := summaryOf(t,
		entry{category.Salary, 10000, 10},
		entry{category.Housing, 50000, 5},
		entry{category.Transport, 2000, 4},
		entry{category.Health, 1000, 3},
	)

	got := NewGenerator().Generate(s)
	msgs := Messages(got)

	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, MsgNegativeBalance, got[0].Message)
	assert.Equal(t, MsgOverspend, got[1].Message)
	assert.Equal(t, []Kind{
		KindWarning, KindWarning,
		KindTopCategory, KindTopCategory,
		KindTip, KindTip,
	}, kinds(got))
	assert.Equal(t, "Biggest expense: Housing - 500.00", got[2].Message)
	assert.Equal(t, "Biggest expense: Transport - 20.00", got[3].Message)
	assert.NotContains(t, msgs, MsgFinancesFine)
}

func TestGenerate_NoIncomeOnlyExpenses(t *testing.T) {
	s := summaryOf(t, entry{category.Groceries, 500, 1})

	msgs := Messages(NewGenerator().Generate(s))

	assert.Contains(t, msgs, MsgNegativeBalance)
	assert.NotContains(t, msgs, MsgOverspend, "overspend needs income")
}

func TestGenerate_Empty(t *testing.T) {
	s := report.Summarize(model.NewUser("new"), report.WindowMonth, now, 10)

	got := NewGenerator().Generate(s)

	assert.Equal(t, []string{MsgNeedMoreData, MsgFinancesFine, MsgTipSaveShare, MsgTipPlanMonth}, Messages(got))
}

func TestGenerate_IrregularIncomeIsAFlagNotAWarning(t *testing.T) {
	s := summaryOf(t,
		entry{category.Salary, 100000, 90},
		entry{category.Freelance, 50000, 1},
		entry{category.Groceries, 1000, 1},
	)
	require.True(t, s.IncomeIrregular)

	got := NewGenerator().Generate(s)

	assert.Equal(t, KindFlag, got[0].Kind)
	assert.Equal(t, MsgIrregularIncome, got[0].Message)
	assert.Contains(t, Messages(got), MsgFinancesFine)
}

func TestGenerate_CalloutsLimitedToTwo(t *testing.T) {
	s := summaryOf(t,
		entry{category.Salary, 1000000, 1},
		entry{category.Housing, 3000, 1},
		entry{category.Groceries, 2000, 1},
		entry{category.Health, 1000, 1},
	)
	s.Top = report.TopCategories(s.Spending, 3)

	count := 0
	for _, a := range NewGenerator().Generate(s) {
		if a.Kind == KindTopCategory {
			count++
		}
	}
	assert.Equal(t, MaxCallouts, count)
}
