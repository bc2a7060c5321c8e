// Package advice turns report summaries into short textual recommendations.
package advice

import (
	"fmt"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/report"
)

// Kind classifies a piece of advice.
type Kind string

// Advice kinds, in the order they appear in a report.
const (
	KindWarning     Kind = "warning"
	KindFlag        Kind = "flag"
	KindTopCategory Kind = "top_category"
	KindDataVolume  Kind = "data_volume"
	KindPraise      Kind = "praise"
	KindTip         Kind = "tip"
)

// Thresholds used by the rules.
const (
	// Spending above overspendNumerator/overspendDenominator of income is flagged.
	overspendNumerator   = 7
	overspendDenominator = 10
	// MaxCallouts is how many top categories are named.
	MaxCallouts = 2
	// MinTransactions is the count below which more data is requested.
	MinTransactions = 3
)

// Messages emitted by the rules.
const (
	MsgNegativeBalance = "Warning! Your expenses exceed your income. Review your budget urgently!"
	MsgOverspend       = "Spending is too high: more than 70% of income"
	MsgIrregularIncome = "Consider finding additional sources of income"
	MsgNeedMoreData    = "Add more transactions for a more accurate analysis"
	MsgFinancesFine    = "Great job! Your finances are in order."
	MsgTipSaveShare    = "Tip: set aside 10-20% of every income"
	MsgTipPlanMonth    = "Tip: plan your budget a month ahead"
	MsgTipTrackDaily   = "Tip: keep track of all your daily expenses"
	MsgTipSetLimits    = "Tip: set spending limits for your categories"
)

// Advice is a single recommendation.
type Advice struct {
	Kind    Kind
	Message string
}

// Generator evaluates the advice rules against a summary.
type Generator struct {
	currency string
}

// Option configures a Generator.
type Option func(*Generator)

// WithCurrency sets the label appended to amounts in messages.
func WithCurrency(currency string) Option {
	return func(g *Generator) {
		g.currency = currency
	}
}

// NewGenerator creates an advice generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs every rule in a fixed order. The result is grouped as warnings
// and flags, then top category call-outs, then the data volume tip, then the
// closing praise or tips.
func (g *Generator) Generate(s report.Summary) []Advice {
	var warnings, flags, callouts, volume, closing []Advice

	income := s.Totals.Income
	expense := s.Totals.Expense

	if s.Balance() < 0 {
		warnings = append(warnings, Advice{Kind: KindWarning, Message: MsgNegativeBalance})
	}
	if income > 0 && expense*overspendDenominator > income*overspendNumerator {
		warnings = append(warnings, Advice{Kind: KindWarning, Message: MsgOverspend})
	}
	if s.IncomeIrregular {
		flags = append(flags, Advice{Kind: KindFlag, Message: MsgIrregularIncome})
	}

	if len(warnings) == 0 {
		closing = append(closing,
			Advice{Kind: KindPraise, Message: MsgFinancesFine},
			Advice{Kind: KindTip, Message: MsgTipSaveShare},
			Advice{Kind: KindTip, Message: MsgTipPlanMonth},
		)
	} else {
		closing = append(closing,
			Advice{Kind: KindTip, Message: MsgTipTrackDaily},
			Advice{Kind: KindTip, Message: MsgTipSetLimits},
		)
	}

	top := s.Top
	if len(top) > MaxCallouts {
		top = top[:MaxCallouts]
	}
	for _, ca := range top {
		callouts = append(callouts, Advice{
			Kind:    KindTopCategory,
			Message: fmt.Sprintf("Biggest expense: %s - %s", ca.Category.Name, g.formatAmount(ca.Amount)),
		})
	}

	if s.TransactionCount < MinTransactions {
		volume = append(volume, Advice{Kind: KindDataVolume, Message: MsgNeedMoreData})
	}

	out := make([]Advice, 0, len(warnings)+len(flags)+len(callouts)+len(volume)+len(closing))
	out = append(out, warnings...)
	out = append(out, flags...)
	out = append(out, callouts...)
	out = append(out, volume...)
	out = append(out, closing...)
	return out
}

func (g *Generator) formatAmount(m model.Money) string {
	if g.currency == "" {
		return m.String()
	}
	return m.String() + " " + g.currency
}

// Messages extracts the message text from a list of advice.
func Messages(advice []Advice) []string {
	out := make([]string, len(advice))
	for i, a := range advice {
		out[i] = a.Message
	}
	return out
}
