// Package ofx imports bank and credit card statements into ledger transactions.
package ofx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/aclindsa/ofxgo"
)

// Mapping errors.
var (
	ErrIncomeCategory  = errors.New("income mapping must name an income category")
	ErrExpenseCategory = errors.New("expense mapping must name an expense category")
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Mapping names the categories that statement credits and debits are filed under.
type Mapping struct {
	Income  string
	Expense string
}

type resolvedMapping struct {
	income  model.Category
	expense model.Category
}

func (m Mapping) resolve(registry *category.Registry) (resolvedMapping, error) {
	income, ok := registry.FindByName(m.Income)
	if !ok || !income.IsIncome() {
		return resolvedMapping{}, fmt.Errorf("%w: %q", ErrIncomeCategory, m.Income)
	}
	expense, ok := registry.FindByName(m.Expense)
	if !ok || !expense.IsExpense() {
		return resolvedMapping{}, fmt.Errorf("%w: %q", ErrExpenseCategory, m.Expense)
	}
	return resolvedMapping{income: income, expense: expense}, nil
}

// Parser reads OFX/QFX statements.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes drop the closing bracket of an empty tag
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// Parse reads every bank and credit card statement in r. Credits become
// transactions in the mapping's income category and debits in its expense
// category. Zero amounts are skipped.
func (p *Parser) Parse(ctx context.Context, r io.Reader, registry *category.Registry, mapping Mapping) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved, err := mapping.resolve(registry)
	if err != nil {
		return nil, err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts, skipped int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		txns, n := p.convertAll(stmt.BankTranList.Transactions, resolved)
		transactions = append(transactions, txns...)
		skipped += n
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		txns, n := p.convertAll(stmt.BankTranList.Transactions, resolved)
		transactions = append(transactions, txns...)
		skipped += n
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"skipped", skipped,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) convertAll(in []ofxgo.Transaction, mapping resolvedMapping) ([]model.Transaction, int) {
	out := make([]model.Transaction, 0, len(in))
	skipped := 0
	for _, ofxTx := range in {
		tx, ok := p.convertTransaction(ofxTx, mapping)
		if !ok {
			skipped++
			continue
		}
		out = append(out, tx)
	}
	return out, skipped
}

// convertTransaction maps a statement line to a transaction. OFX uses negative amounts for debits.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, mapping resolvedMapping) (model.Transaction, bool) {
	f, _ := ofxTx.TrnAmt.Float64()
	amount, err := model.CheckedMoneyFromFloat(f)
	if err != nil {
		slog.Warn("Skipping OFX transaction with unusable amount",
			"fitid", string(ofxTx.FiTID),
			"error", err)
		return model.Transaction{}, false
	}

	var cat model.Category
	switch {
	case amount > 0:
		cat = mapping.income
	case amount < 0:
		cat = mapping.expense
		amount = -amount
	default:
		slog.Debug("Skipping zero amount OFX transaction", "fitid", string(ofxTx.FiTID))
		return model.Transaction{}, false
	}

	return model.Transaction{
		Date:        ofxTx.DtPosted.Time,
		Category:    cat,
		Description: p.description(ofxTx),
		Amount:      amount,
	}, true
}

// description picks the cleanest text the statement offers.
func (p *Parser) description(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && (name == "" || isGenericDescription(name)) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range purchasePrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// "MM/DD " date stamps
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

var purchasePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"DEBIT PURCHASE ",
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
