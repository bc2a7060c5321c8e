package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/category"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// dateLayout is ISO-8601 with microseconds and a UTC offset.
const dateLayout = "2006-01-02T15:04:05.000000-07:00"

// Accepted on read; older documents carry naive timestamps without an offset.
var readLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var errUnknownCategory = errors.New("unknown category")

// userRecord is the persisted shape of one user in the JSON document.
type userRecord struct {
	Username     string          `json:"username"`
	Transactions json.RawMessage `json:"transactions"`
	Budgets      json.RawMessage `json:"budgets,omitempty"`
}

// transactionRecord is the persisted shape of one transaction. Type duplicates
// the category's type so the document can be read without the registry.
type transactionRecord struct {
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range readLayouts {
		var (
			t   time.Time
			err error
		)
		if strings.Contains(layout, "Z07") {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func toRecord(txn model.Transaction) transactionRecord {
	return transactionRecord{
		Amount:      json.Number(txn.Amount.String()),
		Category:    txn.Category.Name,
		Date:        formatDate(txn.Date),
		Description: txn.Description,
		Type:        string(txn.Type()),
	}
}

// fromRecord resolves a stored transaction against the registry.
// A missing or unreadable date falls back to now.
func fromRecord(registry *category.Registry, rec transactionRecord, now time.Time) (model.Transaction, error) {
	cat, ok := registry.FindByName(rec.Category)
	if !ok {
		return model.Transaction{}, fmt.Errorf("%w: %q", errUnknownCategory, rec.Category)
	}

	f, err := strconv.ParseFloat(rec.Amount.String(), 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: amount %q", ErrInvalidTransaction, rec.Amount)
	}
	amount, err := model.CheckedMoneyFromFloat(f)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}
	if !amount.IsPositive() {
		return model.Transaction{}, fmt.Errorf("%w: non-positive amount %s", ErrInvalidTransaction, rec.Amount)
	}

	date := now
	if rec.Date != "" {
		if parsed, err := parseDate(rec.Date); err == nil {
			date = parsed
		} else {
			slog.Warn("Unreadable transaction date, using load time",
				"date", rec.Date,
				"error", err)
		}
	}

	return model.Transaction{
		Amount:      amount,
		Category:    cat,
		Date:        date,
		Description: rec.Description,
	}, nil
}

// decodeUser builds a user from its stored record, dropping entries that cannot be resolved.
func decodeUser(registry *category.Registry, username string, rec userRecord, now time.Time) *model.User {
	user := model.NewUser(username)

	if len(rec.Budgets) > 0 && string(rec.Budgets) != "null" {
		if err := json.Unmarshal(rec.Budgets, &user.Budgets); err != nil {
			slog.Warn("Ignoring unreadable budgets", "username", username, "error", err)
			user.Budgets = make(map[string]float64)
		}
	}

	if len(rec.Transactions) == 0 || string(rec.Transactions) == "null" {
		return user
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(rec.Transactions, &raw); err != nil {
		slog.Warn("Ignoring unreadable transaction list", "username", username, "error", err)
		return user
	}

	dropped := 0
	for i, item := range raw {
		var txRec transactionRecord
		if err := json.Unmarshal(item, &txRec); err != nil {
			slog.Warn("Dropping unreadable transaction", "username", username, "index", i, "error", err)
			dropped++
			continue
		}
		txn, err := fromRecord(registry, txRec, now)
		if err != nil {
			slog.Warn("Dropping transaction", "username", username, "index", i, "error", err)
			dropped++
			continue
		}
		user.Append(txn)
	}

	if dropped > 0 {
		slog.Warn("Loaded user with dropped transactions",
			"username", username,
			"loaded", user.Len(),
			"dropped", dropped)
	}
	return user
}

// encodeUser converts a user to its stored record.
func encodeUser(user *model.User) (userRecord, error) {
	txns := user.All()
	records := make([]transactionRecord, 0, len(txns))
	for _, txn := range txns {
		records = append(records, toRecord(txn))
	}

	txJSON, err := marshalJSON(records)
	if err != nil {
		return userRecord{}, fmt.Errorf("failed to encode transactions: %w", err)
	}

	budgets := user.Budgets
	if budgets == nil {
		budgets = map[string]float64{}
	}
	budgetJSON, err := marshalJSON(budgets)
	if err != nil {
		return userRecord{}, fmt.Errorf("failed to encode budgets: %w", err)
	}

	return userRecord{
		Username:     user.Username,
		Transactions: txJSON,
		Budgets:      budgetJSON,
	}, nil
}

// marshalJSON encodes v without escaping HTML characters, matching how the
// document is written as a whole.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
