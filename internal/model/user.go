package model

// User owns an append-only, ordered list of transactions.
// Insertion order is chronological order of entry.
type User struct {
	Budgets      map[string]float64
	Username     string
	transactions []Transaction
}

// NewUser creates a user with no transactions.
func NewUser(username string) *User {
	return &User{
		Username: username,
		Budgets:  make(map[string]float64),
	}
}

// Append adds a transaction to the end of the sequence.
// Callers are responsible for validating the transaction first.
func (u *User) Append(t Transaction) {
	u.transactions = append(u.transactions, t)
}

// Recent returns up to n of the latest transactions, most recent first.
func (u *User) Recent(n int) []Transaction {
	if n <= 0 || len(u.transactions) == 0 {
		return []Transaction{}
	}
	if n > len(u.transactions) {
		n = len(u.transactions)
	}

	recent := make([]Transaction, 0, n)
	for i := len(u.transactions) - 1; i >= len(u.transactions)-n; i-- {
		recent = append(recent, u.transactions[i])
	}
	return recent
}

// All returns a copy of every transaction in chronological order.
func (u *User) All() []Transaction {
	all := make([]Transaction, len(u.transactions))
	copy(all, u.transactions)
	return all
}

// Len returns the number of recorded transactions.
func (u *User) Len() int {
	return len(u.transactions)
}
