package budget

import "time"

// Milliunits is the budgeting API's fixed-point currency representation:
// 1000 milliunits equal one currency unit.
type Milliunits int64

// Float returns the amount in currency units.
func (m Milliunits) Float() float64 {
	return float64(m) / 1000
}

// Budget is a top-level budget container.
type Budget struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LastModified time.Time `json:"last_modified_on"`
	CurrencyCode string    `json:"currency_code"`
}

// Account is a single budget account.
type Account struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	OnBudget         bool       `json:"on_budget"`
	Closed           bool       `json:"closed"`
	Balance          Milliunits `json:"balance"`
	ClearedBalance   Milliunits `json:"cleared_balance"`
	UnclearedBalance Milliunits `json:"uncleared_balance"`
}

// CategoryGroup is a named grouping of categories.
type CategoryGroup struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Hidden     bool       `json:"hidden"`
	Categories []Category `json:"categories"`
}

// Category is a single budget category with its monthly activity.
type Category struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Hidden   bool       `json:"hidden"`
	Budgeted Milliunits `json:"budgeted"`
	Activity Milliunits `json:"activity"`
	Balance  Milliunits `json:"balance"`
}

// Transaction is a single account transaction.
type Transaction struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"` // ISO date, the API has no time component
	Amount     Milliunits `json:"amount"`
	Memo       string     `json:"memo,omitempty"`
	Cleared    string     `json:"cleared"`
	Approved   bool       `json:"approved"`
	AccountID  string     `json:"account_id"`
	PayeeID    string     `json:"payee_id,omitempty"`
	PayeeName  string     `json:"payee_name,omitempty"`
	CategoryID string     `json:"category_id,omitempty"`
}

// NewTransaction is the payload for creating a transaction.
type NewTransaction struct {
	AccountID  string     `json:"account_id"`
	Date       string     `json:"date"`
	Amount     Milliunits `json:"amount"`
	PayeeName  string     `json:"payee_name,omitempty"`
	CategoryID string     `json:"category_id,omitempty"`
	Memo       string     `json:"memo,omitempty"`
	Cleared    string     `json:"cleared,omitempty"`
}

// User identifies the authenticated API user.
type User struct {
	ID string `json:"id"`
}

// TransactionsQuery filters a transaction listing.
type TransactionsQuery struct {
	// SinceDate restricts results to transactions on or after the date
	// (ISO format). Empty means no restriction.
	SinceDate string

	// AccountID restricts results to one account. Empty means all.
	AccountID string
}
