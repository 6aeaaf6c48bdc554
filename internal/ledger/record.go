// Package ledger defines the financial record types collected by the bot
// and the validation rules for their individual fields.
package ledger

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyText reports a required text field that was left blank.
	ErrEmptyText = errors.New("ledger: empty text")
	// ErrBadAmount reports a value that is not a non-negative decimal.
	ErrBadAmount = errors.New("ledger: invalid amount")
	// ErrBadDay reports a day outside the 1..31 range.
	ErrBadDay = errors.New("ledger: invalid day of month")
)

// Expense is a single expense entry. Fields are collected one at a time
// in the order Title, Amount, Day, Category, Wallet, Notes.
type Expense struct {
	Title    string
	Amount   decimal.Decimal
	Day      int
	Category string
	Wallet   string
	Notes    string
}

// Income is a single income entry collected as Title, Amount, Day.
type Income struct {
	Title  string
	Amount decimal.Decimal
	Day    int
}

// ParseTitle validates a required free-text field.
func ParseTitle(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyText
	}
	return s, nil
}

// ParseAmount parses a locale-invariant non-negative decimal amount.
// Leading or trailing non-numeric characters are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, ErrBadAmount
	}
	if d.IsNegative() {
		return decimal.Decimal{}, ErrBadAmount
	}
	return d, nil
}

// ParseDay parses a day of month in the 1..31 range. The range is not
// checked against the calendar month on purpose.
func ParseDay(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrBadDay
	}
	if n < 1 || n > 31 {
		return 0, ErrBadDay
	}
	return n, nil
}
