package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

type (
	// TxType is the direction of a transaction. The set is closed:
	// amounts are always non-negative, direction is carried here.
	TxType string

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Owner       string
		Amount      Money
		Type        TxType
		Category    string
		PaymentMode string
		// Date is the economic date of the transaction, not the
		// record-creation timestamp. All windowing keys off it.
		Date time.Time
	}

	// Budget holds the configured spending limits for one owner.
	// A zero limit means "no limit configured".
	Budget struct {
		Owner      string
		Monthly    Money
		Categories map[string]Money
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyOwner    = errors.New("empty owner")
	ErrEmptyCategory = errors.New("empty category")
	ErrNegativeLimit = errors.New("negative budget limit")
)

func (t TxType) Valid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsNegative reports whether the amount is below zero. Balances may be
// negative; transaction amounts never are.
func (m Money) IsNegative() bool {
	return m.Cents < 0
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (tx Transaction) Validate() error {
	if strings.TrimSpace(tx.Owner) == "" {
		return ErrEmptyOwner
	}
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if tx.Date.IsZero() {
		return ErrInvalidDate
	}
	// Category is required for expense-side grouping only.
	if tx.Type == Expense && strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Owner) == "" {
		return ErrEmptyOwner
	}
	if b.Monthly.Cents < 0 {
		return ErrNegativeLimit
	}
	for cat, limit := range b.Categories {
		if strings.TrimSpace(cat) == "" {
			return ErrEmptyCategory
		}
		if limit.Cents < 0 {
			return ErrNegativeLimit
		}
	}
	return nil
}

// Limit returns the configured limit for a category and whether one exists.
func (b Budget) Limit(category string) (Money, bool) {
	limit, ok := b.Categories[category]
	return limit, ok
}
