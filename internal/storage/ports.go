// Package storage defines the read/write contracts for transaction and
// budget data and provides the SQLite, MongoDB, and in-memory backends.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/akashreddykandula/spendWise/internal/core"
)

var (
	// ErrBudgetNotFound signals that no budget is configured for an
	// owner. Callers treat it as an all-zero budget, not a failure.
	ErrBudgetNotFound = errors.New("budget not found")

	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrReadOnly is returned by stores that only expose a read path.
	ErrReadOnly = errors.New("store is read-only")
)

// Query scopes a transaction read. Owner is mandatory; a zero From or
// To leaves that side unbounded.
type Query struct {
	Owner string
	From  time.Time
	To    time.Time
}

// Matches reports whether a transaction satisfies the query. Stores
// that cannot push the date filter down use it post-fetch.
func (q Query) Matches(tx core.Transaction) bool {
	if tx.Owner != q.Owner {
		return false
	}
	if !q.From.IsZero() && tx.Date.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && tx.Date.After(q.To) {
		return false
	}
	return true
}

// Ports for the data backends. The analytics engine consumes only the
// read side; the write side exists so the system is operable end to
// end (owner scoping is enforced by the caller passing the owner).
type (
	TransactionStore interface {
		// Find returns all transactions matching the query. Ordering
		// is not guaranteed; the engine re-sorts as needed.
		Find(ctx context.Context, q Query) ([]core.Transaction, error)

		// ListOwners returns every owner with at least one transaction.
		// The report worker iterates this set.
		ListOwners(ctx context.Context) ([]string, error)
	}

	TransactionWriter interface {
		// Create persists a transaction and returns its identifier.
		Create(ctx context.Context, tx core.Transaction) (string, error)

		// Delete removes an owner's transaction by id.
		Delete(ctx context.Context, owner, id string) error
	}

	BudgetStore interface {
		// GetBudget returns ErrBudgetNotFound when the owner has no
		// budget record.
		GetBudget(ctx context.Context, owner string) (core.Budget, error)
	}

	BudgetWriter interface {
		// UpsertBudget creates or replaces the owner's budget.
		UpsertBudget(ctx context.Context, b core.Budget) error
	}
)
