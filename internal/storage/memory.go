package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/akashreddykandula/spendWise/internal/core"
)

// MemoryStore is an in-memory repository used for tests and for running
// without a database. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	txs     []core.Transaction
	budgets map[string]core.Budget
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{budgets: make(map[string]core.Budget)}
}

func (s *MemoryStore) Find(_ context.Context, q Query) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, tx := range s.txs {
		if q.Matches(tx) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) ListOwners(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]struct{}{}
	var owners []string
	for _, tx := range s.txs {
		if _, ok := seen[tx.Owner]; ok {
			continue
		}
		seen[tx.Owner] = struct{}{}
		owners = append(owners, tx.Owner)
	}
	sort.Strings(owners)
	return owners, nil
}

func (s *MemoryStore) Create(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	s.txs = append(s.txs, tx)
	return tx.ID, nil
}

func (s *MemoryStore) Delete(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range s.txs {
		if tx.Owner == owner && tx.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return ErrTransactionNotFound
}

func (s *MemoryStore) GetBudget(_ context.Context, owner string) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[owner]
	if !ok {
		return core.Budget{}, ErrBudgetNotFound
	}
	// Copy the category map so callers cannot mutate stored state.
	out := core.Budget{Owner: b.Owner, Monthly: b.Monthly}
	for category, limit := range b.Categories {
		if out.Categories == nil {
			out.Categories = make(map[string]core.Money, len(b.Categories))
		}
		out.Categories[category] = limit
	}
	return out, nil
}

func (s *MemoryStore) UpsertBudget(_ context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := core.Budget{Owner: b.Owner, Monthly: b.Monthly}
	for category, limit := range b.Categories {
		if stored.Categories == nil {
			stored.Categories = make(map[string]core.Money, len(b.Categories))
		}
		stored.Categories[category] = limit
	}
	s.budgets[b.Owner] = stored
	return nil
}
