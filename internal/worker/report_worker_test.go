package worker

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/akashreddykandula/spendWise/internal/amqp"
	"github.com/akashreddykandula/spendWise/internal/core"
	"github.com/akashreddykandula/spendWise/internal/services"
	"github.com/akashreddykandula/spendWise/internal/storage"
)

type capturePublisher struct {
	messages []*amqp.MonthlySummaryMessage
	fail     map[string]error
}

func (p *capturePublisher) PublishMonthlySummary(_ context.Context, msg *amqp.MonthlySummaryMessage) error {
	if err, ok := p.fail[msg.Owner]; ok {
		return err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func seedTx(t *testing.T, store *storage.MemoryStore, owner, typ, category string, cents int64, date time.Time) {
	t.Helper()
	_, err := store.Create(context.Background(), core.Transaction{
		Owner:       owner,
		Amount:      core.Money{Cents: cents},
		Type:        core.TxType(typ),
		Category:    category,
		PaymentMode: "Cash",
		Date:        date,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestRunOncePublishesPerOwner(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

	// May is the closed month being reported.
	seedTx(t, store, "alice", "income", "", 100000, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))
	seedTx(t, store, "alice", "expense", "Food", 30000, time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC))
	seedTx(t, store, "bob", "expense", "Travel", 12000, time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC))
	// June data must stay out of the report.
	seedTx(t, store, "alice", "expense", "Food", 99900, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))

	if err := store.UpsertBudget(context.Background(), core.Budget{
		Owner:   "alice",
		Monthly: core.Money{Cents: 20000},
	}); err != nil {
		t.Fatalf("upsert budget: %v", err)
	}

	svc := services.NewAnalyticsService(store, store, services.Options{
		Now: func() time.Time { return now },
	})
	pub := &capturePublisher{}
	w := NewReportWorker(svc, pub, "0 9 1 * *")

	if err := w.RunOnce(context.Background(), now); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if len(pub.messages) != 2 {
		t.Fatalf("published %d messages, want 2", len(pub.messages))
	}
	sort.Slice(pub.messages, func(i, j int) bool { return pub.messages[i].Owner < pub.messages[j].Owner })

	alice := pub.messages[0]
	if alice.Owner != "alice" || alice.Year != 2024 || alice.Month != 5 {
		t.Errorf("alice message period = %s/%d-%02d, want alice/2024-05", alice.Owner, alice.Year, alice.Month)
	}
	if alice.IncomeCents != 100000 || alice.ExpenseCents != 30000 || alice.BalanceCents != 70000 {
		t.Errorf("alice totals = %d/%d/%d, want 100000/30000/70000",
			alice.IncomeCents, alice.ExpenseCents, alice.BalanceCents)
	}
	if !alice.OverLimit || alice.OverageCents != 10000 {
		t.Errorf("alice overspend = %v/%d, want true/10000", alice.OverLimit, alice.OverageCents)
	}
	if alice.TopCategory != "Food" {
		t.Errorf("alice top category = %q, want Food", alice.TopCategory)
	}

	bob := pub.messages[1]
	if bob.OverLimit {
		t.Error("bob has no budget and must not flag overspend")
	}
	if bob.ExpenseCents != 12000 {
		t.Errorf("bob expense = %d, want 12000", bob.ExpenseCents)
	}
}

func TestRunOnceContinuesPastFailedOwner(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

	seedTx(t, store, "alice", "expense", "Food", 1000, time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC))
	seedTx(t, store, "bob", "expense", "Food", 2000, time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC))

	svc := services.NewAnalyticsService(store, store, services.Options{
		Now: func() time.Time { return now },
	})
	pub := &capturePublisher{fail: map[string]error{"alice": errors.New("broker down")}}
	w := NewReportWorker(svc, pub, "0 9 1 * *")

	err := w.RunOnce(context.Background(), now)
	if err == nil {
		t.Fatal("expected an error when an owner fails")
	}
	if len(pub.messages) != 1 || pub.messages[0].Owner != "bob" {
		t.Fatalf("expected bob's message to still publish, got %+v", pub.messages)
	}
}
