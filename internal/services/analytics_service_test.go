package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akashreddykandula/spendWise/internal/analytics"
	"github.com/akashreddykandula/spendWise/internal/core"
	"github.com/akashreddykandula/spendWise/internal/storage"
)

var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*AnalyticsService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := NewAnalyticsService(store, store, Options{
		Now:       func() time.Time { return testNow },
		CacheSize: 16,
		CacheTTL:  time.Minute,
	}).WithWriters(store, store)
	return svc, store
}

func seed(t *testing.T, store *storage.MemoryStore, owner, typ, category string, cents int64, date time.Time) {
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

func TestOverviewCurrentMonth(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seed(t, store, "alice", "income", "", 100000, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	seed(t, store, "alice", "expense", "Food", 15000, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))
	// Outside the current month, must not count.
	seed(t, store, "alice", "expense", "Food", 99900, time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC))

	ov, err := svc.Overview(ctx, "alice", analytics.Window{})
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.TotalIncome.Cents != 100000 {
		t.Errorf("TotalIncome = %d, want 100000", ov.TotalIncome.Cents)
	}
	if ov.TotalExpense.Cents != 15000 {
		t.Errorf("TotalExpense = %d, want 15000", ov.TotalExpense.Cents)
	}
	if ov.Balance.Cents != 85000 {
		t.Errorf("Balance = %d, want 85000", ov.Balance.Cents)
	}
	if ov.HighestCategory == nil || ov.HighestCategory.Category != "Food" {
		t.Errorf("HighestCategory = %+v, want Food", ov.HighestCategory)
	}
}

func TestOverviewExplicitWindowSkipsBudget(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seed(t, store, "alice", "expense", "Food", 20000, time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC))
	if err := store.UpsertBudget(ctx, core.Budget{
		Owner:   "alice",
		Monthly: core.Money{Cents: 10000},
	}); err != nil {
		t.Fatalf("upsert budget: %v", err)
	}

	window := analytics.Explicit(
		time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.May, 31, 23, 59, 59, 0, time.UTC))
	ov, err := svc.Overview(ctx, "alice", window)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.TotalExpense.Cents != 20000 {
		t.Errorf("TotalExpense = %d, want 20000", ov.TotalExpense.Cents)
	}
	// An explicit range is not a month, so the monthly limit does not apply.
	if ov.Budget.Overall.OverLimit {
		t.Error("explicit window should not carry a budget evaluation")
	}
}

func TestOverviewInvertedWindowIsEmpty(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seed(t, store, "alice", "expense", "Food", 15000, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))

	// from after to: a valid request for nothing, never the default month.
	window := analytics.Explicit(
		time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	ov, err := svc.Overview(ctx, "alice", window)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.TotalExpense.Cents != 0 || ov.TotalIncome.Cents != 0 {
		t.Errorf("inverted window aggregated totals: income=%d expense=%d, want 0/0",
			ov.TotalIncome.Cents, ov.TotalExpense.Cents)
	}
	if len(ov.ByCategory) != 0 || len(ov.ByDay) != 0 || ov.HighestCategory != nil {
		t.Error("inverted window must carry no breakdowns")
	}
	if ov.Budget.Overall.OverLimit {
		t.Error("inverted window must not carry a budget evaluation")
	}

	txs, err := svc.ListTransactions(ctx, "alice", window)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("inverted window listed %d transactions, want 0", len(txs))
	}
}

func TestOverviewMissingBudgetIsZero(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seed(t, store, "alice", "expense", "Food", 15000, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))

	ov, err := svc.Overview(ctx, "alice", analytics.Window{})
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.Budget.Overall.OverLimit {
		t.Error("absent budget must never flag overspend")
	}
}

func TestOverviewBudgetOverspend(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seed(t, store, "alice", "expense", "Food", 15000, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))
	if err := store.UpsertBudget(ctx, core.Budget{
		Owner:      "alice",
		Monthly:    core.Money{Cents: 10000},
		Categories: map[string]core.Money{"Food": {Cents: 10000}},
	}); err != nil {
		t.Fatalf("upsert budget: %v", err)
	}
	svc.Invalidate("alice")

	ov, err := svc.Overview(ctx, "alice", analytics.Window{})
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if !ov.Budget.Overall.OverLimit || ov.Budget.Overall.Overage.Cents != 5000 {
		t.Errorf("Overall = %+v, want over by 5000", ov.Budget.Overall)
	}
	if len(ov.Budget.Categories) != 1 || ov.Budget.Categories[0].Category != "Food" {
		t.Fatalf("Categories = %+v, want single Food alert", ov.Budget.Categories)
	}
	if ov.Budget.Categories[0].Overage.Cents != 5000 {
		t.Errorf("Food overage = %d, want 5000", ov.Budget.Categories[0].Overage.Cents)
	}
}

func TestAdvancedReport(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// Previous month: Food 100.00
	seed(t, store, "alice", "expense", "Food", 10000, time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC))
	// Current month: Food 150.00 plus income.
	seed(t, store, "alice", "income", "", 200000, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	seed(t, store, "alice", "expense", "Food", 15000, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))

	adv, err := svc.Advanced(ctx, "alice")
	if err != nil {
		t.Fatalf("Advanced: %v", err)
	}

	if adv.Comparison.Month.Expense.Cents != 15000 {
		t.Errorf("Month.Expense = %d, want 15000", adv.Comparison.Month.Expense.Cents)
	}
	if adv.Comparison.Year.Expense.Cents != 25000 {
		t.Errorf("Year.Expense = %d, want 25000", adv.Comparison.Year.Expense.Cents)
	}
	if len(adv.Trend) != analytics.DefaultTrendMonths {
		t.Fatalf("Trend length = %d, want %d", len(adv.Trend), analytics.DefaultTrendMonths)
	}
	last := adv.Trend[len(adv.Trend)-1]
	if last.Month != time.June || last.Savings.Cents != 185000 {
		t.Errorf("last trend point = %+v, want June savings 185000", last)
	}
	if adv.Insight == nil {
		t.Fatal("expected a top-mover insight")
	}
	if adv.Insight.Category != "Food" || !adv.Insight.PercentChange.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Insight = %+v, want Food +50%%", adv.Insight)
	}
}

func TestAdvancedNoInsightWithoutPreviousData(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seed(t, store, "alice", "expense", "Food", 15000, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))

	adv, err := svc.Advanced(ctx, "alice")
	if err != nil {
		t.Fatalf("Advanced: %v", err)
	}
	if adv.Insight != nil {
		t.Errorf("Insight = %+v, want nil when previous month is empty", adv.Insight)
	}
}

func TestTrendSparseMonthsAreZero(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seed(t, store, "alice", "expense", "Food", 5000, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC))

	series, err := svc.Trend(ctx, "alice")
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if len(series) != analytics.DefaultTrendMonths {
		t.Fatalf("Trend length = %d, want %d", len(series), analytics.DefaultTrendMonths)
	}
	wantLabels := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	for i, p := range series {
		if p.Label != wantLabels[i] {
			t.Errorf("series[%d].Label = %q, want %q", i, p.Label, wantLabels[i])
		}
	}
	if series[2].Expense.Cents != 5000 {
		t.Errorf("March expense = %d, want 5000", series[2].Expense.Cents)
	}
	if series[0].Expense.Cents != 0 || series[5].Income.Cents != 0 {
		t.Error("empty months must carry zero totals")
	}
}

func TestMonthlySummary(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seed(t, store, "alice", "income", "", 50000, time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC))
	seed(t, store, "alice", "expense", "Food", 20000, time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC))
	// Current month must not leak into the closed month.
	seed(t, store, "alice", "expense", "Food", 70000, time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC))

	sum, err := svc.MonthlySummary(ctx, "alice", testNow)
	if err != nil {
		t.Fatalf("MonthlySummary: %v", err)
	}
	if sum.TotalIncome.Cents != 50000 || sum.TotalExpense.Cents != 20000 {
		t.Errorf("summary totals = %d/%d, want 50000/20000", sum.TotalIncome.Cents, sum.TotalExpense.Cents)
	}
	if sum.Window.From.Month() != time.May {
		t.Errorf("summary window = %v, want May", sum.Window.From)
	}
}

func TestWritesInvalidateCache(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seed(t, store, "alice", "expense", "Food", 10000, time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC))

	first, err := svc.Overview(ctx, "alice", analytics.Window{})
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if first.TotalExpense.Cents != 10000 {
		t.Fatalf("TotalExpense = %d, want 10000", first.TotalExpense.Cents)
	}

	if _, err := svc.CreateTransaction(ctx, core.Transaction{
		Owner:       "alice",
		Amount:      core.Money{Cents: 5000},
		Type:        core.Expense,
		Category:    "Travel",
		PaymentMode: "Cash",
		Date:        time.Date(2024, time.June, 6, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	second, err := svc.Overview(ctx, "alice", analytics.Window{})
	if err != nil {
		t.Fatalf("Overview after write: %v", err)
	}
	if second.TotalExpense.Cents != 15000 {
		t.Errorf("TotalExpense after write = %d, want 15000 (stale cache?)", second.TotalExpense.Cents)
	}
}

func TestWritersAbsentMeansReadOnly(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewAnalyticsService(store, store, Options{Now: func() time.Time { return testNow }})

	_, err := svc.CreateTransaction(context.Background(), core.Transaction{Owner: "alice"})
	if !errors.Is(err, storage.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	if err := svc.UpsertBudget(context.Background(), core.Budget{Owner: "alice"}); !errors.Is(err, storage.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestEmptyOwnerRejected(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Overview(context.Background(), "", analytics.Window{}); !errors.Is(err, core.ErrEmptyOwner) {
		t.Fatalf("Overview: expected ErrEmptyOwner, got %v", err)
	}
	if _, err := svc.Advanced(context.Background(), ""); !errors.Is(err, core.ErrEmptyOwner) {
		t.Fatalf("Advanced: expected ErrEmptyOwner, got %v", err)
	}
}
