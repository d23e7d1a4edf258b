package analytics

import (
	"testing"
	"time"

	"github.com/akashreddykandula/spendWise/internal/core"
)

func TestBuildTrendLengthAndOrder(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx("u1", core.Income, "Salary", 100000, date(2024, time.February, 1)),
		tx("u1", core.Expense, "Rent", 60000, date(2024, time.February, 5)),
		tx("u1", core.Expense, "Food", 5000, date(2024, time.June, 10)),
	}

	series := BuildTrend(txs, now, 6)
	if len(series) != 6 {
		t.Fatalf("expected exactly 6 entries, got %d", len(series))
	}

	// Consecutive calendar months, oldest first.
	for i := 1; i < len(series); i++ {
		prev := time.Date(series[i-1].Year, series[i-1].Month, 1, 0, 0, 0, 0, time.UTC)
		cur := time.Date(series[i].Year, series[i].Month, 1, 0, 0, 0, 0, time.UTC)
		if !cur.Equal(prev.AddDate(0, 1, 0)) {
			t.Errorf("entries %d and %d are not consecutive months: %v, %v", i-1, i, prev, cur)
		}
	}

	feb := series[1]
	if feb.Income.Cents != 100000 || feb.Expense.Cents != 60000 || feb.Savings.Cents != 40000 {
		t.Errorf("unexpected February totals: %+v", feb)
	}
	jun := series[5]
	if jun.Expense.Cents != 5000 || jun.Savings.Cents != -5000 {
		t.Errorf("unexpected June totals: %+v", jun)
	}
}

func TestBuildTrendSparseBucketsAreZero(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	series := BuildTrend(nil, now, 6)

	if len(series) != 6 {
		t.Fatalf("expected 6 entries for empty input, got %d", len(series))
	}
	for i, p := range series {
		if p.Income.Cents != 0 || p.Expense.Cents != 0 || p.Savings.Cents != 0 {
			t.Errorf("entry %d: expected zero totals, got %+v", i, p)
		}
	}
}

func TestBuildTrendExcludesOutOfWindowTransactions(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		// before the 6-month window
		tx("u1", core.Expense, "Food", 7777, date(2023, time.December, 20)),
		// after now
		tx("u1", core.Expense, "Food", 8888, date(2024, time.June, 20)),
	}

	series := BuildTrend(txs, now, 6)
	for i, p := range series {
		if p.Expense.Cents != 0 {
			t.Errorf("entry %d: expected 0, got %d", i, p.Expense.Cents)
		}
	}
}
