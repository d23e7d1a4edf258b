package analytics

import (
	"sort"
	"time"

	"github.com/akashreddykandula/spendWise/internal/core"
)

type (
	// Predicate filters transactions before grouping.
	Predicate func(core.Transaction) bool

	// GroupKeyFunc maps a transaction to its group key.
	GroupKeyFunc func(core.Transaction) string

	CategoryTotal struct {
		Category string
		Total    core.Money
	}

	// DayTotal is a per-day expense total. Date is the bucket key;
	// Label is its canonical YYYY-MM-DD rendering.
	DayTotal struct {
		Date  time.Time
		Label string
		Total core.Money
	}

	// TimelinePoint pairs income and expense totals for one day.
	TimelinePoint struct {
		Date    time.Time
		Label   string
		Income  core.Money
		Expense core.Money
	}

	// AggregateResult is the per-window overview: totals split by type,
	// the expense breakdown by category (largest first), and the daily
	// expense series (oldest first). Built fresh per request, never
	// persisted.
	AggregateResult struct {
		TotalIncome  core.Money
		TotalExpense core.Money
		Balance      core.Money
		ByCategory   []CategoryTotal
		ByDay        []DayTotal
		// HighestCategory is the top entry of ByCategory, nil when the
		// window holds no expenses.
		HighestCategory *CategoryTotal
	}
)

// InWindow returns a predicate matching transactions dated inside w.
func InWindow(w Window) Predicate {
	return func(tx core.Transaction) bool {
		return w.Contains(tx.Date)
	}
}

// OfType returns a predicate matching a single transaction type.
func OfType(t core.TxType) Predicate {
	return func(tx core.Transaction) bool {
		return tx.Type == t
	}
}

// And combines predicates; all must match.
func And(preds ...Predicate) Predicate {
	return func(tx core.Transaction) bool {
		for _, p := range preds {
			if !p(tx) {
				return false
			}
		}
		return true
	}
}

// ByCategory groups by the transaction's category label.
func ByCategory(tx core.Transaction) string {
	return tx.Category
}

// ByDay groups by the transaction's canonical day key.
func ByDay(tx core.Transaction) string {
	return tx.Date.Format("2006-01-02")
}

// SumBy filters transactions by keep and sums amounts per group key.
// An empty input yields an empty map, never an error.
func SumBy(txs []core.Transaction, keep Predicate, key GroupKeyFunc) map[string]core.Money {
	sums := make(map[string]core.Money)
	for _, tx := range txs {
		if keep != nil && !keep(tx) {
			continue
		}
		k := key(tx)
		sums[k] = sums[k].Add(tx.Amount)
	}
	return sums
}

// TypeTotals sums income and expense amounts for transactions inside w.
func TypeTotals(txs []core.Transaction, w Window) (income, expense core.Money) {
	for _, tx := range txs {
		if !w.Contains(tx.Date) {
			continue
		}
		switch tx.Type {
		case core.Income:
			income = income.Add(tx.Amount)
		case core.Expense:
			expense = expense.Add(tx.Amount)
		}
	}
	return income, expense
}

// Aggregate reduces the snapshot over one window. Category totals are
// sorted by amount descending with ties kept in first-encountered
// order; daily totals ascend by date.
func Aggregate(txs []core.Transaction, w Window) AggregateResult {
	var res AggregateResult
	res.TotalIncome, res.TotalExpense = TypeTotals(txs, w)
	res.Balance = res.TotalIncome.Sub(res.TotalExpense)
	res.ByCategory = categoryBreakdown(txs, w)
	res.ByDay = dailyExpenses(txs, w)
	if len(res.ByCategory) > 0 {
		top := res.ByCategory[0]
		res.HighestCategory = &top
	}
	return res
}

func categoryBreakdown(txs []core.Transaction, w Window) []CategoryTotal {
	expense := And(InWindow(w), OfType(core.Expense))
	sums := make(map[string]int64)
	order := make([]string, 0)
	for _, tx := range txs {
		if !expense(tx) {
			continue
		}
		if _, seen := sums[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		sums[tx.Category] += tx.Amount.Cents
	}
	out := make([]CategoryTotal, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryTotal{Category: cat, Total: core.Money{Cents: sums[cat]}})
	}
	// Stable sort keeps first-encountered order for equal totals.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cents > out[j].Total.Cents
	})
	return out
}

func dailyExpenses(txs []core.Transaction, w Window) []DayTotal {
	sums := SumBy(txs, And(InWindow(w), OfType(core.Expense)), ByDay)
	out := make([]DayTotal, 0, len(sums))
	for label, total := range sums {
		day, err := time.ParseInLocation("2006-01-02", label, w.From.Location())
		if err != nil {
			continue
		}
		out = append(out, DayTotal{Date: day, Label: label, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Timeline builds the per-day income/expense series for one window,
// oldest first. Days with no transactions are omitted.
func Timeline(txs []core.Transaction, w Window) []TimelinePoint {
	type daySplit struct {
		income  core.Money
		expense core.Money
	}
	days := make(map[string]daySplit)
	for _, tx := range txs {
		if !w.Contains(tx.Date) {
			continue
		}
		key := tx.Date.Format("2006-01-02")
		split := days[key]
		switch tx.Type {
		case core.Income:
			split.income = split.income.Add(tx.Amount)
		case core.Expense:
			split.expense = split.expense.Add(tx.Amount)
		}
		days[key] = split
	}
	out := make([]TimelinePoint, 0, len(days))
	for label, split := range days {
		day, err := time.ParseInLocation("2006-01-02", label, w.From.Location())
		if err != nil {
			continue
		}
		out = append(out, TimelinePoint{Date: day, Label: label, Income: split.income, Expense: split.expense})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
