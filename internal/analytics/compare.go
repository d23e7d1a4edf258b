package analytics

import (
	"time"

	"github.com/akashreddykandula/spendWise/internal/core"
)

type (
	// PeriodTotals is one side of a comparison.
	PeriodTotals struct {
		Income  core.Money
		Expense core.Money
	}

	// Comparison sets month-to-date against year-to-date. The two
	// aggregates are independent; callers may compute them in either
	// order or concurrently with identical results.
	Comparison struct {
		Month PeriodTotals
		Year  PeriodTotals
	}
)

// Compare reduces the snapshot over the current-month and current-year
// windows relative to now.
func Compare(txs []core.Transaction, now time.Time) Comparison {
	return Comparison{
		Month: periodTotals(txs, CurrentMonth(now)),
		Year:  periodTotals(txs, CurrentYear(now)),
	}
}

func periodTotals(txs []core.Transaction, w Window) PeriodTotals {
	income, expense := TypeTotals(txs, w)
	return PeriodTotals{Income: income, Expense: expense}
}
