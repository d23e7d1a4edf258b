package analytics

import (
	"time"

	"github.com/akashreddykandula/spendWise/internal/core"
)

// DefaultTrendMonths is the series length used by the dashboards.
const DefaultTrendMonths = 6

type (
	// TrendPoint is one calendar-month entry of a TrendSeries.
	TrendPoint struct {
		Label   string
		Year    int
		Month   time.Month
		Income  core.Money
		Expense core.Money
		Savings core.Money
	}

	// TrendSeries is a fixed-length run of consecutive calendar months,
	// oldest first.
	TrendSeries []TrendPoint
)

// BuildTrend produces a series of exactly months entries ending at the
// month containing now. Each bucket is aggregated independently;
// months with no transactions carry zero totals. Transactions dated
// outside all buckets are excluded, the window is never extended.
func BuildTrend(txs []core.Transaction, now time.Time, months int) TrendSeries {
	buckets := RollingMonths(now, months)
	series := make(TrendSeries, 0, len(buckets))
	for _, b := range buckets {
		income, expense := TypeTotals(txs, b.Window)
		series = append(series, TrendPoint{
			Label:   b.Label,
			Year:    b.Year,
			Month:   b.Month,
			Income:  income,
			Expense: expense,
			Savings: income.Sub(expense),
		})
	}
	return series
}
