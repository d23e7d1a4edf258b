package analytics

import (
	"github.com/shopspring/decimal"
)

// Insight names the category whose spend grew the most, period over
// period, as a percentage of its previous total.
type Insight struct {
	Category      string
	PercentChange decimal.Decimal
}

// TopMover compares per-category expense totals of the current period
// against the immediately preceding one and returns the category with
// the strictly largest positive percentage increase.
//
// Only categories present in both periods with a positive previous
// total qualify; the division is therefore always well defined. When
// nothing qualifies (no overlap, all changes non-positive, or no prior
// data) the second return is false — young accounts degrade to "no
// insight", never to an error or an infinity.
func TopMover(current, previous []CategoryTotal) (Insight, bool) {
	prev := make(map[string]int64, len(previous))
	for _, ct := range previous {
		prev[ct.Category] = ct.Total.Cents
	}

	var (
		best  Insight
		found bool
	)
	for _, ct := range current {
		before, ok := prev[ct.Category]
		if !ok || before <= 0 {
			continue
		}
		change := decimal.NewFromInt(ct.Total.Cents - before).
			Div(decimal.NewFromInt(before)).
			Mul(decimal.NewFromInt(100))
		if change.Sign() <= 0 {
			continue
		}
		if !found || change.GreaterThan(best.PercentChange) {
			best = Insight{Category: ct.Category, PercentChange: change}
			found = true
		}
	}
	return best, found
}
