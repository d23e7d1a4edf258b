package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/akashreddykandula/spendWise/internal/core"
)

type (
	// OverspendStatus flags an aggregate expense total against one
	// limit. A limit of zero means "no limit" and never flags.
	OverspendStatus struct {
		OverLimit bool
		Overage   core.Money
		Limit     core.Money
	}

	// CategoryOverspend is the per-category counterpart.
	CategoryOverspend struct {
		Category string
		Spent    core.Money
		OverspendStatus
	}

	// OverspendReport combines the overall monthly evaluation with the
	// per-category evaluations. Categories without a configured limit
	// never appear: that is the contract, not an omission.
	OverspendReport struct {
		Overall    OverspendStatus
		Categories []CategoryOverspend
	}
)

// Evaluate compares an aggregate against the owner's budget. A missing
// budget is represented by the zero Budget, which configures no limits
// and flags nothing.
func Evaluate(res AggregateResult, budget core.Budget) OverspendReport {
	report := OverspendReport{
		Overall: evaluateLimit(res.TotalExpense, budget.Monthly),
	}
	for _, ct := range res.ByCategory {
		limit, ok := budget.Limit(ct.Category)
		if !ok || limit.Cents == 0 {
			continue
		}
		report.Categories = append(report.Categories, CategoryOverspend{
			Category:        ct.Category,
			Spent:           ct.Total,
			OverspendStatus: evaluateLimit(ct.Total, limit),
		})
	}
	return report
}

func evaluateLimit(spent, limit core.Money) OverspendStatus {
	status := OverspendStatus{Limit: limit}
	if limit.Cents > 0 && spent.Cents > limit.Cents {
		status.OverLimit = true
		status.Overage = spent.Sub(limit)
	}
	return status
}

// Utilization returns spent/limit as a percentage, exact to two decimal
// places. A zero limit yields zero rather than a division error.
func Utilization(spent, limit core.Money) decimal.Decimal {
	if limit.Cents == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(spent.Cents).
		Div(decimal.NewFromInt(limit.Cents)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
