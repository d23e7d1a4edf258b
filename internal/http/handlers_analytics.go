package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/akashreddykandula/spendWise/internal/analytics"
	"github.com/akashreddykandula/spendWise/internal/services"
)

type categoryTotalDTO struct {
	Category   string `json:"category"`
	TotalCents int64  `json:"totalCents"`
}

type dayTotalDTO struct {
	Date       string `json:"date"`
	TotalCents int64  `json:"totalCents"`
}

type overspendStatusDTO struct {
	OverLimit    bool  `json:"overLimit"`
	OverageCents int64 `json:"overageCents"`
	LimitCents   int64 `json:"limitCents"`
}

type categoryOverspendDTO struct {
	Category     string `json:"category"`
	SpentCents   int64  `json:"spentCents"`
	OverLimit    bool   `json:"overLimit"`
	OverageCents int64  `json:"overageCents"`
	LimitCents   int64  `json:"limitCents"`
	Utilization  string `json:"utilizationPct"`
}

type budgetReportDTO struct {
	Overall    overspendStatusDTO     `json:"overall"`
	Categories []categoryOverspendDTO `json:"categories"`
}

type overviewResponse struct {
	Owner             string             `json:"owner"`
	From              time.Time          `json:"from"`
	To                time.Time          `json:"to"`
	TotalIncomeCents  int64              `json:"totalIncomeCents"`
	TotalExpenseCents int64              `json:"totalExpenseCents"`
	BalanceCents      int64              `json:"balanceCents"`
	ByCategory        []categoryTotalDTO `json:"byCategory"`
	ByDay             []dayTotalDTO      `json:"byDay"`
	HighestCategory   *categoryTotalDTO  `json:"highestCategory,omitempty"`
	Budget            budgetReportDTO    `json:"budget"`
}

type periodTotalsDTO struct {
	IncomeCents  int64 `json:"incomeCents"`
	ExpenseCents int64 `json:"expenseCents"`
}

type timelinePointDTO struct {
	Date         string `json:"date"`
	IncomeCents  int64  `json:"incomeCents"`
	ExpenseCents int64  `json:"expenseCents"`
}

type trendPointDTO struct {
	Label        string `json:"label"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	IncomeCents  int64  `json:"incomeCents"`
	ExpenseCents int64  `json:"expenseCents"`
	SavingsCents int64  `json:"savingsCents"`
}

type insightDTO struct {
	Category      string `json:"category"`
	PercentChange string `json:"percentChange"`
}

type advancedResponse struct {
	Owner      string `json:"owner"`
	Comparison struct {
		Month periodTotalsDTO `json:"month"`
		Year  periodTotalsDTO `json:"year"`
	} `json:"comparison"`
	Timeline  []timelinePointDTO `json:"timeline"`
	Trend     []trendPointDTO    `json:"trend"`
	Insight   *insightDTO        `json:"insight,omitempty"`
	Overspend budgetReportDTO    `json:"overspend"`
}

type trendResponse struct {
	Owner string          `json:"owner"`
	Trend []trendPointDTO `json:"trend"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "missing "+OwnerHeader+" header")
		return
	}

	window, ok, msg := parseWindow(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ov, err := s.service.Overview(r.Context(), owner, window)
	if err != nil {
		slog.ErrorContext(r.Context(), "Overview failed", "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute overview")
		return
	}

	writeJSON(w, http.StatusOK, toOverviewResponse(ov))
}

func (s *Server) handleAdvanced(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "missing "+OwnerHeader+" header")
		return
	}

	adv, err := s.service.Advanced(r.Context(), owner)
	if err != nil {
		slog.ErrorContext(r.Context(), "Advanced analytics failed", "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute advanced analytics")
		return
	}

	resp := advancedResponse{
		Owner:     adv.Owner,
		Timeline:  toTimelineDTO(adv.Timeline),
		Trend:     toTrendDTO(adv.Trend),
		Overspend: toBudgetReportDTO(adv.Overspend),
	}
	resp.Comparison.Month = periodTotalsDTO{
		IncomeCents:  adv.Comparison.Month.Income.Cents,
		ExpenseCents: adv.Comparison.Month.Expense.Cents,
	}
	resp.Comparison.Year = periodTotalsDTO{
		IncomeCents:  adv.Comparison.Year.Income.Cents,
		ExpenseCents: adv.Comparison.Year.Expense.Cents,
	}
	if adv.Insight != nil {
		resp.Insight = &insightDTO{
			Category:      adv.Insight.Category,
			PercentChange: adv.Insight.PercentChange.String(),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	owner := ownerFromRequest(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "missing "+OwnerHeader+" header")
		return
	}

	series, err := s.service.Trend(r.Context(), owner)
	if err != nil {
		slog.ErrorContext(r.Context(), "Trend failed", "owner", owner, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute trend")
		return
	}

	writeJSON(w, http.StatusOK, trendResponse{Owner: owner, Trend: toTrendDTO(series)})
}

func toOverviewResponse(ov services.Overview) overviewResponse {
	resp := overviewResponse{
		Owner:             ov.Owner,
		From:              ov.Window.From,
		To:                ov.Window.To,
		TotalIncomeCents:  ov.TotalIncome.Cents,
		TotalExpenseCents: ov.TotalExpense.Cents,
		BalanceCents:      ov.Balance.Cents,
		ByCategory:        make([]categoryTotalDTO, 0, len(ov.ByCategory)),
		ByDay:             make([]dayTotalDTO, 0, len(ov.ByDay)),
		Budget:            toBudgetReportDTO(ov.Budget),
	}
	for _, ct := range ov.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryTotalDTO{Category: ct.Category, TotalCents: ct.Total.Cents})
	}
	for _, dt := range ov.ByDay {
		resp.ByDay = append(resp.ByDay, dayTotalDTO{Date: dt.Date.Format("2006-01-02"), TotalCents: dt.Total.Cents})
	}
	if ov.HighestCategory != nil {
		resp.HighestCategory = &categoryTotalDTO{
			Category:   ov.HighestCategory.Category,
			TotalCents: ov.HighestCategory.Total.Cents,
		}
	}
	return resp
}

func toBudgetReportDTO(report analytics.OverspendReport) budgetReportDTO {
	dto := budgetReportDTO{
		Overall: overspendStatusDTO{
			OverLimit:    report.Overall.OverLimit,
			OverageCents: report.Overall.Overage.Cents,
			LimitCents:   report.Overall.Limit.Cents,
		},
		Categories: make([]categoryOverspendDTO, 0, len(report.Categories)),
	}
	for _, c := range report.Categories {
		dto.Categories = append(dto.Categories, categoryOverspendDTO{
			Category:     c.Category,
			SpentCents:   c.Spent.Cents,
			OverLimit:    c.OverLimit,
			OverageCents: c.Overage.Cents,
			LimitCents:   c.Limit.Cents,
			Utilization:  analytics.Utilization(c.Spent, c.Limit).String(),
		})
	}
	return dto
}

func toTimelineDTO(points []analytics.TimelinePoint) []timelinePointDTO {
	out := make([]timelinePointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, timelinePointDTO{
			Date:         p.Date.Format("2006-01-02"),
			IncomeCents:  p.Income.Cents,
			ExpenseCents: p.Expense.Cents,
		})
	}
	return out
}

func toTrendDTO(series analytics.TrendSeries) []trendPointDTO {
	out := make([]trendPointDTO, 0, len(series))
	for _, p := range series {
		out = append(out, trendPointDTO{
			Label:        p.Label,
			Year:         p.Year,
			Month:        int(p.Month),
			IncomeCents:  p.Income.Cents,
			ExpenseCents: p.Expense.Cents,
			SavingsCents: p.Savings.Cents,
		})
	}
	return out
}
