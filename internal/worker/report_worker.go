// Package worker runs the scheduled monthly report job: on the
// configured cron schedule it closes the previous month for every
// owner and publishes one summary event per owner over AMQP.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/akashreddykandula/spendWise/internal/amqp"
	"github.com/akashreddykandula/spendWise/internal/services"
)

// SummaryPublisher is the slice of the AMQP client the worker needs.
type SummaryPublisher interface {
	PublishMonthlySummary(ctx context.Context, msg *amqp.MonthlySummaryMessage) error
}

type ReportWorker struct {
	service   *services.AnalyticsService
	publisher SummaryPublisher
	schedule  string
	cron      *cron.Cron
}

func NewReportWorker(service *services.AnalyticsService, publisher SummaryPublisher, schedule string) *ReportWorker {
	return &ReportWorker{
		service:   service,
		publisher: publisher,
		schedule:  schedule,
	}
}

// Start registers the cron entry and begins scheduling. The returned
// error only covers schedule parsing; job failures are logged.
func (w *ReportWorker) Start(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(w.schedule, func() {
		if err := w.RunOnce(ctx, time.Now()); err != nil {
			slog.ErrorContext(ctx, "Monthly report run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule report job: %w", err)
	}

	w.cron = c
	c.Start()
	slog.InfoContext(ctx, "Report worker started", "schedule", w.schedule)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (w *ReportWorker) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

// RunOnce generates and publishes the previous-month summary for every
// owner. One owner's failure does not stop the rest.
func (w *ReportWorker) RunOnce(ctx context.Context, now time.Time) error {
	owners, err := w.service.ListOwners(ctx)
	if err != nil {
		return fmt.Errorf("list owners: %w", err)
	}

	slog.InfoContext(ctx, "Generating monthly reports", "owners", len(owners))

	var failed int
	for _, owner := range owners {
		if err := w.reportOwner(ctx, owner, now); err != nil {
			slog.ErrorContext(ctx, "Failed to report owner",
				"owner", owner, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("monthly report run: %d of %d owners failed", failed, len(owners))
	}
	return nil
}

func (w *ReportWorker) reportOwner(ctx context.Context, owner string, now time.Time) error {
	summary, err := w.service.MonthlySummary(ctx, owner, now)
	if err != nil {
		return fmt.Errorf("compute summary: %w", err)
	}

	msg := &amqp.MonthlySummaryMessage{
		Owner:        owner,
		Year:         summary.Window.From.Year(),
		Month:        int(summary.Window.From.Month()),
		IncomeCents:  summary.TotalIncome.Cents,
		ExpenseCents: summary.TotalExpense.Cents,
		BalanceCents: summary.Balance.Cents,
		OverLimit:    summary.Budget.Overall.OverLimit,
		OverageCents: summary.Budget.Overall.Overage.Cents,
		GeneratedAt:  now,
	}
	if summary.HighestCategory != nil {
		msg.TopCategory = summary.HighestCategory.Category
	}

	if err := w.publisher.PublishMonthlySummary(ctx, msg); err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}

	slog.InfoContext(ctx, "Published monthly report",
		"owner", owner,
		"year", msg.Year,
		"month", msg.Month,
		"balance_cents", msg.BalanceCents,
		"over_limit", msg.OverLimit)
	return nil
}
