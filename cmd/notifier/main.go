// The notifier consumes monthly summary messages and writes them to
// the log. It stands in for a real delivery channel (mail, chat); the
// queue contract is the same either way.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/akashreddykandula/spendWise/internal/amqp"
	"github.com/akashreddykandula/spendWise/internal/config"
	applog "github.com/akashreddykandula/spendWise/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting notifier")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notifier")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	err = amqpClient.ConsumeMonthlySummaries(ctx, func(msg *amqp.MonthlySummaryMessage) error {
		logger.Info("Monthly summary received",
			"owner", msg.Owner,
			"year", msg.Year,
			"month", msg.Month,
			"income_cents", msg.IncomeCents,
			"expense_cents", msg.ExpenseCents,
			"balance_cents", msg.BalanceCents,
			"over_limit", msg.OverLimit,
			"overage_cents", msg.OverageCents,
			"top_category", msg.TopCategory)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Summary consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Notifier stopped gracefully")
}
