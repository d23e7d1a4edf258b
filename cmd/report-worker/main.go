package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/akashreddykandula/spendWise/internal/amqp"
	"github.com/akashreddykandula/spendWise/internal/backend"
	"github.com/akashreddykandula/spendWise/internal/config"
	applog "github.com/akashreddykandula/spendWise/internal/log"
	"github.com/akashreddykandula/spendWise/internal/services"
	"github.com/akashreddykandula/spendWise/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting report-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the report worker")
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration failed", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	// The worker reads each owner once per run; no cache needed.
	service := services.NewAnalyticsService(result.Backend, result.Backend, services.Options{
		TrendMonths: cfg.TrendMonths,
	})

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reportWorker := worker.NewReportWorker(service, amqpClient, cfg.ReportSchedule)
	if err := reportWorker.Start(ctx); err != nil {
		logger.Error("Failed to start report worker", "error", err, "schedule", cfg.ReportSchedule)
		os.Exit(1)
	}
	defer reportWorker.Stop()

	logger.Info("Report worker started", "schedule", cfg.ReportSchedule, "queue", cfg.AMQPQueue)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())
}
