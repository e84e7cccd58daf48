package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finlite/internal/amqp"
	"finlite/internal/config"
	"finlite/internal/export"
	"finlite/internal/log"
	"finlite/internal/services"
	"finlite/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := log.New(log.Config{Component: log.ComponentApplier})
	log.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP lets materialized records reach the ledger mirror via
	// finlite-worker.
	var publisher services.LedgerPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized - materialized records will sync via finlite-worker")
		}
	} else {
		logger.Info("AMQP disabled - materialized records will not sync to the ledger mirror")
	}

	applier := services.NewRecurringApplier(repo, publisher)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Recurring applier configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	apply := func(now time.Time) {
		result, err := applier.Apply(ctx, now)
		if err != nil {
			logger.Error("Recurring application failed", "error", err)
			return
		}
		if result.AlreadyApplied {
			logger.Info("Recurring entries already applied", "period", result.Period.String())
			return
		}
		logger.Info("Recurring entries applied",
			"period", result.Period.String(),
			"incomes_created", result.IncomesCreated,
			"expenses_created", result.ExpensesCreated,
			"warnings", len(result.Warnings))

		// Refresh the on-disk JSON snapshot after each materialization.
		if cfg.ExportPath != "" {
			if err := export.WriteFile(ctx, repo, cfg.ExportPath); err != nil {
				logger.Error("Snapshot export failed", "error", err, "path", cfg.ExportPath)
			} else {
				logger.Info("Snapshot exported", "path", cfg.ExportPath)
			}
		}
	}

	// Run initial application on startup; the once-per-month guard makes
	// this safe to repeat.
	logger.Info("Running initial recurring application...")
	apply(time.Now())

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				apply(now)
			}
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down recurring-worker...")
	cancel()

	// Give the in-flight run a moment to finish.
	time.Sleep(2 * time.Second)
	logger.Info("Recurring-worker shutdown complete")
}
