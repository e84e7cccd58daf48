package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finlite/internal/amqp"
	"finlite/internal/config"
	apphttp "finlite/internal/http"
	"finlite/internal/log"
	"finlite/internal/services"
	"finlite/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting finlite server")

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

	// AMQP feeds the spreadsheet mirror via finlite-worker; without a broker
	// the server runs in SQLite-only mode.
	var publisher services.LedgerPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized - records will sync via finlite-worker")
		}
	} else {
		logger.Info("AMQP disabled - records will not sync to the ledger mirror")
	}

	entries := services.NewEntryService(repo, publisher)
	applier := services.NewRecurringApplier(repo, publisher)
	budget := services.NewBudgetCalculator(repo)

	// Materialize this month's recurring entries before serving. Repeated
	// starts within one month are no-ops.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	result, err := applier.Apply(startupCtx, time.Now())
	startupCancel()
	switch {
	case err != nil:
		logger.Error("Startup recurring application failed", "error", err)
	case result.AlreadyApplied:
		logger.Info("Recurring entries already applied", "period", result.Period.String())
	default:
		logger.Info("Recurring entries applied",
			"period", result.Period.String(),
			"incomes_created", result.IncomesCreated,
			"expenses_created", result.ExpensesCreated,
			"warnings", len(result.Warnings))
	}

	srv := apphttp.NewServer(":"+cfg.Port, repo, repo, entries, applier, budget)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting finlite server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
