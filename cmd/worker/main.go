// Package main is the entry point for the tillbox print worker. It drains
// the receipt print queue: renders queued jobs to PDF and stores them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tillbox/internal/domain/printing"
	"tillbox/internal/domain/transaction"
	"tillbox/internal/infrastructure/numerator"
	"tillbox/internal/infrastructure/storage/postgres"
	"tillbox/internal/infrastructure/storage/postgres/catalog_repo"
	"tillbox/internal/infrastructure/storage/postgres/document_repo"
	"tillbox/internal/infrastructure/storage/postgres/print_repo"
	"tillbox/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting tillbox print worker")

	// --- Database connection ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	// --- Dependencies ---
	productRepo := catalog_repo.NewProductRepo(txManager)
	transactionRepo := document_repo.NewTransactionRepo(txManager)
	transactionService := transaction.NewService(
		transactionRepo, productRepo, numerator.New(txManager), txManager)

	printRepo := print_repo.NewPrintJobRepo(txManager)

	renderer := printing.NewReceiptRenderer(printing.RendererConfig{
		StoreName:    getEnv("STORE_NAME", "Tillbox"),
		StoreAddress: getEnv("STORE_ADDRESS", ""),
	})

	codec, err := printing.NewDocumentCodec()
	if err != nil {
		log.Fatalw("failed to initialize document codec", "error", err)
	}

	workerCfg := printing.DefaultWorkerConfig()
	workerCfg.PollInterval = getEnvDuration("PRINT_POLL_INTERVAL", workerCfg.PollInterval)
	workerCfg.CleanupInterval = getEnvDuration("PRINT_CLEANUP_INTERVAL", workerCfg.CleanupInterval)
	workerCfg.BatchSize = getEnvInt("PRINT_BATCH_SIZE", workerCfg.BatchSize)

	worker := printing.NewWorker(
		printRepo, transactionService, renderer, codec, txManager, workerCfg, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
