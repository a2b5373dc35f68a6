// Package main is the entry point for the tillbox API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tillbox/internal/domain/auth"
	"tillbox/internal/domain/printing"
	v1 "tillbox/internal/infrastructure/http/v1"
	"tillbox/internal/infrastructure/http/v1/middleware"
	"tillbox/internal/infrastructure/numerator"
	"tillbox/internal/infrastructure/storage/postgres"
	"tillbox/internal/infrastructure/storage/postgres/auth_repo"
	"tillbox/pkg/logger"
)

const version = "0.1.0"

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting tillbox server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	poolCfg.MaxConns = int32(getEnvInt("DB_MAX_CONNS", int(poolCfg.MaxConns)))
	poolCfg.MinConns = int32(getEnvInt("DB_MIN_CONNS", int(poolCfg.MinConns)))

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- JWT Service ---
	jwtConfig := auth.DefaultJWTConfig(getEnv("JWT_SECRET", "change-me-in-production"))
	jwtConfig.AccessTokenTTL = getEnvDuration("JWT_TTL", jwtConfig.AccessTokenTTL)
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Auth Service ---
	userRepo := auth_repo.NewUserRepo(txManager)
	authService := auth.NewService(userRepo, jwtService, auth.DefaultServiceConfig())

	// --- Numerator ---
	numeratorService := numerator.New(txManager)

	// --- Print document codec ---
	printCodec, err := printing.NewDocumentCodec()
	if err != nil {
		log.Fatalw("failed to initialize document codec", "error", err)
	}

	// --- Metrics ---
	metrics := middleware.NewMetrics()

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		TxManager:    txManager,
		Logger:       log,
		JWTValidator: jwtService,
		AuthService:  authService,
		Numerator:    numeratorService,
		PrintCodec:   printCodec,
		Metrics:      metrics,
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "")),
		Version:      version,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port, "version", version)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
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

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
