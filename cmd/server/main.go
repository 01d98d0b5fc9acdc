// Package main is the entry point for the ONG Hub API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"onghub/internal/domain/auth"
	v1 "onghub/internal/infrastructure/http/v1"
	"onghub/internal/infrastructure/http/v1/handlers"
	"onghub/internal/infrastructure/metrics"
	"onghub/internal/infrastructure/storage/postgres"
	"onghub/pkg/logger"
)

func main() {
	env := getEnv("APP_ENV", "development")
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: env == "development",
		Service:     "onghub-api",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting onghub server", "env", env)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	poolCfg.MaxConns = int32(getEnvInt("DB_MAX_CONNS", 25))
	poolCfg.ConnectMaxElapsed = getEnvDuration("DB_CONNECT_MAX_ELAPSED", 30*time.Second)

	pool, err := postgres.Connect(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if getEnv("DB_MIGRATE", "true") == "true" {
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}
	}
	metrics.RegisterPool(pool.Unwrap())

	// --- Services ---
	svc, err := buildServices(ctx, config{
		Pool:             pool,
		ANAFURL:          getEnv("ANAF_URL", ""),
		ANAFTimeout:      getEnvDuration("ANAF_TIMEOUT", 10*time.Second),
		RedisURL:         getEnv("REDIS_URL", ""),
		NomenclatureTTL:  getEnvDuration("NOMENCLATURE_CACHE_TTL", time.Hour),
		HistoryThreshold: getEnvInt("HISTORY_COMPRESS_THRESHOLD", postgres.DefaultCompressThreshold),
	})
	if err != nil {
		log.Fatalw("failed to build services", "error", err)
	}
	defer svc.Close()

	// --- JWT ---
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))

	// --- Router ---
	mode := gin.ReleaseMode
	if env == "development" {
		mode = gin.DebugMode
	}
	checks := []handlers.HealthCheck{{Name: "database", Pinger: pool}}
	if svc.Redis != nil {
		checks = append(checks, handlers.HealthCheck{Name: "redis", Pinger: svc.Redis})
	}
	router := v1.NewRouter(v1.RouterConfig{
		Mode:           mode,
		Logger:         log,
		TokenValidator: jwtService,
		Organizations:  svc.Organizations,
		Applications:   svc.Applications,
		Feedback:       svc.Feedback,
		Nomenclature:   svc.Nomenclature,
		HealthChecks:   checks,
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

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	postgres.LogPoolStats(ctx, pool.Unwrap())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
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
