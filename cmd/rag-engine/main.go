// cmd/rag-engine/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"contractor-rag/internal/common/config"
	"contractor-rag/internal/common/database"
	"contractor-rag/internal/common/logger"
	"contractor-rag/internal/rag/engine"
	"contractor-rag/internal/rag/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting RAG scoring engine...",
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	pgStore := store.NewPostgresStore(pg.DB)
	scoreCache := store.NewScoreCache(redis.Client, cfg.Scoring.CacheTTL)

	ragEngine := engine.New(&engine.Config{
		Weights:           cfg.Scoring.Weights,
		BatchConcurrency:  cfg.Scoring.BatchConcurrency,
		ContractorTimeout: cfg.Scoring.ContractorTimeout,
		HistoryRetries:    cfg.Scoring.HistoryRetries,
		RankingLimit:      cfg.Scoring.RankingLimit,
	}, pgStore, scoreCache, log)

	// --- Metrics and health endpoints ---
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		if err := pg.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["postgres"] = err.Error()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	})

	metricsServer := &http.Server{
		Addr:    cfg.Server.MetricsAddress,
		Handler: mux,
	}
	go func() {
		zapLog.Info("metrics listener started", zap.String("address", cfg.Server.MetricsAddress))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics listener failed", zap.Error(err))
		}
	}()

	// --- Periodic bulk refresh ---
	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	if cfg.Scoring.RefreshInterval > 0 {
		go runRefreshLoop(refreshCtx, ragEngine, pgStore, cfg.Scoring.RefreshInterval, log)
	}

	// --- Graceful shutdown ---
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLog.Info("Shutting down...")
	cancelRefresh()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("metrics listener shutdown failed", zap.Error(err))
	}
}

// runRefreshLoop recomputes and persists every eligible contractor's
// rating on a fixed interval. Partial failure is expected and logged,
// never fatal.
func runRefreshLoop(ctx context.Context, ragEngine *engine.Engine, pgStore *store.PostgresStore, interval time.Duration, log logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			contractors, err := pgStore.ListContractors(ctx)
			if err != nil {
				log.Error("refresh: contractor listing failed", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}

			ids := make([]string, 0, len(contractors))
			for _, c := range contractors {
				ids = append(ids, c.ID)
			}

			report := ragEngine.BulkUpdateRAGScores(ctx, ids)
			log.Info("bulk refresh complete", map[string]interface{}{
				"succeeded": len(report.Succeeded),
				"failed":    len(report.Failed),
			})
		}
	}
}
