// Command worker runs the background indexer. On a cron schedule it embeds
// pending artifact rows so the semantic search layer stays current, and it
// refreshes the index-size gauge for monitoring.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"relic-search/internal/handler/http/respond"
	pgRepo "relic-search/internal/infra/adapter/persistence/postgres"
	"relic-search/internal/infra/db"
	"relic-search/internal/infra/embedding"
	"relic-search/internal/observability/metrics"
	semanticUC "relic-search/internal/usecase/semantic"
	pkgconfig "relic-search/pkg/config"
)

func main() {
	_ = godotenv.Load()

	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Error("OPENAI_API_KEY must be set, the indexer has nothing to do without an embedder")
		os.Exit(1)
	}

	indexRepo := pgRepo.NewArtifactIndexRepo(database)
	semanticSvc := semanticUC.NewService(embedding.NewOpenAI(apiKey), indexRepo)

	startMetricsServer(ctx, logger, database)
	startCronWorker(ctx, logger, semanticSvc)
}

func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the connection pool and waits for the api binary's
// migrations to land.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

func waitForMigrations(logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM artifact_index LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

// startCronWorker schedules the indexing job and blocks until a shutdown
// signal arrives.
func startCronWorker(ctx context.Context, logger *slog.Logger, svc *semanticUC.Service) {
	schedule := pkgconfig.GetEnvString("INDEXER_SCHEDULE", "*/5 * * * *")
	batchSize := pkgconfig.GetEnvInt("INDEXER_BATCH_SIZE", 100)
	jobTimeout := pkgconfig.GetEnvDuration("INDEXER_JOB_TIMEOUT", 10*time.Minute)

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		runIndexJob(ctx, logger, svc, batchSize, jobTimeout)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	logger.Info("worker started",
		slog.String("schedule", schedule),
		slog.Int("batch_size", batchSize))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down worker...")

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("indexing job did not finish before shutdown deadline")
	}
	logger.Info("worker stopped")
}

// runIndexJob embeds one batch of pending artifacts and refreshes the
// index-size gauge.
func runIndexJob(ctx context.Context, logger *slog.Logger, svc *semanticUC.Service, batchSize int, timeout time.Duration) {
	start := time.Now()
	logger.Info("indexing run started")

	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	indexed, err := svc.IndexPending(jobCtx, batchSize)
	if err != nil {
		logger.Error("indexing run failed", slog.String("error", respond.SanitizeError(err)))
		metrics.RecordIndexerJob("failure", time.Since(start))
		return
	}

	if count, err := svc.Index.Count(jobCtx); err == nil {
		metrics.UpdateIndexedArtifacts(count)
	}

	metrics.RecordIndexerJob("success", time.Since(start))
	logger.Info("indexing run completed",
		slog.Int("indexed", indexed),
		slog.Duration("duration", time.Since(start)))
}
