// Command api runs the museum artifact search HTTP server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"relic-search/internal/config"
	hhttp "relic-search/internal/handler/http"
	"relic-search/internal/handler/http/auth"
	colHandler "relic-search/internal/handler/http/collection"
	ingestHandler "relic-search/internal/handler/http/ingest"
	metaHandler "relic-search/internal/handler/http/meta"
	"relic-search/internal/handler/http/requestid"
	scrapeHandler "relic-search/internal/handler/http/scrape"
	searchHandler "relic-search/internal/handler/http/search"
	pgRepo "relic-search/internal/infra/adapter/persistence/postgres"
	"relic-search/internal/infra/db"
	"relic-search/internal/infra/embedding"
	"relic-search/internal/infra/fetcher"
	"relic-search/internal/infra/summarizer"
	"relic-search/internal/museum"
	"relic-search/internal/observability/tracing"
	colUC "relic-search/internal/usecase/collection"
	ingestUC "relic-search/internal/usecase/ingest"
	scrapeUC "relic-search/internal/usecase/scrape"
	searchUC "relic-search/internal/usecase/search"
	semanticUC "relic-search/internal/usecase/semantic"
	pkgconfig "relic-search/pkg/config"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := initLogger()
	validateJWTSecret(logger)

	appCfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	version := getVersion()
	handler := setupServer(logger, database, appCfg, version)

	runServer(logger, handler, version)
}

// initLogger initializes the structured JSON logger and installs it as the
// process default.
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

// validateJWTSecret refuses to start with a missing, short, or well-known
// JWT secret.
func validateJWTSecret(logger *slog.Logger) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Error("JWT_SECRET must be set")
		os.Exit(1)
	}
	if len(secret) < 32 {
		logger.Error("JWT_SECRET must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	weakSecrets := []string{"secret", "password", "test", "admin", "default"}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			logger.Error("JWT_SECRET must not be a common weak value", slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
}

// initDatabase opens the connection pool and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer wires the adapters, use cases, routes, and middleware chain.
func setupServer(logger *slog.Logger, database *sql.DB, appCfg *config.AppConfig, version string) http.Handler {
	registry := museum.NewRegistry(buildAdapters(logger)...)
	searchSvc := searchUC.NewService(registry)

	indexRepo := pgRepo.NewArtifactIndexRepo(database)
	semanticSvc := semanticUC.NewService(buildEmbedder(logger), indexRepo)
	ingestSvc := ingestUC.NewService(indexRepo)

	collectionSvc := colUC.NewService(pgRepo.NewCollectionRepo(database))

	scrapeSvc := buildScrapeService(logger, appCfg)

	mux := http.NewServeMux()

	// Public endpoints stay outside the API rate limiter's stricter
	// auth-token bucket.
	authLimiter := hhttp.NewRateLimiter(0.2, 5)
	mux.Handle("POST /auth/token", authLimiter.Limit(auth.TokenHandler()))

	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Version: version, Semantic: semanticSvc})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	searchHandler.Register(mux, searchSvc, semanticSvc, appCfg.Search)
	metaHandler.Register(mux, registry)
	colHandler.Register(mux, collectionSvc)
	scrapeHandler.Register(mux, scrapeSvc)
	ingestHandler.Register(mux, ingestSvc)

	return applyMiddleware(logger, mux)
}

// buildAdapters creates the museum source adapters. Sources needing an API
// key are skipped when the key is absent.
func buildAdapters(logger *slog.Logger) []museum.Adapter {
	adapters := []museum.Adapter{
		museum.NewMet(museum.NewClient(museum.DefaultClientConfig("met")), ""),
		museum.NewVA(museum.NewClient(museum.DefaultClientConfig("va")), ""),
		museum.NewCleveland(museum.NewClient(museum.DefaultClientConfig("cleveland")), ""),
	}

	if apiKey := os.Getenv("SMITHSONIAN_API_KEY"); apiKey != "" {
		adapters = append(adapters,
			museum.NewSmithsonian(museum.NewClient(museum.DefaultClientConfig("smithsonian")), "", apiKey))
	} else {
		logger.Info("SMITHSONIAN_API_KEY not set, smithsonian source disabled")
	}

	return adapters
}

// buildEmbedder returns the OpenAI embedder when configured, otherwise the
// no-op embedder that disables semantic re-ranking.
func buildEmbedder(logger *slog.Logger) semanticUC.Embedder {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Info("OPENAI_API_KEY not set, semantic search disabled")
		return nil
	}
	return embedding.NewOpenAI(apiKey)
}

// buildScrapeService wires the page fetcher, the optional Claude
// summarizer, and the scrape allow-list.
func buildScrapeService(logger *slog.Logger, appCfg *config.AppConfig) *scrapeUC.Service {
	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("invalid page fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var sum scrapeUC.Summarizer
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		sum = summarizer.NewClaude(apiKey)
	} else {
		logger.Info("ANTHROPIC_API_KEY not set, scrape descriptions use page metadata only")
		sum = &summarizer.NoOp{}
	}

	return scrapeUC.NewService(
		fetcher.NewReadabilityFetcher(fetchCfg),
		sum,
		appCfg.Scrape.AllowedDomains,
	)
}

// applyMiddleware builds the shared middleware chain. Listed here from
// innermost to outermost.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	requestTimeout := pkgconfig.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second)
	rps := pkgconfig.GetEnvInt("RATE_LIMIT_RPS", 10)
	burst := pkgconfig.GetEnvInt("RATE_LIMIT_BURST", 20)
	ipLimiter := hhttp.NewRateLimiter(float64(rps), burst)

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain)
	chain = hhttp.Timeout(requestTimeout)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = ipLimiter.Limit(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := pkgconfig.GetEnvString("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
