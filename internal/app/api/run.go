package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	recipeserver "github.com/carsmart/recipes-api/go"

	recipememory "github.com/carsmart/recipes-api/internal/domains/recipes/adapters/memory"
	recipeobs "github.com/carsmart/recipes-api/internal/domains/recipes/adapters/observability"
	recipepostgres "github.com/carsmart/recipes-api/internal/domains/recipes/adapters/persistence/postgres"
	recipeworkflows "github.com/carsmart/recipes-api/internal/domains/recipes/adapters/workflows"
	recipeapp "github.com/carsmart/recipes-api/internal/domains/recipes/application"
	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	recipeports "github.com/carsmart/recipes-api/internal/domains/recipes/ports"
	"github.com/carsmart/recipes-api/internal/platform/migrations"
	platformobservability "github.com/carsmart/recipes-api/internal/platform/observability"
	platformpostgres "github.com/carsmart/recipes-api/internal/platform/postgres"
	"github.com/carsmart/recipes-api/internal/platform/ratelimit"
)

const serviceName = "recipes-api"

// Run boots the recipes HTTP API with observability, storage, and workflows wired.
// It returns once ctx is cancelled and the server has drained, or when the listener fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithLogLevel(platformobservability.ParseLevel(cfg.LogLevel)),
		platformobservability.WithEnvironment(cfg.Environment),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectDSN(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	repo, err := buildRecipeRepository(ctx, db, cfg.SeedSampleRecipes, logger)
	if err != nil {
		return err
	}

	coreRecipeService := recipeapp.NewService(repo)
	recipeService := recipeobs.New(
		coreRecipeService,
		recipeobs.WithLogger(logger),
		recipeobs.WithTracer(instruments.Tracer("internal.recipes.application")),
		recipeobs.WithMeter(instruments.Meter("internal.recipes.application")),
	)
	var recipeWorkflows recipeports.WorkflowOrchestrator = recipeworkflows.NewInlineRecipeWorkflows(recipeService)
	if temporalClient, err := connectTemporalClient(cfg, db, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, creating recipes inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		recipeWorkflows = recipeworkflows.NewTemporalRecipeWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	middleware := []gin.HandlerFunc{otelgin.Middleware(serviceName), requestLogger(logger)}
	limiter, cleanupLimiter := buildRateLimiter(ctx, cfg, logger)
	defer cleanupLimiter()
	if limiter != nil {
		middleware = append(middleware, limiter)
	}

	handlers := recipeserver.ApiHandleFunctions{
		RecipeAPI: recipeserver.NewRecipeAPI(recipeService, recipeWorkflows),
	}
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           NewEngine(handlers, middleware...),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, server, logger)
}

// NewEngine builds the gin engine with middleware registered ahead of the routes.
func NewEngine(handlers recipeserver.ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware...)
	return recipeserver.NewRouterWithGinEngine(engine, handlers)
}

func serve(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("recipes API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("recipes API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("recipes API shutting down", slog.String("addr", server.Addr))
	return server.Shutdown(shutdownCtx)
}

// recipeRepository is the storage port plus the seeding both adapters offer.
type recipeRepository interface {
	recipeports.Repository
	Seed(ctx context.Context, recipes ...domain.Recipe) error
}

// buildRecipeRepository selects PostgreSQL when a connection is available and the in-memory store otherwise.
func buildRecipeRepository(ctx context.Context, db *gorm.DB, seed bool, logger *slog.Logger) (recipeRepository, error) {
	var repo recipeRepository
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return nil, fmt.Errorf("failed to migrate recipe schema: %w", err)
		}
		repo = recipepostgres.NewRepository(db)
		logger.Info("recipe repository configured with postgres")
	} else {
		repo = recipememory.NewRepository()
		logger.Info("recipe repository configured in memory")
	}
	if seed {
		samples := domain.SampleRecipes()
		if err := repo.Seed(ctx, samples...); err != nil {
			return nil, fmt.Errorf("failed to seed sample recipes: %w", err)
		}
		logger.Info("sample recipes seeded", slog.Int("count", len(samples)))
	}
	return repo, nil
}

func buildRateLimiter(ctx context.Context, cfg Config, logger *slog.Logger) (gin.HandlerFunc, func()) {
	if !cfg.RateLimitEnabled() {
		return nil, func() {}
	}
	store := ratelimit.NewStore(cfg.RateLimitRPS, cfg.RateLimitBurst)
	store.StartJanitor(ctx)

	var stats ratelimit.StatsRecorder = ratelimit.NewMemoryStats()
	cleanup := func() {}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, keeping rate limit stats in memory", slog.String("error", err.Error()))
			_ = rdb.Close()
		} else {
			stats = ratelimit.NewRedisStats(rdb)
			cleanup = func() { _ = rdb.Close() }
			logger.Info("rate limit stats recorded in redis", slog.String("addr", cfg.RedisAddr))
		}
	}
	logger.Info("rate limiting enabled",
		slog.Float64("rps", cfg.RateLimitRPS),
		slog.Int("burst", cfg.RateLimitBurst),
	)
	return ratelimit.Middleware(ratelimit.Options{
		Store:      store,
		Stats:      stats,
		Logger:     logger,
		KeyHeader:  cfg.RateLimitKeyHeader,
		RetryAfter: time.Duration(float64(time.Second) / cfg.RateLimitRPS),
	}), cleanup
}

// connectTemporalClient dials Temporal only when the recipe store is shared with the worker.
func connectTemporalClient(cfg Config, db *gorm.DB, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	if db == nil {
		return nil, errors.New("temporal workflows need the postgres recipe store shared with the worker")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoContext(c.Request.Context(), "http request",
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
