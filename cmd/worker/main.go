package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	recipeobs "github.com/carsmart/recipes-api/internal/domains/recipes/adapters/observability"
	recipepostgres "github.com/carsmart/recipes-api/internal/domains/recipes/adapters/persistence/postgres"
	recipeapp "github.com/carsmart/recipes-api/internal/domains/recipes/application"
	"github.com/carsmart/recipes-api/internal/platform/migrations"
	platformobservability "github.com/carsmart/recipes-api/internal/platform/observability"
	platformpostgres "github.com/carsmart/recipes-api/internal/platform/postgres"
	recipeactivities "github.com/carsmart/recipes-api/internal/platform/temporal/activities/recipes"
	recipeworkflows "github.com/carsmart/recipes-api/internal/platform/temporal/workflows/recipes"
)

func main() {
	ctx := context.Background()
	const serviceName = "recipes-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithLogLevel(platformobservability.ParseLevel(os.Getenv("LOG_LEVEL"))),
	)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	// The worker writes to the same store the API reads, so postgres is mandatory here.
	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db == nil {
		logger.Error("recipes worker requires POSTGRES_DSN")
		os.Exit(1)
	}
	if err := migrations.Run(db); err != nil {
		logger.Error("failed to migrate recipe schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
	recipeService := recipeobs.New(
		recipeapp.NewService(recipepostgres.NewRepository(db)),
		recipeobs.WithLogger(logger),
		recipeobs.WithTracer(instruments.Tracer("internal.recipes.application")),
		recipeobs.WithMeter(instruments.Meter("internal.recipes.application")),
	)
	recipeActivities := recipeactivities.NewActivities(recipeService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, recipeworkflows.RecipeCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(recipeworkflows.RecipeCreationWorkflow, workflow.RegisterOptions{Name: recipeworkflows.RecipeCreationWorkflowName})
	w.RegisterActivityWithOptions(recipeActivities.CreateRecipe, activity.RegisterOptions{Name: recipeactivities.CreateRecipeActivityName})

	logger.Info("worker listening", slog.String("taskQueue", recipeworkflows.RecipeCreationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
