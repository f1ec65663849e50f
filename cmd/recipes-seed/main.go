package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	recipepostgres "github.com/carsmart/recipes-api/internal/domains/recipes/adapters/persistence/postgres"
	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	"github.com/carsmart/recipes-api/internal/platform/migrations"
	platformpostgres "github.com/carsmart/recipes-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot seed recipes")
	}
	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to migrate recipe schema: %v", err)
	}

	samples := domain.SampleRecipes()
	if err := recipepostgres.NewRepository(db).Seed(ctx, samples...); err != nil {
		log.Fatalf("failed to seed recipes: %v", err)
	}
	logger.Info("recipe seed completed", slog.Int("count", len(samples)))
}
