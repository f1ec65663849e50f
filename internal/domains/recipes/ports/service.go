package ports

import (
	"context"

	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
)

// CreateRecipeInput is the create command. IdempotencyKey is optional.
type CreateRecipeInput struct {
	Draft          domain.Draft
	IdempotencyKey string
}

// Service exposes recipe use cases to adapters.
type Service interface {
	ListRecipes(ctx context.Context) ([]*domain.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error)
	CreateRecipe(ctx context.Context, input CreateRecipeInput) (*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, id int64, draft domain.Draft) (*domain.Recipe, error)
	DeleteRecipe(ctx context.Context, id int64) error
}
