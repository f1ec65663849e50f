package ports

import (
	"context"

	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
)

// WorkflowOrchestrator runs recipe creation, either inline or on a durable engine.
type WorkflowOrchestrator interface {
	CreateRecipe(ctx context.Context, input CreateRecipeInput) (*domain.Recipe, error)
}
