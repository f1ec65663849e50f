package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	recipeports "github.com/carsmart/recipes-api/internal/domains/recipes/ports"
	recipeactivities "github.com/carsmart/recipes-api/internal/platform/temporal/activities/recipes"
)

// RunRecipePersistenceSequence executes the activities needed to persist a new recipe.
func RunRecipePersistenceSequence(ctx workflow.Context, input recipeports.CreateRecipeInput) (*domain.Recipe, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("recipe persistence sequence started")
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        2 * time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: recipeactivities.NonRetryableErrorTypes,
		},
	}

	var recipe domain.Recipe
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), recipeactivities.CreateRecipeActivityName, input).Get(ctx, &recipe)
	if err != nil {
		logger.Error("recipe persistence sequence failed", "error", err)
		return nil, err
	}
	logger.Info("recipe persistence sequence persisted", "recipeId", recipe.ID)
	return &recipe, nil
}
