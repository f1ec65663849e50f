package recipes

import (
	"strings"

	"go.temporal.io/sdk/workflow"

	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	recipeports "github.com/carsmart/recipes-api/internal/domains/recipes/ports"
	"github.com/carsmart/recipes-api/internal/platform/temporal/sequences"
)

const (
	// RecipeCreationWorkflowName is the public identifier for registering the workflow.
	RecipeCreationWorkflowName = "recipes.workflows.Creation"
	// RecipeCreationTaskQueue is the queue consumed by the worker processing recipe workflows.
	RecipeCreationTaskQueue = "RECIPE_CREATION"
)

// RecipeCreationWorkflowInput captures the payload required to create a recipe.
type RecipeCreationWorkflowInput struct {
	Command recipeports.CreateRecipeInput
	TraceID string
}

// RecipeCreationWorkflow orchestrates the activities needed to persist a recipe.
func RecipeCreationWorkflow(ctx workflow.Context, input RecipeCreationWorkflowInput) (*domain.Recipe, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("RecipeCreationWorkflow started", withTraceID(input.TraceID)...)
	command := input.Command
	if strings.TrimSpace(command.IdempotencyKey) == "" {
		// Activity retries must find the row a lost-acknowledgement attempt committed.
		command.IdempotencyKey = workflow.GetInfo(ctx).WorkflowExecution.ID
	}
	recipe, err := sequences.RunRecipePersistenceSequence(ctx, command)
	if err != nil {
		logger.Error("RecipeCreationWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("RecipeCreationWorkflow completed", withTraceID(input.TraceID, "recipeId", recipe.ID)...)
	return recipe, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
