package recipes

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	recipeapp "github.com/carsmart/recipes-api/internal/domains/recipes/application"
	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	recipeports "github.com/carsmart/recipes-api/internal/domains/recipes/ports"
)

// CreateRecipeActivityName persists a new recipe through the application service.
const CreateRecipeActivityName = "recipes.activities.CreateRecipe"

// Application error types carried across the workflow boundary. These failures are not retried.
const (
	ErrTypeInvalidInput        = "RecipeInvalidInput"
	ErrTypeIdempotencyConflict = "RecipeIdempotencyConflict"
	ErrTypeNotFound            = "RecipeNotFound"
)

// NonRetryableErrorTypes lists the error types a retry policy should give up on immediately.
var NonRetryableErrorTypes = []string{ErrTypeInvalidInput, ErrTypeIdempotencyConflict, ErrTypeNotFound}

// Activities groups activities that operate on the recipes bounded context.
type Activities struct {
	service recipeports.Service
}

// NewActivities wires the recipes service into the Temporal activities bundle.
func NewActivities(service recipeports.Service) *Activities {
	return &Activities{service: service}
}

// CreateRecipe stores a new recipe. The idempotency key travels with the command so
// activity retries replay the first result instead of allocating a second id.
func (a *Activities) CreateRecipe(ctx context.Context, input recipeports.CreateRecipeInput) (*domain.Recipe, error) {
	if a == nil || a.service == nil {
		return nil, errors.New("recipe create activity not initialized")
	}
	logger := activity.GetLogger(ctx)
	logger.Info("CreateRecipe activity started", "description", input.Draft.Description)
	recipe, err := a.service.CreateRecipe(ctx, input)
	if err != nil {
		logger.Error("CreateRecipe activity failed", "error", err)
		return nil, classify(err)
	}
	logger.Info("CreateRecipe activity completed", "recipeId", recipe.ID)
	return recipe, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, recipeapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	case errors.Is(err, recipeports.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeIdempotencyConflict, err)
	case errors.Is(err, recipeports.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err)
	}
	return err
}

// TranslateError maps a workflow or activity failure back onto the recipe sentinel errors.
// Errors of any other shape are returned unchanged.
func TranslateError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	var sentinel error
	switch appErr.Type() {
	case ErrTypeInvalidInput:
		sentinel = recipeapp.ErrInvalidInput
	case ErrTypeIdempotencyConflict:
		sentinel = recipeports.ErrIdempotencyConflict
	case ErrTypeNotFound:
		sentinel = recipeports.ErrNotFound
	default:
		return err
	}
	return &translatedError{sentinel: sentinel, message: appErr.Message()}
}

type translatedError struct {
	sentinel error
	message  string
}

func (e *translatedError) Error() string { return e.message }

func (e *translatedError) Unwrap() error { return e.sentinel }
