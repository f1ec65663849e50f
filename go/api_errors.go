package recipeserver

import (
	"errors"

	recipeapp "github.com/carsmart/recipes-api/internal/domains/recipes/application"
	recipeports "github.com/carsmart/recipes-api/internal/domains/recipes/ports"
	apierrors "github.com/carsmart/recipes-api/internal/shared/errors"
)

// IdempotencyKeyHeader carries the client-chosen key for create retries.
const IdempotencyKeyHeader = "Idempotency-Key"

func newRecipeResponder() *apierrors.ChainedResponder {
	return apierrors.NewChainedResponder("", mapRecipeError)
}

func mapRecipeError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, recipeports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, recipeapp.ErrInvalidInput):
		return apierrors.NewValidationProblem(map[string]string{"description": "must not be blank"}).
			WithDetail(err.Error()), true
	case errors.Is(err, recipeports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail("idempotency key was already used with a different request"), true
	}
	return apierrors.ProblemDetail{}, false
}
