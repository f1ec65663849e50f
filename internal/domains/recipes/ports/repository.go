package ports

import (
	"context"
	"errors"

	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
)

var ErrNotFound = errors.New("recipe not found")

// Repository persists recipes and allocates their identifiers.
type Repository interface {
	// List returns every stored recipe ordered by ascending id.
	List(ctx context.Context) ([]*domain.Recipe, error)
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	// Create validates the draft, allocates the next id and stores the record.
	Create(ctx context.Context, draft domain.Draft) (*domain.Recipe, error)
	// CreateOnce stores the draft and records key in the same write. A key seen before
	// returns the recipe it produced, ErrIdempotencyConflict when requestHash differs,
	// or ErrNotFound once that recipe has been deleted.
	CreateOnce(ctx context.Context, draft domain.Draft, key, requestHash string) (*domain.Recipe, error)
	// Update replaces description and ingredients of an existing record.
	// ErrNotFound takes precedence over validation failures.
	Update(ctx context.Context, id int64, draft domain.Draft) (*domain.Recipe, error)
	// Delete removes the record; deleting an unknown id is not an error.
	Delete(ctx context.Context, id int64) error
}
