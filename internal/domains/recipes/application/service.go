package application

import (
	"context"
	"strings"

	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	"github.com/carsmart/recipes-api/internal/domains/recipes/ports"
)

// Service orchestrates recipe use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// ListRecipes returns all recipes ordered by id.
func (s *Service) ListRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateRecipe validates and stores a new recipe. With an idempotency key the recipe and
// the key are written together, so a retried request returns the recipe of the first attempt.
func (s *Service) CreateRecipe(ctx context.Context, input ports.CreateRecipeInput) (*domain.Recipe, error) {
	if err := input.Draft.Validate(); err != nil {
		return nil, mapError(err)
	}
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" {
		return s.create(ctx, input.Draft)
	}
	hash, err := FingerprintDraft(input.Draft)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateOnce(ctx, input.Draft, key, hash)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

func (s *Service) create(ctx context.Context, draft domain.Draft) (*domain.Recipe, error) {
	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

// UpdateRecipe replaces description and ingredients of an existing recipe.
func (s *Service) UpdateRecipe(ctx context.Context, id int64, draft domain.Draft) (*domain.Recipe, error) {
	updated, err := s.repo.Update(ctx, id, draft)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// DeleteRecipe removes a recipe. Unknown ids are not an error.
func (s *Service) DeleteRecipe(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
