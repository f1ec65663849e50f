package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	"github.com/carsmart/recipes-api/internal/domains/recipes/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the in-memory recipe store. The map, the id counter and the idempotency
// keys share one lock, so allocation, insertion and key recording are a single critical section.
type Repository struct {
	mu      sync.RWMutex
	recipes map[int64]domain.Recipe
	keys    map[string]ports.IdempotencyRecord
	nextID  int64
	now     func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		recipes: map[int64]domain.Recipe{},
		keys:    map[string]ports.IdempotencyRecord{},
		nextID:  1,
		now:     time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Seed inserts records with fixed ids and moves the counter past the highest one.
// The whole batch is rejected if any record is invalid.
func (r *Repository) Seed(_ context.Context, recipes ...domain.Recipe) error {
	for _, recipe := range recipes {
		if err := (domain.Draft{Description: recipe.Description}).Validate(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, recipe := range recipes {
		r.recipes[recipe.ID] = recipe.Clone()
		if recipe.ID >= r.nextID {
			r.nextID = recipe.ID + 1
		}
	}
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Recipe, error) {
	r.mu.RLock()
	list := make([]*domain.Recipe, 0, len(r.recipes))
	for _, recipe := range r.recipes {
		clone := recipe.Clone()
		list = append(list, &clone)
	}
	r.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recipe, ok := r.recipes[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := recipe.Clone()
	return &clone, nil
}

func (r *Repository) Create(_ context.Context, draft domain.Draft) (*domain.Recipe, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	recipe := draft.Build(r.nextID)
	r.nextID++
	r.recipes[recipe.ID] = recipe
	clone := recipe.Clone()
	return &clone, nil
}

func (r *Repository) CreateOnce(_ context.Context, draft domain.Draft, key, requestHash string) (*domain.Recipe, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.keys[key]; ok {
		if existing.RequestHash != requestHash {
			return nil, ports.ErrIdempotencyConflict
		}
		recipe, ok := r.recipes[existing.RecipeID]
		if !ok {
			return nil, ports.ErrNotFound
		}
		clone := recipe.Clone()
		return &clone, nil
	}
	recipe := draft.Build(r.nextID)
	r.nextID++
	r.recipes[recipe.ID] = recipe
	r.keys[key] = ports.IdempotencyRecord{Key: key, RequestHash: requestHash, RecipeID: recipe.ID, CreatedAt: r.now()}
	clone := recipe.Clone()
	return &clone, nil
}

// IdempotencyRecord returns the record stored for key, if any.
func (r *Repository) IdempotencyRecord(key string) (ports.IdempotencyRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.keys[key]
	return record, ok
}

func (r *Repository) Update(_ context.Context, id int64, draft domain.Draft) (*domain.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recipes[id]; !ok {
		return nil, ports.ErrNotFound
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	recipe := draft.Build(id)
	r.recipes[id] = recipe
	clone := recipe.Clone()
	return &clone, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.recipes, id)
	return nil
}
