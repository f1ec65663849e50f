package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	"github.com/carsmart/recipes-api/internal/domains/recipes/ports"
)

func TestRepository_CreateAssignsSequentialIDs(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, domain.NewDraft("Pasta", []string{"tomato", "pasta"}))
	require.NoError(t, err)
	require.Equal(t, int64(1), first.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []*domain.Recipe{{ID: 1, Description: "Pasta", Ingredients: []string{"tomato", "pasta"}}}, list)
}

func TestRepository_RejectedCreateDoesNotAllocate(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.NewDraft("", []string{"x"}))
	require.ErrorIs(t, err, domain.ErrBlankDescription)
	_, err = repo.Create(ctx, domain.NewDraft("   ", nil))
	require.ErrorIs(t, err, domain.ErrBlankDescription)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	created, err := repo.Create(ctx, domain.NewDraft("Rice", nil))
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
}

func TestRepository_GetReturnsCreatedRecord(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.NewDraft("Soup", []string{"water", "salt", "water"}))
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, fetched)
}

func TestRepository_ReturnedRecordsAreCopies(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.NewDraft("Soup", []string{"water"}))
	require.NoError(t, err)
	created.Ingredients[0] = "poison"
	created.Description = "changed"

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Soup", fetched.Description)
	require.Equal(t, []string{"water"}, fetched.Ingredients)
}

func TestRepository_UpdateReplacesWholesale(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.NewDraft("Salad", []string{"a", "b"}))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, domain.NewDraft("Green salad", []string{"c"}))
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Green salad", fetched.Description)
	require.Equal(t, []string{"c"}, fetched.Ingredients)
}

func TestRepository_UpdateMissingLeavesStoreUnchanged(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	_, err := repo.Create(ctx, domain.NewDraft("Salad", []string{"a"}))
	require.NoError(t, err)

	before, err := repo.List(ctx)
	require.NoError(t, err)

	_, err = repo.Update(ctx, 42, domain.NewDraft("Ghost", nil))
	require.ErrorIs(t, err, ports.ErrNotFound)
	_, err = repo.Update(ctx, 42, domain.NewDraft("", nil))
	require.ErrorIs(t, err, ports.ErrNotFound)

	after, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestRepository_UpdateBlankDescriptionKeepsRecord(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, domain.NewDraft("Salad", []string{"a"}))
	require.NoError(t, err)

	_, err = repo.Update(ctx, created.ID, domain.NewDraft(" ", []string{"z"}))
	require.ErrorIs(t, err, domain.ErrBlankDescription)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, fetched)
}

func TestRepository_DeleteIsIdempotent(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, domain.NewDraft("Stew", nil))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, 999))
}

func TestRepository_IDsAreNeverReused(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	for _, description := range []string{"one", "two"} {
		_, err := repo.Create(ctx, domain.NewDraft(description, nil))
		require.NoError(t, err)
	}
	require.NoError(t, repo.Delete(ctx, 1))
	third, err := repo.Create(ctx, domain.NewDraft("three", nil))
	require.NoError(t, err)
	require.Equal(t, int64(3), third.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, int64(2), list[0].ID)
	require.Equal(t, int64(3), list[1].ID)
}

func TestRepository_ListOrderedByID(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		_, err := repo.Create(ctx, domain.NewDraft(fmt.Sprintf("recipe-%d", i), nil))
		require.NoError(t, err)
	}
	for id := int64(3); id <= 50; id += 7 {
		require.NoError(t, repo.Delete(ctx, id))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.True(t, sort.SliceIsSorted(list, func(i, j int) bool { return list[i].ID < list[j].ID }))
}

func TestRepository_SeedAdvancesCounter(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx, domain.SampleRecipes()...))

	created, err := repo.Create(ctx, domain.NewDraft("Curry", nil))
	require.NoError(t, err)
	require.Equal(t, int64(6), created.ID)

	pasta, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Pasta", pasta.Description)
}

func TestRepository_SeedRejectsBlankDescription(t *testing.T) {
	repo := NewRepository()
	err := repo.Seed(context.Background(), domain.Recipe{ID: 1})
	require.ErrorIs(t, err, domain.ErrBlankDescription)
}

func TestRepository_SeedRejectsWholeBatch(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	err := repo.Seed(ctx,
		domain.Recipe{ID: 1, Description: "Pasta"},
		domain.Recipe{ID: 7, Description: "Rice"},
		domain.Recipe{ID: 9, Description: "  "},
	)
	require.ErrorIs(t, err, domain.ErrBlankDescription)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	created, err := repo.Create(ctx, domain.NewDraft("Curry", nil))
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
}

func TestRepository_CreateOnceReplaysKey(t *testing.T) {
	repo := NewRepository()
	fixed := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	repo.WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	first, err := repo.CreateOnce(ctx, domain.NewDraft("Pasta", []string{"tomato"}), "key-1", "abc")
	require.NoError(t, err)
	second, err := repo.CreateOnce(ctx, domain.NewDraft("Pasta", []string{"tomato"}), "key-1", "abc")
	require.NoError(t, err)
	require.Equal(t, first, second)

	record, ok := repo.IdempotencyRecord("key-1")
	require.True(t, ok)
	require.Equal(t, ports.IdempotencyRecord{Key: "key-1", RequestHash: "abc", RecipeID: first.ID, CreatedAt: fixed}, record)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRepository_CreateOnceConflictAndDeleted(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	created, err := repo.CreateOnce(ctx, domain.NewDraft("Pasta", nil), "key-1", "abc")
	require.NoError(t, err)

	_, err = repo.CreateOnce(ctx, domain.NewDraft("Rice", nil), "key-1", "def")
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.CreateOnce(ctx, domain.NewDraft("Pasta", nil), "key-1", "abc")
	require.ErrorIs(t, err, ports.ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestRepository_RejectedCreateOnceReservesNothing(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	_, err := repo.CreateOnce(ctx, domain.NewDraft(" ", nil), "key-1", "abc")
	require.ErrorIs(t, err, domain.ErrBlankDescription)
	_, ok := repo.IdempotencyRecord("key-1")
	require.False(t, ok)

	created, err := repo.CreateOnce(ctx, domain.NewDraft("Pasta", nil), "key-1", "def")
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
}

func TestRepository_ConcurrentCreateOnceStoresOneRecipe(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	const workers = 16

	ids := make(chan int64, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recipe, err := repo.CreateOnce(ctx, domain.NewDraft("Pasta", nil), "shared", "abc")
			if err != nil {
				t.Error(err)
				return
			}
			ids <- recipe.ID
		}()
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		require.Equal(t, int64(1), id)
	}
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRepository_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	const workers, perWorker = 16, 50

	ids := make(chan int64, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var last int64
			for i := 0; i < perWorker; i++ {
				recipe, err := repo.Create(ctx, domain.NewDraft(fmt.Sprintf("w%d-%d", w, i), nil))
				if err != nil {
					t.Error(err)
					return
				}
				if recipe.ID <= last {
					t.Errorf("ids not increasing for worker %d: %d after %d", w, recipe.ID, last)
				}
				last = recipe.ID
				ids <- recipe.ID
			}
		}(w)
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	require.Len(t, seen, workers*perWorker)
	for id := int64(1); id <= workers*perWorker; id++ {
		require.True(t, seen[id], "id %d skipped", id)
	}
}

func TestRepository_ConcurrentUpdatesAreNeverTorn(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, domain.NewDraft("v0", []string{"v0"}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				version := fmt.Sprintf("v%d-%d", w, i)
				if _, err := repo.Update(ctx, created.ID, domain.NewDraft(version, []string{version, version})); err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				recipe, err := repo.GetByID(ctx, created.ID)
				if err != nil {
					t.Error(err)
					return
				}
				for _, ingredient := range recipe.Ingredients {
					if ingredient != recipe.Description {
						t.Errorf("torn read: %q with %v", recipe.Description, recipe.Ingredients)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
