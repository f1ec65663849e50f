package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	"github.com/carsmart/recipes-api/internal/domains/recipes/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists recipes in PostgreSQL using GORM. Identifiers come from the
// bigserial sequence, which never hands out a value twice. The connection must be opened
// with TranslateError so duplicate keys surface as gorm.ErrDuplicatedKey.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&recipeRecord{}, &idempotencyRecord{})
	}
	return repo
}

// recipeRecord maps the recipe to a relational row.
type recipeRecord struct {
	ID          int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Description string         `gorm:"column:description;not null"`
	Ingredients pq.StringArray `gorm:"column:ingredients;type:text[];not null"`
}

func (recipeRecord) TableName() string { return "recipes" }

// idempotencyRecord ties a create key to the recipe row written in the same transaction.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128;not null"`
	RecipeID    int64     `gorm:"column:recipe_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (idempotencyRecord) TableName() string { return "recipe_idempotency_keys" }

// List returns all recipes ordered by id.
func (r *Repository) List(ctx context.Context) ([]*domain.Recipe, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []recipeRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	recipes := make([]*domain.Recipe, 0, len(records))
	for i := range records {
		recipes = append(recipes, records[i].toDomain())
	}
	return recipes, nil
}

// GetByID fetches a recipe by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record recipeRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Create inserts a recipe and lets the sequence assign its id.
func (r *Repository) Create(ctx context.Context, draft domain.Draft) (*domain.Recipe, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	record := recipeRecord{
		Description: draft.Description,
		Ingredients: pq.StringArray(domain.CopyIngredients(draft.Ingredients)),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// CreateOnce inserts the recipe and its idempotency key in one transaction, so a retry after
// a lost commit acknowledgement finds the key and replays instead of inserting again.
func (r *Repository) CreateOnce(ctx context.Context, draft domain.Draft, key, requestHash string) (*domain.Recipe, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	recipe, err := r.createOnce(ctx, draft, key, requestHash)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent transaction committed the key first; the retry takes the replay path.
		recipe, err = r.createOnce(ctx, draft, key, requestHash)
	}
	return recipe, err
}

func (r *Repository) createOnce(ctx context.Context, draft domain.Draft, key, requestHash string) (*domain.Recipe, error) {
	var created recipeRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing idempotencyRecord
		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("key = ?", key).Limit(1).Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			if existing.RequestHash != requestHash {
				return ports.ErrIdempotencyConflict
			}
			if err := tx.First(&created, "id = ?", existing.RecipeID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ports.ErrNotFound
				}
				return err
			}
			return nil
		}
		created = recipeRecord{
			Description: draft.Description,
			Ingredients: pq.StringArray(domain.CopyIngredients(draft.Ingredients)),
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		return tx.Create(&idempotencyRecord{
			Key:         key,
			RequestHash: requestHash,
			RecipeID:    created.ID,
			CreatedAt:   time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return created.toDomain(), nil
}

// Update replaces description and ingredients in one statement under a row lock.
func (r *Repository) Update(ctx context.Context, id int64, draft domain.Draft) (*domain.Recipe, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var updated recipeRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record recipeRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		if err := draft.Validate(); err != nil {
			return err
		}
		record.Description = draft.Description
		record.Ingredients = pq.StringArray(domain.CopyIngredients(draft.Ingredients))
		if err := tx.Model(&recipeRecord{}).Where("id = ?", id).Updates(map[string]any{
			"description": record.Description,
			"ingredients": record.Ingredients,
		}).Error; err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.toDomain(), nil
}

// Delete removes a recipe. Missing rows are not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&recipeRecord{}, id).Error
}

// Seed upserts fixed-id recipes and moves the sequence past the highest id.
func (r *Repository) Seed(ctx context.Context, recipes ...domain.Recipe) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	for _, recipe := range recipes {
		if err := (domain.Draft{Description: recipe.Description}).Validate(); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, recipe := range recipes {
			record := recipeRecord{
				ID:          recipe.ID,
				Description: recipe.Description,
				Ingredients: pq.StringArray(domain.CopyIngredients(recipe.Ingredients)),
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
				return err
			}
		}
		// Only ever move the sequence forward. Reading last_value does not consume a value;
		// it is NULL until the sequence is first used.
		return tx.Exec(`SELECT setval(pg_get_serial_sequence('recipes', 'id'), s.m)
			FROM (SELECT MAX(id) AS m FROM recipes) AS s
			WHERE s.m IS NOT NULL
			AND s.m > COALESCE(pg_sequence_last_value(pg_get_serial_sequence('recipes', 'id')::regclass), 0)`).Error
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres recipe repository not configured")
	}
	return nil
}

func (r recipeRecord) toDomain() *domain.Recipe {
	return &domain.Recipe{
		ID:          r.ID,
		Description: r.Description,
		Ingredients: domain.CopyIngredients(r.Ingredients),
	}
}
