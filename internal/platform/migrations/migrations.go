package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema owned by the recipes service.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&recipeRecord{}, &recipeIdempotencyRecord{})
}

// Recipe schema mirrors the recipes Postgres adapter.
type recipeRecord struct {
	ID          int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Description string         `gorm:"column:description;not null"`
	Ingredients pq.StringArray `gorm:"column:ingredients;type:text[];not null"`
}

func (recipeRecord) TableName() string { return "recipes" }

type recipeIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128;not null"`
	RecipeID    int64     `gorm:"column:recipe_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (recipeIdempotencyRecord) TableName() string { return "recipe_idempotency_keys" }
