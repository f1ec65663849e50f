package ports

import (
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different payload.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord associates a create key with the recipe it produced.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	RecipeID    int64
	CreatedAt   time.Time
}
