package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
)

type normalizedDraft struct {
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
}

// FingerprintDraft builds a deterministic hash of a create payload (excluding the idempotency key).
func FingerprintDraft(draft domain.Draft) (string, error) {
	payload, err := json.Marshal(normalizedDraft{
		Description: draft.Description,
		Ingredients: domain.CopyIngredients(draft.Ingredients),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
