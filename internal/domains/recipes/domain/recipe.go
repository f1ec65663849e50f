package domain

import (
	"errors"
	"strings"
)

// ErrBlankDescription is returned when a description is empty after trimming whitespace.
var ErrBlankDescription = errors.New("description must not be blank")

// Recipe is the stored record. Values are treated as immutable once handed out.
type Recipe struct {
	ID          int64
	Description string
	Ingredients []string
}

// Draft carries the writable fields of a recipe for create and update.
type Draft struct {
	Description string
	Ingredients []string
}

// NewDraft builds a draft with a private copy of the ingredient list.
func NewDraft(description string, ingredients []string) Draft {
	return Draft{Description: description, Ingredients: CopyIngredients(ingredients)}
}

// Validate enforces the single domain rule: a non-blank description.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return ErrBlankDescription
	}
	return nil
}

// Build materialises the draft as a record with the given identifier.
func (d Draft) Build(id int64) Recipe {
	return Recipe{
		ID:          id,
		Description: d.Description,
		Ingredients: CopyIngredients(d.Ingredients),
	}
}

// Clone returns a deep copy so callers can never alias stored ingredient slices.
func (r Recipe) Clone() Recipe {
	r.Ingredients = CopyIngredients(r.Ingredients)
	return r
}

// CopyIngredients copies the list preserving order and duplicates. Nil becomes empty.
func CopyIngredients(ingredients []string) []string {
	out := make([]string, len(ingredients))
	copy(out, ingredients)
	return out
}
