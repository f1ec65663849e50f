package mapper

import (
	recipedomain "github.com/carsmart/recipes-api/internal/domains/recipes/domain"
)

// Recipe is the JSON record exchanged with the client UI.
type Recipe struct {
	ID          int64    `json:"id"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
}

// RecipeRequest is the body of create and update calls.
type RecipeRequest struct {
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
}

// ToDraft converts a request body into the writable domain fields.
func ToDraft(req RecipeRequest) recipedomain.Draft {
	return recipedomain.NewDraft(req.Description, req.Ingredients)
}

// FromDomainRecipe converts a stored recipe to its transport shape.
func FromDomainRecipe(recipe *recipedomain.Recipe) Recipe {
	if recipe == nil {
		return Recipe{Ingredients: []string{}}
	}
	return Recipe{
		ID:          recipe.ID,
		Description: recipe.Description,
		Ingredients: recipedomain.CopyIngredients(recipe.Ingredients),
	}
}

// FromDomainRecipes converts a list while keeping its order.
func FromDomainRecipes(recipes []*recipedomain.Recipe) []Recipe {
	result := make([]Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		result = append(result, FromDomainRecipe(recipe))
	}
	return result
}
