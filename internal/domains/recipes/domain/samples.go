package domain

// SampleRecipes returns the demo catalogue served by a freshly seeded instance.
func SampleRecipes() []Recipe {
	return []Recipe{
		{ID: 1, Description: "Pasta", Ingredients: []string{"tomato", "pasta"}},
		{ID: 2, Description: "Rice", Ingredients: []string{"rice", "oil"}},
		{ID: 3, Description: "Noodles", Ingredients: []string{"noodles", "pasta"}},
		{ID: 4, Description: "Spaghetti", Ingredients: []string{"spaghetti", "pasta"}},
		{ID: 5, Description: "Cat Food", Ingredients: []string{"Can of cat food", "clams", "truffles"}},
	}
}
