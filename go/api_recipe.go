package recipeserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	recipehttpmapper "github.com/carsmart/recipes-api/internal/domains/recipes/adapters/http/mapper"
	"github.com/carsmart/recipes-api/internal/domains/recipes/domain"
	recipeports "github.com/carsmart/recipes-api/internal/domains/recipes/ports"
	apierrors "github.com/carsmart/recipes-api/internal/shared/errors"
)

// RecipeAPI wires HTTP transport with the recipes service and creation workflows.
type RecipeAPI struct {
	service   recipeports.Service
	workflows recipeports.WorkflowOrchestrator
	responder *apierrors.ChainedResponder
}

// NewRecipeAPI creates a RecipeAPI. workflows may be nil, in which case creation
// calls the service directly.
func NewRecipeAPI(service recipeports.Service, workflows recipeports.WorkflowOrchestrator) RecipeAPI {
	return RecipeAPI{service: service, workflows: workflows, responder: newRecipeResponder()}
}

// Get /recipes
// List all recipes ordered by id
func (api *RecipeAPI) ListRecipes(c *gin.Context) {
	recipes, err := api.service.ListRecipes(c.Request.Context())
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipehttpmapper.FromDomainRecipes(recipes))
}

// Get /recipes/:id
// Find recipe by id
func (api *RecipeAPI) GetRecipe(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	recipe, err := api.service.GetRecipe(c.Request.Context(), id)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipehttpmapper.FromDomainRecipe(recipe))
}

// Post /recipes
// Create a recipe
func (api *RecipeAPI) CreateRecipe(c *gin.Context) {
	var payload recipehttpmapper.RecipeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	input := recipeports.CreateRecipeInput{
		Draft:          recipehttpmapper.ToDraft(payload),
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	}
	created, err := api.createRecipe(c.Request.Context(), input)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/recipes/%d", created.ID))
	c.JSON(http.StatusCreated, recipehttpmapper.FromDomainRecipe(created))
}

func (api *RecipeAPI) createRecipe(ctx context.Context, input recipeports.CreateRecipeInput) (*domain.Recipe, error) {
	if api.workflows != nil {
		return api.workflows.CreateRecipe(ctx, input)
	}
	return api.service.CreateRecipe(ctx, input)
}

// Put /recipes/:id
// Replace description and ingredients of a recipe
func (api *RecipeAPI) UpdateRecipe(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	var payload recipehttpmapper.RecipeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	updated, err := api.service.UpdateRecipe(c.Request.Context(), id, recipehttpmapper.ToDraft(payload))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipehttpmapper.FromDomainRecipe(updated))
}

// Delete /recipes/:id
// Delete a recipe; absent ids also answer 204
func (api *RecipeAPI) DeleteRecipe(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	if err := api.service.DeleteRecipe(c.Request.Context(), id); err != nil {
		api.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *RecipeAPI) parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		api.responder.BadRequest(c, fmt.Sprintf("recipe id %q is not an integer", c.Param("id")))
		return 0, false
	}
	return id, true
}

func (api *RecipeAPI) respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	api.responder.RespondError(c, err)
}
