package recipeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every API section.
type ApiHandleFunctions struct {
	// Routes for the RecipeAPI part of the API
	RecipeAPI RecipeAPI
	// Routes for the DefaultAPI part of the API
	DefaultAPI DefaultAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine. Middleware must be
// registered on the engine before calling it.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc is the default handler for not yet implemented routes.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"ListRecipes",
			http.MethodGet,
			"/recipes",
			handleFunctions.RecipeAPI.ListRecipes,
		},
		{
			"GetRecipe",
			http.MethodGet,
			"/recipes/:id",
			handleFunctions.RecipeAPI.GetRecipe,
		},
		{
			"CreateRecipe",
			http.MethodPost,
			"/recipes",
			handleFunctions.RecipeAPI.CreateRecipe,
		},
		{
			"UpdateRecipe",
			http.MethodPut,
			"/recipes/:id",
			handleFunctions.RecipeAPI.UpdateRecipe,
		},
		{
			"DeleteRecipe",
			http.MethodDelete,
			"/recipes/:id",
			handleFunctions.RecipeAPI.DeleteRecipe,
		},
		{
			"Hello",
			http.MethodGet,
			"/rest/controller/hello",
			handleFunctions.DefaultAPI.Hello,
		},
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			handleFunctions.DefaultAPI.Healthz,
		},
	}
}
