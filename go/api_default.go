package recipeserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultAPI serves the greeting and liveness endpoints.
type DefaultAPI struct{}

// Get /rest/controller/hello
func (api *DefaultAPI) Hello(c *gin.Context) {
	c.String(http.StatusOK, "Hello World!")
}

// Get /healthz
func (api *DefaultAPI) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
