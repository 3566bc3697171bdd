package routes

import (
	"context"
	"net/http"

	exports "theater/src/modules/exports/controllers"
	movies "theater/src/modules/movies/controllers"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router mounts. Exports and Events may be nil.
type Handlers struct {
	BasePath string
	Movies   *movies.MovieController
	Exports  *exports.ExportController
	Events   gin.HandlerFunc
	Ready    func(ctx context.Context) bool
}

func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if h.Ready != nil && h.Ready(c.Request.Context()) {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
		} else {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		}
	})

	if h.Events != nil {
		router.GET("/ws/movies", h.Events)
	}

	api := router.Group(h.BasePath)

	moviesRoutes := api.Group("/movies")
	{
		moviesRoutes.GET("/", h.Movies.ListMovies)
		moviesRoutes.POST("/", h.Movies.CreateMovie)
		moviesRoutes.GET("/:id/", h.Movies.GetMovie)
		moviesRoutes.PATCH("/:id/", h.Movies.UpdateMovie)
		moviesRoutes.DELETE("/:id/", h.Movies.DeleteMovie)
	}

	if h.Exports != nil {
		exportRoutes := api.Group("/exports")
		{
			exportRoutes.POST("/", h.Exports.CreateSnapshot)
			exportRoutes.GET("/*filepath", h.Exports.GetSnapshot)
		}
	}
}
