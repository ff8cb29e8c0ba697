package routes

import (
	"github.com/artist-origin/app/controllers"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes thiết lập tất cả API routes
func SetupAPIRoutes(router *gin.Engine, artistController *controllers.ArtistController, cacheController *controllers.CacheController) {
	api := router.Group("/api")
	{
		// Artist resolution routes
		api.POST("/artists", artistController.ResolveArtists)
		api.GET("/artists/:name", artistController.ResolveSingleArtist)

		// Cache routes
		api.DELETE("/cache", cacheController.InvalidateCache)
		api.GET("/cache/stats", cacheController.GetStats)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, artistController *controllers.ArtistController) {
	// Root health check
	router.GET("/health", artistController.HealthCheck)

	// Readiness check
	router.GET("/ready", artistController.HealthCheck)

	// Liveness check
	router.GET("/live", artistController.HealthCheck)
}
