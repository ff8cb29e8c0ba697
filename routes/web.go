package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes thiết lập web routes
func SetupWebRoutes(router *gin.Engine) {
	// Home page
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Artist Origin Service",
			"version": "1.0.0",
			"docs":    "/docs",
		})
	})

	// API documentation
	router.GET("/docs", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"api": "Artist Origin API",
			"endpoints": map[string]string{
				"resolve":     "POST /api/artists",
				"single":      "GET /api/artists/:name",
				"invalidate":  "DELETE /api/cache",
				"cache_stats": "GET /api/cache/stats",
				"health":      "GET /health",
			},
		})
	})
}
