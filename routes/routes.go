// Routes package cung cấp tất cả routing functions cho Artist Origin Service
//
// Cấu trúc:
// - api.go: API routes (/api/*)
// - web.go: Web routes (/, /docs)
// - routes.go: Middleware và export functions
package routes

import (
	"net/http"

	"github.com/artist-origin/app/controllers"
	"github.com/artist-origin/helpers/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupAllRoutes thiết lập middleware và tất cả routes
func SetupAllRoutes(router *gin.Engine, artistController *controllers.ArtistController, cacheController *controllers.CacheController) {
	setupMiddleware(router)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, artistController)
	SetupAPIRoutes(router, artistController, cacheController)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not Found")
	})
}

// setupMiddleware thiết lập middleware cho router
func setupMiddleware(router *gin.Engine) {
	// Recovery middleware
	router.Use(gin.Recovery())

	// CORS: open cho browser client, preflight OPTIONS trả 200
	router.Use(cors.New(cors.Config{
		AllowOrigins:              []string{"*"},
		AllowMethods:              []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Content-Type"},
		OptionsResponseStatusCode: http.StatusOK,
	}))

	// Request ID middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Request-ID", utils.GenerateUUID())
		c.Next()
	})
}
