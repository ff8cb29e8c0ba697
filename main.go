package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artist-origin/app/config"
	"github.com/artist-origin/app/controllers"
	"github.com/artist-origin/app/services"
	"github.com/artist-origin/internal/fetcher"
	"github.com/artist-origin/internal/geocode"
	"github.com/artist-origin/internal/musicbrainz"
	"github.com/artist-origin/internal/wikidata"
	"github.com/artist-origin/internal/wikipedia"
	"github.com/artist-origin/routes"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	loadConfig()
	if err := config.Load(viper.GetString("resolver.config_path")); err != nil {
		log.Fatalf("Cannot load resolver config: %v", err)
	}

	// 2. Initialize logger
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting Artist Origin Service")

	// 3. Initialize cache (optional: no Redis URL means cache-less,
	// every request fully resolves)
	var cacheService services.ICacheService
	if redisURL := viper.GetString("redis.url"); redisURL != "" {
		redisCache, err := services.NewRedisCacheService(redisURL, config.C.CacheTTL(), logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis cache", zap.Error(err))
		}
		l1 := services.NewLRUCacheService(config.C.L1CacheSize, config.C.CacheTTL(), logger)
		cacheService = services.NewHybridCacheService(l1, redisCache, logger)
		logger.Info("Hybrid cache initialized", zap.String("redis", redisURL))
	} else {
		logger.Warn("No Redis URL configured, running cache-less")
	}

	// 4. Initialize upstream clients
	userAgent := viper.GetString("upstream.user_agent")
	httpFetcher := fetcher.New(userAgent, config.C.MaxRetries, logger)

	mbClient := musicbrainz.NewClient(
		viper.GetString("upstream.musicbrainz_url"),
		httpFetcher,
		config.C.Pace(),
		config.C.MinSearchScore,
		logger,
	)
	wdClient := wikidata.NewClient(viper.GetString("upstream.wikidata_sparql_url"), httpFetcher, logger)
	wpClient := wikipedia.NewClient(viper.GetString("upstream.wikipedia_api_url"), httpFetcher, logger)
	geocoder := geocode.NewGeocoder(
		viper.GetString("upstream.nominatim_url"),
		viper.GetString("upstream.photon_url"),
		httpFetcher,
		logger,
	)

	// 5. Initialize resolver service
	resolver := services.NewResolverService(
		mbClient, wdClient, wpClient, geocoder, cacheService,
		services.ResolverOptions{
			InterResolveDelay: config.C.InterResolveDelay(),
			BatchLimit:        config.C.BatchLimit,
		},
		logger,
	)

	// 6. Initialize controllers
	artistController := controllers.NewArtistController(resolver, logger)
	cacheController := controllers.NewCacheController(cacheService, logger)

	// 7. Initialize Gin router + routes
	if viper.GetString("app.env") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, artistController, cacheController)

	// 8. Start server with graceful shutdown
	port := viper.GetString("app.port")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("Artist Origin Service listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if cacheService != nil {
		if err := cacheService.Close(); err != nil {
			logger.Error("Cache close error", zap.Error(err))
		}
	}
}

// loadConfig load configuration từ file và env vars
func loadConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("redis.url", "")
	viper.SetDefault("resolver.config_path", "config/resolver.yaml")
	viper.SetDefault("upstream.user_agent", "ArtistOriginService/1.0 (https://github.com/artist-origin)")
	viper.SetDefault("upstream.musicbrainz_url", "https://musicbrainz.org/ws/2")
	viper.SetDefault("upstream.wikidata_sparql_url", "https://query.wikidata.org/sparql")
	viper.SetDefault("upstream.wikipedia_api_url", "https://en.wikipedia.org/w/api.php")
	viper.SetDefault("upstream.nominatim_url", "https://nominatim.openstreetmap.org")
	viper.SetDefault("upstream.photon_url", "https://photon.komoot.io")

	viper.AutomaticEnv()
	viper.BindEnv("redis.url", "REDIS_URL")
	viper.BindEnv("app.port", "APP_PORT")
	viper.BindEnv("app.env", "APP_ENV")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Cannot read config file: %v", err)
	}
}

// initLogger khởi tạo structured logger
func initLogger() *zap.Logger {
	var cfg zap.Config
	if viper.GetString("app.env") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}
	return logger
}
