package controllers

import (
	"net/http"

	"github.com/artist-origin/app/requests"
	"github.com/artist-origin/app/responses"
	"github.com/artist-origin/app/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CacheController controller quản lý cache invalidation và stats.
// cacheService có thể nil khi chạy cache-less.
type CacheController struct {
	cacheService services.ICacheService
	logger       *zap.Logger
}

// NewCacheController tạo mới CacheController
func NewCacheController(cacheService services.ICacheService, logger *zap.Logger) *CacheController {
	return &CacheController{
		cacheService: cacheService,
		logger:       logger,
	}
}

// InvalidateCache xóa cache entries của các artist được chỉ định
func (cc *CacheController) InvalidateCache(c *gin.Context) {
	var req requests.InvalidateCacheRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Artists) == 0 {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error: "Invalid artists array",
		})
		return
	}

	deleted := make([]string, 0, len(req.Artists))
	if cc.cacheService != nil {
		for _, artist := range req.Artists {
			if err := cc.cacheService.Delete(c.Request.Context(), artist); err != nil {
				cc.logger.Warn("Cache delete failed", zap.Error(err), zap.String("artist", artist))
				continue
			}
			deleted = append(deleted, artist)
		}
	}

	c.JSON(http.StatusOK, responses.DeleteCacheResponse{Deleted: deleted})
}

// GetStats thống kê cache
func (cc *CacheController) GetStats(c *gin.Context) {
	if cc.cacheService == nil {
		c.JSON(http.StatusOK, responses.CacheStatsResponse{Stats: &services.CacheStats{}})
		return
	}

	stats, err := cc.cacheService.GetStats(c.Request.Context())
	if err != nil {
		cc.logger.Error("Cache stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error: "Failed to read cache stats",
		})
		return
	}

	c.JSON(http.StatusOK, responses.CacheStatsResponse{Stats: stats})
}
