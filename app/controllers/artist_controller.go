package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/artist-origin/app/requests"
	"github.com/artist-origin/app/responses"
	"github.com/artist-origin/app/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ArtistController controller xử lý các request resolve artist
type ArtistController struct {
	resolver *services.ResolverService
	logger   *zap.Logger
}

// NewArtistController tạo mới ArtistController
func NewArtistController(resolver *services.ResolverService, logger *zap.Logger) *ArtistController {
	return &ArtistController{
		resolver: resolver,
		logger:   logger,
	}
}

// ResolveArtists resolve một batch artists và stream kết quả NDJSON.
// Cached results flush trước để client thấy chúng trong một round-trip,
// các name chưa cache resolve tuần tự theo input order.
func (ac *ArtistController) ResolveArtists(c *gin.Context) {
	var req requests.ResolveArtistsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Artists) == 0 {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error: "Invalid artists array",
		})
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Writer.WriteHeader(http.StatusOK)

	// Stream từ resolver qua channel; producer tự abort khi client
	// disconnect (request context đóng)
	lines := ac.resolver.ResolveBatch(c.Request.Context(), req.Artists)

	encoder := json.NewEncoder(c.Writer)
	for line := range lines {
		if err := encoder.Encode(line); err != nil {
			ac.logger.Error("NDJSON encode failed", zap.Error(err))
			return
		}
		// Flush từng dòng để client nhận ngay, không đợi cả batch
		c.Writer.Flush()
	}
}

// ResolveSingleArtist resolve một artist. Partial cache entry (có tên,
// thiếu tọa độ) được re-geocode và persist nếu lần này thành công.
func (ac *ArtistController) ResolveSingleArtist(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error: "Invalid artist name",
		})
		return
	}

	result, cacheHit, err := ac.resolver.ResolveSingle(c.Request.Context(), name)
	if err != nil {
		ac.logger.Error("Resolve failed", zap.Error(err), zap.String("artist", name))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error: "Failed to resolve artist",
		})
		return
	}

	c.JSON(http.StatusOK, responses.SingleArtistResponse{
		Artist:        name,
		LocationName:  result.LocationName,
		LocationCoord: result.LocationCoord,
		CacheHit:      cacheHit,
	})
}

// HealthCheck liveness probe
func (ac *ArtistController) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
