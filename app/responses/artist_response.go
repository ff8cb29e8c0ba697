package responses

import "github.com/artist-origin/app/services"

// ErrorResponse response lỗi theo wire format {"error": "..."}
type ErrorResponse struct {
	Error string `json:"error"` // Thông báo lỗi
}

// DeleteCacheResponse response của cache invalidation
type DeleteCacheResponse struct {
	Deleted []string `json:"deleted"` // Các artist đã xóa khỏi cache
}

// SingleArtistResponse response của đường đọc một artist
type SingleArtistResponse struct {
	Artist        string    `json:"artist"`         // Tên artist theo input
	LocationName  string    `json:"location_name"`  // Tên location hoặc "Unknown"
	LocationCoord []float64 `json:"location_coord"` // [lat, lon] hoặc null
	CacheHit      bool      `json:"cache_hit"`      // Có phục vụ từ cache không
}

// CacheStatsResponse response thống kê cache
type CacheStatsResponse struct {
	Stats *services.CacheStats `json:"stats"` // Thống kê từ tầng persistent
}
