package services

import (
	"context"
	"strings"
	"time"

	"github.com/artist-origin/app/models"
)

// CacheStats thống kê cache
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// ICacheService interface định nghĩa các method cần thiết cho cache.
// Key là tên artist thô; implementation tự normalize và thêm prefix.
type ICacheService interface {
	// Get lấy resolved location từ cache
	Get(ctx context.Context, artist string) (*models.ResolvedLocation, bool, error)

	// Set lưu resolved location vào cache
	Set(ctx context.Context, artist string, result *models.ResolvedLocation) error

	// Delete xóa artist khỏi cache
	Delete(ctx context.Context, artist string) error

	// Clear xóa tất cả cache
	Clear(ctx context.Context) error

	// Exists kiểm tra artist có trong cache không
	Exists(ctx context.Context, artist string) (bool, error)

	// GetTTL lấy TTL còn lại của một entry
	GetTTL(ctx context.Context, artist string) (time.Duration, error)

	// GetStats lấy thống kê cache
	GetStats(ctx context.Context) (*CacheStats, error)

	// Close đóng kết nối (nếu cần)
	Close() error
}

// normalizeKey cache key là tên artist lowercase, trim whitespace
func normalizeKey(artist string) string {
	return strings.ToLower(strings.TrimSpace(artist))
}
