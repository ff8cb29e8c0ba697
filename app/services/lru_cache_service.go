package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/artist-origin/app/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// LRUCacheService cache in-process dùng expirable LRU. Dùng làm L1 trước
// Redis trong hybrid cache, hoặc standalone khi chạy không có Redis.
type LRUCacheService struct {
	cache  *expirable.LRU[string, *models.ResolvedLocation]
	logger *zap.Logger

	hits   int64
	misses int64
}

// NewLRUCacheService tạo mới LRU cache service
func NewLRUCacheService(size int, ttl time.Duration, logger *zap.Logger) *LRUCacheService {
	return &LRUCacheService{
		cache:  expirable.NewLRU[string, *models.ResolvedLocation](size, nil, ttl),
		logger: logger,
	}
}

// Get lấy resolved location từ cache
func (lcs *LRUCacheService) Get(ctx context.Context, artist string) (*models.ResolvedLocation, bool, error) {
	result, found := lcs.cache.Get(normalizeKey(artist))
	if !found {
		atomic.AddInt64(&lcs.misses, 1)
		return nil, false, nil
	}
	atomic.AddInt64(&lcs.hits, 1)
	return result, true, nil
}

// Set lưu resolved location vào cache
func (lcs *LRUCacheService) Set(ctx context.Context, artist string, result *models.ResolvedLocation) error {
	lcs.cache.Add(normalizeKey(artist), result)
	return nil
}

// Delete xóa artist khỏi cache
func (lcs *LRUCacheService) Delete(ctx context.Context, artist string) error {
	lcs.cache.Remove(normalizeKey(artist))
	return nil
}

// Clear xóa toàn bộ cache
func (lcs *LRUCacheService) Clear(ctx context.Context) error {
	lcs.cache.Purge()
	return nil
}

// Exists kiểm tra artist có trong cache không
func (lcs *LRUCacheService) Exists(ctx context.Context, artist string) (bool, error) {
	_, found := lcs.cache.Peek(normalizeKey(artist))
	return found, nil
}

// GetTTL expirable LRU không expose per-entry TTL, trả về 0
func (lcs *LRUCacheService) GetTTL(ctx context.Context, artist string) (time.Duration, error) {
	return 0, nil
}

// GetStats lấy thống kê cache
func (lcs *LRUCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits := atomic.LoadInt64(&lcs.hits)
	misses := atomic.LoadInt64(&lcs.misses)

	total := hits + misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return &CacheStats{
		HitRate:    hitRate,
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(lcs.cache.Len()),
	}, nil
}

// Close không cần cho in-process cache
func (lcs *LRUCacheService) Close() error {
	return nil
}
