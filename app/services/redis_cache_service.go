package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/artist-origin/app/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCacheService cache service sử dụng Redis. Flat namespace với
// prefix "artist:", value là JSON-encoded ResolvedLocation.
type RedisCacheService struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	// Stats
	hits   int64
	misses int64
}

// NewRedisCacheService tạo mới Redis cache service
func NewRedisCacheService(redisURL string, ttl time.Duration, logger *zap.Logger) (*RedisCacheService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("connect Redis: %w", err)
	}

	return &RedisCacheService{
		client: client,
		logger: logger,
		prefix: "artist:",
		ttl:    ttl,
	}, nil
}

// Get lấy resolved location từ cache
func (rcs *RedisCacheService) Get(ctx context.Context, artist string) (*models.ResolvedLocation, bool, error) {
	cacheKey := rcs.prefix + normalizeKey(artist)

	val, err := rcs.client.Get(ctx, cacheKey).Result()
	if err == redis.Nil {
		atomic.AddInt64(&rcs.misses, 1)
		return nil, false, nil
	}
	if err != nil {
		rcs.logger.Error("Redis get failed", zap.Error(err), zap.String("key", cacheKey))
		return nil, false, err
	}

	var result models.ResolvedLocation
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		rcs.logger.Error("Unmarshal cache data failed", zap.Error(err), zap.String("key", cacheKey))
		return nil, false, err
	}

	atomic.AddInt64(&rcs.hits, 1)
	rcs.logger.Debug("Redis cache hit", zap.String("key", cacheKey))
	return &result, true, nil
}

// Set lưu resolved location vào cache với TTL 30 ngày
func (rcs *RedisCacheService) Set(ctx context.Context, artist string, result *models.ResolvedLocation) error {
	cacheKey := rcs.prefix + normalizeKey(artist)

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal cache data: %w", err)
	}

	if err := rcs.client.Set(ctx, cacheKey, data, rcs.ttl).Err(); err != nil {
		rcs.logger.Error("Redis set failed", zap.Error(err), zap.String("key", cacheKey))
		return err
	}

	rcs.logger.Debug("Stored in Redis cache", zap.String("key", cacheKey))
	return nil
}

// Delete xóa artist khỏi cache
func (rcs *RedisCacheService) Delete(ctx context.Context, artist string) error {
	cacheKey := rcs.prefix + normalizeKey(artist)

	if err := rcs.client.Del(ctx, cacheKey).Err(); err != nil {
		rcs.logger.Error("Redis delete failed", zap.Error(err), zap.String("key", cacheKey))
		return err
	}

	rcs.logger.Debug("Deleted from Redis cache", zap.String("key", cacheKey))
	return nil
}

// Clear xóa toàn bộ namespace artist:*
func (rcs *RedisCacheService) Clear(ctx context.Context) error {
	keys, err := rcs.client.Keys(ctx, rcs.prefix+"*").Result()
	if err != nil {
		return fmt.Errorf("list cache keys: %w", err)
	}

	if len(keys) > 0 {
		if err := rcs.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete cache keys: %w", err)
		}
	}

	rcs.logger.Info("Cleared Redis cache", zap.Int("keys_deleted", len(keys)))
	return nil
}

// Exists kiểm tra artist có trong cache không
func (rcs *RedisCacheService) Exists(ctx context.Context, artist string) (bool, error) {
	exists, err := rcs.client.Exists(ctx, rcs.prefix+normalizeKey(artist)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// GetTTL lấy TTL còn lại của một entry
func (rcs *RedisCacheService) GetTTL(ctx context.Context, artist string) (time.Duration, error) {
	return rcs.client.TTL(ctx, rcs.prefix+normalizeKey(artist)).Result()
}

// GetStats lấy thống kê cache
func (rcs *RedisCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits := atomic.LoadInt64(&rcs.hits)
	misses := atomic.LoadInt64(&rcs.misses)

	total := hits + misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	keys, err := rcs.client.Keys(ctx, rcs.prefix+"*").Result()
	totalItems := int64(0)
	if err == nil {
		totalItems = int64(len(keys))
	}

	return &CacheStats{
		HitRate:    hitRate,
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: totalItems,
	}, nil
}

// Close đóng kết nối Redis
func (rcs *RedisCacheService) Close() error {
	return rcs.client.Close()
}
