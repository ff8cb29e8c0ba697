package services

import (
	"context"
	"time"

	"github.com/artist-origin/app/models"
	"go.uber.org/zap"
)

// HybridCacheService cache kết hợp LRU in-process (L1) + Redis (L2).
// L1 đỡ các batch lặp lại cùng artist trong một phiên, L2 là persistent
// store với TTL 30 ngày.
type HybridCacheService struct {
	l1     *LRUCacheService
	l2     ICacheService
	logger *zap.Logger
}

// NewHybridCacheService tạo mới hybrid cache service
func NewHybridCacheService(l1 *LRUCacheService, l2 ICacheService, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{l1: l1, l2: l2, logger: logger}
}

// Get thử L1 trước, L2 sau; hit L2 thì backfill lên L1
func (hcs *HybridCacheService) Get(ctx context.Context, artist string) (*models.ResolvedLocation, bool, error) {
	result, found, err := hcs.l1.Get(ctx, artist)
	if err == nil && found {
		hcs.logger.Debug("L1 cache hit", zap.String("artist", artist))
		return result, true, nil
	}

	result, found, err = hcs.l2.Get(ctx, artist)
	if err != nil {
		// Cache read error: log và coi như miss, request vẫn tiếp tục
		hcs.logger.Warn("L2 cache read failed", zap.Error(err), zap.String("artist", artist))
		return nil, false, nil
	}
	if !found {
		return nil, false, nil
	}

	if err := hcs.l1.Set(ctx, artist, result); err != nil {
		hcs.logger.Warn("L2->L1 backfill failed", zap.Error(err), zap.String("artist", artist))
	}
	return result, true, nil
}

// Set ghi cả hai tầng. Lỗi L2 được log nhưng không chặn response:
// lost update chỉ tốn một lần re-resolve sau này.
func (hcs *HybridCacheService) Set(ctx context.Context, artist string, result *models.ResolvedLocation) error {
	if err := hcs.l1.Set(ctx, artist, result); err != nil {
		hcs.logger.Warn("L1 cache write failed", zap.Error(err), zap.String("artist", artist))
	}
	if err := hcs.l2.Set(ctx, artist, result); err != nil {
		hcs.logger.Warn("L2 cache write failed", zap.Error(err), zap.String("artist", artist))
		return err
	}
	return nil
}

// Delete xóa khỏi cả hai tầng
func (hcs *HybridCacheService) Delete(ctx context.Context, artist string) error {
	if err := hcs.l1.Delete(ctx, artist); err != nil {
		hcs.logger.Warn("L1 cache delete failed", zap.Error(err), zap.String("artist", artist))
	}
	return hcs.l2.Delete(ctx, artist)
}

// Clear xóa cả hai tầng
func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	if err := hcs.l1.Clear(ctx); err != nil {
		hcs.logger.Warn("L1 cache clear failed", zap.Error(err))
	}
	return hcs.l2.Clear(ctx)
}

// Exists kiểm tra theo thứ tự L1, L2
func (hcs *HybridCacheService) Exists(ctx context.Context, artist string) (bool, error) {
	if found, err := hcs.l1.Exists(ctx, artist); err == nil && found {
		return true, nil
	}
	return hcs.l2.Exists(ctx, artist)
}

// GetTTL TTL của tầng persistent
func (hcs *HybridCacheService) GetTTL(ctx context.Context, artist string) (time.Duration, error) {
	return hcs.l2.GetTTL(ctx, artist)
}

// GetStats thống kê của tầng persistent
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	return hcs.l2.GetStats(ctx)
}

// Close đóng cả hai tầng
func (hcs *HybridCacheService) Close() error {
	hcs.l1.Close()
	return hcs.l2.Close()
}
