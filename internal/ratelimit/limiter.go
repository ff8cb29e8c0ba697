package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wrap rate.Limiter với tên upstream để log/debug
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// NewInterval tạo limiter cho phép một request mỗi interval. MusicBrainz
// giới hạn 1 request/giây nên dùng interval 1.1s để có biên an toàn.
func NewInterval(name string, interval time.Duration) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		name:    name,
	}
}

// Wait block cho đến khi limiter cho phép request tiếp theo
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Name tên của limiter
func (l *Limiter) Name() string {
	return l.name
}
