package fetcher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Fetcher HTTP GET client với retry cho transient status
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxRetries  int
	backoffBase time.Duration
	logger      *zap.Logger
}

// New tạo mới Fetcher. userAgent bắt buộc vì các knowledge base
// (MusicBrainz, Nominatim) từ chối request không có UA định danh.
func New(userAgent string, maxRetries int, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client:      &http.Client{Timeout: 30 * time.Second},
		userAgent:   userAgent,
		maxRetries:  maxRetries,
		backoffBase: 500 * time.Millisecond,
		logger:      logger,
	}
}

// Get thực hiện GET với retry trên 429/503, linear backoff 500ms * attempt.
// Status khác trả về response nguyên vẹn cho caller xử lý. Hết retry trả
// về (nil, nil) làm sentinel. Network error không retry, caller coi là
// definitive failure.
func (f *Fetcher) Get(ctx context.Context, url string) (*http.Response, error) {
	for attempt := 1; attempt <= f.maxRetries+1; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", f.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
			return resp, nil
		}

		// Transient status: drain body rồi backoff
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if attempt > f.maxRetries {
			f.logger.Warn("Retries exhausted",
				zap.String("url", url),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempts", attempt))
			return nil, nil
		}

		backoff := time.Duration(attempt) * f.backoffBase
		f.logger.Debug("Transient upstream status, retrying",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.Duration("backoff", backoff))

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, nil
}

// GetJSON GET rồi decode JSON. Trả về found=false khi hết retry hoặc
// status không phải 2xx; caller coi như một upstream miss.
func (f *Fetcher) GetJSON(ctx context.Context, url string, v interface{}) (bool, error) {
	resp, err := f.Get(ctx, url)
	if err != nil {
		return false, err
	}
	if resp == nil {
		return false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Warn("Upstream non-success status",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		io.Copy(io.Discard, resp.Body)
		return false, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, err
	}
	return true, nil
}
