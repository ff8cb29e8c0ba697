package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ResolverCfg các knob hand-tuned của resolver. Các delay không gắn với
// quota cụ thể nào của upstream nên để ra config thay vì hardcode.
type ResolverCfg struct {
	MusicBrainzPaceMs   int `yaml:"musicbrainz_pace_ms" json:"musicbrainz_pace_ms"`     // Khoảng cách giữa hai request MusicBrainz
	InterResolveDelayMs int `yaml:"inter_resolve_delay_ms" json:"inter_resolve_delay_ms"` // Nghỉ giữa hai resolve trong batch
	MaxRetries          int `yaml:"max_retries" json:"max_retries"`                       // Số lần retry cho 429/503
	MinSearchScore      int `yaml:"min_search_score" json:"min_search_score"`             // Score tối thiểu của search candidate
	BatchLimit          int `yaml:"batch_limit" json:"batch_limit"`                       // Số artist tối đa một batch
	CacheTTLDays        int `yaml:"cache_ttl_days" json:"cache_ttl_days"`                 // TTL cache theo ngày
	L1CacheSize         int `yaml:"l1_cache_size" json:"l1_cache_size"`                   // Kích thước LRU in-process
}

// C config toàn cục, load một lần lúc khởi động
var C = Defaults()

// Defaults giá trị mặc định của resolver config
func Defaults() ResolverCfg {
	return ResolverCfg{
		MusicBrainzPaceMs:   1100,
		InterResolveDelayMs: 500,
		MaxRetries:          2,
		MinSearchScore:      70,
		BatchLimit:          50,
		CacheTTLDays:        30,
		L1CacheSize:         10000,
	}
}

// Load đọc YAML config nếu có, rồi áp env overrides. File thiếu không
// phải lỗi, chạy với defaults.
func Load(path string) error {
	C = Defaults()

	b, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(b, &C); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	// ENV overrides
	if v := envInt("MUSICBRAINZ_PACE_MS"); v > 0 {
		C.MusicBrainzPaceMs = v
	}
	if v := envInt("INTER_RESOLVE_DELAY_MS"); v > 0 {
		C.InterResolveDelayMs = v
	}
	if v := envInt("L1_CACHE_SIZE"); v > 0 {
		C.L1CacheSize = v
	}
	return nil
}

// Pace khoảng cách tối thiểu giữa hai request MusicBrainz
func (c ResolverCfg) Pace() time.Duration {
	return time.Duration(c.MusicBrainzPaceMs) * time.Millisecond
}

// InterResolveDelay nghỉ giữa hai resolve trong một batch
func (c ResolverCfg) InterResolveDelay() time.Duration {
	return time.Duration(c.InterResolveDelayMs) * time.Millisecond
}

// CacheTTL TTL của cache entries
func (c ResolverCfg) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLDays) * 24 * time.Hour
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
