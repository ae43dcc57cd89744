package config

import (
	"strconv"
	"time"

	"github.com/shouni/go-proverbs-kit/pkg/connectivity"
	"github.com/shouni/go-proverbs-kit/pkg/domain"
	"github.com/shouni/go-proverbs-kit/pkg/loader"
	"github.com/shouni/go-proverbs-kit/pkg/store"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel            = "gemini-2.5-flash"
	DefaultHTTPTimeout      = loader.DefaultTimeout
	DefaultStoreDSN         = "sqlite:proverbs-cache.db"
	DefaultProbeURL         = "https://raw.githubusercontent.com/"
	DefaultPrefetchInterval = 500 * time.Millisecond
	DefaultWidth            = 100

	// ParallelAuto は --parallel を値なしで指定したときの値なのだ。
	ParallelAuto = "auto"
)

// Config は環境変数から読み込む設定を保持する構造体なのだ。
type Config struct {
	StoreDSN           string
	CachePrefix        string
	CacheVersion       string
	DefaultTranslation string
	CatalogFile        string
	ProbeURL           string
	PlaceholderNotice  string
	FetchTimeout       time.Duration
	PrefetchInterval   time.Duration
	GeminiAPIKey       string
	GeminiModel        string

	Options Options
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		StoreDSN:           envutil.GetEnv("PROVERBS_STORE", DefaultStoreDSN),
		CachePrefix:        envutil.GetEnv("PROVERBS_CACHE_PREFIX", store.DefaultPrefix),
		CacheVersion:       envutil.GetEnv("PROVERBS_CACHE_VERSION", store.DefaultSchemaVersion),
		DefaultTranslation: envutil.GetEnv("PROVERBS_TRANSLATION", ""),
		CatalogFile:        envutil.GetEnv("PROVERBS_CATALOG", ""),
		ProbeURL:           envutil.GetEnv("PROVERBS_PROBE_URL", DefaultProbeURL),
		PlaceholderNotice:  envutil.GetEnv("PROVERBS_PLACEHOLDER", domain.DefaultPlaceholderNotice),
		FetchTimeout:       durationEnv("PROVERBS_FETCH_TIMEOUT", DefaultHTTPTimeout),
		PrefetchInterval:   durationEnv("PROVERBS_PREFETCH_INTERVAL", DefaultPrefetchInterval),
		GeminiAPIKey:       envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:        envutil.GetEnv("GEMINI_MODEL", DefaultModel),
	}
}

// durationEnv は "10s" 形式か秒数で書かれた環境変数を読むのだ。読めなければ既定値です。
func durationEnv(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if sec, err := strconv.Atoi(raw); err == nil && sec > 0 {
		return time.Duration(sec) * time.Second
	}
	return def
}

// Apply は CLI フラグで明示された値を環境変数の値より優先させるのだ。
func (c *Config) Apply(opts Options) {
	c.Options = opts
	if opts.Translation != "" {
		c.DefaultTranslation = opts.Translation
	}
	if opts.StoreDSN != "" {
		c.StoreDSN = opts.StoreDSN
	}
	if opts.CatalogFile != "" {
		c.CatalogFile = opts.CatalogFile
	}
	if opts.HTTPTimeout > 0 {
		c.FetchTimeout = opts.HTTPTimeout
	}
	if opts.AIModel != "" {
		c.GeminiModel = opts.AIModel
	}
}

// ProbeTimeout は接続確認のタイムアウトです。取得のタイムアウトより長くはしないのだ。
func (c *Config) ProbeTimeout() time.Duration {
	if c.FetchTimeout > 0 && c.FetchTimeout < connectivity.DefaultProbeTimeout {
		return c.FetchTimeout
	}
	return connectivity.DefaultProbeTimeout
}

// Options は CLI フラグから渡される実行時のパラメータなのだ。
type Options struct {
	// 取得元とキャッシュ
	Translation string        // --translation
	StoreDSN    string        // --store
	CatalogFile string        // --catalog
	HTTPTimeout time.Duration // --http-timeout
	Offline     bool          // --offline

	// 表示
	Date     string // --date (YYYY-MM-DD)
	Parallel string // --parallel
	Width    int    // --width
	Verbose  bool   // --verbose
	Quiet    bool   // 章を描画せずに結果だけ使うコマンド用

	// AI
	AIModel string // --model
	Mode    string // --mode
}
