package config

import (
	"os"
	"testing"
	"time"

	"github.com/shouni/go-proverbs-kit/pkg/domain"
	"github.com/shouni/go-proverbs-kit/pkg/store"
)

func TestLoadConfig(t *testing.T) {
	t.Run("環境変数が無ければ既定値なのだ", func(t *testing.T) {
		for _, k := range []string{"PROVERBS_STORE", "PROVERBS_CACHE_VERSION", "PROVERBS_FETCH_TIMEOUT", "GEMINI_API_KEY", "PROVERBS_PLACEHOLDER"} {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
		cfg := LoadConfig()
		if cfg.StoreDSN != DefaultStoreDSN {
			t.Errorf("StoreDSN = %q", cfg.StoreDSN)
		}
		if cfg.CacheVersion != store.DefaultSchemaVersion {
			t.Errorf("CacheVersion = %q", cfg.CacheVersion)
		}
		if cfg.FetchTimeout != DefaultHTTPTimeout {
			t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
		}
		if cfg.PlaceholderNotice != domain.DefaultPlaceholderNotice {
			t.Errorf("PlaceholderNotice = %q", cfg.PlaceholderNotice)
		}
		if cfg.GeminiAPIKey != "" {
			t.Error("API キーの既定値は空のはずなのだ")
		}
	})

	t.Run("環境変数を読むのだ", func(t *testing.T) {
		t.Setenv("PROVERBS_STORE", "memory:")
		t.Setenv("PROVERBS_CACHE_VERSION", "v2")
		t.Setenv("PROVERBS_FETCH_TIMEOUT", "3s")
		t.Setenv("PROVERBS_PREFETCH_INTERVAL", "2")
		t.Setenv("GEMINI_API_KEY", "from-env")

		cfg := LoadConfig()
		if cfg.StoreDSN != "memory:" || cfg.CacheVersion != "v2" {
			t.Errorf("cfg = %+v", cfg)
		}
		if cfg.FetchTimeout != 3*time.Second {
			t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
		}
		if cfg.PrefetchInterval != 2*time.Second {
			t.Errorf("PrefetchInterval = %v", cfg.PrefetchInterval)
		}
		if cfg.GeminiAPIKey != "from-env" {
			t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
		}
	})

	t.Run("不正な期間は既定値に戻すのだ", func(t *testing.T) {
		t.Setenv("PROVERBS_FETCH_TIMEOUT", "soon")
		if got := LoadConfig().FetchTimeout; got != DefaultHTTPTimeout {
			t.Errorf("FetchTimeout = %v", got)
		}
	})
}

func TestConfig_Apply(t *testing.T) {
	cfg := &Config{StoreDSN: DefaultStoreDSN, DefaultTranslation: "web", FetchTimeout: DefaultHTTPTimeout, GeminiModel: DefaultModel}
	cfg.Apply(Options{Translation: "kjv", HTTPTimeout: time.Second, Offline: true})

	if cfg.DefaultTranslation != "kjv" {
		t.Errorf("DefaultTranslation = %q", cfg.DefaultTranslation)
	}
	if cfg.StoreDSN != DefaultStoreDSN {
		t.Errorf("空のフラグで上書きしてはいけないのだ: %q", cfg.StoreDSN)
	}
	if cfg.FetchTimeout != time.Second || cfg.ProbeTimeout() != time.Second {
		t.Errorf("FetchTimeout = %v, ProbeTimeout = %v", cfg.FetchTimeout, cfg.ProbeTimeout())
	}
	if !cfg.Options.Offline {
		t.Error("Options が反映されていないのだ")
	}
}
