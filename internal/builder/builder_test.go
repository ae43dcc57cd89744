package builder

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shouni/go-proverbs-kit/internal/config"
	"github.com/shouni/go-proverbs-kit/pkg/domain"
	"github.com/shouni/go-proverbs-kit/pkg/loader"
	"github.com/shouni/go-proverbs-kit/pkg/reflection"
	"github.com/shouni/go-proverbs-kit/pkg/source"
	"github.com/shouni/go-proverbs-kit/pkg/store"
)

const webPayload = `{"chapters":{"3":{"verses":[{"reference":"3:5","text":"Trust in Yahweh with all your heart"}]}}}`

func newTestConfig(t *testing.T, srvURL string, opts config.Options) *config.Config {
	t.Helper()
	catalog := filepath.Join(t.TempDir(), "catalog.yaml")
	body := "book: Proverbs\ndefault: web\ntranslations:\n" +
		"  - code: web\n    url: \"" + srvURL + "/web.json\"\n" +
		"  - code: kjv\n    url: \"" + srvURL + "/kjv.json\"\n"
	if err := os.WriteFile(catalog, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		StoreDSN:          "memory:",
		CachePrefix:       store.DefaultPrefix,
		CacheVersion:      store.DefaultSchemaVersion,
		CatalogFile:       catalog,
		ProbeURL:          srvURL + "/ping",
		PlaceholderNotice: domain.DefaultPlaceholderNotice,
		FetchTimeout:      config.DefaultHTTPTimeout,
	}
	cfg.Apply(opts)
	return cfg
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/web.json":
			_, _ = w.Write([]byte(webPayload))
		case "/ping":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewAppContext(t *testing.T) {
	t.Run("オンラインならネットワークから読んで描画するのだ", func(t *testing.T) {
		srv := newServer(t)
		var out bytes.Buffer
		app, err := NewAppContext(context.Background(), newTestConfig(t, srv.URL, config.Options{}), &out, srv.Client())
		if err != nil {
			t.Fatalf("NewAppContext() error = %v", err)
		}
		defer app.Close()

		if app.Translation() != "web" {
			t.Errorf("Translation() = %q", app.Translation())
		}
		res := app.Loader.Load(context.Background(), 3, app.Translation())
		if res.Origin != loader.OriginNetwork {
			t.Fatalf("Origin = %s, err = %v", res.Origin, res.Failure())
		}
		if !strings.Contains(out.String(), "Trust in Yahweh") {
			t.Errorf("描画されていないのだ:\n%s", out.String())
		}
	})

	t.Run("--offline なら通信せずにフォールバックなのだ", func(t *testing.T) {
		srv := newServer(t)
		var out bytes.Buffer
		app, err := NewAppContext(context.Background(), newTestConfig(t, srv.URL, config.Options{Offline: true}), &out, srv.Client())
		if err != nil {
			t.Fatalf("NewAppContext() error = %v", err)
		}
		defer app.Close()

		res := app.Loader.Load(context.Background(), 3, "web")
		if !res.IsFallback() || res.Err.Kind != loader.KindNotConnected {
			t.Errorf("NotConnected のフォールバックを期待したのだ: %+v", res)
		}
	})

	t.Run("並列表示なら2列の端末なのだ", func(t *testing.T) {
		srv := newServer(t)
		var out bytes.Buffer
		app, err := NewAppContext(context.Background(), newTestConfig(t, srv.URL, config.Options{Parallel: "kjv"}), &out, srv.Client())
		if err != nil {
			t.Fatalf("NewAppContext() error = %v", err)
		}
		defer app.Close()

		app.Loader.LoadParallel(context.Background(), 3, "web", "kjv")
		if !strings.Contains(out.String(), "WEB vs KJV") {
			t.Errorf("並列の見出しが無いのだ:\n%s", out.String())
		}
	})

	t.Run("相手のいない並列指定は1列の端末なのだ", func(t *testing.T) {
		srv := newServer(t)
		cfg := newTestConfig(t, srv.URL, config.Options{Parallel: "web"})
		var out bytes.Buffer
		app, err := NewAppContext(context.Background(), cfg, &out, srv.Client())
		if err != nil {
			t.Fatalf("NewAppContext() error = %v", err)
		}
		defer app.Close()

		if app.Partner != "" {
			t.Errorf("Partner = %q, 空を期待したのだ", app.Partner)
		}
		app.Loader.Load(context.Background(), 3, "web")
		if !strings.Contains(out.String(), "Trust in Yahweh") {
			t.Errorf("1件だけでも描画されるはずなのだ:\n%s", out.String())
		}
	})

	t.Run("不正なストア指定はエラーなのだ", func(t *testing.T) {
		cfg := newTestConfig(t, "http://127.0.0.1:1", config.Options{StoreDSN: "redis://nowhere"})
		if _, err := NewAppContext(context.Background(), cfg, &bytes.Buffer{}, http.DefaultClient); err == nil {
			t.Error("エラーを期待したのだ")
		}
	})
}

func TestParallelPartner(t *testing.T) {
	catalog, err := source.DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	single, err := source.ParseCatalog([]byte("translations:\n  - {code: web, url: a}\n"))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		catalog  *source.Catalog
		parallel string
		want     string
	}{
		{"指定なしは単独表示なのだ", catalog, "", ""},
		{"値なしは相手を自動で選ぶのだ", catalog, config.ParallelAuto, "kjv"},
		{"明示した翻訳を使うのだ", catalog, "ASV", "asv"},
		{"自分自身は並べないのだ", catalog, "web", ""},
		{"1訳だけのカタログは単独表示なのだ", single, config.ParallelAuto, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParallelPartner(tt.parallel, tt.catalog, "web"); got != tt.want {
				t.Errorf("ParallelPartner() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildReflector_RequiresKey(t *testing.T) {
	srv := newServer(t)
	cfg := newTestConfig(t, srv.URL, config.Options{})
	app, err := NewAppContext(context.Background(), cfg, &bytes.Buffer{}, srv.Client())
	if err != nil {
		t.Fatalf("NewAppContext() error = %v", err)
	}
	defer app.Close()

	if _, err := BuildReflector(context.Background(), app); !errors.Is(err, reflection.ErrMissingAPIKey) {
		t.Errorf("ErrMissingAPIKey を期待したのだ: %v", err)
	}
}
