package builder

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/go-proverbs-kit/internal/config"
	"github.com/shouni/go-proverbs-kit/pkg/connectivity"
	"github.com/shouni/go-proverbs-kit/pkg/domain"
	"github.com/shouni/go-proverbs-kit/pkg/loader"
	"github.com/shouni/go-proverbs-kit/pkg/prompts"
	"github.com/shouni/go-proverbs-kit/pkg/reflection"
	"github.com/shouni/go-proverbs-kit/pkg/render"
	"github.com/shouni/go-proverbs-kit/pkg/source"
	"github.com/shouni/go-proverbs-kit/pkg/store"

	"github.com/shouni/go-http-kit/httpkit"
)

// NewAppContext は設定から Loader までを組み立てるのだ。
// client が nil なら httpkit のクライアントを使います。
func NewAppContext(ctx context.Context, cfg *config.Config, out io.Writer, client source.Doer) (*AppContext, error) {
	catalog, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	if client == nil {
		client = httpkit.New(cfg.FetchTimeout)
	}

	kv, err := store.Open(cfg.StoreDSN)
	if err != nil {
		return nil, fmt.Errorf("永続ストアのオープンに失敗しました: %w", err)
	}
	chapters, err := store.NewChapterStore(kv, cfg.CachePrefix, cfg.CacheVersion)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	src, err := source.NewHTTPSource(client, catalog)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("取得元の初期化に失敗しました: %w", err)
	}

	opts := cfg.Options
	// 列数は相手の翻訳が決まってから選ぶのだ。相手がいなければ1列です。
	partner := ParallelPartner(opts.Parallel, catalog, primaryTranslation(cfg, catalog))
	columns := 1
	if partner != "" {
		columns = 2
	}
	width := opts.Width
	if width <= 0 {
		width = config.DefaultWidth
	}
	term := render.NewTerminal(out, catalog.Book(),
		render.WithColumns(columns),
		render.WithWidth(width),
		render.WithOrigin(opts.Verbose),
	)

	renderFn := loader.RenderFunc(term.Render)
	if opts.Quiet {
		renderFn = func(loader.Result) {}
	}

	l, err := loader.New(loader.Config{
		Fetcher:           src,
		Durable:           chapters,
		Probe:             buildProbe(cfg, client),
		Render:            renderFn,
		Timeout:           cfg.FetchTimeout,
		PlaceholderNotice: cfg.PlaceholderNotice,
		PrefetchInterval:  cfg.PrefetchInterval,
	})
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("ローダーの初期化に失敗しました: %w", err)
	}

	slog.DebugContext(ctx, "AppContext を組み立てたのだ",
		"store", cfg.StoreDSN,
		"cache_key", chapters.Key(catalog.Default()),
		"translations", catalog.Codes(),
		"offline", opts.Offline,
		"partner", partner)

	return &AppContext{
		Config:   cfg,
		Options:  opts,
		Catalog:  catalog,
		Loader:   l,
		Terminal: term,
		Partner:  partner,
		Out:      out,
		store:    kv,
	}, nil
}

// BuildReflector は Gemini を使う Reflector を構築します。API キーは設定からのみ読むのだ。
func BuildReflector(ctx context.Context, appCtx *AppContext) (*reflection.Reflector, error) {
	gen, err := reflection.NewGeminiGenerator(ctx, appCtx.Config.GeminiAPIKey, appCtx.Config.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("GeminiGeneratorの初期化に失敗したのだ: %w", err)
	}
	pb, err := prompts.NewTextPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("プロンプトビルダーの初期化に失敗しました: %w", err)
	}
	return reflection.New(gen, pb, appCtx.Catalog.Book()), nil
}

// ParallelPartner は --parallel の値から並べる翻訳を決めるのだ。
// 値なし（auto）ならカタログから選び、候補が無いか primary と同じなら空を返します。
func ParallelPartner(parallel string, catalog *source.Catalog, primary string) string {
	primary = domain.NormalizeTranslation(primary)
	var partner string
	switch parallel = domain.NormalizeTranslation(parallel); parallel {
	case "":
		return ""
	case config.ParallelAuto:
		other, ok := catalog.ParallelFor(primary)
		if !ok {
			return ""
		}
		partner = other
	default:
		partner = parallel
	}
	if partner == primary {
		return ""
	}
	return partner
}

func primaryTranslation(cfg *config.Config, catalog *source.Catalog) string {
	if cfg.DefaultTranslation != "" {
		return cfg.DefaultTranslation
	}
	return catalog.Default()
}

func loadCatalog(path string) (*source.Catalog, error) {
	if path == "" {
		return source.DefaultCatalog()
	}
	c, err := source.LoadCatalogFile(path)
	if err != nil {
		return nil, fmt.Errorf("翻訳カタログ '%s' の読み込みに失敗しました: %w", path, err)
	}
	return c, nil
}

// buildProbe は --offline なら常にオフライン、それ以外は HTTP で接続を確認するのだ。
func buildProbe(cfg *config.Config, client source.Doer) connectivity.Probe {
	if cfg.Options.Offline {
		return connectivity.Static(false)
	}
	if cfg.ProbeURL == "" {
		return connectivity.Static(true)
	}
	return connectivity.NewHTTPProbe(client, cfg.ProbeURL, cfg.ProbeTimeout(), connectivity.DefaultProbeTTL)
}
