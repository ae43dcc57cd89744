// Package loader はチャプターの読み込みと、キャッシュ解決の順序を担う中核なのだ。
//
// 解決順序:
//  1. セッションキャッシュ（I/O なし）
//  2. 永続キャッシュ
//  3. 接続確認（オフラインならネットワークを飛ばす）
//  4. ネットワーク取得（制限時間つき）
//  5. プレースホルダーへのフォールバック
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shouni/go-proverbs-kit/pkg/connectivity"
	"github.com/shouni/go-proverbs-kit/pkg/domain"
	"github.com/shouni/go-proverbs-kit/pkg/store"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout はネットワーク取得1回あたりの上限なのだ。
const DefaultTimeout = 10 * time.Second

// Fetcher は翻訳1つ分のチャプターマップ全体を取得するデータソースです。
type Fetcher interface {
	Fetch(ctx context.Context, translation string) (domain.ChapterDocument, error)
}

// Durable は翻訳ごとのチャプターマップを丸ごと保存する永続キャッシュです。
// 未保存の翻訳は store.ErrNotFound を返すのだ。
type Durable interface {
	Load(ctx context.Context, translation string) (domain.ChapterDocument, error)
	Save(ctx context.Context, translation string, doc domain.ChapterDocument) error
}

// Origin は結果がどこから来たかを表します。
type Origin string

const (
	OriginSession  Origin = "session"
	OriginDurable  Origin = "durable"
	OriginNetwork  Origin = "network"
	OriginFallback Origin = "fallback"
)

// Result は Load の結果です。Verses は常に1件以上あるのだ。
type Result struct {
	Key    domain.ChapterKey
	Verses domain.Verses
	Origin Origin
	Err    *LoadError // フォールバック時だけ設定される
}

// IsFallback はプレースホルダーを返したかどうかなのだ。
func (r Result) IsFallback() bool { return r.Origin == OriginFallback }

// Failure は診断情報を error として返します。成功時は nil です。
func (r Result) Failure() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}

// RenderFunc は結果を受け取って表示する UI 側の協力者なのだ。
type RenderFunc func(Result)

// Config は Loader の依存関係と設定です。
type Config struct {
	Fetcher Fetcher
	Durable Durable
	// Probe が nil なら常にオンラインとみなすのだ。
	Probe  connectivity.Probe
	Render RenderFunc
	// Timeout はネットワーク取得の上限。0 なら DefaultTimeout です。
	Timeout time.Duration
	// PlaceholderNotice はフォールバック時の案内文。"%s" にラベルが入ります。
	PlaceholderNotice string
	// PrefetchInterval と PrefetchConcurrency は Prefetch の取得ペースなのだ。
	PrefetchInterval    time.Duration
	PrefetchConcurrency int
}

// Loader は (チャプター, 翻訳) を節の並びに解決します。
// 呼び出し間で持つ状態はキャッシュと直近の結果だけなのだ。
type Loader struct {
	fetcher Fetcher
	durable Durable
	probe   connectivity.Probe
	render  RenderFunc
	timeout time.Duration
	notice  string

	prefetchInterval    time.Duration
	prefetchConcurrency int

	session    *cache.Cache
	fetchGroup singleflight.Group

	renderMu sync.Mutex
	mu       sync.RWMutex
	current  Result
	loaded   bool
}

// New は Loader を生成するのだ。
func New(cfg Config) (*Loader, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("fetcher は必須です")
	}
	if cfg.Durable == nil {
		return nil, errors.New("durable は必須です")
	}
	l := &Loader{
		fetcher:             cfg.Fetcher,
		durable:             cfg.Durable,
		probe:               cfg.Probe,
		render:              cfg.Render,
		timeout:             cfg.Timeout,
		notice:              cfg.PlaceholderNotice,
		prefetchInterval:    cfg.PrefetchInterval,
		prefetchConcurrency: cfg.PrefetchConcurrency,
		// セッション中は追い出さない。置き換えのみなのだ。
		session: cache.New(cache.NoExpiration, 0),
	}
	if l.probe == nil {
		l.probe = connectivity.Static(true)
	}
	if l.render == nil {
		l.render = func(Result) {}
	}
	if l.timeout <= 0 {
		l.timeout = DefaultTimeout
	}
	if l.prefetchConcurrency <= 0 {
		l.prefetchConcurrency = 2
	}
	return l, nil
}

// Load はチャプターを解決し、描画コールバックをちょうど1回呼んで結果を返します。
// 失敗は Result.Err に入り、戻り値として error を返すことはないのだ。
func (l *Loader) Load(ctx context.Context, chapter int, translation string) Result {
	res := l.resolve(ctx, chapter, translation)
	l.publish(res)
	return res
}

// Current は直近に描画した結果を返すのだ。
func (l *Loader) Current() (Result, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current, l.loaded
}

// Cached はセッションキャッシュにキーがあるかを返します。
func (l *Loader) Cached(chapter int, translation string) bool {
	key, err := domain.NewChapterKey(chapter, translation)
	if err != nil {
		return false
	}
	_, ok := l.sessionGet(key)
	return ok
}

// publish は描画と Current の更新を行うのだ。描画は並行に呼ばれないようにします。
func (l *Loader) publish(res Result) {
	l.renderMu.Lock()
	defer l.renderMu.Unlock()

	l.publishLocked(res)
}

// publishLocked は renderMu を持った状態で呼ぶのだ。
func (l *Loader) publishLocked(res Result) {
	l.setCurrent(res)
	l.render(res)
}

func (l *Loader) setCurrent(res Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = res
	l.loaded = true
}

// resolve は描画を伴わない解決処理の本体なのだ。
func (l *Loader) resolve(ctx context.Context, chapter int, translation string) Result {
	key, err := domain.NewChapterKey(chapter, translation)
	if err != nil {
		return l.fallback(ctx, key, &LoadError{Kind: KindInvalidRequest, Key: key, Err: err})
	}

	// 1. セッションキャッシュ
	if verses, ok := l.sessionGet(key); ok {
		slog.DebugContext(ctx, "Chapter served from session cache", "key", key.String())
		return Result{Key: key, Verses: verses, Origin: OriginSession}
	}

	// 2. 永続キャッシュ
	if verses, ok := l.fromDurable(ctx, key); ok {
		slog.DebugContext(ctx, "Chapter served from durable cache", "key", key.String())
		return Result{Key: key, Verses: verses, Origin: OriginDurable}
	}

	// 3. 接続確認
	if !l.probe.Online(ctx) {
		return l.fallback(ctx, key, &LoadError{Kind: KindNotConnected, Key: key, Err: ErrNotConnected})
	}

	// 4. ネットワーク取得
	verses, err := l.fetchChapter(ctx, key)
	if err != nil {
		return l.fallback(ctx, key, classify(key, err))
	}
	slog.DebugContext(ctx, "Chapter fetched from network", "key", key.String(), "verses", len(verses))
	return Result{Key: key, Verses: verses, Origin: OriginNetwork}
}

// fallback はプレースホルダー1件と診断情報を組み立てるのだ（5. フォールバック）。
func (l *Loader) fallback(ctx context.Context, key domain.ChapterKey, le *LoadError) Result {
	slog.WarnContext(ctx, "Falling back to placeholder",
		"key", key.String(),
		"kind", le.Kind.String(),
		"error", le.Err,
	)
	return Result{
		Key:    key,
		Verses: domain.Placeholder(key, l.notice),
		Origin: OriginFallback,
		Err:    le,
	}
}

func (l *Loader) sessionGet(key domain.ChapterKey) (domain.Verses, bool) {
	v, ok := l.session.Get(key.String())
	if !ok {
		return nil, false
	}
	verses, ok := v.(domain.Verses)
	if !ok || len(verses) == 0 {
		return nil, false
	}
	return verses.Clone(), true
}

func (l *Loader) sessionSet(key domain.ChapterKey, verses domain.Verses) {
	l.session.Set(key.String(), verses.Clone(), cache.NoExpiration)
}

// adopt はドキュメント中の有効な全チャプターをセッションキャッシュに載せるのだ。
func (l *Loader) adopt(translation string, doc domain.ChapterDocument) int {
	n := 0
	for _, ch := range doc.ChapterNumbers() {
		key, err := domain.NewChapterKey(ch, translation)
		if err != nil {
			continue
		}
		verses, _ := doc.Lookup(ch)
		l.sessionSet(key, verses)
		n++
	}
	return n
}

func (l *Loader) fromDurable(ctx context.Context, key domain.ChapterKey) (domain.Verses, bool) {
	doc, err := l.durable.Load(ctx, key.Translation)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "Durable cache read failed; treating as miss", "key", key.String(), "error", err)
		}
		return nil, false
	}
	verses, ok := doc.Lookup(key.Chapter)
	if !ok {
		return nil, false
	}
	l.sessionSet(key, verses)
	return verses, true
}

// fetchChapter は同じキーの同時取得を1回にまとめて、ネットワークから取得・検証・保存するのだ。
func (l *Loader) fetchChapter(ctx context.Context, key domain.ChapterKey) (domain.Verses, error) {
	val, err := l.flight(ctx, key.String(), func(flightCtx context.Context) (interface{}, error) {
		// 待機中に他の呼び出しが取得を終えている可能性があるので再確認するのだ
		if verses, ok := l.sessionGet(key); ok {
			return verses, nil
		}

		doc, err := l.fetchDocument(flightCtx, key.Translation)
		if err != nil {
			return nil, err
		}
		if err := doc.Validate(key.Chapter); err != nil {
			// 検証に失敗したら永続キャッシュには触れない
			return nil, err
		}
		verses, _ := doc.Lookup(key.Chapter)

		l.adopt(key.Translation, doc)
		if err := l.durable.Save(flightCtx, key.Translation, doc); err != nil {
			slog.WarnContext(flightCtx, "Failed to persist chapter map", "translation", key.Translation, "error", err)
		}
		return verses, nil
	})
	if err != nil {
		return nil, err
	}

	verses, ok := val.(domain.Verses)
	if !ok {
		return nil, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return verses.Clone(), nil
}

// flight は singleflight で同じキーの処理を1回にまとめます。
// 処理そのものは最初の呼び出し元のキャンセルを引き継がず、制限時間は fetchDocument が付けるのだ。
// 待っている側はそれぞれ自分の ctx が終わった時点で待つのをやめます。
func (l *Loader) flight(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := l.fetchGroup.DoChan(key, func() (interface{}, error) {
		return fn(flightCtx)
	})

	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fetchDocument は制限時間つきで翻訳1つ分を取得します。
func (l *Loader) fetchDocument(ctx context.Context, translation string) (domain.ChapterDocument, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	doc, err := l.fetcher.Fetch(fetchCtx, translation)
	if err != nil {
		if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return domain.ChapterDocument{}, fmt.Errorf("%w after %s: %w", ErrTimeout, l.timeout, err)
		}
		return domain.ChapterDocument{}, err
	}
	return doc, nil
}
