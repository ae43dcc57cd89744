// Package connectivity は「いまネットワークにつながっているか」を読み取り専用で答えるのだ。
package connectivity

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// DefaultProbeTimeout は疎通確認1回あたりの待ち時間なのだ。
	DefaultProbeTimeout = 2 * time.Second
	// DefaultProbeTTL は疎通結果を使い回す時間です。
	DefaultProbeTTL = 5 * time.Second

	resultKey = "online"
)

// Probe はネットワーク接続の有無を返す外部協力者の契約です。
type Probe interface {
	Online(ctx context.Context) bool
}

// Static は固定値を返す Probe なのだ。--offline フラグやテストで使います。
type Static bool

func (s Static) Online(context.Context) bool { return bool(s) }

// Func は関数を Probe として使うためのアダプタなのだ。
type Func func(ctx context.Context) bool

func (f Func) Online(ctx context.Context) bool { return f(ctx) }

// Doer は HTTP リクエストを実行できるクライアントです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProbe は指定 URL への HEAD が返ってくるかで接続を判定します。
// ステータスは問わず、応答があればオンラインとみなすのだ。
type HTTPProbe struct {
	client  Doer
	url     string
	timeout time.Duration
	memo    *cache.Cache
}

// NewHTTPProbe は HTTPProbe を生成します。ttl の間は前回の結果を返すのだ。
func NewHTTPProbe(client Doer, url string, timeout, ttl time.Duration) *HTTPProbe {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if ttl <= 0 {
		ttl = DefaultProbeTTL
	}
	return &HTTPProbe{
		client:  client,
		url:     url,
		timeout: timeout,
		memo:    cache.New(ttl, 2*ttl),
	}
}

func (p *HTTPProbe) Online(ctx context.Context) bool {
	if v, ok := p.memo.Get(resultKey); ok {
		if online, ok := v.(bool); ok {
			return online
		}
	}

	online := p.check(ctx)
	p.memo.Set(resultKey, online, cache.DefaultExpiration)
	return online
}

func (p *HTTPProbe) check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		slog.WarnContext(ctx, "Invalid connectivity probe URL", "url", p.url, "error", err)
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		slog.DebugContext(ctx, "Connectivity probe failed", "url", p.url, "error", err)
		return false
	}
	_ = resp.Body.Close()
	return true
}
