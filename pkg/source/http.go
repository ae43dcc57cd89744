// Package source はチャプターデータの取得元（静的 JSON や API）を扱うのだ。
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/shouni/go-proverbs-kit/pkg/domain"
)

// maxBodyBytes は1翻訳分のレスポンスとして読む上限なのだ。
const maxBodyBytes = 16 << 20

// Doer は HTTP リクエストを実行できるクライアントの契約です。
// httpkit のクライアントも *http.Client もこれを満たすのだ。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError はレスポンスは返ったがステータスが失敗を示すときのエラーです。
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d from %s", e.StatusCode, e.URL)
}

// HTTPSource は翻訳ごとの取得先へ GET してチャプターマップを返すのだ。
type HTTPSource struct {
	client  Doer
	catalog *Catalog
}

// NewHTTPSource は HTTPSource を生成します。
func NewHTTPSource(client Doer, catalog *Catalog) (*HTTPSource, error) {
	if client == nil {
		return nil, errors.New("http client は必須です")
	}
	if catalog == nil {
		return nil, errors.New("catalog は必須です")
	}
	return &HTTPSource{client: client, catalog: catalog}, nil
}

// Fetch は翻訳1つ分のチャプターマップ全体を取得します。
// 中身の検証（要求チャプターの有無）は呼び出し側の責務なのだ。
func (s *HTTPSource) Fetch(ctx context.Context, translation string) (domain.ChapterDocument, error) {
	t, err := s.catalog.Lookup(translation)
	if err != nil {
		return domain.ChapterDocument{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return domain.ChapterDocument{}, fmt.Errorf("リクエストの作成に失敗したのだ: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	slog.DebugContext(ctx, "Fetching chapter data", "translation", t.Code, "url", t.URL)
	resp, err := s.client.Do(req)
	if err != nil {
		return domain.ChapterDocument{}, fmt.Errorf("fetch %s: %w", t.Code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.ChapterDocument{}, &StatusError{StatusCode: resp.StatusCode, URL: t.URL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.ChapterDocument{}, fmt.Errorf("read %s body: %w", t.Code, err)
	}
	return DecodeDocument(body)
}
