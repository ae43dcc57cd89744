package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shouni/go-proverbs-kit/pkg/domain"
)

const (
	// DefaultPrefix は永続キャッシュのキーの固定プレフィックスなのだ。
	DefaultPrefix = "proverbs-cache"
	// DefaultSchemaVersion はデータ形式が変わったら上げるバージョンです。
	// 古い形の値を読まないようにキーに含めるのだ。
	DefaultSchemaVersion = "v1"
)

// ChapterStore は翻訳ごとのチャプターマップ全体を JSON で Store に保存します。
type ChapterStore struct {
	store   Store
	prefix  string
	version string
}

// NewChapterStore は ChapterStore を生成するのだ。空のプレフィックスやバージョンには既定値を使います。
func NewChapterStore(s Store, prefix, version string) (*ChapterStore, error) {
	if s == nil {
		return nil, errors.New("store は必須です")
	}
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultPrefix
	}
	if strings.TrimSpace(version) == "" {
		version = DefaultSchemaVersion
	}
	return &ChapterStore{store: s, prefix: prefix, version: version}, nil
}

// Key は "proverbs-cache:v1:web" のような保存キーを返すのだ。
func (c *ChapterStore) Key(translation string) string {
	return c.prefix + ":" + c.version + ":" + domain.NormalizeTranslation(translation)
}

// Load は翻訳のチャプターマップを読み込みます。未保存なら ErrNotFound です。
func (c *ChapterStore) Load(ctx context.Context, translation string) (domain.ChapterDocument, error) {
	data, err := c.store.Get(ctx, c.Key(translation))
	if err != nil {
		return domain.ChapterDocument{}, err
	}
	var doc domain.ChapterDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.ChapterDocument{}, fmt.Errorf("decode cached %s: %w", translation, err)
	}
	return doc, nil
}

// Save は翻訳のチャプターマップ全体で以前の値を置き換えるのだ。
func (c *ChapterStore) Save(ctx context.Context, translation string, doc domain.ChapterDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", translation, err)
	}
	return c.store.Put(ctx, c.Key(translation), data)
}
