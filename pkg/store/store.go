// Package store はセッションをまたいで残る永続キャッシュ（キーバリューストア）を扱うのだ。
//
// 値は常に丸ごと置き換えます。読み手が書きかけの値を見ることはありません。
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound はキーに値が無いことを示します。
var ErrNotFound = errors.New("store: key not found")

// Store は永続キャッシュの契約なのだ。
type Store interface {
	// Get はキーに対応する値を返します。無ければ ErrNotFound です。
	Get(ctx context.Context, key string) ([]byte, error)
	// Put はキーの値を丸ごと置き換えます。
	Put(ctx context.Context, key string, value []byte) error
	// Close は保持しているリソースを解放します。
	Close() error
}

// Open は DSN からバックエンドを選んでストアを開くのだ。
//
//	memory:            プロセス内のみ
//	file:<dir>         キーごとに JSON ファイル
//	sqlite:<path>      SQLite の kv テーブル
func Open(dsn string) (Store, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(dsn), ":")
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(arg)
	case "sqlite":
		return OpenSQLite(arg)
	default:
		return nil, fmt.Errorf("unsupported store %q (want memory:, file:<dir> or sqlite:<path>)", dsn)
	}
}
