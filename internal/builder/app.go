package builder

import (
	"errors"
	"io"

	"github.com/shouni/go-proverbs-kit/internal/config"
	"github.com/shouni/go-proverbs-kit/pkg/loader"
	"github.com/shouni/go-proverbs-kit/pkg/render"
	"github.com/shouni/go-proverbs-kit/pkg/source"
	"github.com/shouni/go-proverbs-kit/pkg/store"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各コマンドに渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config   *config.Config   // Configは、環境変数とフラグから組み立てた設定です。
	Options  config.Options   // Optionsは、コマンドラインから渡された実行時の設定です。
	Catalog  *source.Catalog  // Catalogは、利用できる翻訳の一覧です。
	Loader   *loader.Loader   // Loaderは、キャッシュ層をまたいで章を読み込みます。
	Terminal *render.Terminal // Terminalは、Loaderの描画コールバックの実体です。
	Partner  string           // Partnerは、並列表示で並べる翻訳です。空なら単独表示なのだ。
	Out      io.Writer

	store store.Store
}

// Translation は既定の翻訳コードを返すのだ。設定が無ければカタログの既定値です。
func (a *AppContext) Translation() string {
	return primaryTranslation(a.Config, a.Catalog)
}

// Close は永続ストアを閉じるのだ。
func (a *AppContext) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	if err != nil {
		return errors.Join(errors.New("永続ストアのクローズに失敗しました"), err)
	}
	return nil
}
