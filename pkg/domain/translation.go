package domain

import (
	"fmt"
	"strings"
)

// DefaultBook は日替わりで読む書名なのだ。
const DefaultBook = "Proverbs"

// Translation はカタログに登録された翻訳1件の定義です。
type Translation struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"` // チャプターデータのJSON取得先
}

// String は翻訳の情報を文字列で返すのだ。
func (t Translation) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, strings.ToUpper(t.Code))
}

// Title は "Proverbs — Chapter 5 (WEB)" のような見出しを作るのだ。
// parallel が空でなければ "WEB vs KJV" の並列表記にします。
func Title(book string, chapter int, translation, parallel string) string {
	if book == "" {
		book = DefaultBook
	}
	label := strings.ToUpper(translation)
	if parallel != "" {
		label += " vs " + strings.ToUpper(parallel)
	}
	return fmt.Sprintf("%s — Chapter %d (%s)", book, chapter, label)
}
