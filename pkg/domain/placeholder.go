package domain

import (
	"fmt"
	"strings"
)

// DefaultPlaceholderNotice は本文が取得できないときに表示する既定の案内文なのだ。
// %s には "WEB 5" のようなラベルが入ります。
const DefaultPlaceholderNotice = "%s is not available right now. Connect to the internet and try again."

// Placeholder は取得できなかったチャプターの代わりに表示する1件だけの節を作ります。
// 翻訳ごとのサンプル本文は持たず、この1つのポリシーに集約するのだ。
func Placeholder(key ChapterKey, notice string) Verses {
	if strings.TrimSpace(notice) == "" {
		notice = DefaultPlaceholderNotice
	}
	text := notice
	if strings.Contains(notice, "%s") {
		text = fmt.Sprintf(notice, key.Label())
	}
	return Verses{{
		Reference: fmt.Sprintf("%d:0", key.Chapter),
		Text:      text,
	}}
}
