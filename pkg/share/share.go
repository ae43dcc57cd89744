// Package share は節を SNS で共有するためのリンクを作るのだ。
package share

import (
	"net/url"
)

// Targets は共有先ごとの URL です。
type Targets struct {
	WhatsApp string
	Twitter  string
	Facebook string
}

// Links はテキストを埋め込んだ共有リンクを作ります。空なら ok=false なのだ。
func Links(text string) (Targets, bool) {
	if text == "" {
		return Targets{}, false
	}
	return Targets{
		WhatsApp: "https://wa.me/?" + url.Values{"text": {text}}.Encode(),
		Twitter:  "https://twitter.com/intent/tweet?" + url.Values{"text": {text}}.Encode(),
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=&" + url.Values{"quote": {text}}.Encode(),
	}, true
}

// All は表示用に名前とリンクの組を順番に返すのだ。
func (l Targets) All() [][2]string {
	return [][2]string{
		{"WhatsApp", l.WhatsApp},
		{"Twitter", l.Twitter},
		{"Facebook", l.Facebook},
	}
}
