package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shouni/go-proverbs-kit/pkg/domain"
)

// ErrMalformedPayload はレスポンスを期待するチャプターマップとして解釈できないことを示します。
var ErrMalformedPayload = errors.New("malformed chapter payload")

// DecodeDocument はデータソースのレスポンスをチャプターマップに変換するのだ。
//
// 受け付ける形は3つです。
//   - {"chapters": {"5": {"verses": [{"reference": "5:1", "text": "..."}]}}}
//   - {"chapters": [["verse 1", "verse 2"], ...]}（古い静的 JSON）
//   - [["verse 1", "verse 2"], ...]
//
// 古い形式では参照を "章:節" で補うのだ。
// 配列の先頭が null のときは添字がそのまま章番号（0 番は空き）とみなします。
func DecodeDocument(data []byte) (domain.ChapterDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return domain.ChapterDocument{}, fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}

	if trimmed[0] == '[' {
		return decodeLegacy(trimmed)
	}

	var envelope struct {
		Chapters json.RawMessage `json:"chapters"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return domain.ChapterDocument{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	raw := bytes.TrimSpace(envelope.Chapters)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return domain.ChapterDocument{}, fmt.Errorf("%w: chapters field missing", ErrMalformedPayload)
	}

	switch raw[0] {
	case '{':
		doc := domain.NewChapterDocument()
		if err := json.Unmarshal(raw, &doc.Chapters); err != nil {
			return domain.ChapterDocument{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return doc, nil
	case '[':
		return decodeLegacy(raw)
	default:
		return domain.ChapterDocument{}, fmt.Errorf("%w: chapters must be an object or array", ErrMalformedPayload)
	}
}

// decodeLegacy は「チャプターごとの節文字列の配列」を変換するのだ。
func decodeLegacy(raw []byte) (domain.ChapterDocument, error) {
	var chapters [][]string
	if err := json.Unmarshal(raw, &chapters); err != nil {
		return domain.ChapterDocument{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	// [null, [...1章...], [...2章...]] のように0番を空けたデータがあるのだ
	offset := 1
	if len(chapters) > 0 && chapters[0] == nil {
		offset = 0
	}

	doc := domain.NewChapterDocument()
	for i, texts := range chapters {
		chapter := i + offset
		if chapter < domain.MinChapter || texts == nil {
			continue
		}
		verses := make(domain.Verses, 0, len(texts))
		for j, text := range texts {
			verses = append(verses, domain.VerseRecord{
				Reference: fmt.Sprintf("%d:%d", chapter, j+1),
				Text:      text,
			})
		}
		doc.Set(chapter, verses)
	}
	return doc, nil
}
