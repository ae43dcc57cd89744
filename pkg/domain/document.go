package domain

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

var (
	// ErrChapterMissing はドキュメントに要求されたチャプターが無いことを示します。
	ErrChapterMissing = errors.New("chapter missing from document")
	// ErrNoVerses はチャプターはあるが節が空（または verses フィールドが無い）ことを示します。
	ErrNoVerses = errors.New("chapter has no verses")
)

// ChapterEntry は1チャプター分の節リストなのだ。
type ChapterEntry struct {
	Verses Verses `json:"verses"`
}

// ChapterDocument は1翻訳分のチャプターマップ全体です。
// データソースのレスポンスと永続キャッシュの値は同じ形をしているのだ。
//
//	{"chapters": {"5": {"verses": [{"reference": "5:1", "text": "..."}]}}}
type ChapterDocument struct {
	Chapters map[string]ChapterEntry `json:"chapters"`
}

// NewChapterDocument は空のドキュメントを作ります。
func NewChapterDocument() ChapterDocument {
	return ChapterDocument{Chapters: make(map[string]ChapterEntry)}
}

// Set はチャプターの節リストを丸ごと置き換えるのだ。
func (d *ChapterDocument) Set(chapter int, verses Verses) {
	if d.Chapters == nil {
		d.Chapters = make(map[string]ChapterEntry)
	}
	d.Chapters[strconv.Itoa(chapter)] = ChapterEntry{Verses: verses.Clone()}
}

// Lookup はチャプターが存在し、かつ節が1つ以上ある場合だけ複製を返します。
func (d ChapterDocument) Lookup(chapter int) (Verses, bool) {
	entry, ok := d.Chapters[strconv.Itoa(chapter)]
	if !ok || len(entry.Verses) == 0 {
		return nil, false
	}
	return entry.Verses.Clone(), true
}

// Validate は要求チャプターが使える形かを確認するのだ。
func (d ChapterDocument) Validate(chapter int) error {
	entry, ok := d.Chapters[strconv.Itoa(chapter)]
	if !ok {
		return fmt.Errorf("%w: %d", ErrChapterMissing, chapter)
	}
	if len(entry.Verses) == 0 {
		return fmt.Errorf("%w: %d", ErrNoVerses, chapter)
	}
	return nil
}

// ChapterNumbers は節を持つチャプター番号を昇順で返します。
// 数値でないキーは無視するのだ。
func (d ChapterDocument) ChapterNumbers() []int {
	nums := make([]int, 0, len(d.Chapters))
	for k, entry := range d.Chapters {
		n, err := strconv.Atoi(k)
		if err != nil || len(entry.Verses) == 0 {
			continue
		}
		nums = append(nums, n)
	}
	slices.Sort(nums)
	return nums
}

// Len は節を持つチャプター数なのだ。
func (d ChapterDocument) Len() int {
	return len(d.ChapterNumbers())
}
