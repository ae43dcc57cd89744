package domain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	// MinChapter は扱うチャプター番号の下限です。
	MinChapter = 1
	// MaxChapter は扱うチャプター番号の上限です（箴言は31章なのだ）。
	MaxChapter = 31
)

var (
	// ErrInvalidChapter はチャプター番号が 1〜31 の範囲外であることを示します。
	ErrInvalidChapter = errors.New("chapter out of range")
	// ErrInvalidTranslation は翻訳コードが空であることを示します。
	ErrInvalidTranslation = errors.New("translation code is empty")
)

// VerseRecord は1節分の参照とテキストを保持します。取得後は変更しません。
type VerseRecord struct {
	Reference string `json:"reference"` // 例: "5:7"
	Text      string `json:"text"`
}

// String は "5:7 text" 形式で節を返すのだ。
func (v VerseRecord) String() string {
	if v.Reference == "" {
		return v.Text
	}
	return v.Reference + " " + v.Text
}

// Verses は順序付きの節の並びなのだ。
type Verses []VerseRecord

// Clone は呼び出し元がキャッシュ内部を書き換えないように複製を返します。
func (vs Verses) Clone() Verses {
	if vs == nil {
		return nil
	}
	copied := make(Verses, len(vs))
	copy(copied, vs)
	return copied
}

// Plain はチャプター全体をコピー用のプレーンテキストにするのだ。
func (vs Verses) Plain() string {
	lines := make([]string, 0, len(vs))
	for _, v := range vs {
		lines = append(lines, v.String())
	}
	return strings.Join(lines, "\n")
}

// Random はランダムに1節を選び、1始まりの位置と一緒に返します。
// 空の場合は ok=false なのだ。
func (vs Verses) Random(rng *rand.Rand) (index int, verse VerseRecord, ok bool) {
	if len(vs) == 0 {
		return 0, VerseRecord{}, false
	}
	var i int
	if rng == nil {
		i = rand.IntN(len(vs))
	} else {
		i = rng.IntN(len(vs))
	}
	return i + 1, vs[i], true
}

// ChapterKey はチャプター番号と翻訳コードの組で、キャッシュの一意なキーなのだ。
type ChapterKey struct {
	Chapter     int
	Translation string
}

// NewChapterKey は範囲チェックと翻訳コードの正規化を行ってキーを作ります。
func NewChapterKey(chapter int, translation string) (ChapterKey, error) {
	code := NormalizeTranslation(translation)
	if code == "" {
		return ChapterKey{Chapter: chapter}, ErrInvalidTranslation
	}
	if chapter < MinChapter || chapter > MaxChapter {
		return ChapterKey{Chapter: chapter, Translation: code}, fmt.Errorf("%w: %d", ErrInvalidChapter, chapter)
	}
	return ChapterKey{Chapter: chapter, Translation: code}, nil
}

// NormalizeTranslation は翻訳コードを小文字・前後空白なしに揃えるのだ。
func NormalizeTranslation(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// String はセッションキャッシュのキーとしても使う "web:5" 形式を返します。
func (k ChapterKey) String() string {
	return k.Translation + ":" + strconv.Itoa(k.Chapter)
}

// Label は表示用に "WEB 5" のような形を返すのだ。
func (k ChapterKey) Label() string {
	return fmt.Sprintf("%s %d", strings.ToUpper(k.Translation), k.Chapter)
}
