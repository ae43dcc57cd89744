package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChapterDocument_JSON(t *testing.T) {
	t.Run("データソースのレスポンス形式をパースできるのだ", func(t *testing.T) {
		input := `{"chapters": {"5": {"verses": [{"reference":"5:1","text":"My son, pay attention to my wisdom."}]}}}`

		var doc ChapterDocument
		if err := json.Unmarshal([]byte(input), &doc); err != nil {
			t.Fatalf("パース失敗なのだ: %v", err)
		}

		got, ok := doc.Lookup(5)
		if !ok {
			t.Fatal("チャプター5が見つからないのだ")
		}
		want := Verses{{Reference: "5:1", Text: "My son, pay attention to my wisdom."}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("節が一致しないのだ (-want +got):\n%s", diff)
		}
	})
}

func TestChapterDocument_Validate(t *testing.T) {
	var doc ChapterDocument
	if err := json.Unmarshal([]byte(`{"chapters": {"5": {}, "6": {"verses": []}}}`), &doc); err != nil {
		t.Fatalf("パース失敗なのだ: %v", err)
	}

	tests := []struct {
		name    string
		chapter int
		want    error
	}{
		{"verses フィールドが無い", 5, ErrNoVerses},
		{"verses が空", 6, ErrNoVerses},
		{"チャプター自体が無い", 7, ErrChapterMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := doc.Validate(tt.chapter); !errors.Is(err, tt.want) {
				t.Errorf("期待値 %v, 実際の値 %v", tt.want, err)
			}
			if _, ok := doc.Lookup(tt.chapter); ok {
				t.Error("無効なチャプターで Lookup が成功したのだ")
			}
		})
	}
}

func TestChapterDocument_SetAndNumbers(t *testing.T) {
	doc := NewChapterDocument()
	doc.Set(12, Verses{{Reference: "12:1", Text: "x"}})
	doc.Set(3, Verses{{Reference: "3:1", Text: "y"}})
	doc.Set(4, nil)
	doc.Chapters["meta"] = ChapterEntry{Verses: Verses{{Text: "z"}}}

	if diff := cmp.Diff([]int{3, 12}, doc.ChapterNumbers()); diff != "" {
		t.Errorf("チャプター番号が一致しないのだ (-want +got):\n%s", diff)
	}
	if doc.Len() != 2 {
		t.Errorf("期待値 2, 実際の値 %d", doc.Len())
	}
}

func TestChapterDocument_LookupReturnsCopy(t *testing.T) {
	doc := NewChapterDocument()
	doc.Set(1, Verses{{Reference: "1:1", Text: "orig"}})

	got, _ := doc.Lookup(1)
	got[0].Text = "mutated"

	again, _ := doc.Lookup(1)
	if again[0].Text != "orig" {
		t.Error("Lookup の結果を書き換えたらドキュメントまで変わってしまったのだ")
	}
}
