package prompts

import (
	"strings"
	"testing"
)

func TestTextPromptBuilder_Build(t *testing.T) {
	b, err := NewTextPromptBuilder()
	if err != nil {
		t.Fatalf("NewTextPromptBuilder() error = %v", err)
	}

	data := TemplateData{
		Book:        "Proverbs",
		Chapter:     3,
		Translation: "WEB",
		Passage:     "3:5 Trust in Yahweh with all your heart",
	}

	for _, mode := range Modes() {
		t.Run(mode, func(t *testing.T) {
			got, err := b.Build(mode, data)
			if err != nil {
				t.Fatalf("Build(%q) error = %v", mode, err)
			}
			for _, want := range []string{"Proverbs chapter 3 (WEB)", data.Passage} {
				if !strings.Contains(got, want) {
					t.Errorf("%q がプロンプトに含まれていないのだ:\n%s", want, got)
				}
			}
		})
	}

	t.Run("不明なモードはエラーなのだ", func(t *testing.T) {
		if _, err := b.Build("sermon", data); err == nil {
			t.Error("エラーを期待したのだ")
		}
	})

	t.Run("本文が空ならエラーなのだ", func(t *testing.T) {
		if _, err := b.Build(ModeExplain, TemplateData{Book: "Proverbs", Chapter: 1}); err == nil {
			t.Error("エラーを期待したのだ")
		}
	})
}

func TestModes(t *testing.T) {
	got := Modes()
	if len(got) != 2 || got[0] != ModeExplain || got[1] != ModeReflect {
		t.Errorf("Modes() = %v", got)
	}
}

func TestModes_MatchEmbeddedTemplates(t *testing.T) {
	b, err := NewTextPromptBuilder()
	if err != nil {
		t.Fatalf("NewTextPromptBuilder() error = %v", err)
	}
	for _, mode := range []string{ModeExplain, ModeReflect} {
		if b.set.Lookup(mode+templateExt) == nil {
			t.Errorf("モード %q のテンプレートが埋め込まれていないのだ", mode)
		}
	}
	for _, mode := range Modes() {
		if strings.HasSuffix(mode, templateExt) {
			t.Errorf("モード名に拡張子が残っているのだ: %q", mode)
		}
	}
}
