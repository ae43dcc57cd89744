package reflection

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-proverbs-kit/pkg/domain"
	"github.com/shouni/go-proverbs-kit/pkg/prompts"
)

type fakeGenerator struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func newBuilder(t *testing.T) *prompts.TextPromptBuilder {
	t.Helper()
	b, err := prompts.NewTextPromptBuilder()
	if err != nil {
		t.Fatalf("NewTextPromptBuilder() error = %v", err)
	}
	return b
}

func TestReflector_Run(t *testing.T) {
	key := domain.ChapterKey{Chapter: 3, Translation: "web"}
	verses := domain.Verses{{Reference: "3:5", Text: "Trust in Yahweh with all your heart"}}

	t.Run("本文入りのプロンプトで生成するのだ", func(t *testing.T) {
		gen := &fakeGenerator{reply: "  A reflection.\n"}
		r := New(gen, newBuilder(t), "")

		got, err := r.Run(context.Background(), prompts.ModeReflect, key, verses)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got != "A reflection." {
			t.Errorf("Run() = %q", got)
		}
		if !strings.Contains(gen.prompt, "Trust in Yahweh") || !strings.Contains(gen.prompt, "Proverbs chapter 3 (WEB)") {
			t.Errorf("プロンプトが想定外なのだ:\n%s", gen.prompt)
		}
	})

	t.Run("節が無ければ生成しないのだ", func(t *testing.T) {
		gen := &fakeGenerator{}
		r := New(gen, newBuilder(t), "Proverbs")
		_, err := r.Run(context.Background(), prompts.ModeExplain, key, nil)
		if !errors.Is(err, domain.ErrNoVerses) {
			t.Errorf("ErrNoVerses を期待したのだ: %v", err)
		}
		if gen.prompt != "" {
			t.Error("生成が呼ばれてしまったのだ")
		}
	})

	t.Run("生成の失敗はラップして返すのだ", func(t *testing.T) {
		boom := errors.New("quota exceeded")
		r := New(&fakeGenerator{err: boom}, newBuilder(t), "")
		if _, err := r.Run(context.Background(), prompts.ModeExplain, key, verses); !errors.Is(err, boom) {
			t.Errorf("元のエラーを保持していないのだ: %v", err)
		}
	})

	t.Run("生成器が無ければキー未設定エラーなのだ", func(t *testing.T) {
		r := New(nil, newBuilder(t), "")
		if _, err := r.Run(context.Background(), prompts.ModeExplain, key, verses); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("ErrMissingAPIKey を期待したのだ: %v", err)
		}
	})
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator(context.Background(), " ", "gemini-2.5-flash"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("ErrMissingAPIKey を期待したのだ: %v", err)
	}
}

func TestNewGeminiGenerator_RequiresModel(t *testing.T) {
	if _, err := NewGeminiGenerator(context.Background(), "test-key", ""); err == nil || errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("モデル名が空のエラーを期待したのだ: %v", err)
	}
}
