// Package reflection は章や節の解説・黙想を AI に書かせるのだ。
package reflection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-proverbs-kit/pkg/domain"
	"github.com/shouni/go-proverbs-kit/pkg/prompts"
)

// TextGenerator はプロンプトからテキストを生成する契約です。
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Reflector はプロンプトの組み立てと生成をつなぐのだ。
type Reflector struct {
	gen     TextGenerator
	builder prompts.PromptBuilder
	book    string
}

// New は Reflector を生成します。
func New(gen TextGenerator, builder prompts.PromptBuilder, book string) *Reflector {
	if book == "" {
		book = domain.DefaultBook
	}
	return &Reflector{gen: gen, builder: builder, book: book}
}

// Run は mode（explain / reflect）のプロンプトで verses について生成させるのだ。
func (r *Reflector) Run(ctx context.Context, mode string, key domain.ChapterKey, verses domain.Verses) (string, error) {
	if len(verses) == 0 {
		return "", fmt.Errorf("%s: %w", key, domain.ErrNoVerses)
	}
	if r.gen == nil {
		return "", ErrMissingAPIKey
	}

	prompt, err := r.builder.Build(mode, prompts.TemplateData{
		Book:        r.book,
		Chapter:     key.Chapter,
		Translation: strings.ToUpper(key.Translation),
		Passage:     verses.Plain(),
	})
	if err != nil {
		return "", fmt.Errorf("プロンプトの構築に失敗しました: %w", err)
	}

	slog.DebugContext(ctx, "Requesting reflection", "mode", mode, "key", key.String(), "prompt_len", len(prompt))
	text, err := r.gen.GenerateText(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%s の生成に失敗しました: %w", mode, err)
	}
	return strings.TrimSpace(text), nil
}
