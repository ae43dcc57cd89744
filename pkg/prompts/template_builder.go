// Package prompts は AI に渡すプロンプトを埋め込みテンプレートから組み立てるのだ。
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"text/template"
)

// templateExt はテンプレートファイルの拡張子です。ファイル名から拡張子を除いたものがモード名なのだ。
const templateExt = ".md"

//go:embed *.md
var templateFS embed.FS

// PromptBuilder は、AIプロンプトを構築する契約です。
type PromptBuilder interface {
	Build(mode string, data TemplateData) (string, error)
}

// TextPromptBuilder は埋め込みの全テンプレートを1つのセットとして持ちます。
type TextPromptBuilder struct {
	set *template.Template
}

// NewTextPromptBuilder は埋め込みテンプレートをまとめて解析するのだ。
func NewTextPromptBuilder() (*TextPromptBuilder, error) {
	set, err := template.New("prompts").Option("missingkey=error").ParseFS(templateFS, "*"+templateExt)
	if err != nil {
		return nil, fmt.Errorf("埋め込みプロンプトの解析に失敗しました: %w", err)
	}
	return &TextPromptBuilder{set: set}, nil
}

// Build は mode に対応するテンプレートに data を流し込みます。
func (b *TextPromptBuilder) Build(mode string, data TemplateData) (string, error) {
	tmpl := b.set.Lookup(mode + templateExt)
	if tmpl == nil {
		return "", fmt.Errorf("不明なモードです: '%s'。利用できるモードは [%s] なのだ", mode, strings.Join(Modes(), ", "))
	}
	if strings.TrimSpace(data.Passage) == "" {
		return "", fmt.Errorf("プロンプトに埋め込む本文が空なのだ (mode=%s)", mode)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("プロンプト '%s' の実行に失敗しました: %w", mode, err)
	}
	return buf.String(), nil
}

// Modes は埋め込まれているテンプレートのモード名を昇順で返します。
func Modes() []string {
	names, err := fs.Glob(templateFS, "*"+templateExt)
	if err != nil {
		return nil
	}
	modes := make([]string, 0, len(names))
	for _, name := range names {
		modes = append(modes, strings.TrimSuffix(name, templateExt))
	}
	slices.Sort(modes)
	return modes
}
