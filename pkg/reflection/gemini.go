package reflection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

// ErrMissingAPIKey は API キーが設定されていないときのエラーなのだ。
var ErrMissingAPIKey = errors.New("reflection: GEMINI_API_KEY is not configured")

const defaultTemperature = float32(0.2)

// GeminiGenerator は Gemini API でテキストを生成します。
// リトライは gemini クライアントに任せるのだ。
type GeminiGenerator struct {
	client gemini.GenerativeModel
	model  string
}

// NewGeminiGenerator は設定から渡された API キーでクライアントを初期化するのだ。
// キーが空なら ErrMissingAPIKey を返します。
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		return nil, errors.New("reflection: model name is empty")
	}

	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultTemperature),
	}
	client, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// GenerateText はプロンプトを送り、応答のテキストを返すのだ。
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.GenerateContent(ctx, g.model, prompt)
	if err != nil {
		return "", fmt.Errorf("Gemini へのリクエストに失敗しました (model=%s): %w", g.model, err)
	}
	if resp == nil || resp.Text == "" {
		return "", fmt.Errorf("Gemini から空の応答が返ってきたのだ (model=%s)", g.model)
	}
	return resp.Text, nil
}
