package loader

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shouni/go-proverbs-kit/pkg/domain"
	"github.com/shouni/go-proverbs-kit/pkg/source"
)

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}

func TestClassify(t *testing.T) {
	key := domain.ChapterKey{Chapter: 5, Translation: "web"}
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"接続なし", ErrNotConnected, KindNotConnected},
		{"タイムアウト", ErrTimeout, KindTimeout},
		{"期限切れ", context.DeadlineExceeded, KindTimeout},
		{"HTTP ステータス", &source.StatusError{StatusCode: 502}, KindHTTP},
		{"壊れたレスポンス", source.ErrMalformedPayload, KindMalformedPayload},
		{"チャプター欠落", domain.ErrChapterMissing, KindMalformedPayload},
		{"未知の翻訳", source.ErrUnknownTranslation, KindInvalidRequest},
		{"その他の通信エラー", errors.New("connection refused"), KindNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			le := classify(key, tt.err)
			if le.Kind != tt.want {
				t.Errorf("期待値 %s, 実際の値 %s", tt.want, le.Kind)
			}
			if !errors.Is(le, tt.err) {
				t.Error("元のエラーをラップしていないのだ")
			}
		})
	}

	if got := classify(key, &source.StatusError{StatusCode: 502}).Error(); got != "web:5: HttpError(502): unexpected HTTP status 502 from " {
		t.Errorf("Error() が想定外なのだ: %q", got)
	}
}
