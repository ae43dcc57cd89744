package loader

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/shouni/go-proverbs-kit/pkg/domain"
	"github.com/shouni/go-proverbs-kit/pkg/source"
)

var (
	// ErrNotConnected は取得前に接続なしと判定されたことを示します。
	ErrNotConnected = errors.New("no network connectivity")
	// ErrTimeout はネットワーク取得が制限時間を超えてキャンセルされたことを示します。
	ErrTimeout = errors.New("network fetch timed out")
)

// Kind は読み込み失敗の分類なのだ。
type Kind int

const (
	KindNotConnected Kind = iota + 1
	KindHTTP
	KindMalformedPayload
	KindTimeout
	// KindNetwork はタイムアウト以外の通信エラー（DNS 失敗や接続拒否など）です。
	KindNetwork
	// KindInvalidRequest は範囲外のチャプターやカタログに無い翻訳です。
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindNotConnected:
		return "NotConnected"
	case KindHTTP:
		return "HttpError"
	case KindMalformedPayload:
		return "MalformedPayload"
	case KindTimeout:
		return "Timeout"
	case KindNetwork:
		return "NetworkError"
	case KindInvalidRequest:
		return "InvalidRequest"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// LoadError は Result に添付される失敗の診断情報です。呼び出し側へ error として返すことはしないのだ。
type LoadError struct {
	Kind       Kind
	Key        domain.ChapterKey
	StatusCode int // KindHTTP のときだけ
	Err        error
}

func (e *LoadError) Error() string {
	msg := e.Kind.String()
	if e.Kind == KindHTTP {
		msg = fmt.Sprintf("%s(%d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return e.Key.String() + ": " + msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// Reason は画面に出す短い理由なのだ。
func (e *LoadError) Reason() string {
	switch e.Kind {
	case KindNotConnected:
		return "You appear to be offline."
	case KindHTTP:
		return fmt.Sprintf("The server answered with HTTP %d.", e.StatusCode)
	case KindMalformedPayload:
		return "The downloaded data did not contain this chapter."
	case KindTimeout:
		return "The download took too long and was cancelled."
	case KindInvalidRequest:
		return "This chapter or translation is not available."
	default:
		return "The chapter could not be downloaded."
	}
}

// classify は取得時のエラーを Kind に振り分けるのだ。
func classify(key domain.ChapterKey, err error) *LoadError {
	le := &LoadError{Key: key, Err: err}

	var statusErr *source.StatusError
	var netErr net.Error
	switch {
	case errors.Is(err, ErrNotConnected):
		le.Kind = KindNotConnected
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		le.Kind = KindTimeout
	case errors.As(err, &statusErr):
		le.Kind = KindHTTP
		le.StatusCode = statusErr.StatusCode
	case errors.Is(err, source.ErrMalformedPayload),
		errors.Is(err, domain.ErrChapterMissing),
		errors.Is(err, domain.ErrNoVerses):
		le.Kind = KindMalformedPayload
	case errors.Is(err, source.ErrUnknownTranslation),
		errors.Is(err, domain.ErrInvalidChapter),
		errors.Is(err, domain.ErrInvalidTranslation):
		le.Kind = KindInvalidRequest
	case errors.As(err, &netErr) && netErr.Timeout():
		le.Kind = KindTimeout
	default:
		le.Kind = KindNetwork
	}
	return le
}
