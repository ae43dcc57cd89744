package loader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-proverbs-kit/pkg/domain"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// PrefetchReport は翻訳1つ分のオフライン用ダウンロード結果なのだ。
type PrefetchReport struct {
	Translation string
	Chapters    int        // 保存できたチャプター数
	Err         *LoadError // 失敗時のみ
}

// Prefetch は翻訳ごとのチャプターマップを取得して、両方のキャッシュに載せます。
// 「全翻訳をオフライン用にダウンロード」の処理なのだ。結果は引数の順に並びます。
func (l *Loader) Prefetch(ctx context.Context, translations []string) []PrefetchReport {
	reports := make([]PrefetchReport, len(translations))

	if !l.probe.Online(ctx) {
		for i, t := range translations {
			code := domain.NormalizeTranslation(t)
			reports[i] = PrefetchReport{
				Translation: code,
				Err:         &LoadError{Kind: KindNotConnected, Key: domain.ChapterKey{Translation: code}, Err: ErrNotConnected},
			}
		}
		return reports
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(l.prefetchConcurrency)

	// レートリミットの設定。interval が 0 なら制限なしとして動くのだ。
	var limiter *rate.Limiter
	if l.prefetchInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(l.prefetchInterval), 2)
	}

	for i, t := range translations {
		code := domain.NormalizeTranslation(t)
		eg.Go(func() error {
			key := domain.ChapterKey{Translation: code}
			if code == "" {
				reports[i] = PrefetchReport{Err: &LoadError{Kind: KindInvalidRequest, Key: key, Err: domain.ErrInvalidTranslation}}
				return nil
			}
			if limiter != nil {
				if err := limiter.Wait(egCtx); err != nil {
					reports[i] = PrefetchReport{Translation: code, Err: classify(key, err)}
					return nil
				}
			}

			n, err := l.prefetchOne(egCtx, code)
			if err != nil {
				reports[i] = PrefetchReport{Translation: code, Err: classify(key, err)}
				slog.WarnContext(egCtx, "Prefetch failed", "translation", code, "error", err)
				return nil
			}
			reports[i] = PrefetchReport{Translation: code, Chapters: n}
			slog.InfoContext(egCtx, "Translation downloaded for offline use", "translation", code, "chapters", n)
			return nil
		})
	}

	// 個別の失敗はレポートに入れているので、ここでは常に nil なのだ
	_ = eg.Wait()
	return reports
}

func (l *Loader) prefetchOne(ctx context.Context, translation string) (int, error) {
	val, err := l.flight(ctx, "doc:"+translation, func(flightCtx context.Context) (interface{}, error) {
		doc, err := l.fetchDocument(flightCtx, translation)
		if err != nil {
			return nil, err
		}
		if doc.Len() == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoVerses, translation)
		}

		n := l.adopt(translation, doc)
		if err := l.durable.Save(flightCtx, translation, doc); err != nil {
			return nil, fmt.Errorf("persist %s: %w", translation, err)
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	n, ok := val.(int)
	if !ok {
		return 0, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return n, nil
}
