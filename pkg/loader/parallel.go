package loader

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// LoadParallel は並列表示用に2つの翻訳を同時に解決するのだ。
// 解決は並行に行い、描画は primary, secondary の順に1回ずつ呼びます。
// Current() には primary の結果が残るのだ。
func (l *Loader) LoadParallel(ctx context.Context, chapter int, primary, secondary string) (Result, Result) {
	var first, second Result

	var eg errgroup.Group
	eg.Go(func() error {
		first = l.resolve(ctx, chapter, primary)
		return nil
	})
	eg.Go(func() error {
		second = l.resolve(ctx, chapter, secondary)
		return nil
	})
	_ = eg.Wait()

	// 2回の描画と Current の戻しの間に他の Load の描画が割り込まないようにするのだ
	l.renderMu.Lock()
	defer l.renderMu.Unlock()

	l.publishLocked(first)
	l.publishLocked(second)
	l.setCurrent(first)
	return first, second
}
