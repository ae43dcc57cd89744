// Package calendar は日付から「今日のチャプター」を決めるのだ。
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/shouni/go-proverbs-kit/pkg/domain"
)

// OverrideLayout は --date で受け付ける日付の書式です。
const OverrideLayout = time.DateOnly

// ChapterForDate は日付に対応するチャプター番号を返します。
// 月の日付をそのまま使い、月末と 31 章で頭打ちにするのだ。
func ChapterForDate(t time.Time) int {
	lastDay := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	return min(t.Day(), lastDay, domain.MaxChapter)
}

// ParseOverride は "2006-01-02" 形式の上書き日付をその日の 0 時として解釈します。
// 空文字列なら ok=false を返すのだ。
func ParseOverride(s string, loc *time.Location) (t time.Time, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err = time.ParseInLocation(OverrideLayout, s, loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date override %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, true, nil
}

// EffectiveDate は上書き日付があればそれを、無ければ now() を返します。
func EffectiveDate(override string, now func() time.Time) (time.Time, error) {
	if now == nil {
		now = time.Now
	}
	current := now()
	t, ok, err := ParseOverride(override, current.Location())
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return current, nil
	}
	return t, nil
}
