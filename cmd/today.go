package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-proverbs-kit/internal/builder"
	"github.com/shouni/go-proverbs-kit/pkg/calendar"
	"github.com/shouni/go-proverbs-kit/pkg/loader"

	"github.com/spf13/cobra"
)

// todayCmd は、今日の日付に対応する章を表示するのだ。
var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "今日の章を表示するのだ。",
	Long: `日付の「日」を章番号として表示するのだ（31日なら31章）。
--date で別の日を、--parallel で2つの翻訳を並べて表示できるのだよ。`,
	Args: cobra.NoArgs,
	RunE: todayCommand,
}

func todayCommand(cmd *cobra.Command, args []string) error {
	date, err := calendar.EffectiveDate(opts.Date, time.Now)
	if err != nil {
		return fmt.Errorf("--date の解釈に失敗したのだ: %w", err)
	}
	chapter := calendar.ChapterForDate(date)

	app, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer closeApp(cmd.Context(), app)

	slog.DebugContext(cmd.Context(), "今日の章を表示するのだ", "date", date.Format(calendar.OverrideLayout), "chapter", chapter)
	showChapter(cmd, app, chapter)
	return nil
}

// showChapter は単独または並列で章を読み込み、描画はローダーのコールバックに任せるのだ。
func showChapter(cmd *cobra.Command, app *builder.AppContext, chapter int) {
	ctx := cmd.Context()
	// 列がそろわないまま終わっても何も表示されないことが無いようにするのだ
	defer app.Terminal.Flush()

	primary := app.Translation()
	if app.Partner == "" {
		if app.Options.Parallel != "" {
			slog.InfoContext(ctx, "並べる翻訳が無いので単独で表示するのだ", "translation", primary)
		}
		res := app.Loader.Load(ctx, chapter, primary)
		reportFallback(cmd, res)
		return
	}

	first, second := app.Loader.LoadParallel(ctx, chapter, primary, app.Partner)
	reportFallback(cmd, first)
	reportFallback(cmd, second)
}

// reportFallback はフォールバックになった理由をログに残すのだ。
func reportFallback(cmd *cobra.Command, res loader.Result) {
	if err := res.Failure(); err != nil {
		slog.InfoContext(cmd.Context(), "キャッシュが無いためプレースホルダーを表示したのだ",
			"key", res.Key.String(),
			"reason", res.Err.Reason())
	}
}
