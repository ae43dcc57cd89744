package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-proverbs-kit/internal/builder"
	"github.com/shouni/go-proverbs-kit/pkg/calendar"
	"github.com/shouni/go-proverbs-kit/pkg/prompts"

	"github.com/spf13/cobra"
)

// reflectCmd は、章の解説や黙想を Gemini に書かせるのだ。
var reflectCmd = &cobra.Command{
	Use:   "reflect [N]",
	Short: "章の解説・黙想を AI で生成するのだ。",
	Long: `章（省略時は今日の章）の本文をプロンプトに埋め込み、Gemini に解説か黙想を書かせるのだ。
環境変数 GEMINI_API_KEY が必要なのだよ。`,
	Args: cobra.MaximumNArgs(1),
	RunE: reflectCommand,
}

func init() {
	reflectCmd.Flags().StringVarP(&opts.Mode, "mode", "m", prompts.ModeReflect, "プロンプト生成モード（explain / reflect）なのだ。")
}

func reflectCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var chapter int
	if len(args) == 1 {
		n, err := parseChapter(args[0])
		if err != nil {
			return err
		}
		chapter = n
	} else {
		date, err := calendar.EffectiveDate(opts.Date, time.Now)
		if err != nil {
			return fmt.Errorf("--date の解釈に失敗したのだ: %w", err)
		}
		chapter = calendar.ChapterForDate(date)
	}

	o := opts
	o.Quiet = true
	app, err := newApp(cmd, o)
	if err != nil {
		return err
	}
	defer closeApp(ctx, app)

	reflector, err := builder.BuildReflector(ctx, app)
	if err != nil {
		return err
	}

	res := app.Loader.Load(ctx, chapter, app.Translation())
	if err := res.Failure(); err != nil {
		return fmt.Errorf("%s: %w", res.Err.Reason(), err)
	}

	slog.InfoContext(ctx, "AI に生成を依頼するのだ", "mode", opts.Mode, "key", res.Key.String(), "model", app.Config.GeminiModel)
	text, err := reflector.Run(ctx, opts.Mode, res.Key, res.Verses)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
