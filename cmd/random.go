package cmd

import (
	"fmt"
	"time"

	"github.com/shouni/go-proverbs-kit/pkg/calendar"
	"github.com/shouni/go-proverbs-kit/pkg/render"
	"github.com/shouni/go-proverbs-kit/pkg/share"

	"github.com/spf13/cobra"
)

var randomChapter int

// randomCmd は、章の中からランダムに1節を選び、共有リンクと一緒に表示するのだ。
var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "ランダムな1節と共有リンクを表示するのだ。",
	Args:  cobra.NoArgs,
	RunE:  randomCommand,
}

func init() {
	randomCmd.Flags().IntVarP(&randomChapter, "chapter", "c", 0, "節を選ぶ章なのだ。省略すると今日の章です。")
}

func randomCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	chapter := randomChapter
	if chapter == 0 {
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

	res := app.Loader.Load(ctx, chapter, app.Translation())
	if err := res.Failure(); err != nil {
		return fmt.Errorf("%s: %w", res.Err.Reason(), err)
	}

	index, verse, ok := res.Verses.Random(nil)
	if !ok {
		return fmt.Errorf("%s に節が無いのだ", res.Key.Label())
	}

	out := cmd.OutOrStdout()
	render.Verse(out, res.Key, index, verse)
	if links, ok := share.Links(verse.String()); ok {
		fmt.Fprintln(out)
		for _, l := range links.All() {
			fmt.Fprintf(out, "%-9s %s\n", l[0], l[1])
		}
	}
	return nil
}
