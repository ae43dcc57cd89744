package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// prefetchCmd は、カタログにある全翻訳をダウンロードしてオフライン用に保存するのだ。
var prefetchCmd = &cobra.Command{
	Use:   "prefetch [translation...]",
	Short: "翻訳をまとめてダウンロードしてオフラインで読めるようにするのだ。",
	RunE:  prefetchCommand,
}

func prefetchCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	o := opts
	o.Quiet = true
	app, err := newApp(cmd, o)
	if err != nil {
		return err
	}
	defer closeApp(ctx, app)

	targets := args
	if len(targets) == 0 {
		targets = app.Catalog.Codes()
	}

	slog.InfoContext(ctx, "翻訳のダウンロードを開始するのだ", "translations", targets)
	var errs []error
	out := cmd.OutOrStdout()
	for _, r := range app.Loader.Prefetch(ctx, targets) {
		if r.Err != nil {
			fmt.Fprintf(out, "%-5s failed: %s\n", r.Translation, r.Err.Reason())
			errs = append(errs, r.Err)
			continue
		}
		fmt.Fprintf(out, "%-5s %d chapters saved\n", r.Translation, r.Chapters)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d 件のダウンロードに失敗したのだ: %w", len(errs), errors.Join(errs...))
	}
	return nil
}
