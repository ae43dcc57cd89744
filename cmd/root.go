package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shouni/go-proverbs-kit/internal/builder"
	"github.com/shouni/go-proverbs-kit/internal/config"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// opts はフラグの値を受け取る実行時オプションなのだ。
var opts config.Options

var rootCmd = &cobra.Command{
	Use:   "proverbs",
	Short: "今日の箴言を1章読むための CLI なのだ。",
	Long: `日付に対応する箴言の章を表示するのだ。
一度読んだ翻訳はローカルに保存されるので、オフラインでも読めるのだよ。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 取得元とキャッシュ ---
	rootCmd.PersistentFlags().StringVarP(&opts.Translation, "translation", "t", "", "翻訳コード（web, kjv など）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.StoreDSN, "store", "", "永続キャッシュ（memory: / file:<dir> / sqlite:<path>）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.CatalogFile, "catalog", "", "翻訳カタログ YAML のパスなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", 0, "取得のタイムアウトなのだ。")
	rootCmd.PersistentFlags().BoolVar(&opts.Offline, "offline", false, "通信せずキャッシュだけで表示するのだ。")

	// --- 表示 ---
	rootCmd.PersistentFlags().StringVarP(&opts.Date, "date", "d", "", "表示する日付（YYYY-MM-DD）なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.Parallel, "parallel", "p", "", "並べて表示する翻訳コードなのだ。値なしなら自動で選ぶのだ。")
	rootCmd.PersistentFlags().Lookup("parallel").NoOptDefVal = config.ParallelAuto
	rootCmd.PersistentFlags().IntVar(&opts.Width, "width", config.DefaultWidth, "表示幅なのだ。")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログと取得元を表示するのだ。")

	// --- AI ---
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", "", "使用する Gemini モデル名なのだ。")
}

// preRunAppE は、コマンド実行前にロガーを準備するのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(os.Stderr, level))
	return nil
}

// newLogger は色付きの tint ハンドラを作るのだ。端末でなければ色は付けないのだ。
func newLogger(f *os.File, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(colorable.NewColorable(f), &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(f.Fd()),
	}))
}

// newApp は環境変数とフラグから AppContext を組み立てるのだ。
func newApp(cmd *cobra.Command, o config.Options) (*builder.AppContext, error) {
	cfg := config.LoadConfig()
	cfg.Apply(o)

	app, err := builder.NewAppContext(cmd.Context(), cfg, cmd.OutOrStdout(), nil)
	if err != nil {
		return nil, fmt.Errorf("アプリケーションの初期化に失敗したのだ: %w", err)
	}
	return app, nil
}

// closeApp は AppContext を閉じ、失敗はログに残すのだ。
func closeApp(ctx context.Context, app *builder.AppContext) {
	if err := app.Close(); err != nil {
		slog.WarnContext(ctx, "終了処理に失敗したのだ", "error", err)
	}
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(todayCmd, chapterCmd, randomCmd, prefetchCmd, reflectCmd)
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
