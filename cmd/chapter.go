package cmd

import (
	"fmt"
	"strconv"

	"github.com/shouni/go-proverbs-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// chapterCmd は、番号を指定して章を表示するのだ。
var chapterCmd = &cobra.Command{
	Use:   "chapter N",
	Short: "指定した章（1〜31）を表示するのだ。",
	Args:  cobra.ExactArgs(1),
	RunE:  chapterCommand,
}

func chapterCommand(cmd *cobra.Command, args []string) error {
	chapter, err := parseChapter(args[0])
	if err != nil {
		return err
	}

	app, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer closeApp(cmd.Context(), app)

	showChapter(cmd, app, chapter)
	return nil
}

func parseChapter(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < domain.MinChapter || n > domain.MaxChapter {
		return 0, fmt.Errorf("章番号は %d〜%d で指定してほしいのだ: %q", domain.MinChapter, domain.MaxChapter, s)
	}
	return n, nil
}
