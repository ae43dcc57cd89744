// Package render はローダーの結果を端末に描画する UI 側の協力者なのだ。
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/shouni/go-proverbs-kit/pkg/domain"
	"github.com/shouni/go-proverbs-kit/pkg/loader"

	"github.com/charmbracelet/lipgloss"
)

const defaultWidth = 100

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	refStyle     = lipgloss.NewStyle().Faint(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	sourceStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
)

// Terminal は結果を1列または並列表示の2列で書き出します。
// Render を loader.RenderFunc として渡すのだ。
type Terminal struct {
	w       io.Writer
	book    string
	width   int
	columns int
	verbose bool

	mu  sync.Mutex
	row []loader.Result
}

// Option は Terminal の設定を変更します。
type Option func(*Terminal)

// WithColumns は並べて表示する列数なのだ。並列表示なら 2 にします。
func WithColumns(n int) Option {
	return func(t *Terminal) {
		if n > 0 {
			t.columns = n
		}
	}
}

// WithWidth は全体の表示幅です。
func WithWidth(w int) Option {
	return func(t *Terminal) {
		if w > 0 {
			t.width = w
		}
	}
}

// WithOrigin は結果の取得元（session/durable/network）も表示するのだ。
func WithOrigin(on bool) Option {
	return func(t *Terminal) { t.verbose = on }
}

// NewTerminal は Terminal を生成します。
func NewTerminal(w io.Writer, book string, opts ...Option) *Terminal {
	t := &Terminal{w: w, book: book, width: defaultWidth, columns: 1}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Render は結果を1列分受け取り、列がそろったら書き出すのだ。
func (t *Terminal) Render(res loader.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.row = append(t.row, res)
	if len(t.row) < t.columns {
		return
	}
	t.flush()
}

// Flush は列がそろっていなくても溜まっている結果を書き出します。
func (t *Terminal) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.row) > 0 {
		t.flush()
	}
}

func (t *Terminal) flush() {
	row := t.row
	t.row = nil

	parallel := ""
	if len(row) > 1 {
		parallel = row[1].Key.Translation
	}
	fmt.Fprintln(t.w, titleStyle.Render(domain.Title(t.book, row[0].Key.Chapter, row[0].Key.Translation, parallel)))
	fmt.Fprintln(t.w)

	paneWidth := t.width / len(row)
	panes := make([]string, 0, len(row))
	for _, res := range row {
		panes = append(panes, t.pane(res, paneWidth))
	}
	fmt.Fprintln(t.w, lipgloss.JoinHorizontal(lipgloss.Top, panes...))
}

// pane は1つの結果を表示用の文字列にするのだ。
func (t *Terminal) pane(res loader.Result, width int) string {
	var sb strings.Builder
	if res.IsFallback() && res.Err != nil {
		sb.WriteString(warningStyle.Render("⚠ " + res.Err.Reason()))
		sb.WriteString("\n")
	}
	for _, v := range res.Verses {
		sb.WriteString(refStyle.Render(v.Reference))
		sb.WriteString(" ")
		sb.WriteString(v.Text)
		sb.WriteString("\n")
	}
	if t.verbose {
		sb.WriteString(sourceStyle.Render(fmt.Sprintf("[%s from %s]", strings.ToUpper(res.Key.Translation), res.Origin)))
		sb.WriteString("\n")
	}

	style := lipgloss.NewStyle()
	if width > 4 {
		style = style.Width(width - 2).PaddingRight(2)
	}
	return style.Render(strings.TrimRight(sb.String(), "\n"))
}

// Verse はランダムに選んだ1節を書き出します。
func Verse(w io.Writer, key domain.ChapterKey, index int, v domain.VerseRecord) {
	fmt.Fprintf(w, "%s %s\n", refStyle.Render(fmt.Sprintf("%s #%d", key.Label(), index)), v.Text)
}
