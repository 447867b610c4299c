// Package console prints the operator-facing progress summary.
package console

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#2196F3")
	success = lipgloss.Color("#8BC34A")
	warning = lipgloss.Color("#FFC107")
	danger  = lipgloss.Color("#e53935")
)

const ruleWidth = 50

// Reporter writes styled progress lines. Styling degrades to plain text when
// out is not a terminal.
type Reporter struct {
	out io.Writer

	title   lipgloss.Style
	label   lipgloss.Style
	item    lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	failure lipgloss.Style
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	r := lipgloss.NewRenderer(out)
	return &Reporter{
		out:     out,
		title:   r.NewStyle().Bold(true).Foreground(accent),
		label:   r.NewStyle().Bold(true),
		item:    r.NewStyle().PaddingLeft(2),
		ok:      r.NewStyle().Bold(true).Foreground(success),
		warn:    r.NewStyle().Foreground(warning),
		failure: r.NewStyle().Bold(true).Foreground(danger),
	}
}

func (r *Reporter) println(s string) {
	fmt.Fprintln(r.out, s)
}

func (r *Reporter) rule() {
	r.println(strings.Repeat("=", ruleWidth))
}

// Banner prints the run header.
func (r *Reporter) Banner(title string) {
	r.rule()
	r.println(r.title.Render("  " + title))
	r.rule()
	r.println("")
}

// Document prints the selected survey document.
func (r *Reporter) Document(path string) {
	r.println(r.label.Render("定義:") + " " + filepath.Base(path))
}

// Template prints the template status.
func (r *Reporter) Template(path string, columns int, skipped bool) {
	name := filepath.Base(path)
	if skipped {
		r.println(r.label.Render("テンプレート:") + " " + name + " (既存のためスキップ)")
		return
	}
	r.println(r.label.Render("テンプレート:") + " 生成中...")
	r.println(r.item.Render(fmt.Sprintf("-> %s (%d列)", name, columns)))
}

// Records lists the record files about to be merged.
func (r *Reporter) Records(paths []string) {
	r.println("")
	r.println(r.label.Render(fmt.Sprintf("CSV: %d件", len(paths))))
	for _, p := range paths {
		r.println(r.item.Render("- " + filepath.Base(p)))
	}
	r.println("")
	r.println("統合処理中...")
}

// Unreadable warns about a record file no encoding could decode.
func (r *Reporter) Unreadable(path string) {
	r.println(r.warn.Render("  警告: " + filepath.Base(path) + " を読み込めませんでした (スキップ)"))
}

// Done prints the merge summary.
func (r *Reporter) Done(outputPath string, inserted, duplicates int) {
	r.println("")
	r.rule()
	if outputPath == "" {
		r.println(r.warn.Render("追加データがありません (出力なし)"))
	} else {
		r.println(r.ok.Render("完了: " + outputPath))
		r.println(fmt.Sprintf("  追加データ: %d件", inserted))
	}
	if duplicates > 0 {
		r.println(r.warn.Render(fmt.Sprintf("  重複ID: %d件 (黄色ハイライト)", duplicates)))
	}
	r.rule()
}

// RecordDirCreated tells the operator where to place record files.
func (r *Reporter) RecordDirCreated(dir string) {
	r.println("")
	r.println(r.warn.Render(dir + " フォルダを作成しました"))
	r.println("CSVファイルをこのフォルダに配置してください")
}

// Watching announces that the record directory is being watched.
func (r *Reporter) Watching(dir string) {
	r.println("")
	r.println(r.title.Render("監視中: " + dir + " (Ctrl+C で終了)"))
}

// Error prints a fatal error.
func (r *Reporter) Error(err error) {
	r.println(r.failure.Render("エラー: " + err.Error()))
}

// Pause waits for Enter on in.
func (r *Reporter) Pause(in io.Reader) {
	fmt.Fprint(r.out, "\nEnterキーで終了...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
