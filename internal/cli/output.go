package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiGray   = "\033[90m"
)

// colorEnabled is decided once from stdout and can be overridden by
// --no-color or tests.
var colorEnabled = IsTerminal(os.Stdout)

// SetColorEnabled overrides terminal detection.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// ColorEnabled reports whether output is colored.
func ColorEnabled() bool {
	return colorEnabled
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + ansiReset
}

// Color helpers wrap s in ANSI codes when color is enabled.

func Bold(s string) string   { return paint(ansiBold, s) }
func Green(s string) string  { return paint(ansiGreen, s) }
func Red(s string) string    { return paint(ansiRed, s) }
func Yellow(s string) string { return paint(ansiYellow, s) }
func Gray(s string) string   { return paint(ansiGray, s) }

// OnOff renders a toggle as a colored "on" or "off".
func OnOff(on bool) string {
	if on {
		return Green("on")
	}
	return Gray("off")
}

// Cursor renders a playlist cursor, showing the unset marker as "-".
func Cursor(c int) string {
	if c < 0 {
		return Gray("-")
	}
	return fmt.Sprintf("%d", c)
}

// HomePath replaces the user's home directory prefix in path with "~".
func HomePath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if rel, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return filepath.Join("~", rel)
	}
	return path
}

// Table aligns rows into columns separated by two spaces. Widths ignore
// ANSI color codes.
type Table struct {
	header []string
	rows   [][]string
	widths []int
}

// NewTable returns a table with an optional header row.
func NewTable(header ...string) *Table {
	t := &Table{}
	if len(header) > 0 {
		t.header = header
		t.track(header)
	}
	return t
}

// AddRow appends a row.
func (t *Table) AddRow(cols ...string) {
	t.track(cols)
	t.rows = append(t.rows, cols)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) track(cols []string) {
	for len(t.widths) < len(cols) {
		t.widths = append(t.widths, 0)
	}
	for i, c := range cols {
		t.widths[i] = max(t.widths[i], visibleWidth(c))
	}
}

// Render writes the table to w. The last column is never padded.
func (t *Table) Render(w io.Writer) {
	if t.header != nil {
		hdr := make([]string, len(t.header))
		for i, h := range t.header {
			hdr[i] = Bold(h)
		}
		t.renderRow(w, hdr)
	}
	for _, row := range t.rows {
		t.renderRow(w, row)
	}
}

func (t *Table) renderRow(w io.Writer, row []string) {
	var b strings.Builder
	for i, col := range row {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(col)
		if i < len(row)-1 {
			b.WriteString(strings.Repeat(" ", t.widths[i]-visibleWidth(col)))
		}
	}
	fmt.Fprintln(w, b.String())
}

// visibleWidth counts runes outside ANSI escape sequences.
func visibleWidth(s string) int {
	width, inEscape := 0, false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			inEscape = r != 'm'
		default:
			width++
		}
	}
	return width
}
