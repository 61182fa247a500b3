package cli

import (
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// columnGap is the number of spaces between columns.
const columnGap = 2

// Table renders column-aligned output. Rows are buffered until Flush so that
// column widths can be fitted to the terminal; cells wider than their column
// wrap onto continuation lines. Headers and a dash divider are written on
// Flush only when at least one row was added, so empty tables produce no
// output.
type Table struct {
	out      io.Writer
	headers  []string
	prefix   string
	maxWidth int
	rows     [][]string
}

// NewTable creates a table writing to stdout.
func NewTable(headers ...string) *Table {
	return NewTableTo(os.Stdout, headers...)
}

// NewTableTo creates a table writing to w. When w is a terminal, the table is
// fitted to its width.
func NewTableTo(w io.Writer, headers ...string) *Table {
	return &Table{
		out:      w,
		headers:  headers,
		maxWidth: terminalWidth(w),
	}
}

// WithPrefix sets a string prepended to each line (headers, divider, rows).
func (t *Table) WithPrefix(prefix string) *Table {
	t.prefix = prefix
	return t
}

// WithMaxWidth overrides the detected terminal width. Zero disables fitting.
func (t *Table) WithMaxWidth(width int) *Table {
	t.maxWidth = width
	return t
}

// Row adds a row. Missing trailing cells are rendered empty.
func (t *Table) Row(values ...string) {
	t.rows = append(t.rows, values)
}

// Flush writes the buffered table. If no rows were added, nothing is printed.
func (t *Table) Flush() error {
	if len(t.rows) == 0 {
		return nil
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visualLen(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if n := visualLen(row[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}
	if t.maxWidth > 0 {
		widths = capWidths(widths, t.headers, t.maxWidth, visualLen(t.prefix))
	}

	var b strings.Builder
	t.writeLine(&b, widths, t.headers)
	dividers := make([]string, len(t.headers))
	for i, h := range t.headers {
		dividers[i] = strings.Repeat("-", visualLen(h))
	}
	t.writeLine(&b, widths, dividers)

	for _, row := range t.rows {
		wrapped := make([][]string, len(widths))
		height := 1
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			wrapped[i] = wrapCell(cell, widths[i])
			if len(wrapped[i]) > height {
				height = len(wrapped[i])
			}
		}
		for line := 0; line < height; line++ {
			cells := make([]string, len(widths))
			for i := range widths {
				if line < len(wrapped[i]) {
					cells[i] = wrapped[i][line]
				}
			}
			t.writeLine(&b, widths, cells)
		}
	}

	t.rows = nil
	_, err := io.WriteString(t.out, b.String())
	return err
}

func (t *Table) writeLine(b *strings.Builder, widths []int, cells []string) {
	var line strings.Builder
	line.WriteString(t.prefix)
	for i, cell := range cells {
		line.WriteString(cell)
		if i < len(cells)-1 {
			line.WriteString(strings.Repeat(" ", widths[i]-visualLen(cell)+columnGap))
		}
	}
	b.WriteString(strings.TrimRight(line.String(), " "))
	b.WriteByte('\n')
}

// terminalWidth returns the width of w when it is a terminal, else 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// capWidths narrows the widest columns, one character at a time, until the
// table fits in termWidth. A column is never narrowed below its header.
func capWidths(widths []int, headers []string, termWidth, prefix int) []int {
	out := append([]int(nil), widths...)
	total := func() int {
		sum := prefix
		for _, w := range out {
			sum += w
		}
		return sum + columnGap*(len(out)-1)
	}

	for total() > termWidth {
		widest := -1
		for i, w := range out {
			if w > visualLen(headers[i]) && (widest < 0 || w > out[widest]) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		out[widest]--
	}
	return out
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visualLen is the number of runes s occupies on screen, ignoring ANSI color
// sequences.
func visualLen(s string) int {
	return utf8.RuneCountInString(ansiEscape.ReplaceAllString(s, ""))
}

// wrapCell splits s into lines no wider than width, breaking at spaces and
// hard-breaking words that are longer than width. Color sequences are kept
// when s fits and dropped when it has to be wrapped.
func wrapCell(s string, width int) []string {
	if width <= 0 || visualLen(s) <= width {
		return []string{s}
	}

	var lines []string
	var cur []rune
	for _, word := range strings.Fields(ansiEscape.ReplaceAllString(s, "")) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 || len(lines) == 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
