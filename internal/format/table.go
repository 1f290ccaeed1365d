package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

func (f *TableFormatter) Format(w io.Writer, tables []Table) error {
	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := f.formatOne(w, t); err != nil {
			return err
		}
	}
	return nil
}

func (f *TableFormatter) formatOne(w io.Writer, t Table) error {
	widths := columnWidths(t)
	var b strings.Builder

	if t.Title != "" {
		b.WriteString(t.Title)
		b.WriteString("\n")
	}
	border(&b, widths, "┌", "┬", "┐")
	row(&b, t.Headers, widths, nil)
	border(&b, widths, "├", "┼", "┤")
	for _, r := range t.Rows {
		row(&b, r, widths, t.Numeric)
	}
	border(&b, widths, "└", "┴", "┘")

	_, err := io.WriteString(w, b.String())
	return err
}

// columnWidths measures display width so emoji and CJK cells line up.
func columnWidths(t Table) []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range t.Rows {
		for i, cell := range r {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}
	return widths
}

func border(b *strings.Builder, widths []int, left, middle, right string) {
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
}

func row(b *strings.Builder, values []string, widths []int, numeric []bool) {
	b.WriteString("│")
	for i, width := range widths {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		b.WriteString(" ")
		if i < len(numeric) && numeric[i] {
			b.WriteString(runewidth.FillLeft(value, width))
		} else {
			b.WriteString(runewidth.FillRight(value, width))
		}
		b.WriteString(" │")
	}
	b.WriteString("\n")
}
