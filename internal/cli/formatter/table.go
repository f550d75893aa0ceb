package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align is a column's horizontal alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

const colGap = 2

// Table accumulates rows and renders them with aligned columns. Widths are
// measured on visible text so styled cells line up.
type Table struct {
	headers []string
	align   []Align
	rows    [][]string
}

// NewTable starts a table with the given headers, all left aligned.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, align: make([]Align, len(headers))}
}

// AlignRight right-aligns the given column indexes.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		if c >= 0 && c < len(t.align) {
			t.align[c] = AlignRight
		}
	}
	return t
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len reports the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (t *Table) writeCell(b *strings.Builder, i int, cell string, width int, last bool) {
	pad := width - lipgloss.Width(cell)
	if pad < 0 {
		pad = 0
	}
	if t.align[i] == AlignRight {
		b.WriteString(strings.Repeat(" ", pad) + cell)
		pad = 0
	} else {
		b.WriteString(cell)
	}
	if !last {
		b.WriteString(strings.Repeat(" ", pad+colGap))
	}
}

// Render draws the header, a separator line and every row.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	widths := t.widths()
	last := len(t.headers) - 1

	var b strings.Builder
	for i, h := range t.headers {
		t.writeCell(&b, i, StyleHeader.Render(h), widths[i], i == last)
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < last {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range t.rows {
		for i := range t.headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			t.writeCell(&b, i, cell, widths[i], i == last)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTable renders headers and rows in one call.
func RenderTable(headers []string, rows [][]string) string {
	t := NewTable(headers...)
	for _, r := range rows {
		t.AddRow(r...)
	}
	return t.Render()
}
