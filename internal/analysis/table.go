package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is a rendered result set: string cells under named columns.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// Head returns a copy limited to the first n rows.
func (t Table) Head(n int) Table {
	if n < 0 || n >= len(t.Rows) {
		n = len(t.Rows)
	}
	return Table{Title: t.Title, Columns: t.Columns, Rows: t.Rows[:n]}
}

// Column returns the cells of the named column, or nil if absent.
func (t Table) Column(name string) []string {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		} else {
			out = append(out, "")
		}
	}
	return out
}

// Markdown renders up to maxRows rows (all when maxRows <= 0) as a pipe table.
func (t Table) Markdown(maxRows int) string {
	var b strings.Builder
	rows := t.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	b.WriteString("| ")
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(c))
	}
	b.WriteString(" |\n| ")
	for i := range t.Columns {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range t.Columns {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
	if len(rows) < len(t.Rows) {
		b.WriteString(fmt.Sprintf("(%d of %d rows)\n", len(rows), len(t.Rows)))
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func ratio(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
