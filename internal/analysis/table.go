package analysis

import (
	"strings"
)

// Table is a parsed dataset: a header and rows of trimmed string cells.
// Rows may be shorter than the header; missing trailing cells read as "".
// A Table is never mutated after construction and is safe to share.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column is a read-only view of one column of a Table.
type Column struct {
	Name   string
	Index  int
	Values []string
}

// Parse turns raw CSV text into a Table. The first line is the header and
// every following non-blank line is a row. Empty input yields an empty
// Table, not an error.
func Parse(text string) *Table {
	t := &Table{}
	if text == "" {
		return t
	}
	lines := strings.Split(text, "\n")
	t.Header = cleanFields(SplitLine(strings.TrimSuffix(lines[0], "\r")))
	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		t.Rows = append(t.Rows, cleanFields(SplitLine(line)))
	}
	return t
}

// NewTable builds a Table from already split records, applying the same
// cell clean-up as Parse.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: cleanFields(header)}
	for _, r := range rows {
		blank := true
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}
		t.Rows = append(t.Rows, cleanFields(r))
	}
	return t
}

// SplitLine splits one CSV line on commas outside double quotes. Quote
// characters are kept in the fields; the last field is always emitted.
func SplitLine(line string) []string {
	var out []string
	var b strings.Builder
	inQuotes := false
	for _, r := range line {
		switch r {
		case '"':
			inQuotes = !inQuotes
			b.WriteRune(r)
		case ',':
			if inQuotes {
				b.WriteRune(r)
				continue
			}
			out = append(out, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	out = append(out, b.String())
	return out
}

func cleanFields(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = cleanCell(f)
	}
	return out
}

func cleanCell(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// Cols returns the number of header columns.
func (t *Table) Cols() int { return len(t.Header) }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the first header equal to name, or -1.
// Duplicate header names resolve to the first occurrence.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col), or "" for cells past the end of a
// short row.
func (t *Table) Cell(row, col int) string {
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Column returns the view of column idx. It panics when idx is outside the
// header, which is a caller bug.
func (t *Table) Column(idx int) Column {
	if idx < 0 || idx >= len(t.Header) {
		panic("analysis: column index out of range")
	}
	vals := make([]string, len(t.Rows))
	for i := range t.Rows {
		vals[i] = t.Cell(i, idx)
	}
	return Column{Name: t.Header[idx], Index: idx, Values: vals}
}

// NonMissing returns the column's non-empty values in row order.
func (c Column) NonMissing() []string {
	out := make([]string, 0, len(c.Values))
	for _, v := range c.Values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
