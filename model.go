package tableconv

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Cell is a single scalar value. Row and Col mirror the Index of the
// owning Row and Column.
type Cell struct {
	Value string `json:"value"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

// Column describes one column. ID is stable; Name is the display label.
type Column struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Row holds one cell per column, keyed by column ID.
type Row struct {
	ID    string          `json:"id"`
	Index int             `json:"index"`
	Cells map[string]Cell `json:"cells"`
}

// Table is the format-independent representation every parser produces
// and every exporter consumes. Tables are values: the update methods
// return a new Table and never modify the receiver.
type Table struct {
	Columns        []Column `json:"columns"`
	Rows           []Row    `json:"rows"`
	OriginalFormat Format   `json:"originalFormat"`
}

// SortOrder is the direction of [Table.SortByColumn].
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// NewTable returns a table with the given column names and no rows.
func NewTable(names []string, f Format) Table {
	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{ID: columnID(i), Name: name, Index: i}
	}
	return Table{Columns: columns, Rows: []Row{}, OriginalFormat: f}
}

func emptyTable(f Format) Table {
	return Table{Columns: []Column{}, Rows: []Row{}, OriginalFormat: f}
}

func columnID(i int) string { return fmt.Sprintf("column_%d", i) }

func newRowID() string { return uuid.NewString() }

// newRow builds the row at index from positional values. Values past the
// column count are ignored; missing ones become "".
func newRow(columns []Column, index int, values []string) Row {
	cells := make(map[string]Cell, len(columns))
	for i, col := range columns {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		cells[col.ID] = Cell{Value: v, Row: index, Col: col.Index}
	}
	return Row{ID: newRowID(), Index: index, Cells: cells}
}

// IsEmpty reports whether the table has no columns.
func (t Table) IsEmpty() bool { return len(t.Columns) == 0 }

// Header returns the column display names in display order.
func (t Table) Header() []string {
	out := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		out[i] = col.Name
	}
	return out
}

// Records returns the cell values of every row in display order.
func (t Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			rec[j] = row.Cells[col.ID].Value
		}
		out[i] = rec
	}
	return out
}

// Value returns the value of the cell at rowIndex in column columnID.
func (t Table) Value(rowIndex int, columnID string) (string, bool) {
	if rowIndex < 0 || rowIndex >= len(t.Rows) {
		return "", false
	}
	c, ok := t.Rows[rowIndex].Cells[columnID]
	return c.Value, ok
}

// AddRow appends a row. Missing values become empty strings; extra values
// are ignored.
func (t Table) AddRow(values ...string) Table {
	rows := make([]Row, len(t.Rows), len(t.Rows)+1)
	copy(rows, t.Rows)
	t.Rows = append(rows, newRow(t.Columns, len(t.Rows), values))
	return t
}

// UpdateCell replaces one cell value. It is a no-op when rowIndex is out
// of range or the row has no cell for columnID.
func (t Table) UpdateCell(rowIndex int, columnID, value string) Table {
	if rowIndex < 0 || rowIndex >= len(t.Rows) {
		return t
	}
	row := t.Rows[rowIndex]
	cell, ok := row.Cells[columnID]
	if !ok {
		return t
	}
	cells := make(map[string]Cell, len(row.Cells))
	for id, c := range row.Cells {
		cells[id] = c
	}
	cell.Value = value
	cells[columnID] = cell
	row.Cells = cells

	rows := slices.Clone(t.Rows)
	rows[rowIndex] = row
	t.Rows = rows
	return t
}

// DeleteRow removes the row at rowIndex and renumbers the rows after it.
// It is a no-op when rowIndex is out of range.
func (t Table) DeleteRow(rowIndex int) Table {
	if rowIndex < 0 || rowIndex >= len(t.Rows) {
		return t
	}
	rows := make([]Row, 0, len(t.Rows)-1)
	rows = append(rows, t.Rows[:rowIndex]...)
	rows = append(rows, t.Rows[rowIndex+1:]...)
	t.Rows = renumberRows(rows)
	return t
}

// UpdateColumnName changes a column's display name. ID and Index are
// untouched. It is a no-op for an unknown columnID.
func (t Table) UpdateColumnName(columnID, name string) Table {
	i := slices.IndexFunc(t.Columns, func(c Column) bool { return c.ID == columnID })
	if i < 0 {
		return t
	}
	columns := slices.Clone(t.Columns)
	columns[i].Name = name
	t.Columns = columns
	return t
}

// ReorderColumns puts the columns in the order given by ids. It is a no-op
// unless ids is a permutation of the existing column ids. Cells stay keyed
// by column id; their Col fields follow the new indexes.
func (t Table) ReorderColumns(ids []string) Table {
	if len(ids) != len(t.Columns) {
		return t
	}
	byID := make(map[string]Column, len(t.Columns))
	for _, col := range t.Columns {
		byID[col.ID] = col
	}
	newIndex := make(map[string]int, len(ids))
	columns := make([]Column, len(ids))
	for i, id := range ids {
		col, ok := byID[id]
		if _, dup := newIndex[id]; !ok || dup {
			return t
		}
		newIndex[id] = i
		col.Index = i
		columns[i] = col
	}
	t.Columns = columns

	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		cells := make(map[string]Cell, len(row.Cells))
		for id, c := range row.Cells {
			if idx, ok := newIndex[id]; ok {
				c.Col = idx
			}
			cells[id] = c
		}
		row.Cells = cells
		rows[i] = row
	}
	t.Rows = rows
	return t
}

// SortByColumn orders rows by the values in columnID. Two values that both
// parse as numbers compare numerically; anything else compares with
// root-locale collation. The sort is stable.
func (t Table) SortByColumn(columnID string, order SortOrder) Table {
	col := collate.New(language.Und)
	cmp := func(a, b string) int {
		if x, ok := parseNumber(a); ok {
			if y, ok := parseNumber(b); ok {
				switch {
				case x < y:
					return -1
				case x > y:
					return 1
				default:
					return 0
				}
			}
		}
		return col.CompareString(a, b)
	}
	rows := slices.Clone(t.Rows)
	slices.SortStableFunc(rows, func(a, b Row) int {
		va, vb := a.Cells[columnID].Value, b.Cells[columnID].Value
		if order == SortDesc {
			return cmp(vb, va)
		}
		return cmp(va, vb)
	})
	t.Rows = renumberRows(rows)
	return t
}

// parseNumber reports whether s is a finite number. Infinities, NaN and
// values out of float64 range are treated as text.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// renumberRows rewrites Index and every cell's Row to match each row's
// position. The input slice is modified; cell maps are copied.
func renumberRows(rows []Row) []Row {
	for i, row := range rows {
		cells := make(map[string]Cell, len(row.Cells))
		for id, c := range row.Cells {
			c.Row = i
			cells[id] = c
		}
		row.Index = i
		row.Cells = cells
		rows[i] = row
	}
	return rows
}
