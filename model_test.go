package tableconv_test

import (
	"testing"

	"github.com/bjaus/tableconv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columnValues(tbl tableconv.Table, columnID string) []string {
	out := make([]string, len(tbl.Rows))
	for i, row := range tbl.Rows {
		out[i] = row.Cells[columnID].Value
	}
	return out
}

func rowIDs(tbl tableconv.Table) []string {
	out := make([]string, len(tbl.Rows))
	for i, row := range tbl.Rows {
		out[i] = row.ID
	}
	return out
}

func TestNewTable(t *testing.T) {
	t.Parallel()
	tbl := tableconv.NewTable([]string{"x", "y"}, tableconv.Markdown)
	assert.Equal(t, []tableconv.Column{
		{ID: "column_0", Name: "x", Index: 0},
		{ID: "column_1", Name: "y", Index: 1},
	}, tbl.Columns)
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, tableconv.Markdown, tbl.OriginalFormat)
	assert.False(t, tbl.IsEmpty())
	assert.True(t, tableconv.NewTable(nil, tableconv.CSV).IsEmpty())
}

func TestAddRow(t *testing.T) {
	t.Parallel()
	base := tableconv.NewTable([]string{"a", "b", "c"}, tableconv.CSV)
	tbl := base.AddRow("1", "2", "3").AddRow("4").AddRow("5", "6", "7", "8")

	assert.Empty(t, base.Rows, "receiver must not change")
	assert.Equal(t, [][]string{
		{"1", "2", "3"},
		{"4", "", ""},
		{"5", "6", "7"},
	}, tbl.Records())
	assert.Equal(t, 2, tbl.Rows[2].Index)
	assertConsistent(t, tbl)
}

func TestValue(t *testing.T) {
	t.Parallel()
	tbl := sampleTable()
	v, ok := tbl.Value(1, "column_0")
	assert.True(t, ok)
	assert.Equal(t, "Bob", v)
	_, ok = tbl.Value(3, "column_0")
	assert.False(t, ok)
	_, ok = tbl.Value(0, "nope")
	assert.False(t, ok)
}

func TestUpdateCell(t *testing.T) {
	t.Parallel()
	base := sampleTable()
	tbl := base.UpdateCell(1, "column_1", "26")

	v, _ := tbl.Value(1, "column_1")
	assert.Equal(t, "26", v)
	v, _ = base.Value(1, "column_1")
	assert.Equal(t, "25", v, "receiver must not change")
	assert.Equal(t, rowIDs(base), rowIDs(tbl))
	assertConsistent(t, tbl)
}

func TestUpdateCellNoop(t *testing.T) {
	t.Parallel()
	base := sampleTable()
	tests := map[string]struct {
		row    int
		column string
	}{
		"negative row":   {row: -1, column: "column_0"},
		"row past end":   {row: 3, column: "column_0"},
		"unknown column": {row: 0, column: "missing"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, base, base.UpdateCell(tt.row, tt.column, "x"))
		})
	}
}

func TestDeleteRow(t *testing.T) {
	t.Parallel()
	base := sampleTable()
	tbl := base.DeleteRow(1)

	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, 0, tbl.Rows[0].Index)
	assert.Equal(t, 1, tbl.Rows[1].Index)
	assert.Equal(t, []string{"Alice", "Carol"}, columnValues(tbl, "column_0"))
	for _, cell := range tbl.Rows[1].Cells {
		assert.Equal(t, 1, cell.Row)
	}
	assert.Equal(t, []string{base.Rows[0].ID, base.Rows[2].ID}, rowIDs(tbl))
	assert.Len(t, base.Rows, 3, "receiver must not change")
	assert.Equal(t, 2, base.Rows[2].Index)
	assertConsistent(t, tbl)
}

func TestDeleteRowNoop(t *testing.T) {
	t.Parallel()
	base := sampleTable()
	assert.Equal(t, base, base.DeleteRow(-1))
	assert.Equal(t, base, base.DeleteRow(3))
}

func TestUpdateColumnName(t *testing.T) {
	t.Parallel()
	base := sampleTable()
	tbl := base.UpdateColumnName("column_1", "Years")
	assert.Equal(t, tableconv.Column{ID: "column_1", Name: "Years", Index: 1}, tbl.Columns[1])
	assert.Equal(t, "Age", base.Columns[1].Name, "receiver must not change")
	assert.Equal(t, base, base.UpdateColumnName("missing", "x"))

	out := mustExport(t, tbl, tableconv.CSV)
	assert.Contains(t, out, "Name,Years,City\n")
}

func TestReorderColumns(t *testing.T) {
	t.Parallel()
	base := sampleTable()
	tbl := base.ReorderColumns([]string{"column_2", "column_0", "column_1"})

	assert.Equal(t, []string{"City", "Name", "Age"}, tbl.Header())
	assert.Equal(t, []string{"Tokyo", "Alice", "30"}, tbl.Records()[0])
	assert.Equal(t, []string{"Name", "Age", "City"}, base.Header(), "receiver must not change")
	assert.Equal(t, 2, base.Rows[0].Cells["column_2"].Col)
	assert.Equal(t, 0, tbl.Rows[0].Cells["column_2"].Col)
	assertConsistent(t, tbl)
}

func TestReorderColumnsNoop(t *testing.T) {
	t.Parallel()
	base := sampleTable()
	tests := map[string][]string{
		"short":     {"column_0", "column_1"},
		"long":      {"column_0", "column_1", "column_2", "column_3"},
		"duplicate": {"column_0", "column_0", "column_1"},
		"unknown":   {"column_0", "column_1", "column_9"},
		"nil":       nil,
	}
	for name, ids := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, base, base.ReorderColumns(ids))
		})
	}
}

func TestSortByColumn(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		values []string
		order  tableconv.SortOrder
		want   []string
	}{
		"numeric asc": {
			values: []string{"10", "9", "100", "-1.5"},
			order:  tableconv.SortAsc,
			want:   []string{"-1.5", "9", "10", "100"},
		},
		"numeric desc": {
			values: []string{"10", "9", "100", "1e1"},
			order:  tableconv.SortDesc,
			want:   []string{"100", "10", "1e1", "9"},
		},
		"text asc": {
			values: []string{"banana", "Apple", "cherry", "apple"},
			order:  tableconv.SortAsc,
			want:   []string{"apple", "Apple", "banana", "cherry"},
		},
		"text desc": {
			values: []string{"b", "c", "a"},
			order:  tableconv.SortDesc,
			want:   []string{"c", "b", "a"},
		},
		"accents collate": {
			values: []string{"été", "ete", "eta", "étz"},
			order:  tableconv.SortAsc,
			want:   []string{"eta", "ete", "été", "étz"},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tbl := tableconv.NewTable([]string{"v"}, tableconv.CSV)
			for _, v := range tt.values {
				tbl = tbl.AddRow(v)
			}
			sorted := tbl.SortByColumn("column_0", tt.order)
			assert.Equal(t, tt.want, columnValues(sorted, "column_0"))
			assert.Equal(t, tt.values, columnValues(tbl, "column_0"), "receiver must not change")
			assertConsistent(t, sorted)
		})
	}
}

func TestSortByColumnStable(t *testing.T) {
	t.Parallel()
	tbl := tableconv.NewTable([]string{"k", "v"}, tableconv.CSV).
		AddRow("same", "1").
		AddRow("same", "2").
		AddRow("same", "3").
		AddRow("same", "4")
	for _, order := range []tableconv.SortOrder{tableconv.SortAsc, tableconv.SortDesc} {
		sorted := tbl.SortByColumn("column_0", order)
		assert.Equal(t, []string{"1", "2", "3", "4"}, columnValues(sorted, "column_1"))
		assert.Equal(t, rowIDs(tbl), rowIDs(sorted))
	}
}

func TestSortByColumnRenumbers(t *testing.T) {
	t.Parallel()
	tbl := sampleTable().SortByColumn("column_1", tableconv.SortAsc)
	assert.Equal(t, []string{"Bob", "Alice", "Carol"}, columnValues(tbl, "column_0"))
	assert.Equal(t, 0, tbl.Rows[0].Cells["column_2"].Row)
	assert.Equal(t, 2, tbl.Rows[2].Cells["column_0"].Row)
	assertConsistent(t, tbl)
}

func TestRowIDsUnique(t *testing.T) {
	t.Parallel()
	tbl := tableconv.NewTable([]string{"a"}, tableconv.CSV)
	seen := map[string]bool{}
	for range 50 {
		tbl = tbl.AddRow("x")
	}
	tbl = tbl.DeleteRow(10).AddRow("y")
	for _, id := range rowIDs(tbl) {
		assert.NotEmpty(t, id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
