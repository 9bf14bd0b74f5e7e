package tableconv_test

import (
	"strings"
	"testing"

	"github.com/bjaus/tableconv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHTML(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input   string
		header  []string
		records [][]string
	}{
		"thead and tbody": {
			input: `<table><thead><tr><th>A</th><th>B</th></tr></thead>` +
				`<tbody><tr><td>1</td><td>2</td></tr><tr><td>3</td><td>4</td></tr></tbody></table>`,
			header:  []string{"A", "B"},
			records: [][]string{{"1", "2"}, {"3", "4"}},
		},
		"bare rows": {
			input:   `<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>`,
			header:  []string{"A", "B"},
			records: [][]string{{"1", "2"}},
		},
		"td header": {
			input:   `<table><tr><td>A</td></tr><tr><td>1</td></tr></table>`,
			header:  []string{"A"},
			records: [][]string{{"1"}},
		},
		"empty header cell": {
			input:   `<table><tr><th>A</th><th> </th></tr><tr><td>1</td><td>2</td></tr></table>`,
			header:  []string{"A", "Column 2"},
			records: [][]string{{"1", "2"}},
		},
		"entities decoded": {
			input:   `<table><tr><th>A &amp; B</th></tr><tr><td>&lt;x&gt; &quot;q&quot; &#039;s&#39;</td></tr></table>`,
			header:  []string{"A & B"},
			records: [][]string{{`<x> "q" 's'`}},
		},
		"nested markup": {
			input:   `<table><tr><th><b>Name</b></th></tr><tr><td> <a href="#">bold</a> text </td></tr></table>`,
			header:  []string{"Name"},
			records: [][]string{{"bold text"}},
		},
		"surrounding document": {
			input: "<html><body><h1>Report</h1><p>intro</p>\n" +
				"<table class=\"x\"><tr><th>A</th></tr><tr><td>1</td></tr></table><p>end</p></body></html>",
			header:  []string{"A"},
			records: [][]string{{"1"}},
		},
		"first table only": {
			input:   `<table><tr><th>A</th></tr><tr><td>1</td></tr></table><table><tr><th>Z</th></tr></table>`,
			header:  []string{"A"},
			records: [][]string{{"1"}},
		},
		"short rows padded": {
			input:   `<table><tr><th>A</th><th>B</th></tr><tr><td>1</td></tr></table>`,
			header:  []string{"A", "B"},
			records: [][]string{{"1", ""}},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tbl := mustParse(t, tt.input, tableconv.HTML)
			assert.Equal(t, tableconv.HTML, tbl.OriginalFormat)
			assert.Equal(t, tt.header, tbl.Header())
			assert.Equal(t, tt.records, tbl.Records())
			assertConsistent(t, tbl)
		})
	}
}

func TestParseHTMLMalformed(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"no table":   "<p>nothing</p>",
		"no rows":    "<table></table>",
		"plain text": "a,b\n1,2",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := tableconv.ParseStrict(input, tableconv.HTML, tableconv.DefaultOptions())
			require.ErrorIs(t, err, tableconv.ErrMalformedInput)
		})
	}
}

func TestExportHTML(t *testing.T) {
	t.Parallel()
	tbl := tableconv.NewTable([]string{"a"}, tableconv.CSV).AddRow(`<b>&"'`)
	tests := map[string]struct {
		opts tableconv.HTMLOptions
		want string
	}{
		"sections": {
			opts: tableconv.HTMLOptions{IncludeTheadTbody: true},
			want: strings.Join([]string{
				"<table>",
				"  <thead>",
				"    <tr>",
				"      <th>a</th>",
				"    </tr>",
				"  </thead>",
				"  <tbody>",
				"    <tr>",
				"      <td>&lt;b&gt;&amp;&quot;&#039;</td>",
				"    </tr>",
				"  </tbody>",
				"</table>",
			}, "\n"),
		},
		"flat": {
			opts: tableconv.HTMLOptions{},
			want: strings.Join([]string{
				"<table>",
				"  <tr>",
				"    <th>a</th>",
				"  </tr>",
				"  <tr>",
				"    <td>&lt;b&gt;&amp;&quot;&#039;</td>",
				"  </tr>",
				"</table>",
			}, "\n"),
		},
		"class and id": {
			opts: tableconv.HTMLOptions{TableClass: `grid "x"`, TableID: "t1"},
			want: strings.Join([]string{
				`<table class="grid &quot;x&quot;" id="t1">`,
				"  <tr>",
				"    <th>a</th>",
				"  </tr>",
				"  <tr>",
				"    <td>&lt;b&gt;&amp;&quot;&#039;</td>",
				"  </tr>",
				"</table>",
			}, "\n"),
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			opts := tableconv.DefaultOptions()
			opts.HTML = tt.opts
			got, err := tableconv.Export(tbl, tableconv.HTML, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back, err := tableconv.ParseStrict(got, tableconv.HTML, opts)
			require.NoError(t, err)
			assert.Equal(t, tbl.Records(), back.Records())
		})
	}
}

func TestExportHTMLEscapesOnce(t *testing.T) {
	t.Parallel()
	tbl := tableconv.NewTable([]string{"&amp;"}, tableconv.CSV).AddRow("&lt;")
	got := mustExport(t, tbl, tableconv.HTML)
	assert.Contains(t, got, "<th>&amp;amp;</th>")
	assert.Contains(t, got, "<td>&amp;lt;</td>")

	back := mustParse(t, got, tableconv.HTML)
	assert.Equal(t, []string{"&amp;"}, back.Header())
	assert.Equal(t, [][]string{{"&lt;"}}, back.Records())
}
