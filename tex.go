package tableconv

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
)

var (
	tabularRe      = regexp.MustCompile(`\\begin\{tabular\}\{([^}]*)\}((?s:.*?))\\end\{tabular\}`)
	rowTerminator  = regexp.MustCompile(`\\\\(?:[ \t]*%[^\n]*)?\n?`)
	hlineRe        = regexp.MustCompile(`\\hline`)
	texTabularSpan = regexp.MustCompile(`(?s)\\begin\{tabular\}.*\\end\{tabular\}`)
	texColSpecRe   = regexp.MustCompile(`\{[|lcr]+\}`)
	texMultiColRe  = regexp.MustCompile(`&.*&`)
)

var texEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// texUnescaper reverses texEscaper. The cell tokenizer has already turned
// \& into a plain ampersand.
var texUnescaper = strings.NewReplacer(
	`\textbackslash{}`, `\`,
	`\textasciitilde{}`, `~`,
	`\textasciicircum{}`, `^`,
	`\%`, `%`,
	`\$`, `$`,
	`\#`, `#`,
	`\_`, `_`,
	`\{`, `{`,
	`\}`, `}`,
)

// escapeTeX escapes the ten characters reserved in tabular cells. The
// replacement is a single pass, so backslashes and braces it inserts are
// left alone.
func escapeTeX(s string) string { return texEscaper.Replace(s) }

func parseTeX(text string) (Table, error) {
	m := tabularRe.FindStringSubmatch(text)
	if m == nil {
		return Table{}, errors.New("no tabular environment found")
	}
	spec, body := m[1], m[2]

	// Every chunk followed by \\ is a row, even an empty one. Text after the
	// last \\ is a row only if something besides rules remains.
	chunks := rowTerminator.Split(body, -1)
	var rows [][]string
	for i, chunk := range chunks {
		chunk = strings.TrimSpace(hlineRe.ReplaceAllString(chunk, ""))
		if chunk == "" && i == len(chunks)-1 {
			continue
		}
		rows = append(rows, splitTeXRow(chunk))
	}
	if len(rows) == 0 {
		return Table{}, errors.New("no rows found in tabular environment")
	}

	t := emptyTable(TeX)
	header := rows[0]
	for i := range columnCount(spec) {
		name := ""
		if i < len(header) {
			name = header[i]
		}
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		t.Columns = append(t.Columns, Column{ID: columnID(i), Name: name, Index: i})
	}
	for i, cells := range rows[1:] {
		t.Rows = append(t.Rows, newRow(t.Columns, i, cells))
	}
	return t, nil
}

// columnCount counts the alignment letters of a column spec such as
// "|l|c|r|".
func columnCount(spec string) int {
	n := 0
	for _, r := range strings.ReplaceAll(spec, "|", "") {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// splitTeXRow splits a row on unescaped ampersands. \& is a literal
// ampersand. Any other backslash starts a command that runs until the next
// whitespace character, and an ampersand inside a command does not split.
// A trailing empty cell is dropped.
func splitTeXRow(row string) []string {
	var (
		cells     []string
		cur       strings.Builder
		inCommand bool
	)
	rs := []rune(row)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\\' && i+1 < len(rs) && rs[i+1] == '&':
			cur.WriteRune('&')
			i++
		case r == '\\':
			inCommand = true
			cur.WriteRune(r)
		case inCommand && unicode.IsSpace(r):
			inCommand = false
			cur.WriteRune(r)
		case r == '&' && !inCommand:
			cells = append(cells, unescapeTeX(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if last := unescapeTeX(cur.String()); last != "" {
		cells = append(cells, last)
	}
	return cells
}

func unescapeTeX(cell string) string {
	return texUnescaper.Replace(strings.TrimSpace(cell))
}

func writeTeX(w io.Writer, t Table, opts TeXOptions) error {
	var spec strings.Builder
	if opts.IncludeVerticalLines {
		spec.WriteByte('|')
	}
	for i := range t.Columns {
		spec.WriteByte(alignmentLetter(alignmentAt(opts.ColumnAlignment, i, AlignCenter)))
		if opts.IncludeVerticalLines {
			spec.WriteByte('|')
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\\begin{tabular}{%s}\n", spec.String())
	hline := func() {
		if opts.IncludeHorizontalLines {
			sb.WriteString("\\hline\n")
		}
	}
	hline()
	writeTeXRow(&sb, t.Header())
	hline()
	for _, rec := range t.Records() {
		writeTeXRow(&sb, rec)
		hline()
	}
	sb.WriteString("\\end{tabular}")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTeXRow(sb *strings.Builder, cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = escapeTeX(c)
	}
	sb.WriteString(strings.Join(escaped, " & "))
	sb.WriteString(" \\\\\n")
}

func alignmentLetter(a Alignment) byte {
	switch a {
	case AlignLeft:
		return 'l'
	case AlignRight:
		return 'r'
	default:
		return 'c'
	}
}

func detectTeX(text string) int {
	if !texTabularSpan.MatchString(text) {
		return 0
	}
	confidence := 70
	if strings.Contains(text, `\hline`) {
		confidence += 10
	}
	if texColSpecRe.MatchString(text) {
		confidence += 10
	}
	if texMultiColRe.MatchString(text) {
		confidence += 5
	}
	if strings.Contains(text, `\\`) {
		confidence += 5
	}
	return min(confidence, 100)
}
