package tableconv

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var separatorCell = regexp.MustCompile(`^:?-+:?$`)

func parseMarkdown(text string) (Table, error) {
	lines := nonBlankLines(text)
	if len(lines) < 3 {
		return Table{}, fmt.Errorf("need at least 3 lines, got %d", len(lines))
	}
	sep := separatorIndex(lines)
	switch {
	case sep < 0:
		return Table{}, errors.New("no separator line")
	case sep == 0:
		return Table{}, errors.New("separator line has no header above it")
	}

	t := emptyTable(Markdown)
	for i, name := range splitMarkdownRow(lines[sep-1]) {
		t.Columns = append(t.Columns, Column{ID: columnID(i), Name: name, Index: i})
	}
	for i, line := range lines[sep+1:] {
		t.Rows = append(t.Rows, newRow(t.Columns, i, splitMarkdownRow(line)))
	}
	return t, nil
}

// separatorIndex returns the index of the first line made only of
// alignment markers such as "---", ":--" or "--:" joined by pipes.
func separatorIndex(lines []string) int {
	for i, line := range lines {
		if isSeparatorLine(line) {
			return i
		}
	}
	return -1
}

func isSeparatorLine(line string) bool {
	if !strings.Contains(line, "|") {
		return false
	}
	for _, cell := range splitMarkdownRow(line) {
		if !separatorCell.MatchString(cell) {
			return false
		}
	}
	return true
}

// splitMarkdownRow drops one leading and one trailing pipe and splits the
// rest on pipes. Escaped pipes are not supported.
func splitMarkdownRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

func writeMarkdown(w io.Writer, t Table, opts MarkdownOptions) error {
	if err := writeMarkdownRow(w, t.Header()); err != nil {
		return err
	}

	sep := make([]string, len(t.Columns))
	for i := range sep {
		switch alignmentAt(opts.Alignment, i, AlignLeft) {
		case AlignCenter:
			sep[i] = ":---:"
		case AlignRight:
			sep[i] = "---:"
		default:
			sep[i] = "---"
		}
	}
	if _, err := fmt.Fprintf(w, "\n| %s |", strings.Join(sep, " | ")); err != nil {
		return err
	}

	for _, rec := range t.Records() {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		if err := writeMarkdownRow(w, rec); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdownRow(w io.Writer, cells []string) error {
	_, err := fmt.Fprintf(w, "| %s |", strings.Join(cells, " | "))
	return err
}

func detectMarkdown(text string) int {
	lines := nonBlankLines(text)
	if len(lines) < 3 {
		return 0
	}
	for _, line := range lines {
		if !strings.Contains(line, "|") {
			return 0
		}
	}
	sep := separatorIndex(lines)
	if sep <= 0 {
		return 0
	}

	confidence := 70
	width := len(splitMarkdownRow(lines[sep-1]))
	uniform := true
	for i, line := range lines {
		if i != sep && len(splitMarkdownRow(line)) != width {
			uniform = false
			break
		}
	}
	if uniform {
		confidence += 30
	}
	return confidence
}
