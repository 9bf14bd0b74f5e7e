package tableconv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var candidateDelimiters = []rune{',', '\t', ';'}

func parseCSV(text string, opts CSVOptions) (Table, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	cr := csv.NewReader(strings.NewReader(text))
	cr.Comma = csvDelimiter(opts.Delimiter, text)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		records [][]string
		errs    []error
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			// The reader resynchronizes on the next line.
			errs = append(errs, perr)
			continue
		}
		if err != nil {
			return Table{}, err
		}
		records = append(records, rec)
	}
	if len(errs) > 0 && len(records) == 0 {
		return Table{}, errors.Join(errs...)
	}

	t := emptyTable(CSV)
	if len(records) == 0 {
		return t, nil
	}
	if opts.HasHeader {
		t.Columns = headerColumns(records[0])
		records = records[1:]
	} else {
		for i := range records[0] {
			t.Columns = append(t.Columns, Column{ID: columnID(i), Name: fmt.Sprintf("Column %d", i+1), Index: i})
		}
	}
	for i, rec := range records {
		t.Rows = append(t.Rows, newRow(t.Columns, i, rec))
	}
	return t, nil
}

// headerColumns names columns after the header fields. Repeated header
// text gets a numeric suffix on its id so no two columns share a cell
// slot; the display name keeps the original text.
func headerColumns(header []string) []Column {
	columns := make([]Column, len(header))
	used := make(map[string]bool, len(header))
	for i, name := range header {
		id := name
		for n := 1; used[id]; n++ {
			id = fmt.Sprintf("%s_%d", name, n)
		}
		used[id] = true
		columns[i] = Column{ID: id, Name: name, Index: i}
	}
	return columns
}

func csvDelimiter(configured, text string) rune {
	if r, _ := utf8.DecodeRuneInString(configured); r != utf8.RuneError {
		return r
	}
	if d, n := sniffDelimiter(firstNonBlankLine(text)); n > 0 {
		return d
	}
	return ','
}

// sniffDelimiter returns the candidate delimiter occurring most often in
// line, preferring comma, then tab, then semicolon on ties.
func sniffDelimiter(line string) (rune, int) {
	best, count := candidateDelimiters[0], 0
	for _, d := range candidateDelimiters {
		if n := strings.Count(line, string(d)); n > count {
			best, count = d, n
		}
	}
	return best, count
}

func writeCSV(w io.Writer, t Table, opts CSVOptions) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if r, _ := utf8.DecodeRuneInString(opts.Delimiter); r != utf8.RuneError {
		cw.Comma = r
	}
	records := t.Records()
	if opts.HasHeader {
		records = append([][]string{t.Header()}, records...)
	}
	for _, rec := range records {
		if err := writeCSVRecord(cw, &buf, rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	out := buf.String()
	if opts.Encoding == EncodingUTF8BOM {
		var err error
		if out, err = unicode.UTF8BOM.NewEncoder().String(out); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, out)
	return err
}

// writeCSVRecord writes rec through cw. A record holding one empty field is
// written as "" since the reader skips empty lines.
func writeCSVRecord(cw *csv.Writer, buf *bytes.Buffer, rec []string) error {
	if len(rec) != 1 || rec[0] != "" {
		return cw.Write(rec)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	buf.WriteString("\"\"\n")
	return nil
}

func detectCSV(text string) int {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return 0
	}
	delim, count := sniffDelimiter(lines[0])
	if count == 0 {
		return 0
	}
	confidence := 50

	consistent := true
	for _, line := range lines {
		if strings.Count(line, string(delim)) != count {
			consistent = false
			break
		}
	}
	if consistent {
		confidence += 30
	}

	if len(lines) > 1 && strings.Contains(lines[0], `"`) != strings.Contains(lines[1], `"`) {
		confidence += 10
	}
	return min(confidence, 100)
}
