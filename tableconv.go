package tableconv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMalformedInput    = errors.New("malformed input")
	ErrInvalidOptions    = errors.New("invalid options")
)

// Format identifies one of the supported table encodings.
type Format string

const (
	CSV      Format = "csv"
	JSON     Format = "json"
	Markdown Format = "markdown"
	HTML     Format = "html"
	TeX      Format = "tex"
)

var formats = []Format{CSV, JSON, Markdown, HTML, TeX}

var extensions = map[Format]string{
	CSV:      ".csv",
	JSON:     ".json",
	Markdown: ".md",
	HTML:     ".html",
	TeX:      ".tex",
}

// String returns the format tag.
func (f Format) String() string { return string(f) }

// Extension returns the file extension used when delivering output in
// format f, including the leading dot. Unknown formats return "".
func (f Format) Extension() string { return extensions[f] }

// Formats returns all supported format tags in detection order.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format tag.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatForFilename guesses a format from a file name's extension. It is
// informational only: parsing never depends on the file name.
func FormatForFilename(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv":
		return CSV, true
	case ".json":
		return JSON, true
	case ".md", ".markdown":
		return Markdown, true
	case ".html", ".htm":
		return HTML, true
	case ".tex":
		return TeX, true
	default:
		return "", false
	}
}

// Parse converts text in format f into a Table. Malformed input never
// fails the call: the failure is logged on opts.Logger and an empty table
// tagged with f is returned. The only error is [ErrUnsupportedFormat].
func Parse(text string, f Format, opts Options) (Table, error) {
	t, err := ParseStrict(text, f, opts)
	if errors.Is(err, ErrMalformedInput) {
		opts.logger().Warn("table parse failed", slog.String("format", f.String()), slog.Any("error", err))
		return t, nil
	}
	return t, err
}

// ParseStrict behaves like [Parse] but reports malformed input as an error
// wrapping [ErrMalformedInput]. The returned table is still the empty table
// tagged with f, so callers may ignore the error and keep going.
func ParseStrict(text string, f Format, opts Options) (Table, error) {
	var (
		t   Table
		err error
	)
	switch f {
	case CSV:
		t, err = parseCSV(text, opts.CSV)
	case JSON:
		t, err = parseJSON(text)
	case Markdown:
		t, err = parseMarkdown(text)
	case HTML:
		t, err = parseHTML(text)
	case TeX:
		t, err = parseTeX(text)
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return emptyTable(f), fmt.Errorf("%w: %s: %w", ErrMalformedInput, f, err)
	}
	return t, nil
}

// Write renders t in format f and writes it to w. A table with no columns
// writes nothing.
func Write(w io.Writer, t Table, f Format, opts Options) error {
	switch f {
	case CSV, JSON, Markdown, HTML, TeX:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if t.IsEmpty() {
		return nil
	}
	switch f {
	case CSV:
		return writeCSV(w, t, opts.CSV)
	case JSON:
		return writeJSON(w, t, opts.JSON)
	case Markdown:
		return writeMarkdown(w, t, opts.Markdown)
	case HTML:
		return writeHTML(w, t, opts.HTML)
	default:
		return writeTeX(w, t, opts.TeX)
	}
}

// Export renders t in format f and returns the text.
func Export(t Table, f Format, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, t, f, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}
