package tableconv

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"
)

// Alignment controls column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// String returns the alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts left, center and right as well as the single
// letters l, c and r used in tabular column specs.
func (a *Alignment) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "left", "l":
		*a = AlignLeft
	case "center", "c":
		*a = AlignCenter
	case "right", "r":
		*a = AlignRight
	default:
		return fmt.Errorf("%w: alignment %q", ErrInvalidOptions, b)
	}
	return nil
}

// Encoding tags the text encoding of delimited-text output.
type Encoding string

const (
	EncodingUTF8    Encoding = "utf8"
	EncodingUTF8BOM Encoding = "utf8-bom"
	// EncodingShiftJIS is accepted but not transcoded; output stays UTF-8.
	EncodingShiftJIS Encoding = "shift-jis"
)

// CSVOptions configures delimited text.
type CSVOptions struct {
	// Delimiter is the field separator. Only its first rune is used. Empty
	// means sniff comma, tab or semicolon from the first non-blank line.
	Delimiter string   `yaml:"delimiter" json:"delimiter"`
	HasHeader bool     `yaml:"hasHeader" json:"hasHeader"`
	Encoding  Encoding `yaml:"encoding" json:"encoding"`
}

// JSONOptions configures structured-record output.
type JSONOptions struct {
	Indent int `yaml:"indent" json:"indent"`
	// IncludeLineBreaks false forces compact output regardless of Indent.
	IncludeLineBreaks bool `yaml:"includeLineBreaks" json:"includeLineBreaks"`
}

// MarkdownOptions configures lightweight-markup output. Columns beyond
// the end of Alignment are left aligned.
type MarkdownOptions struct {
	Alignment []Alignment `yaml:"alignment" json:"alignment"`
}

// HTMLOptions configures hypertext output.
type HTMLOptions struct {
	TableClass        string `yaml:"tableClass" json:"tableClass"`
	TableID           string `yaml:"tableId" json:"tableId"`
	IncludeTheadTbody bool   `yaml:"includeTheadTbody" json:"includeTheadTbody"`
}

// TeXOptions configures typeset output. Columns beyond the end of
// ColumnAlignment are centered.
type TeXOptions struct {
	ColumnAlignment        []Alignment `yaml:"columnAlignment" json:"columnAlignment"`
	IncludeVerticalLines   bool        `yaml:"includeVerticalLines" json:"includeVerticalLines"`
	IncludeHorizontalLines bool        `yaml:"includeHorizontalLines" json:"includeHorizontalLines"`
}

// Options carries one configuration block per format. Options are passed
// to [Parse] and [Write]; they are never stored on a [Table].
type Options struct {
	CSV      CSVOptions      `yaml:"csv" json:"csv"`
	JSON     JSONOptions     `yaml:"json" json:"json"`
	Markdown MarkdownOptions `yaml:"markdown" json:"markdown"`
	HTML     HTMLOptions     `yaml:"html" json:"html"`
	TeX      TeXOptions      `yaml:"tex" json:"tex"`

	// Logger receives parse diagnostics. Nil means slog.Default().
	Logger *slog.Logger `yaml:"-" json:"-"`
}

// DefaultOptions returns the default configuration for every format.
func DefaultOptions() Options {
	return Options{
		CSV: CSVOptions{
			Delimiter: ",",
			HasHeader: true,
			Encoding:  EncodingUTF8,
		},
		JSON: JSONOptions{
			Indent:            2,
			IncludeLineBreaks: true,
		},
		Markdown: MarkdownOptions{
			Alignment: []Alignment{AlignLeft, AlignLeft, AlignLeft},
		},
		HTML: HTMLOptions{
			IncludeTheadTbody: true,
		},
		TeX: TeXOptions{
			ColumnAlignment:        []Alignment{AlignCenter, AlignCenter, AlignCenter},
			IncludeVerticalLines:   true,
			IncludeHorizontalLines: true,
		},
	}
}

// LoadOptions decodes a YAML document on top of [DefaultOptions]. Keys
// missing from the document keep their default values. An empty document
// yields the defaults.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return opts, nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func alignmentAt(aligns []Alignment, col int, def Alignment) Alignment {
	if col < len(aligns) {
		return aligns[col]
	}
	return def
}
