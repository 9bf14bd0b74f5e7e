// Package tableconv converts tables between plain-text encodings and
// guesses which encoding a blob of text uses.
//
// Supported formats are CSV, JSON, Markdown, HTML, and TeX. Every parser
// produces a [Table], the canonical in-memory representation, and every
// exporter consumes one. The central entry points are [Detect], [Parse]
// and [Export] (or [Write] for an [io.Writer]).
//
// # Detection
//
// [Detect] runs a fast textual heuristic per format and returns the
// non-zero confidences, highest first:
//
//	results := tableconv.Detect(text)
//	if f, ok := tableconv.AutoSelect(results); ok { ... }
//
// # Parsing
//
// [Parse] never fails on bad input. Malformed text yields an empty table
// (no columns, no rows) tagged with the requested format, and the reason is
// logged on [Options.Logger]. Use [ParseStrict] to receive the reason as an
// error wrapping [ErrMalformedInput] instead.
//
//	t, err := tableconv.Parse(text, tableconv.CSV, tableconv.DefaultOptions())
//
// # Editing
//
// A [Table] is a value. [Table.AddRow], [Table.UpdateCell],
// [Table.DeleteRow], [Table.UpdateColumnName], [Table.ReorderColumns] and
// [Table.SortByColumn] return a new table and leave the receiver alone.
// Invalid arguments make them no-ops.
//
// # Export
//
//	out, err := tableconv.Export(t, tableconv.Markdown, opts)
//
// Options live in [Options], one block per format. [DefaultOptions] holds
// the defaults and [LoadOptions] reads overrides from YAML.
//
// # Preview
//
// [Preview] draws a table as a bordered terminal grid.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrUnsupportedFormat]: unknown format tag
//   - [ErrMalformedInput]: input could not be parsed ([ParseStrict] only)
//   - [ErrInvalidOptions]: invalid YAML options
package tableconv
