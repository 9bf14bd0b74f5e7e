package tableconv

import (
	"slices"
	"strings"
)

// AutoSelectThreshold is the confidence a detection must exceed before
// [AutoSelect] picks it.
const AutoSelectThreshold = 70

// Detection is one format guess with a confidence between 0 and 100.
type Detection struct {
	Format     Format `json:"format"`
	Confidence int    `json:"confidence"`
}

var detectors = []struct {
	format Format
	detect func(string) int
}{
	{CSV, detectCSV},
	{JSON, detectJSON},
	{Markdown, detectMarkdown},
	{HTML, detectHTML},
	{TeX, detectTeX},
}

// Detect scores text against every format and returns the non-zero
// results, highest confidence first. Ties keep the order of [Formats].
// Blank input returns nil.
func Detect(text string) []Detection {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []Detection
	for _, d := range detectors {
		if c := d.detect(text); c > 0 {
			out = append(out, Detection{Format: d.format, Confidence: c})
		}
	}
	slices.SortStableFunc(out, func(a, b Detection) int {
		return b.Confidence - a.Confidence
	})
	return out
}

// AutoSelect returns the top detection's format when its confidence is
// above [AutoSelectThreshold]. results must be ordered as [Detect] returns
// them.
func AutoSelect(results []Detection) (Format, bool) {
	if len(results) == 0 || results[0].Confidence <= AutoSelectThreshold {
		return "", false
	}
	return results[0].Format, true
}

func nonBlankLines(text string) []string {
	var out []string
	for line := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func firstNonBlankLine(text string) string {
	for line := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}
