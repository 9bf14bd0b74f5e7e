package tableconv

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// BorderStyle controls preview border characters.
type BorderStyle int

const (
	BorderRounded BorderStyle = iota // ╭─╮╰╯│┬┴├┤┼
	BorderNone                       // No borders, space-separated columns
	BorderASCII                      // +-+|
	BorderHeavy                      // ┏━┓┗┛┃┳┻┣┫╋
	BorderDouble                     // ╔═╗╚╝║╦╩╠╣╬
)

// PreviewOptions controls [Preview].
type PreviewOptions struct {
	Border BorderStyle
	// Title is centered above the grid. Ignored with BorderNone.
	Title string
	// Alignment sets per-column alignment. Default: AlignLeft.
	Alignment []Alignment
	// RowNumbers prepends a right-aligned column holding each row's index
	// plus one.
	RowNumbers bool
	// MaxWidth caps every column's display width; longer cells end in
	// "...". Zero means no limit.
	MaxWidth int
}

// border holds the glyphs of one style, indexed by the glyph constants.
type border [11]string

const (
	glyphTopLeft = iota
	glyphTopRight
	glyphBottomLeft
	glyphBottomRight
	glyphHorizontal
	glyphVertical
	glyphTopTee
	glyphBottomTee
	glyphLeftTee
	glyphRightTee
	glyphCross
)

// newBorder reads glyphs in glyph constant order, one rune each.
func newBorder(glyphs string) border {
	var b border
	for i, r := range []rune(glyphs) {
		b[i] = string(r)
	}
	return b
}

var borders = map[BorderStyle]border{
	BorderRounded: newBorder("╭╮╰╯─│┬┴├┤┼"),
	BorderASCII:   newBorder("++++-|+++++"),
	BorderHeavy:   newBorder("┏┓┗┛━┃┳┻┣┫╋"),
	BorderDouble:  newBorder("╔╗╚╝═║╦╩╠╣╬"),
}

// Preview renders t as a text grid for terminals, header first and rows in
// display order. A table with no columns renders nothing.
func Preview(w io.Writer, t Table, opts PreviewOptions) error {
	if t.IsEmpty() {
		return nil
	}
	g := newGrid(t, opts)

	var sb strings.Builder
	if opts.Border == BorderNone {
		g.writePlain(&sb)
	} else {
		b, ok := borders[opts.Border]
		if !ok {
			b = borders[BorderRounded]
		}
		g.writeBordered(&sb, b, opts.Title)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// grid is a table's text laid out for preview, with the display width and
// alignment of every column.
type grid struct {
	header []string
	body   [][]string
	widths []int
	aligns []Alignment
}

func newGrid(t Table, opts PreviewOptions) grid {
	g := grid{header: t.Header(), body: t.Records()}
	g.aligns = make([]Alignment, len(g.header))
	copy(g.aligns, opts.Alignment)

	if opts.RowNumbers {
		g.header = slices.Insert(g.header, 0, "#")
		for i := range g.body {
			g.body[i] = slices.Insert(g.body[i], 0, strconv.Itoa(t.Rows[i].Index+1))
		}
		g.aligns = slices.Insert(g.aligns, 0, AlignRight)
	}

	g.widths = make([]int, len(g.header))
	for _, line := range append([][]string{g.header}, g.body...) {
		for i, cell := range line {
			g.widths[i] = max(g.widths[i], runewidth.StringWidth(cell))
		}
	}
	if opts.MaxWidth > 0 {
		for i := range g.widths {
			g.widths[i] = min(g.widths[i], opts.MaxWidth)
		}
	}
	return g
}

func (g grid) writePlain(sb *strings.Builder) {
	g.writePlainLine(sb, g.header)
	rule := make([]string, len(g.widths))
	for i, width := range g.widths {
		rule[i] = strings.Repeat("-", width)
	}
	sb.WriteString(strings.Join(rule, "  "))
	sb.WriteByte('\n')
	for _, row := range g.body {
		g.writePlainLine(sb, row)
	}
}

func (g grid) writePlainLine(sb *strings.Builder, cells []string) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = fit(cell, g.widths[i], g.aligns[i])
	}
	sb.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
	sb.WriteByte('\n')
}

func (g grid) writeBordered(sb *strings.Builder, b border, title string) {
	if title != "" {
		g.writeRule(sb, b, b[glyphTopLeft], b[glyphHorizontal], b[glyphTopRight])
		// The title spans every column plus the padding and separators
		// between them.
		span := 3 * (len(g.widths) - 1)
		for _, width := range g.widths {
			span += width
		}
		sb.WriteString(b[glyphVertical] + " " + fit(title, span, AlignCenter) + " " + b[glyphVertical] + "\n")
		g.writeRule(sb, b, b[glyphLeftTee], b[glyphTopTee], b[glyphRightTee])
	} else {
		g.writeRule(sb, b, b[glyphTopLeft], b[glyphTopTee], b[glyphTopRight])
	}

	g.writeBorderedLine(sb, b, g.header)
	g.writeRule(sb, b, b[glyphLeftTee], b[glyphCross], b[glyphRightTee])
	for _, row := range g.body {
		g.writeBorderedLine(sb, b, row)
	}
	g.writeRule(sb, b, b[glyphBottomLeft], b[glyphBottomTee], b[glyphBottomRight])
}

func (g grid) writeRule(sb *strings.Builder, b border, left, mid, right string) {
	sb.WriteString(left)
	for i, width := range g.widths {
		if i > 0 {
			sb.WriteString(mid)
		}
		sb.WriteString(strings.Repeat(b[glyphHorizontal], width+2))
	}
	sb.WriteString(right)
	sb.WriteByte('\n')
}

func (g grid) writeBorderedLine(sb *strings.Builder, b border, cells []string) {
	sb.WriteString(b[glyphVertical])
	for i, cell := range cells {
		sb.WriteString(" " + fit(cell, g.widths[i], g.aligns[i]) + " ")
		sb.WriteString(b[glyphVertical])
	}
	sb.WriteByte('\n')
}

// fit cuts s to width display columns, ending in "..." when more than
// three columns are available, and pads it to width according to align.
func fit(s string, width int, align Alignment) string {
	if runewidth.StringWidth(s) > width {
		tail := "..."
		if width <= 3 {
			tail = ""
		}
		s = runewidth.Truncate(s, width, tail)
	}
	switch align {
	case AlignRight:
		return runewidth.FillLeft(s, width)
	case AlignCenter:
		left := max(width-runewidth.StringWidth(s), 0) / 2
		return runewidth.FillRight(strings.Repeat(" ", left)+s, width)
	default:
		return runewidth.FillRight(s, width)
	}
}
