package tableconv

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// escapeHTML escapes the five markup-significant characters in a single
// pass, so entities it inserts are never escaped again.
func escapeHTML(s string) string { return htmlEscaper.Replace(s) }

func parseHTML(text string) (Table, error) {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return Table{}, err
	}
	table := findFirst(doc, atom.Table)
	if table == nil {
		return Table{}, errors.New("no table element found")
	}

	var header *html.Node
	if thead := findFirst(table, atom.Thead); thead != nil {
		header = findFirst(thead, atom.Tr)
	}
	if header == nil {
		header = findFirst(table, atom.Tr)
	}
	if header == nil {
		return Table{}, errors.New("no header row found in table")
	}

	t := emptyTable(HTML)
	for i, cell := range cellsOf(header) {
		name := nodeText(cell)
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		t.Columns = append(t.Columns, Column{ID: columnID(i), Name: name, Index: i})
	}

	// The parser places bare rows in an implied tbody, so the header row
	// may sit among the body rows.
	var body []*html.Node
	if tbody := findFirst(table, atom.Tbody); tbody != nil {
		body = findAll(tbody, atom.Tr)
	} else {
		body = findAll(table, atom.Tr)
	}
	i := 0
	for _, tr := range body {
		if tr == header {
			continue
		}
		var values []string
		for _, cell := range cellsOf(tr) {
			values = append(values, nodeText(cell))
		}
		t.Rows = append(t.Rows, newRow(t.Columns, i, values))
		i++
	}
	return t, nil
}

// findFirst returns the first descendant of n, in document order, that is
// an element of type a.
func findFirst(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == a {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// cellsOf returns the th and td descendants of a row in document order.
func cellsOf(tr *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Th || c.DataAtom == atom.Td) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(tr)
	return out
}

// nodeText concatenates the text of every descendant and trims it.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func writeHTML(w io.Writer, t Table, opts HTMLOptions) error {
	var sb strings.Builder
	sb.WriteString("<table")
	if opts.TableClass != "" {
		fmt.Fprintf(&sb, ` class="%s"`, escapeHTML(opts.TableClass))
	}
	if opts.TableID != "" {
		fmt.Fprintf(&sb, ` id="%s"`, escapeHTML(opts.TableID))
	}
	sb.WriteString(">\n")

	indent := "  "
	if opts.IncludeTheadTbody {
		indent = "    "
		sb.WriteString("  <thead>\n")
	}
	writeHTMLRow(&sb, indent, "th", t.Header())
	if opts.IncludeTheadTbody {
		sb.WriteString("  </thead>\n  <tbody>\n")
	}
	for _, rec := range t.Records() {
		writeHTMLRow(&sb, indent, "td", rec)
	}
	if opts.IncludeTheadTbody {
		sb.WriteString("  </tbody>\n")
	}
	sb.WriteString("</table>")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeHTMLRow(sb *strings.Builder, indent, tag string, cells []string) {
	fmt.Fprintf(sb, "%s<tr>\n", indent)
	for _, cell := range cells {
		fmt.Fprintf(sb, "%s  <%s>%s</%s>\n", indent, tag, escapeHTML(cell), tag)
	}
	fmt.Fprintf(sb, "%s</tr>\n", indent)
}

var (
	htmlTableRe = regexp.MustCompile(`(?is)<table[^>]*>.*</table>`)
	htmlTheadRe = regexp.MustCompile(`(?is)<thead[^>]*>.*</thead>`)
	htmlTbodyRe = regexp.MustCompile(`(?is)<tbody[^>]*>.*</tbody>`)
	htmlThRe    = regexp.MustCompile(`(?is)<th[^>]*>.*</th>`)
	htmlTrRe    = regexp.MustCompile(`(?is)<tr[^>]*>.*</tr>`)
)

func detectHTML(text string) int {
	if !htmlTableRe.MatchString(text) {
		return 0
	}
	confidence := 70
	if htmlTheadRe.MatchString(text) {
		confidence += 10
	}
	if htmlTbodyRe.MatchString(text) {
		confidence += 10
	}
	if htmlThRe.MatchString(text) {
		confidence += 5
	}
	if htmlTrRe.MatchString(text) {
		confidence += 5
	}
	return min(confidence, 100)
}
