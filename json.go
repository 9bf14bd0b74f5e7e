package tableconv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// node is a decoded JSON value that remembers object key order.
type node struct {
	kind    nodeKind
	scalar  string // literal text for numbers, decoded text for strings
	members []member
	items   []node
}

type member struct {
	key   string
	value node
}

type nodeKind int

const (
	kindNull nodeKind = iota
	kindBool
	kindNumber
	kindString
	kindObject
	kindArray
)

func decodeNode(text string) (node, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	n, err := readNode(dec)
	if err != nil {
		return node{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return node{}, errors.New("unexpected data after top-level value")
	}
	return n, nil
}

func readNode(dec *json.Decoder) (node, error) {
	tok, err := dec.Token()
	if err != nil {
		return node{}, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := node{kind: kindObject, members: []member{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return node{}, err
				}
				value, err := readNode(dec)
				if err != nil {
					return node{}, err
				}
				n.members = append(n.members, member{key: keyTok.(string), value: value})
			}
			_, err := dec.Token()
			return n, err
		case '[':
			n := node{kind: kindArray, items: []node{}}
			for dec.More() {
				item, err := readNode(dec)
				if err != nil {
					return node{}, err
				}
				n.items = append(n.items, item)
			}
			_, err := dec.Token()
			return n, err
		}
		return node{}, fmt.Errorf("unexpected delimiter %q", v)
	case bool:
		return node{kind: kindBool, scalar: strconv.FormatBool(v)}, nil
	case json.Number:
		return node{kind: kindNumber, scalar: v.String()}, nil
	case string:
		return node{kind: kindString, scalar: v}, nil
	default:
		return node{kind: kindNull, scalar: "null"}, nil
	}
}

func (n node) isContainer() bool { return n.kind == kindObject || n.kind == kindArray }

// fields returns the key/value pairs of an object, or index/value pairs
// of an array. Scalars have none.
func (n node) fields() []member {
	switch n.kind {
	case kindObject:
		return n.members
	case kindArray:
		out := make([]member, len(n.items))
		for i, item := range n.items {
			out[i] = member{key: strconv.Itoa(i), value: item}
		}
		return out
	default:
		return nil
	}
}

// text renders a scalar as display text and a container as compact JSON.
func (n node) text() string {
	if !n.isContainer() {
		return n.scalar
	}
	var buf bytes.Buffer
	n.encode(&buf)
	return buf.String()
}

func (n node) encode(buf *bytes.Buffer) {
	switch n.kind {
	case kindObject:
		buf.WriteByte('{')
		for i, m := range n.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, m.key)
			buf.WriteByte(':')
			m.value.encode(buf)
		}
		buf.WriteByte('}')
	case kindArray:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.encode(buf)
		}
		buf.WriteByte(']')
	case kindString:
		writeJSONString(buf, n.scalar)
	default:
		buf.WriteString(n.scalar)
	}
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // strings always encode
	buf.Truncate(buf.Len() - 1)
}

func parseJSON(text string) (Table, error) {
	root, err := decodeNode(text)
	if err != nil {
		return Table{}, err
	}
	if root.kind == kindArray {
		return tableFromRecords(root.items), nil
	}
	if root.kind == kindObject {
		for _, m := range root.members {
			if m.value.kind == kindArray {
				return tableFromRecords(m.value.items), nil
			}
		}
	}
	return flattenedTable(root), nil
}

// tableFromRecords turns each element into a row. Columns are the union of
// element keys in first-seen order.
func tableFromRecords(items []node) Table {
	t := emptyTable(JSON)
	if len(items) == 0 {
		return t
	}
	seen := make(map[string]bool)
	for _, item := range items {
		for _, f := range item.fields() {
			if !seen[f.key] {
				seen[f.key] = true
				t.Columns = append(t.Columns, Column{ID: f.key, Name: f.key, Index: len(t.Columns)})
			}
		}
	}
	for i, item := range items {
		byKey := make(map[string]string)
		for _, f := range item.fields() {
			byKey[f.key] = f.value.text()
		}
		cells := make(map[string]Cell, len(t.Columns))
		for _, col := range t.Columns {
			cells[col.ID] = Cell{Value: byKey[col.ID], Row: i, Col: col.Index}
		}
		t.Rows = append(t.Rows, Row{ID: newRowID(), Index: i, Cells: cells})
	}
	return t
}

// flattenedTable renders any value as a Key/Value table. Nested objects
// contribute dot-joined paths; arrays and scalars are leaves.
func flattenedTable(root node) Table {
	t := emptyTable(JSON)
	t.Columns = []Column{
		{ID: "key", Name: "Key", Index: 0},
		{ID: "value", Name: "Value", Index: 1},
	}
	add := func(key, value string) {
		i := len(t.Rows)
		t.Rows = append(t.Rows, Row{ID: newRowID(), Index: i, Cells: map[string]Cell{
			"key":   {Value: key, Row: i, Col: 0},
			"value": {Value: value, Row: i, Col: 1},
		}})
	}
	if root.kind != kindObject {
		add("value", root.text())
		return t
	}
	var walk func(n node, prefix string)
	walk = func(n node, prefix string) {
		for _, m := range n.members {
			key := m.key
			if prefix != "" {
				key = prefix + "." + m.key
			}
			if m.value.kind == kindObject {
				walk(m.value, key)
				continue
			}
			add(key, m.value.text())
		}
	}
	walk(root, "")
	return t
}

func writeJSON(w io.Writer, t Table, opts JSONOptions) error {
	var buf bytes.Buffer
	header := t.Header()
	buf.WriteByte('[')
	for i, rec := range t.Records() {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONObject(&buf, header, rec)
	}
	buf.WriteByte(']')

	indent := min(opts.Indent, 10)
	if !opts.IncludeLineBreaks || indent <= 0 {
		_, err := w.Write(buf.Bytes())
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", strings.Repeat(" ", indent)); err != nil {
		return err
	}
	_, err := out.WriteTo(w)
	return err
}

// writeJSONObject writes one row keyed by display name. A repeated name
// keeps its first position and its last value.
func writeJSONObject(buf *bytes.Buffer, names, values []string) {
	pos := make(map[string]int, len(names))
	var keys []string
	var vals []string
	for i, name := range names {
		if p, ok := pos[name]; ok {
			vals[p] = values[i]
			continue
		}
		pos[name] = len(keys)
		keys = append(keys, name)
		vals = append(vals, values[i])
	}
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONString(buf, k)
		buf.WriteByte(':')
		writeJSONString(buf, vals[i])
	}
	buf.WriteByte('}')
}

func detectJSON(text string) int {
	root, err := decodeNode(text)
	if err != nil {
		return 0
	}
	confidence := 80
	switch root.kind {
	case kindArray:
		if len(root.items) > 0 && root.items[0].isContainer() {
			confidence += 20
		}
	case kindObject:
		for _, m := range root.members {
			if m.value.kind == kindArray {
				confidence += 15
				break
			}
		}
	}
	return confidence
}
