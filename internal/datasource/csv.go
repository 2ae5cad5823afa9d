package datasource

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is a parsed CSV resource: a header line followed by records.
// Records may be shorter or longer than the header.
type Document struct {
	Header  []string
	Records [][]string
	Bytes   int64

	columns map[string]int
}

// Column returns the index of a header column, matching case-insensitively
func (d *Document) Column(name string) (int, bool) {
	if d.columns == nil {
		d.columns = make(map[string]int, len(d.Header))
		for i, h := range d.Header {
			key := strings.ToUpper(h)
			if _, dup := d.columns[key]; !dup {
				d.columns[key] = i
			}
		}
	}
	i, ok := d.columns[strings.ToUpper(strings.TrimSpace(name))]
	return i, ok
}

// Value returns the record's value for a column, or "" when the column is
// missing from the header or the record is short.
func (d *Document) Value(record []string, name string) string {
	i, ok := d.Column(name)
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// ParseCSV reads a comma-delimited document with a header on the first line.
// A UTF-8 BOM is stripped and header names are trimmed. Lines with a column
// count different from the header are kept as-is, and stray quotes are read
// literally. An empty input or an I/O failure is an error.
func ParseCSV(r io.Reader) (*Document, error) {
	cr := &countingReader{r: r}
	br := bufio.NewReader(cr)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv has no header line")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	doc := &Document{Header: cleanHeader(header)}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		if isBlank(record) {
			continue
		}
		doc.Records = append(doc.Records, record)
	}

	doc.Bytes = cr.n
	return doc, nil
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimLeft(h, "\u200B\u200C\u200D\u2060\uFEFF")
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// isBlank reports whether a record is a single empty field, which is how a
// trailing blank line surfaces.
func isBlank(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
