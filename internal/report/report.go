// Package report emits a delimited text report from an archive of
// invoices, one row per XML entry, with user-defined columns.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/archive"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/domain"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/rules"
	"github.com/wriellgamaoliveira-pixel/troca-xml-web/internal/xmlutil"
)

// BOM is prepended to the output so spreadsheet tools render accented
// characters correctly.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// DefaultDelimiter separates report cells unless the caller overrides it.
const DefaultDelimiter = ';'

// Column pairs a header label with the field path it reads.
type Column struct {
	Header string `json:"header"`
	Field  string `json:"field"`
}

// ParseMapping builds the ordered column list from mapping text. The line
// grammar is shared with rule text: "header<sep>field", separators ;/,/:,
// blank and # lines skipped. An empty result is a validation error.
func ParseMapping(text string) ([]Column, error) {
	var cols []Column
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		header, field, ok := rules.SplitLine(line)
		if !ok || header == "" || field == "" {
			continue
		}
		cols = append(cols, Column{Header: header, Field: field})
	}
	if len(cols) == 0 {
		return nil, domain.ErrEmptyMapping
	}
	return cols, nil
}

// Build renders the report for every XML entry of zipData, in archive
// order. A field that resolves to nothing yields an empty cell; a file
// that fails to parse yields a full row of empty cells, never a missing
// row.
func Build(zipData []byte, mapping []Column, delimiter rune) ([]byte, error) {
	if len(mapping) == 0 {
		return nil, domain.ErrEmptyMapping
	}

	entries, err := archive.XMLEntries(zipData)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(BOM)

	w := csv.NewWriter(&buf)
	w.Comma = delimiter

	headers := make([]string, len(mapping))
	for i, col := range mapping {
		headers[i] = col.Header
	}
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, entry := range entries {
		if err := w.Write(entryRow(entry, mapping)); err != nil {
			return nil, fmt.Errorf("write row for %s: %w", entry.Name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush report: %w", err)
	}
	return buf.Bytes(), nil
}

func entryRow(entry archive.Entry, mapping []Column) []string {
	row := make([]string, len(mapping))

	root, err := xmlutil.Parse(bytes.NewReader(entry.Data))
	if err != nil {
		return row
	}

	// Field paths are resolved against the invoice body when present,
	// falling back to the whole document.
	inf := root.Find("infNFCom")
	for i, col := range mapping {
		row[i] = fieldValue(root, inf, col.Field)
	}
	return row
}

func fieldValue(root, inf *xmlutil.Node, field string) string {
	field = strings.TrimSpace(field)
	if field == "" {
		return ""
	}
	if strings.HasPrefix(field, "@") {
		if v := inf.FirstText(field); v != "" {
			return v
		}
		return root.FirstText(field)
	}
	if v := inf.Find(field).TrimmedText(); v != "" {
		return v
	}
	return root.Find(field).TrimmedText()
}
