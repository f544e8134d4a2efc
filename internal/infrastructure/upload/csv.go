package upload

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Row is one spreadsheet row mapped to canonical order fields
type Row struct {
	LineNumber int
	Fields     map[string]string
}

// Get returns the value of a canonical field, empty when absent
func (r *Row) Get(field string) string {
	return r.Fields[field]
}

// GetOrDefault returns the field value or def when absent or blank
func (r *Row) GetOrDefault(field, def string) string {
	if v, ok := r.Fields[field]; ok && v != "" {
		return v
	}
	return def
}

// IsEmpty reports whether every mapped cell is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Fields {
		if v != "" {
			return false
		}
	}
	return true
}

// ParseCSV reads a CSV stream into mapped rows. The first row is the
// header; columns with unrecognized headers are ignored. Blank rows are
// skipped. Line numbers are 1-based file lines, header included.
func ParseCSV(r io.Reader) ([]*Row, error) {
	buf := bufio.NewReader(r)

	// Strip a UTF-8 BOM if present
	if lead, err := buf.Peek(3); err == nil && len(lead) == 3 &&
		lead[0] == 0xEF && lead[1] == 0xBB && lead[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	if err := validateUTF8(buf); err != nil {
		return nil, err
	}

	reader := csv.NewReader(buf)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("upload: failed to read header: %w", err)
	}

	columns := mapHeaders(header)
	if len(columns) == 0 {
		return nil, ErrNoMappedColumns
	}

	var rows []*Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return rows, fmt.Errorf("upload: error reading row %d: %w", line, err)
		}

		row := buildRow(line, record, columns)
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// buildRow maps a record's cells through the column table
func buildRow(line int, record []string, columns map[int]string) *Row {
	row := &Row{
		LineNumber: line,
		Fields:     make(map[string]string, len(columns)),
	}
	for i, field := range columns {
		if i < len(record) {
			row.Fields[field] = strings.TrimSpace(record[i])
		} else {
			row.Fields[field] = ""
		}
	}
	return row
}

// validateUTF8 peeks the stream and rejects non-UTF-8 content
func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("upload: failed to read file for encoding validation: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	if !utf8.Valid(content) {
		// A rune split at the peek boundary is not an encoding error:
		// retry with up to three trailing bytes dropped.
		valid := false
		for i := 0; i < utf8.UTFMax-1 && len(content) > 0; i++ {
			content = content[:len(content)-1]
			if utf8.Valid(content) {
				valid = true
				break
			}
		}
		if !valid {
			return ErrInvalidEncoding
		}
	}
	return nil
}
