package upload

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseExcel reads the first sheet of an xlsx stream into mapped rows,
// using the same header mapping and row semantics as ParseCSV.
func ParseExcel(r io.Reader) ([]*Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("upload: failed to read sheet %q: %w", sheets[0], err)
	}

	return mapRecords(records)
}

// mapRecords turns in-memory sheet records into mapped rows. The first
// record is the header; line numbers count from it.
func mapRecords(records [][]string) ([]*Row, error) {
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}

	columns := mapHeaders(records[0])
	if len(columns) == 0 {
		return nil, ErrNoMappedColumns
	}

	var rows []*Row
	for i, record := range records[1:] {
		row := buildRow(i+2, record, columns)
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}
