package upload

import (
	"bytes"
	"fmt"
	"io"

	"github.com/extrame/xls"
)

// biffMaxRows is the row limit of a BIFF8 sheet.
const biffMaxRows = 65536

// ParseXLS reads the first sheet of a legacy BIFF workbook into mapped
// rows. Legacy exports still arrive from older storefront admin tools,
// so the format stays accepted alongside xlsx.
func ParseXLS(r io.Reader) ([]*Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("upload: failed to read spreadsheet: %w", err)
	}

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	records := wb.ReadAllCells(biffMaxRows)
	return mapRecords(records)
}
