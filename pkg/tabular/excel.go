package tabular

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

func readExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s spreadsheet %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet %s %w", path, sheets[0], err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet %s sheet %s is empty", path, sheets[0])
	}

	header := rows[0]

	// GetRows drops trailing empty cells, pad rows back out to the header
	data := make([][]string, 0, len(rows)-1)

	for _, row := range rows[1:] {
		for len(row) < len(header) {
			row = append(row, "")
		}
		data = append(data, row)
	}

	return NewTable(header, data), nil
}
