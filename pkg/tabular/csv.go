package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

func readCSV(path string) (*Table, error) {
	csvFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s csv file %w", path, err)
	}
	defer csvFile.Close()

	reader := csv.NewReader(bufio.NewReader(csvFile))
	// bank exports are not always rectangular
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s csv header %w", path, err)
	}

	rows := [][]string{}

	for {
		line, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to parse %s csv row %w", path, err)
		}

		rows = append(rows, line)
	}

	return NewTable(header, rows), nil
}
