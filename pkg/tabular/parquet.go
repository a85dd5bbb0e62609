package tabular

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

func readParquet(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s parquet file %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s parquet file %w", path, err)
	}

	fields := pf.Schema().Fields()
	header := make([]string, len(fields))
	for i, field := range fields {
		header[i] = field.Name()
	}

	table := NewTable(header, [][]string{})

	buf := make([]parquet.Row, 64)

	for _, group := range pf.RowGroups() {
		rows := group.Rows()

		for {
			n, err := rows.ReadRows(buf)

			for _, row := range buf[:n] {
				cells := make([]string, len(header))
				for _, value := range row {
					if value.Column() < len(cells) {
						cells[value.Column()] = formatValue(value)
					}
				}
				table.Rows = append(table.Rows, cells)
			}

			if err == io.EOF {
				break
			} else if err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to read %s parquet rows %w", path, err)
			}
		}

		err = rows.Close()
		if err != nil {
			return nil, err
		}
	}

	return table, nil
}

func formatValue(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}

	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	default:
		return v.String()
	}
}
