package tabular

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Table is an in-memory tabular dataset: an ordered header and rows of
// string cells. Cells are kept as strings regardless of the source format,
// typed interpretation (dates, amounts) happens downstream.
type Table struct {
	Header []string
	Rows   [][]string

	// map of lower case header name to index
	headerMap map[string]int
}

func NewTable(header []string, rows [][]string) *Table {
	return &Table{
		Header:    header,
		Rows:      rows,
		headerMap: generateHeaderMap(header),
	}
}

// Column returns the index of a column by name. Matching is case insensitive.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.headerMap[strings.ToLower(name)]
	return i, ok
}

// Get returns the cell at row for the named column, or "" when the column is
// missing or the row is short.
func (t *Table) Get(row []string, name string) string {
	i, ok := t.Column(name)
	if !ok || i >= len(row) {
		return ""
	}

	return row[i]
}

// Append adds another table's rows. Column counts must match, headers are
// assumed compatible.
func (t *Table) Append(other *Table) error {
	if len(other.Header) != len(t.Header) {
		return fmt.Errorf("cannot append table with %d columns to table with %d columns", len(other.Header), len(t.Header))
	}

	t.Rows = append(t.Rows, other.Rows...)

	return nil
}

// Read loads one or more files into a single table. All paths must share the
// same extension, and the extension picks the reader.
func Read(paths []string) (*Table, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to read")
	}

	ext := strings.ToLower(filepath.Ext(paths[0]))

	reader, ok := readers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type for %s with suffix %q", paths[0], ext)
	}

	for _, p := range paths[1:] {
		if strings.ToLower(filepath.Ext(p)) != ext {
			return nil, fmt.Errorf("all files must have the same suffix, got %s and %s", paths[0], p)
		}
	}

	table, err := reader(paths[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", paths[0], err)
	}

	for _, p := range paths[1:] {
		next, err := reader(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}

		err = table.Append(next)
		if err != nil {
			return nil, fmt.Errorf("failed to append %s: %w", p, err)
		}
	}

	return table, nil
}

var readers = map[string]func(string) (*Table, error){
	".csv":     readCSV,
	".parquet": readParquet,
	".xlsx":    readExcel,
	".xls":     readExcel,
}

// generateHeaderMap creates a header map from the passed in header row
func generateHeaderMap(record []string) map[string]int {
	m := make(map[string]int)
	for i, r := range record {
		m[strings.ToLower(r)] = i
	}
	return m
}
