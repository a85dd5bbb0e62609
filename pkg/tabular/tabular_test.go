package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTempCSV(t, "transactions.csv", "date,Amount,description\n2023-01-01,100.00,Coffee\n2023-01-02,200.00,Books\n")

	table, err := Read([]string{path})
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "Amount", "description"}, table.Header)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "Coffee", table.Get(table.Rows[0], "description"))
	// header lookup is case insensitive
	assert.Equal(t, "100.00", table.Get(table.Rows[0], "amount"))
}

func TestReadMultipleCSVFiles(t *testing.T) {
	first := writeTempCSV(t, "a.csv", "date,amount\n2023-01-01,1.00\n")
	second := writeTempCSV(t, "b.csv", "date,amount\n2023-01-02,2.00\n")

	table, err := Read([]string{first, second})
	require.NoError(t, err)

	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "2.00", table.Get(table.Rows[1], "amount"))
}

func TestReadMixedSuffixes(t *testing.T) {
	first := writeTempCSV(t, "a.csv", "date\n2023-01-01\n")

	_, err := Read([]string{first, "b.parquet"})
	assert.ErrorContains(t, err, "same suffix")
}

func TestReadUnsupportedSuffix(t *testing.T) {
	_, err := Read([]string{"transactions.pdf"})
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestReadNoFiles(t *testing.T) {
	_, err := Read([]string{})
	assert.Error(t, err)
}

func TestGetShortRow(t *testing.T) {
	table := NewTable([]string{"date", "amount"}, [][]string{{"2023-01-01"}})

	assert.Equal(t, "", table.Get(table.Rows[0], "amount"))
	assert.Equal(t, "", table.Get(table.Rows[0], "missing"))
}

func TestReadExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"date", "amount", "description"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"2023-01-01", "100.50", "Coffee"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"2023-01-02", "200.00", ""}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := Read([]string{path})
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "amount", "description"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Coffee", table.Get(table.Rows[0], "description"))
	// trailing empty cells are padded back out to the header length
	assert.Len(t, table.Rows[1], 3)
}

type parquetRow struct {
	Date   string  `parquet:"date"`
	Label  string  `parquet:"label"`
	Amount float64 `parquet:"amount"`
}

func TestReadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.parquet")

	err := parquet.WriteFile(path, []parquetRow{
		{Date: "2023-01-01", Label: "Coffee", Amount: 100.25},
		{Date: "2023-01-02", Label: "Books", Amount: -20.5},
	})
	require.NoError(t, err)

	table, err := Read([]string{path})
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "label", "amount"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Coffee", table.Get(table.Rows[0], "label"))
	assert.Equal(t, "100.25", table.Get(table.Rows[0], "amount"))
	assert.Equal(t, "-20.5", table.Get(table.Rows[1], "amount"))
}
