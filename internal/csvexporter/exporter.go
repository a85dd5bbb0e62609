package csvexporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"k8s.io/klog"

	"github.com/finwrap/finwrap/internal/account"
	"github.com/finwrap/finwrap/internal/config"
	"github.com/finwrap/finwrap/pkg/currency"
	"github.com/finwrap/finwrap/pkg/financialexporter"
)

// Header of the normalized csv output. The layout is also importable by
// trackers that accept generic csv statements.
var header = []string{"account_name", "date", "transaction", "amount"}

type ExportCsvRunner struct {
	collection *account.Collection
	converter  *currency.Converter
	path       string
}

func NewExportCsvRunner(collection *account.Collection) (*ExportCsvRunner, error) {
	path := config.CurrentExportConfig().CSV.Path
	if path == "" {
		return nil, fmt.Errorf("export.csv.path is not configured")
	}

	return &ExportCsvRunner{
		collection: collection,
		converter:  currency.NewConverter(),
		path:       path,
	}, nil
}

func (runner *ExportCsvRunner) Run() error {
	transactions, err := runner.collection.Normalize(runner.converter)
	if err != nil {
		return err
	}

	f, err := os.Create(runner.path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", runner.path, err)
	}
	defer f.Close()

	written, err := Write(f, transactions)
	if err != nil {
		return err
	}

	klog.Infof("Wrote %d transactions to csv file %s\n", written, runner.path)

	return nil
}

func (runner *ExportCsvRunner) Close() error {
	return nil
}

// Write renders the normalized table as csv.
func Write(w io.Writer, transactions []financialexporter.Transaction) (int, error) {
	writer := csv.NewWriter(w)

	err := writer.Write(header)
	if err != nil {
		return 0, err
	}

	for _, transaction := range transactions {
		err = writer.Write([]string{
			transaction.Account(),
			transaction.Date().Format("2006-01-02"),
			transaction.Label(),
			strconv.FormatFloat(transaction.Amount(), 'f', 2, 64),
		})
		if err != nil {
			return 0, err
		}
	}

	writer.Flush()

	return len(transactions), writer.Error()
}
