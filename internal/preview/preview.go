package preview

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/finwrap/finwrap/internal/account"
	"github.com/finwrap/finwrap/pkg/currency"
	"github.com/finwrap/finwrap/pkg/financialexporter"
)

// PreviewRunner prints the normalized table and the total balance without
// exporting anywhere.
type PreviewRunner struct {
	collection *account.Collection
	converter  *currency.Converter
}

func NewPreviewRunner(collection *account.Collection) (*PreviewRunner, error) {
	return &PreviewRunner{
		collection: collection,
		converter:  currency.NewConverter(),
	}, nil
}

func (runner *PreviewRunner) Run() error {
	transactions, err := runner.collection.Normalize(runner.converter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "account\tdate\ttransaction\tamount")

	for _, transaction := range transactions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n",
			transaction.Account(),
			transaction.Date().Format("2006-01-02"),
			transaction.Label(),
			transaction.Amount(),
		)
	}

	err = w.Flush()
	if err != nil {
		return err
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Total Balance: %.2f\n", financialexporter.TotalBalance(transactions))

	return nil
}

func (runner *PreviewRunner) Close() error {
	return nil
}
