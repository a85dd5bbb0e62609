package airtableexporter

import (
	"fmt"

	"github.com/crufter/airtable-go"
	"k8s.io/klog"

	"github.com/finwrap/finwrap/internal/account"
	"github.com/finwrap/finwrap/internal/config"
	"github.com/finwrap/finwrap/pkg/currency"
)

type AirtableRecord struct {
	ID     string
	Fields map[string]interface{}
}

type ExportAirtableRunner struct {
	collection *account.Collection
	converter  *currency.Converter
}

func NewExportAirtableRunner(collection *account.Collection) (*ExportAirtableRunner, error) {
	return &ExportAirtableRunner{
		collection: collection,
		converter:  currency.NewConverter(),
	}, nil
}

func (runner *ExportAirtableRunner) Run() error {
	transactions, err := runner.collection.Normalize(runner.converter)
	if err != nil {
		return err
	}

	conf := config.CurrentExportConfig().Airtable

	client, err := airtable.New(config.CurrentAirtableSecrets().AirtableAPIKey, conf.BaseID)
	if err != nil {
		return fmt.Errorf("Error creating airtable client: %s", err.Error())
	}

	// skip rows that were already pushed on a previous run
	existing := []AirtableRecord{}
	if err := client.ListRecords(conf.AirtableTableName, &existing); err != nil {
		return fmt.Errorf("Error getting airtable records: %s", err.Error())
	}

	seen := make(map[string]bool)
	for _, record := range existing {
		if key, ok := record.Fields["Key"].(string); ok {
			seen[key] = true
		}
	}

	written := 0

	for _, transaction := range transactions {
		if seen[transaction.IndexKey()] {
			continue
		}

		record := AirtableRecord{
			Fields: map[string]interface{}{
				"Key":     transaction.IndexKey(),
				"Name":    transaction.Label(),
				"Date":    transaction.Date().Format("2006-01-02"),
				"Amount":  transaction.Amount(),
				"Account": transaction.Account(),
			},
		}

		err = client.CreateRecord(conf.AirtableTableName, &record)
		if err != nil {
			return fmt.Errorf("Error creating airtable record: %s", err.Error())
		}

		written++
	}

	klog.Infof("Wrote %d records to airtable table %s\n", written, conf.AirtableTableName)

	return nil
}

func (runner *ExportAirtableRunner) Close() error {
	return nil
}
