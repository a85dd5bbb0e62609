package sqlexporter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"k8s.io/klog"

	"github.com/finwrap/finwrap/internal/account"
	"github.com/finwrap/finwrap/internal/config"
	"github.com/finwrap/finwrap/pkg/currency"
	"github.com/finwrap/finwrap/pkg/financialexporter"
	"github.com/finwrap/finwrap/pkg/sqlutils"
)

// SQLTransaction is the warehouse row: the normalized schema plus one
// converted amount per configured currency, stored in Conversions.
type SQLTransaction struct {
	bun.BaseModel `bun:"table:transactions"`

	ID               int64  `bun:",pk,autoincrement"`
	Key              string `bun:",unique"`
	TransactionDate  time.Time
	TransactionMonth time.Time
	Label            string `bun:"type:text"`
	Account          string
	Currency         string
	Amount           float64
	Conversions      map[string]interface{} `bun:"type:jsonb"`
	UpdatedAt        time.Time
}

type ExportSqlRunner struct {
	db         *bun.DB
	collection *account.Collection
	converter  *currency.Converter
}

func NewExportSqlRunner(collection *account.Collection) (*ExportSqlRunner, error) {
	db, err := sqlutils.CreatePostgresClient(config.CurrentExportConfig().SQL.Database)
	if err != nil {
		return nil, fmt.Errorf("Error connecting to postgres DB: %s", err)
	}

	return &ExportSqlRunner{
		db:         db,
		collection: collection,
		converter:  currency.NewConverter(),
	}, nil
}

func (runner *ExportSqlRunner) Run() error {
	transactions, err := runner.collection.Normalize(runner.converter)
	if err != nil {
		return err
	}

	exporter := NewExporter(runner.db, runner.converter, config.CurrentConfig().Currencies)

	written, err := exporter.Export(context.Background(), transactions)
	if err != nil {
		return err
	}

	klog.Infof("Wrote %d transactions to sql\n", written)

	return nil
}

func (runner *ExportSqlRunner) Close() error {
	return runner.db.Close()
}

type Exporter struct {
	db         *bun.DB
	converter  *currency.Converter
	currencies []string
}

func NewExporter(db *bun.DB, converter *currency.Converter, currencies []string) *Exporter {
	return &Exporter{db: db, converter: converter, currencies: currencies}
}

func (e *Exporter) Export(ctx context.Context, transactions []financialexporter.Transaction) (int, error) {
	err := e.migrate(ctx)
	if err != nil {
		return 0, err
	}

	if len(transactions) == 0 {
		return 0, nil
	}

	sqlRecords := make([]SQLTransaction, 0, len(transactions))

	for _, transaction := range transactions {
		row, err := e.createSQLForTransaction(transaction)
		if err != nil {
			return 0, err
		}

		sqlRecords = append(sqlRecords, *row)
	}

	_, err = e.db.NewInsert().
		Model(&sqlRecords).
		On("CONFLICT (key) DO UPDATE").
		Set("amount = EXCLUDED.amount").
		Set("conversions = EXCLUDED.conversions").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("error writing to sql: %w", err)
	}

	return len(sqlRecords), nil
}

func (e *Exporter) createSQLForTransaction(transaction financialexporter.Transaction) (*SQLTransaction, error) {
	t := transaction.Date()
	transactionMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())

	row := SQLTransaction{
		Key:              transaction.IndexKey(),
		TransactionDate:  t,
		TransactionMonth: transactionMonth,
		Label:            transaction.Label(),
		Account:          transaction.Account(),
		Currency:         transaction.Currency(),
		Amount:           transaction.Amount(),
		Conversions:      make(map[string]interface{}),
		UpdatedAt:        time.Now(),
	}

	for _, target := range e.currencies {
		if transaction.Currency() == "" || strings.EqualFold(transaction.Currency(), target) {
			row.Conversions[target] = financialexporter.Round(transaction.Amount(), 0.01)
			continue
		}

		rate, err := e.converter.Rate(transaction.Currency(), target, currency.Latest, nil)
		if err != nil {
			return nil, err
		}

		row.Conversions[target] = financialexporter.Round(transaction.Amount()*rate, 0.01)
	}

	return &row, nil
}

func (e *Exporter) migrate(ctx context.Context) error {
	_, err := e.db.NewCreateTable().Model((*SQLTransaction)(nil)).IfNotExists().Exec(ctx)
	return err
}
