package bagelsexporter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"k8s.io/klog"

	"github.com/finwrap/finwrap/internal/account"
	"github.com/finwrap/finwrap/internal/config"
	"github.com/finwrap/finwrap/pkg/currency"
	"github.com/finwrap/finwrap/pkg/financialexporter"
)

const importedDescription = "Imported with finwrap"

type ExportBagelsRunner struct {
	db         *bun.DB
	collection *account.Collection
	converter  *currency.Converter
}

func NewExportBagelsRunner(collection *account.Collection) (*ExportBagelsRunner, error) {
	path := config.CurrentBagelsSecrets().DatabasePath

	var err error
	if path == "" {
		path, err = LocateDatabase()
		if err != nil {
			return nil, err
		}
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("error opening bagels database %s: %w", path, err)
	}

	return &ExportBagelsRunner{
		db:         bun.NewDB(sqldb, sqlitedialect.New()),
		collection: collection,
		converter:  currency.NewConverter(),
	}, nil
}

func (runner *ExportBagelsRunner) Run() error {
	transactions, err := runner.collection.Normalize(runner.converter)
	if err != nil {
		return err
	}

	exporter := NewExporter(runner.db, config.CurrentExportConfig().Bagels)

	written, err := exporter.Export(context.Background(), transactions)
	if err != nil {
		return err
	}

	klog.Infof("Wrote %d records to bagels\n", written)

	return nil
}

func (runner *ExportBagelsRunner) Close() error {
	return runner.db.Close()
}

// Exporter writes normalized transactions into an already opened bagels
// database.
type Exporter struct {
	db            *bun.DB
	categoryName  string
	categoryColor string
}

func NewExporter(db *bun.DB, conf config.BagelsConfig) *Exporter {
	name := conf.CategoryName
	if name == "" {
		name = "imported"
	}

	color := conf.CategoryColor
	if color == "" {
		color = "blue"
	}

	return &Exporter{db: db, categoryName: name, categoryColor: color}
}

func (e *Exporter) Export(ctx context.Context, transactions []financialexporter.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	accountIDs, err := e.ensureAccounts(ctx, transactions)
	if err != nil {
		return 0, err
	}

	categoryID, err := e.ensureCategory(ctx)
	if err != nil {
		return 0, err
	}

	existing, err := e.existingRecordKeys(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	records := []BagelsRecord{}

	for _, transaction := range transactions {
		if existing[recordKey(transaction.Label(), transaction.Amount(), transaction.Date())] {
			continue
		}

		records = append(records, BagelsRecord{
			CreatedAt:    now,
			UpdatedAt:    now,
			Label:        transaction.Label(),
			Amount:       math.Abs(transaction.Amount()),
			Date:         transaction.Date(),
			AccountID:    accountIDs[transaction.Account()],
			CategoryID:   categoryID,
			IsIncome:     transaction.Amount() > 0,
			IsInProgress: false,
			IsTransfer:   false,
		})
	}

	if len(records) == 0 {
		klog.Infof("No new records to write\n")
		return 0, nil
	}

	_, err = e.db.NewInsert().Model(&records).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("error writing records to bagels: %w", err)
	}

	return len(records), nil
}

// ensureAccounts creates any account names missing from bagels and returns
// the name to id mapping.
func (e *Exporter) ensureAccounts(ctx context.Context, transactions []financialexporter.Transaction) (map[string]int64, error) {
	names := []string{}
	seen := make(map[string]bool)

	for _, transaction := range transactions {
		if !seen[transaction.Account()] {
			seen[transaction.Account()] = true
			names = append(names, transaction.Account())
		}
	}

	accounts := []BagelsAccount{}

	err := e.db.NewSelect().Model(&accounts).Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading bagels accounts: %w", err)
	}

	ids := make(map[string]int64)
	for _, a := range accounts {
		ids[a.Name] = a.ID
	}

	now := time.Now()

	for _, name := range names {
		if _, ok := ids[name]; ok {
			continue
		}

		klog.Infof("Creating bagels account %s\n", name)

		newAccount := BagelsAccount{
			Name:             name,
			Description:      importedDescription,
			CreatedAt:        now,
			UpdatedAt:        now,
			BeginningBalance: 0,
			Hidden:           0,
		}

		_, err = e.db.NewInsert().Model(&newAccount).Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("error creating bagels account %s: %w", name, err)
		}

		ids[name] = newAccount.ID
	}

	return ids, nil
}

func (e *Exporter) ensureCategory(ctx context.Context) (int64, error) {
	category := BagelsCategory{}

	err := e.db.NewSelect().Model(&category).Where("name = ?", e.categoryName).Limit(1).Scan(ctx)
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("error reading bagels categories: %w", err)
	}

	klog.Infof("Creating bagels category %s\n", e.categoryName)

	now := time.Now()
	category = BagelsCategory{
		Name:      e.categoryName,
		Nature:    "NEED",
		Color:     e.categoryColor,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = e.db.NewInsert().Model(&category).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("error creating bagels category %s: %w", e.categoryName, err)
	}

	return category.ID, nil
}

func (e *Exporter) existingRecordKeys(ctx context.Context) (map[string]bool, error) {
	records := []BagelsRecord{}

	err := e.db.NewSelect().Model(&records).Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading bagels records: %w", err)
	}

	keys := make(map[string]bool)

	for _, record := range records {
		amount := record.Amount
		if !record.IsIncome {
			amount = -amount
		}

		keys[recordKey(record.Label, amount, record.Date)] = true
	}

	return keys, nil
}

func recordKey(label string, amount float64, date time.Time) string {
	return fmt.Sprintf("%s|%.2f|%s", label, math.Abs(amount), date.Format("2006-01-02"))
}
