package account

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ghodss/yaml"

	"github.com/finwrap/finwrap/internal/config"
	"github.com/finwrap/finwrap/pkg/currency"
	"github.com/finwrap/finwrap/pkg/financialexporter"
	"github.com/finwrap/finwrap/pkg/tabular"
)

// layouts tried in order when dateColFormat is not configured
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	time.RFC3339,
}

// Account binds one account's file(s) to the normalized schema: which source
// columns hold the date, label and amount, and how to interpret them.
type Account struct {
	conf          config.AccountConfig
	table         *tabular.Table
	cleaningRegex *regexp.Regexp
}

func New(conf config.AccountConfig) (*Account, error) {
	table, err := tabular.Read(conf.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load files for account %s: %w", conf.Name, err)
	}

	account := &Account{conf: conf, table: table}

	if conf.TransactionColCleaningRegex != "" {
		account.cleaningRegex, err = regexp.Compile(conf.TransactionColCleaningRegex)
		if err != nil {
			return nil, fmt.Errorf("invalid cleaning regex for account %s: %w", conf.Name, err)
		}
	}

	required := []string{conf.DateCol, conf.TransactionCol, conf.AmountCol}
	if conf.FeesCol != "" {
		required = append(required, conf.FeesCol)
	}
	if conf.Currency != nil {
		required = append(required, conf.Currency.CurrencyCol)
	}

	for _, col := range required {
		if _, ok := table.Column(col); !ok {
			return nil, fmt.Errorf("column %q is not in data columns for account %s: %v", col, conf.Name, table.Header)
		}
	}

	if conf.Currency != nil {
		switch conf.Currency.Strategy {
		case "", "latest", "dynamic":
		default:
			return nil, fmt.Errorf("currency strategy %q is not valid for account %s", conf.Currency.Strategy, conf.Name)
		}
	}

	return account, nil
}

// Load reads an account config from a yaml file and loads its data files.
func Load(fname string) (*Account, error) {
	raw, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}

	conf := config.AccountConfig{}

	err = yaml.Unmarshal(raw, &conf)
	if err != nil {
		return nil, err
	}

	return New(conf)
}

func (a *Account) Name() string {
	return a.conf.Name
}

func (a *Account) Config() config.AccountConfig {
	return a.conf
}

// Save writes the account config (not its data) to a yaml file.
func (a *Account) Save(fname string) error {
	raw, err := yaml.Marshal(a.conf)
	if err != nil {
		return err
	}

	return os.WriteFile(fname, raw, 0644)
}

// Normalize maps every source row onto the normalized schema, applies
// currency conversion, sorts by date and drops exact duplicates.
func (a *Account) Normalize(converter *currency.Converter) ([]financialexporter.Transaction, error) {
	records := make([]financialexporter.Record, 0, len(a.table.Rows))

	for _, row := range a.table.Rows {
		record, err := a.normalizeRow(row)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	err := a.applyConversions(converter, records)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TransactionDate.Before(records[j].TransactionDate)
	})

	transactions := make([]financialexporter.Transaction, 0, len(records))
	seen := make(map[string]bool)

	for _, record := range records {
		key := record.IndexKey()
		if seen[key] {
			continue
		}

		seen[key] = true
		transactions = append(transactions, record)
	}

	return transactions, nil
}

func (a *Account) normalizeRow(row []string) (financialexporter.Record, error) {
	date, err := a.parseDate(a.table.Get(row, a.conf.DateCol))
	if err != nil {
		return financialexporter.Record{}, fmt.Errorf("account %s: %w", a.conf.Name, err)
	}

	amount, err := parseAmount(a.table.Get(row, a.conf.AmountCol))
	if err != nil {
		return financialexporter.Record{}, fmt.Errorf("account %s: unable to parse amount: %w", a.conf.Name, err)
	}

	if a.conf.FeesCol != "" {
		feesCell := a.table.Get(row, a.conf.FeesCol)
		if feesCell != "" {
			fees, err := parseAmount(feesCell)
			if err != nil {
				return financialexporter.Record{}, fmt.Errorf("account %s: unable to parse fees: %w", a.conf.Name, err)
			}

			amount -= fees
		}
	}

	label := a.table.Get(row, a.conf.TransactionCol)
	if a.cleaningRegex != nil {
		label = a.cleaningRegex.ReplaceAllString(label, "")
	}
	label = strings.TrimSpace(label)

	rowCurrency := ""
	if a.conf.Currency != nil {
		rowCurrency = a.table.Get(row, a.conf.Currency.CurrencyCol)
	}

	return financialexporter.Record{
		AccountName:         a.conf.Name,
		TransactionDate:     date,
		TransactionLabel:    label,
		TransactionAmount:   amount,
		TransactionCurrency: rowCurrency,
	}, nil
}

// applyConversions multiplies amounts by the configured exchange rate. Rows
// already in the target currency keep a rate of 1 and never hit the network.
func (a *Account) applyConversions(converter *currency.Converter, records []financialexporter.Record) error {
	conf := a.conf.Currency
	if conf == nil {
		return nil
	}

	lookups := make([]currency.Lookup, 0, len(records))

	for _, record := range records {
		if strings.EqualFold(record.TransactionCurrency, conf.ConvertTo) {
			continue
		}

		lookups = append(lookups, a.lookupFor(record))
	}

	conversions, err := currency.GenerateConversions(converter, conf.ConvertTo, lookups, conf.DefaultRate)
	if err != nil {
		return fmt.Errorf("account %s: %w", a.conf.Name, err)
	}

	for i := range records {
		if strings.EqualFold(records[i].TransactionCurrency, conf.ConvertTo) {
			records[i].TransactionCurrency = conf.ConvertTo
			continue
		}

		records[i].TransactionAmount *= conversions[a.lookupFor(records[i])]
		records[i].TransactionCurrency = conf.ConvertTo
	}

	return nil
}

func (a *Account) lookupFor(record financialexporter.Record) currency.Lookup {
	date := currency.Latest
	if a.conf.Currency.Strategy == "dynamic" {
		date = record.TransactionDate.Format("2006-01-02")
	}

	return currency.Lookup{
		From: strings.ToLower(record.TransactionCurrency),
		Date: date,
	}
}

func (a *Account) parseDate(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)

	if a.conf.DateColFormat != "" {
		t, err := time.Parse(a.conf.DateColFormat, cell)
		if err != nil {
			return time.Time{}, fmt.Errorf("unable to parse date %q with layout %q: %w", cell, a.conf.DateColFormat, err)
		}

		return t, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date %q", cell)
}

func parseAmount(cell string) (float64, error) {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")

	return strconv.ParseFloat(cell, 64)
}
