package account

import (
	"os"

	"github.com/ghodss/yaml"

	"github.com/finwrap/finwrap/internal/config"
	"github.com/finwrap/finwrap/pkg/currency"
	"github.com/finwrap/finwrap/pkg/financialexporter"
)

// Collection aggregates several accounts into one normalized table.
type Collection struct {
	Accounts []*Account
}

func NewCollection(confs []config.AccountConfig) (*Collection, error) {
	collection := &Collection{}

	for _, conf := range confs {
		account, err := New(conf)
		if err != nil {
			return nil, err
		}

		collection.Accounts = append(collection.Accounts, account)
	}

	return collection, nil
}

type collectionFile struct {
	Accounts []config.AccountConfig `json:"accounts"`
}

// LoadCollection reads a standalone accounts yaml file, separate from the
// main config.
func LoadCollection(fname string) (*Collection, error) {
	raw, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}

	file := collectionFile{}

	err = yaml.Unmarshal(raw, &file)
	if err != nil {
		return nil, err
	}

	return NewCollection(file.Accounts)
}

func (c *Collection) Save(fname string) error {
	file := collectionFile{}
	for _, account := range c.Accounts {
		file.Accounts = append(file.Accounts, account.Config())
	}

	raw, err := yaml.Marshal(file)
	if err != nil {
		return err
	}

	return os.WriteFile(fname, raw, 0644)
}

// Normalize concatenates every member account's normalized rows.
func (c *Collection) Normalize(converter *currency.Converter) ([]financialexporter.Transaction, error) {
	transactions := []financialexporter.Transaction{}

	for _, account := range c.Accounts {
		normalized, err := account.Normalize(converter)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, normalized...)
	}

	return transactions, nil
}
