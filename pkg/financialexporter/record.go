package financialexporter

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Record is the normalized form of a single transaction row.
type Record struct {
	AccountName         string
	TransactionDate     time.Time
	TransactionLabel    string
	TransactionAmount   float64
	TransactionCurrency string
}

func (r Record) Account() string {
	return r.AccountName
}

func (r Record) Date() time.Time {
	return r.TransactionDate
}

func (r Record) Label() string {
	return r.TransactionLabel
}

func (r Record) Amount() float64 {
	return r.TransactionAmount
}

func (r Record) Currency() string {
	return r.TransactionCurrency
}

func (r Record) IndexKey() string {
	indexKeys := []string{
		r.AccountName,
		r.TransactionDate.Format("2006-01-02"),
		r.TransactionLabel,
		fmt.Sprintf("%.2f", r.TransactionAmount),
	}

	return strings.Join(indexKeys, "-")
}

// TotalBalance sums transaction amounts, rounded to the cent.
func TotalBalance(transactions []Transaction) float64 {
	total := 0.0
	for _, t := range transactions {
		total += t.Amount()
	}

	return Round(total, 0.01)
}

func Round(x, unit float64) float64 {
	return math.Round(x/unit) * unit
}
