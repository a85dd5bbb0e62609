package financialexporter

import (
	"context"
	"time"
)

type Transaction interface {
	Account() string
	Date() time.Time
	Label() string
	Amount() float64
	Currency() string

	IndexKey() string
}

// Exporter writes normalized transactions to a target system and reports how
// many records were written.
type Exporter interface {
	Export(ctx context.Context, transactions []Transaction) (int, error)
}
