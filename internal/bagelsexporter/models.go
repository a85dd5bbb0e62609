package bagelsexporter

import (
	"time"

	"github.com/uptrace/bun"
)

// Bun models mirroring the tables bagels owns. Column names follow the
// bagels schema, which is camelCase.

type BagelsAccount struct {
	bun.BaseModel `bun:"table:account"`

	ID               int64     `bun:"id,pk,autoincrement"`
	Name             string    `bun:"name"`
	Description      string    `bun:"description"`
	CreatedAt        time.Time `bun:"createdAt"`
	UpdatedAt        time.Time `bun:"updatedAt"`
	BeginningBalance float64   `bun:"beginningBalance"`
	Hidden           int       `bun:"hidden"`
}

type BagelsCategory struct {
	bun.BaseModel `bun:"table:category"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name"`
	Nature    string    `bun:"nature"`
	Color     string    `bun:"color"`
	CreatedAt time.Time `bun:"createdAt"`
	UpdatedAt time.Time `bun:"updatedAt"`
}

type BagelsRecord struct {
	bun.BaseModel `bun:"table:record"`

	ID           int64     `bun:"id,pk,autoincrement"`
	CreatedAt    time.Time `bun:"createdAt"`
	UpdatedAt    time.Time `bun:"updatedAt"`
	Label        string    `bun:"label"`
	Amount       float64   `bun:"amount"`
	Date         time.Time `bun:"date"`
	AccountID    int64     `bun:"accountId"`
	CategoryID   int64     `bun:"categoryId"`
	IsIncome     bool      `bun:"isIncome"`
	IsInProgress bool      `bun:"isInProgress"`
	IsTransfer   bool      `bun:"isTransfer"`
}
