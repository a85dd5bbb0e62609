package csvexporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwrap/finwrap/pkg/financialexporter"
)

func TestWrite(t *testing.T) {
	transactions := []financialexporter.Transaction{
		financialexporter.Record{
			AccountName:       "Checking",
			TransactionDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			TransactionLabel:  "Salary",
			TransactionAmount: 1000.0,
		},
		financialexporter.Record{
			AccountName:       "Checking",
			TransactionDate:   time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
			TransactionLabel:  "Coffee, large",
			TransactionAmount: -3.5,
		},
	}

	buf := bytes.Buffer{}

	written, err := Write(&buf, transactions)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	expected := "account_name,date,transaction,amount\n" +
		"Checking,2023-01-01,Salary,1000.00\n" +
		"Checking,2023-01-02,\"Coffee, large\",-3.50\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteEmpty(t *testing.T) {
	buf := bytes.Buffer{}

	written, err := Write(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, written)
	assert.Equal(t, "account_name,date,transaction,amount\n", buf.String())
}
