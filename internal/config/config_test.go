package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
updateFrequency: "@daily"
currencies: ["USD", "CAD"]
accounts:
  - name: Checking
    filePath: statements/checking.csv
    dateCol: Date
    transactionCol: Description
    amountCol: Amount
    feesCol: Fees
    currency:
      currencyCol: Currency
      convertTo: USD
      defaultRate: 1.2
      strategy: dynamic
  - name: Broker
    filePath:
      - statements/broker-2022.parquet
      - statements/broker-2023.parquet
    dateCol: date
    transactionCol: label
    amountCol: amount
export:
  bagels:
    categoryName: imported
    categoryColor: blue
  csv:
    path: out.csv
`

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()

	configPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(sampleConfig), 0644))

	// no ejson secrets file: env secrets alone should be enough
	err := ReadConfig(configPath, filepath.Join(dir, "missing.json"))
	require.NoError(t, err)

	conf := CurrentConfig()
	assert.Equal(t, "@daily", conf.UpdateFrequency)
	assert.Equal(t, []string{"USD", "CAD"}, conf.Currencies)
	require.Len(t, conf.Accounts, 2)

	checking := conf.Accounts[0]
	assert.Equal(t, "Checking", checking.Name)
	assert.Equal(t, FileList{"statements/checking.csv"}, checking.FilePath)
	require.NotNil(t, checking.Currency)
	assert.Equal(t, "USD", checking.Currency.ConvertTo)
	assert.Equal(t, "dynamic", checking.Currency.Strategy)
	require.NotNil(t, checking.Currency.DefaultRate)
	assert.Equal(t, 1.2, *checking.Currency.DefaultRate)

	broker := conf.Accounts[1]
	assert.Len(t, broker.FilePath, 2)
	assert.Nil(t, broker.Currency)

	assert.Equal(t, "imported", CurrentExportConfig().Bagels.CategoryName)
	assert.Equal(t, "out.csv", CurrentExportConfig().CSV.Path)
}

func TestReadConfigFromEnv(t *testing.T) {
	t.Setenv(configEnvVar, "updateFrequency: \"@hourly\"")

	dir := t.TempDir()
	err := ReadConfig(filepath.Join(dir, "nope.yml"), filepath.Join(dir, "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "@hourly", CurrentConfig().UpdateFrequency)
}

func TestEnvSecrets(t *testing.T) {
	t.Setenv(configEnvVar, "{}")
	t.Setenv("BAGELS_DB", "/tmp/bagels.db")
	t.Setenv("SQL_HOST", "localhost:5433")

	dir := t.TempDir()
	err := ReadConfig(filepath.Join(dir, "nope.yml"), filepath.Join(dir, "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/bagels.db", CurrentBagelsSecrets().DatabasePath)
	assert.Equal(t, "localhost:5433", CurrentSqlSecrets().SqlHost)
}

func TestFileListRoundTrip(t *testing.T) {
	single := FileList{"a.csv"}

	raw, err := yaml.Marshal(single)
	require.NoError(t, err)
	assert.Equal(t, "a.csv\n", string(raw))

	parsed := FileList{}
	require.NoError(t, yaml.Unmarshal(raw, &parsed))
	assert.Equal(t, single, parsed)

	many := FileList{"a.csv", "b.csv"}

	raw, err = yaml.Marshal(many)
	require.NoError(t, err)

	parsed = FileList{}
	require.NoError(t, yaml.Unmarshal(raw, &parsed))
	assert.Equal(t, many, parsed)
}
