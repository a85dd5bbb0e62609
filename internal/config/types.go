package config

import "encoding/json"

type Config struct {
	UpdateFrequency string
	// Extra currency columns written by the sql exporter, e.g. ["USD", "CAD"]
	Currencies []string
	Accounts   []AccountConfig
	Export     ExportConfig
}

type Secrets struct {
	SQL      SqlSecrets
	Influx   InfluxSecrets
	Airtable AirtableSecrets
	Bagels   BagelsSecrets

	// Alternative to the SQL struct, designed to be used with heroku env variable
	DatabaseURL string `env:"DATABASE_URL"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Accounts
///////////////////////////////////////////////////////////////////////////////////////

type AccountConfig struct {
	Name     string   `json:"name"`
	FilePath FileList `json:"filePath"`

	DateCol        string `json:"dateCol"`
	TransactionCol string `json:"transactionCol"`
	AmountCol      string `json:"amountCol"`

	// Go reference layout, e.g. "2006-01-02". Empty means autodetect.
	DateColFormat string `json:"dateColFormat"`
	FeesCol       string `json:"feesCol"`
	// Matches are removed from the transaction column before trimming
	TransactionColCleaningRegex string `json:"transactionColCleaningRegex"`

	Currency *CurrencyConfig `json:"currency"`
}

type CurrencyConfig struct {
	CurrencyCol string   `json:"currencyCol"`
	ConvertTo   string   `json:"convertTo"`
	DefaultRate *float64 `json:"defaultRate"`
	// "latest" (default) or "dynamic" (rate as of the transaction date)
	Strategy string `json:"strategy"`
}

// FileList accepts either a single path or a list of paths in yaml.
type FileList []string

func (f *FileList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = FileList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}

	*f = FileList(many)

	return nil
}

func (f FileList) MarshalJSON() ([]byte, error) {
	if len(f) == 1 {
		return json.Marshal(f[0])
	}

	return json.Marshal([]string(f))
}

///////////////////////////////////////////////////////////////////////////////////////
// Export targets
///////////////////////////////////////////////////////////////////////////////////////

type ExportConfig struct {
	Bagels   BagelsConfig
	SQL      SqlConfig
	CSV      CsvConfig
	Influx   InfluxConfig
	Airtable AirtableConfig
}

type BagelsConfig struct {
	CategoryName  string `json:"categoryName"`
	CategoryColor string `json:"categoryColor"`
}

type SqlConfig struct {
	Database          string
	TransactionsTable string
}

type CsvConfig struct {
	Path string `json:"path"`
}

type InfluxConfig struct {
	Database    string `json:"database"`
	Measurement string `json:"measurement"`
}

type AirtableConfig struct {
	BaseID            string `json:"airtableBaseId"`
	AirtableTableName string
}

type SqlSecrets struct {
	SqlHost     string `env:"SQL_HOST"`
	SqlUsername string `env:"SQL_USERNAME"`
	SqlPassword string `env:"SQL_PASSWORD"`
}

type InfluxSecrets struct {
	InfluxEndpoint string `env:"INFLUX_ENDPOINT"`
	InfluxUsername string `env:"INFLUX_USERNAME"`
	InfluxPassword string `env:"INFLUX_PASSWORD"`
}

type AirtableSecrets struct {
	AirtableAPIKey string `json:"airtableApiKey" env:"AIRTABLE_API_KEY"`
}

type BagelsSecrets struct {
	// Overrides `bagels locate database`
	DatabasePath string `json:"databasePath" env:"BAGELS_DB"`
}
