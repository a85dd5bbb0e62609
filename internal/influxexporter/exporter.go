package influxexporter

import (
	"fmt"

	influxdb "github.com/influxdata/influxdb/client/v2"
	"k8s.io/klog"

	"github.com/finwrap/finwrap/internal/account"
	"github.com/finwrap/finwrap/internal/config"
	"github.com/finwrap/finwrap/internal/influxhelper"
	"github.com/finwrap/finwrap/pkg/currency"
	"github.com/finwrap/finwrap/pkg/financialexporter"
)

const defaultMeasurement = "transactions"

type ExportInfluxRunner struct {
	influxClient influxdb.Client
	collection   *account.Collection
	converter    *currency.Converter
}

func NewExportInfluxRunner(collection *account.Collection) (*ExportInfluxRunner, error) {
	influxClient, err := influxhelper.CreateInfluxClient(*config.CurrentInfluxSecrets())
	if err != nil {
		return nil, fmt.Errorf("Error creating InfluxDB Client: %s", err.Error())
	}

	return &ExportInfluxRunner{
		influxClient: influxClient,
		collection:   collection,
		converter:    currency.NewConverter(),
	}, nil
}

func (runner *ExportInfluxRunner) Run() error {
	transactions, err := runner.collection.Normalize(runner.converter)
	if err != nil {
		return err
	}

	conf := config.CurrentExportConfig().Influx

	err = influxhelper.DropDatabase(runner.influxClient, conf.Database)
	if err != nil {
		return fmt.Errorf("Error dropping DB: %s", err.Error())
	}

	err = influxhelper.CreateDatabase(runner.influxClient, conf.Database)
	if err != nil {
		return fmt.Errorf("Error creating DB: %s", err.Error())
	}

	written, err := runner.export(transactions, conf)
	if err != nil {
		return err
	}

	klog.Infof("Wrote %d points to influx database %s\n", written, conf.Database)

	return nil
}

func (runner *ExportInfluxRunner) Close() error {
	return runner.influxClient.Close()
}

// export writes one point per transaction plus a running per account balance
// series, so dashboards can chart balances over time without a query-side
// cumulative sum.
func (runner *ExportInfluxRunner) export(transactions []financialexporter.Transaction, conf config.InfluxConfig) (int, error) {
	measurement := conf.Measurement
	if measurement == "" {
		measurement = defaultMeasurement
	}

	bp, err := influxdb.NewBatchPoints(influxdb.BatchPointsConfig{
		Database:  conf.Database,
		Precision: "h",
	})
	if err != nil {
		return 0, err
	}

	balances := make(map[string]float64)

	for _, transaction := range transactions {
		tags := map[string]string{
			"account":  transaction.Account(),
			"currency": transaction.Currency(),
		}

		balances[transaction.Account()] += transaction.Amount()

		fields := map[string]interface{}{
			"amount":  transaction.Amount(),
			"balance": financialexporter.Round(balances[transaction.Account()], 0.01),
			"label":   transaction.Label(),
		}

		pt, err := influxdb.NewPoint(measurement, tags, fields, transaction.Date())
		if err != nil {
			return 0, fmt.Errorf("Error adding new point: %s", err.Error())
		}

		bp.AddPoint(pt)
	}

	err = runner.influxClient.Write(bp)
	if err != nil {
		return 0, err
	}

	return len(bp.Points()), nil
}
