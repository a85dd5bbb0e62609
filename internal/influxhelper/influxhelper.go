package influxhelper

import (
	"fmt"
	"strings"

	influxdb "github.com/influxdata/influxdb/client/v2"

	"github.com/finwrap/finwrap/internal/config"
)

func CreateInfluxClient(secrets config.InfluxSecrets) (influxdb.Client, error) {
	return influxdb.NewHTTPClient(influxdb.HTTPConfig{
		Addr:     secrets.InfluxEndpoint,
		Username: secrets.InfluxUsername,
		Password: secrets.InfluxPassword,
	})
}

func DropDatabase(influxClient influxdb.Client, name string) error {
	name = strings.Split(name, " ")[0]

	dropCommand := fmt.Sprintf("DROP DATABASE %s", name)

	q := influxdb.NewQuery(dropCommand, "", "")
	if response, err := influxClient.Query(q); err == nil && response.Error() != nil {
		return err
	}
	return nil
}

func CreateDatabase(influxClient influxdb.Client, name string) error {
	name = strings.Split(name, " ")[0]

	createCommand := fmt.Sprintf("CREATE DATABASE %s", name)

	q := influxdb.NewQuery(createCommand, "", "")
	if response, err := influxClient.Query(q); err == nil && response.Error() != nil {
		return err
	}
	return nil
}
