package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron"

	"github.com/finwrap/finwrap/internal/account"
	"github.com/finwrap/finwrap/internal/airtableexporter"
	"github.com/finwrap/finwrap/internal/bagelsexporter"
	"github.com/finwrap/finwrap/internal/config"
	"github.com/finwrap/finwrap/internal/csvexporter"
	"github.com/finwrap/finwrap/internal/influxexporter"
	"github.com/finwrap/finwrap/internal/preview"
	"github.com/finwrap/finwrap/internal/sqlexporter"
)

type Runner interface {
	Run() error
	Close() error
}

var runner Runner

func main() {
	singleRun := flag.Bool("single-run", false, "run exporter once (disable cron)")
	configFile := flag.String("config", "./config.yml", "configuration file")
	secretsFile := flag.String("secrets", "./secrets.json", "secrets file")
	help := flag.Bool("help", false, "show command help")

	flag.Parse()

	if *help {
		fmt.Println("finwrap transaction normalizer and exporter")
		fmt.Println("finwrap [options] task")
		fmt.Println("tasks: preview, bagels, sql, influx, airtable, csv")
		flag.PrintDefaults()
		return
	}

	err := config.ReadConfig(*configFile, *secretsFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if flag.NArg() == 0 {
		fmt.Println("No task passed in")
		return
	}

	collection, err := account.NewCollection(config.CurrentConfig().Accounts)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "preview":
		runner, err = preview.NewPreviewRunner(collection)
	case "bagels":
		runner, err = bagelsexporter.NewExportBagelsRunner(collection)
	case "sql":
		runner, err = sqlexporter.NewExportSqlRunner(collection)
	case "influx":
		runner, err = influxexporter.NewExportInfluxRunner(collection)
	case "airtable":
		runner, err = airtableexporter.NewExportAirtableRunner(collection)
	case "csv":
		runner, err = csvexporter.NewExportCsvRunner(collection)
	default:
		fmt.Printf("Unknown task %s\n", flag.Arg(0))
		return
	}

	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer runner.Close()

	run()

	if *singleRun || config.CurrentConfig().UpdateFrequency == "" {
		return
	}

	c := cron.New()
	c.AddFunc(config.CurrentConfig().UpdateFrequency, run)

	c.Start()

	select {}
}

func run() {
	fmt.Println(time.Now().Format(time.RFC850))
	err := runner.Run()
	if err != nil {
		fmt.Println(err)
	}
}
