package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/site-payouts/internal/config"
	"github.com/iwvelando/site-payouts/pkg/constants"
	"github.com/iwvelando/site-payouts/pkg/logging"
	"github.com/iwvelando/site-payouts/pkg/output"
	"github.com/iwvelando/site-payouts/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", "", "path to configuration file (built-in defaults when empty)")
	dataLocation := flag.String("data", constants.DefaultDataFile, "path to the members and sites file (yaml or json)")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	var conf *config.Configuration
	var err error
	if *configLocation != "" {
		conf, err = config.LoadConfiguration(*configLocation)
	} else {
		conf, err = config.Default()
	}
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.New(logging.Settings(conf.Logging), *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	data, err := config.LoadData(*dataLocation, conf.Defaults)
	if err != nil {
		logger.Fatal("failed to load data",
			zap.String("op", "main"),
			zap.String("path", *dataLocation),
			zap.Error(err),
		)
	}
	if conf.Limits.MaxMembers > 0 && len(data.Members) > conf.Limits.MaxMembers {
		logger.Fatal("too many members",
			zap.String("op", "main"),
			zap.Int("members", len(data.Members)),
			zap.Int("limit", conf.Limits.MaxMembers),
		)
	}
	if conf.Limits.MaxSites > 0 && len(data.Sites) > conf.Limits.MaxSites {
		logger.Fatal("too many sites",
			zap.String("op", "main"),
			zap.Int("sites", len(data.Sites)),
			zap.Int("limit", conf.Limits.MaxSites),
		)
	}

	report, err := conf.Engine().Calculate(data)
	if err != nil {
		logger.Fatal("failed to calculate payments",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	logger.Debug("payments calculated",
		zap.String("op", "main"),
		zap.Int("members", len(report.Payments)),
		zap.Int("sites", report.TotalSites),
		zap.Float64("totalPaid", report.TotalPaid),
	)

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, report)
	case constants.OutputFormatCSV:
		err = output.CSVFormat(os.Stdout, report)
	case constants.OutputFormatJSON:
		err = output.JSONFormat(os.Stdout, report)
	}
	if err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
