package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/payment-plans/internal/config"
	"github.com/iwvelando/payment-plans/internal/logging"
	"github.com/iwvelando/payment-plans/internal/plans"
	"github.com/iwvelando/payment-plans/internal/quote"
	"github.com/iwvelando/payment-plans/pkg/constants"
	"github.com/iwvelando/payment-plans/pkg/output"
	"github.com/iwvelando/payment-plans/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// loadConfiguration reads the unit file. A missing file at the default
// location is not an error so a quote can be driven by flags and
// PAYMENT_PLANS_* variables alone.
func loadConfiguration(path string, explicit bool) (*config.Configuration, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return config.LoadConfigurationFromReader(strings.NewReader(""))
		}
	}
	return config.LoadConfiguration(path)
}

func main() {
	_ = godotenv.Load()

	configLocation := flag.String("config", constants.DefaultConfigFile, "path to unit configuration file")
	priceFlag := flag.String("price", "", "unit price override, grouping allowed (e.g. 1,250,000)")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, comparison, csv, json, pdf")
	pdfOut := flag.String("pdf-out", "", "path of the PDF quote (default PLDG_Quote_<price>.pdf)")
	selectFlag := flag.String("select", "", "comma-separated plan IDs to show or export (default all)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	explicitConfig := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicitConfig = true
		}
	})

	conf, err := loadConfiguration(*configLocation, explicitConfig)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *priceFlag != "" {
		conf.Unit.Price = *priceFlag
	}
	if *selectFlag != "" {
		conf.Selection = validation.ParseSelection(*selectFlag)
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	unit, err := conf.UnitInfo()
	if err != nil {
		logger.Fatal("failed to read unit price",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	results := plans.ComputeUnit(logger, unit)
	if len(results) == 0 {
		logger.Warn("unit price is not set; nothing to quote",
			zap.String("op", "main"),
		)
		return
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(plans.Select(results, conf.Selection))
	case constants.OutputFormatComparison:
		output.ComparisonFormat(plans.Select(results, conf.Selection))
	case constants.OutputFormatCSV:
		output.CsvFormat(plans.Select(results, conf.Selection))
	case constants.OutputFormatJSON:
		if err := output.JSONFormat(plans.Select(results, conf.Selection)); err != nil {
			logger.Fatal("failed to write JSON",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	case constants.OutputFormatPDF:
		path := *pdfOut
		if path == "" {
			path = conf.Output.PDFFile
		}
		if path == "" {
			path = quote.Filename(unit.TotalPrice)
		}
		if err := writeQuote(logger, conf, unit, results, path); err != nil {
			logger.Fatal("failed to export quote",
				zap.String("op", "main"),
				zap.String("file", path),
				zap.Error(err),
			)
		}
		logger.Info("quote written",
			zap.String("op", "main"),
			zap.String("file", path),
		)
	}
}

func writeQuote(logger *zap.Logger, conf *config.Configuration, unit plans.UnitInfo, results []plans.PaymentPlanResult, path string) error {
	contract, err := conf.ContractTime(time.Now())
	if err != nil {
		return err
	}

	renderer := quote.NewRenderer(logger, conf.Quote.Branding())
	renderer.ContractDate = contract

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := renderer.Render(file, unit, results, conf.Selection); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return err
	}
	return file.Close()
}
