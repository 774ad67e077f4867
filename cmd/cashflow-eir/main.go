package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iwvelando/cashflow-eir/internal/config"
	"github.com/iwvelando/cashflow-eir/internal/curves"
	"github.com/iwvelando/cashflow-eir/internal/simulation"
	"github.com/iwvelando/cashflow-eir/internal/valuation"
	"github.com/iwvelando/cashflow-eir/pkg/constants"
	"github.com/iwvelando/cashflow-eir/pkg/loans"
	"github.com/iwvelando/cashflow-eir/pkg/output"
	"github.com/iwvelando/cashflow-eir/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// selectSeries resolves the configured series names into their matrices,
// logging and skipping unknown names. An empty selection means all series.
func selectSeries(logger *zap.Logger, names []string) []simulation.Series {
	if len(names) == 0 {
		return simulation.AllSeries()
	}
	var selected []simulation.Series
	for _, name := range names {
		s, ok := simulation.SeriesByName(name)
		if !ok {
			logger.Warn("unknown series name in output config",
				zap.String("op", "main"),
				zap.String("series", name),
			)
			continue
		}
		selected = append(selected, s)
	}
	return selected
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	outputDirFlag := flag.String("output-dir", "", "directory override for csv matrix exports")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
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
		outputFormat = constants.OutputFormatPretty // Default to pretty format
	}
	if outputFormat != constants.OutputFormatPretty && outputFormat != constants.OutputFormatCSV {
		logger.Fatal(fmt.Sprintf("invalid output format %s", outputFormat),
			zap.String("op", "main"),
		)
	}

	outputDir := conf.Output.Directory
	if *outputDirFlag != "" {
		outputDir = *outputDirFlag
	}

	// Process all configured dates into time.Time.
	err = conf.ParseDates()
	if err != nil {
		logger.Fatal("failed to parse configured dates",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Build the curve tables; the ERC table fixes the simulation horizon.
	ercTable, err := curves.NewTable("erc", config.CurveRows(conf.ERC), ercHorizon(conf.ERC))
	if err != nil {
		logger.Fatal("failed to build erc table",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	cprTable, err := curves.NewTable("cpr", config.CurveRows(conf.CPR), ercTable.Horizon())
	if err != nil {
		logger.Fatal("failed to build cpr table",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Validate configuration and display any warnings
	warnings, err := validation.ValidateConfiguration(conf, cprTable, ercTable)
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
	if err != nil {
		logger.Fatal("configuration validation failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Derive the amortization schedule parameters for all loans.
	terms := make([]loans.Terms, len(conf.Loans))
	for i := range conf.Loans {
		terms[i] = conf.Loans[i].Terms()
	}
	params, degenerate := loans.DeriveAll(logger, terms)
	if degenerate > 0 {
		logger.Info("loans with defaulted reversion payments",
			zap.String("op", "main"),
			zap.Int("count", degenerate),
		)
	}

	// Build the matrices and run the simulation.
	book, err := simulation.NewBook(logger, conf.Loans, params, cprTable, ercTable)
	if err != nil {
		logger.Fatal("failed to initialize simulation matrices",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	book.Run(logger)

	// Run the valuation pass.
	results, failures, err := valuation.Value(logger, book, conf.Loans,
		conf.Reporting.PeriodStartTime, conf.Reporting.PeriodEndTime)
	if err != nil {
		logger.Fatal("failed to value portfolio",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if failures > 0 {
		logger.Warn("some loans could not be valued",
			zap.String("op", "main"),
			zap.Int("count", failures),
		)
	}

	// Handle output.
	if err := writeOutputs(logger, os.Stdout, book, results, outputFormat, outputDir, conf.Output.Series); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// writeOutputs emits the valuation results in the chosen format and exports
// the configured series matrices whenever an output directory is set,
// independent of the valuation-table format.
func writeOutputs(logger *zap.Logger, w io.Writer, book *simulation.Book, results []valuation.Result,
	outputFormat, outputDir string, seriesNames []string) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyValuation(w, results)
	case constants.OutputFormatCSV:
		if err := output.CsvValuation(w, results); err != nil {
			return fmt.Errorf("failed to write valuation csv: %w", err)
		}
	}

	if outputDir != "" {
		selected := selectSeries(logger, seriesNames)
		if err := output.ExportMatrices(outputDir, "", book, selected); err != nil {
			return fmt.Errorf("failed to export matrices: %w", err)
		}
	}
	return nil
}

// ercHorizon derives the simulation horizon from the ERC table's widest
// configured row.
func ercHorizon(rows []config.CurveRow) int {
	horizon := 0
	for _, row := range rows {
		if len(row.Values) > horizon {
			horizon = len(row.Values)
		}
	}
	return horizon
}
