// cmd/standardize/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/WillBetts22/MCM-Stage1/pkg/cleanlog"
	"github.com/WillBetts22/MCM-Stage1/pkg/config"
	"github.com/WillBetts22/MCM-Stage1/pkg/exporter"
	"github.com/WillBetts22/MCM-Stage1/pkg/loader"
	"github.com/WillBetts22/MCM-Stage1/pkg/model"
	"github.com/WillBetts22/MCM-Stage1/pkg/standardize"
)

func main() {
	// A missing .env file is fine; the environment may be set directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Standardization run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	csvLoader, err := loader.NewCSVLoader(logger)
	if err != nil {
		return err
	}

	ds, err := csvLoader.LoadDataset(cfg.DataDir)
	if err != nil {
		return err
	}

	standardizer := standardize.NewStandardizer(model.DefaultRuleset(cfg.CutoffYear), logger)

	if cfg.AuditDBPath != "" {
		store, err := cleanlog.Open(cfg.AuditDBPath, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		standardizer = standardizer.WithAuditRecorder(store)
	}

	result, err := standardizer.Run(ctx, ds)
	if err != nil {
		return err
	}

	writer, err := exporter.NewCSVWriter(cfg.OutputDir, logger)
	if err != nil {
		return err
	}
	if err := writer.WriteResult(result); err != nil {
		return err
	}

	reportSummary(logger, result.Summary)
	return nil
}

// reportSummary logs the run's headline numbers for the human operator
func reportSummary(logger *zap.Logger, summary *standardize.RunSummary) {
	logger.Info("Run summary",
		zap.String("runID", summary.RunID),
		zap.Int("yearMin", summary.YearMin),
		zap.Int("yearMax", summary.YearMax),
		zap.Int("editions", summary.EditionCount),
		zap.Int("countries", summary.CountryCount),
		zap.Int("activeRows", summary.Subset.ActiveRows),
		zap.Float64("retentionPct", summary.Subset.RetentionPct),
		zap.Bool("validationPassed", summary.Validation.Passed()),
		zap.Duration("duration", summary.Duration))

	for _, rate := range summary.Validation.NullRates {
		logger.Info("Null rate",
			zap.String("table", rate.TableRole),
			zap.String("column", rate.Column),
			zap.Int("nulls", rate.NullCount),
			zap.Float64("pct", rate.Pct))
	}
}

// buildLogger constructs the zap logger from configuration
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
