package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"kpitrack/internal/backend"
	"kpitrack/internal/config"
	"kpitrack/internal/kpi"
	applog "kpitrack/internal/log"
	gsheet "kpitrack/internal/sheets/google"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	var (
		userID   = flag.String("user", "", "user whose KPI data to export (required)")
		outFile  = flag.String("out", kpi.ExportFilename, "output file path")
		toSheets = flag.Bool("sheets", false, "append a snapshot to the configured Google Sheet instead of writing a file")
	)
	flag.Parse()

	if *userID == "" {
		logger.Error("Missing required -user flag")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	result, err := backend.NewFactory(logger.Logger).CreateStore(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}()
	}

	session := kpi.NewSession(*userID, result.Store)
	if err := session.Load(ctx); err != nil {
		logger.Error("Failed to load KPI data", "error", err, "user_id", *userID)
		os.Exit(1)
	}

	if *toSheets {
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}

		data := session.Data()
		ref, err := cli.AppendSnapshot(ctx, *userID, &data)
		if err != nil {
			logger.Error("Failed to append snapshot", "error", err, "user_id", *userID)
			os.Exit(1)
		}

		logger.Info("Snapshot exported", "user_id", *userID, "sheets_ref", ref)
		return
	}

	f, err := os.Create(*outFile)
	if err != nil {
		logger.Error("Failed to create output file", "error", err, "path", *outFile)
		os.Exit(1)
	}
	defer f.Close()

	if err := session.Export(f); err != nil {
		logger.Error("Export failed", "error", err, "user_id", *userID)
		os.Exit(1)
	}

	logger.Info("KPI data exported", "user_id", *userID, "path", *outFile)
}
