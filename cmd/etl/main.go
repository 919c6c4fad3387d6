// Package main provides the FlexiMart ETL command: read the raw extracts,
// cleanse and load them, and write the data-quality report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"fleximart/internal/config"
	"fleximart/internal/logger"
	"fleximart/internal/pipeline"
	"fleximart/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional; defaults apply)")
	flag.Parse()

	cfg := config.Default()

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		cfg = loaded
	}

	log := logger.NewLogger(cfg.Logging.Level)

	log.Info("🚀 Starting FlexiMart ETL")
	log.Info(fmt.Sprintf("📍 Extracts: %s, %s, %s", cfg.Input.Customers, cfg.Input.Products, cfg.Input.Sales))
	log.Info(fmt.Sprintf("🎯 Database: %s", cfg.Database.Path))

	startTime := time.Now()
	ctx := context.Background()

	st, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Store open failed: %v", err))
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		log.Error(fmt.Sprintf("❌ Migration failed: %v", err))
		os.Exit(1)
	}

	rep, err := pipeline.New(cfg, st, log).Run(ctx)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Pipeline failed: %v", err))
		os.Exit(1)
	}

	if err := rep.WriteFile(cfg.Report.Path); err != nil {
		log.Error(fmt.Sprintf("❌ Report write failed: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ ETL pipeline completed successfully in %v", time.Since(startTime)))
	log.Info(fmt.Sprintf("📄 Report: %s", cfg.Report.Path))
}
