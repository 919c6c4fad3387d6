// Package config provides configuration management for the ETL pipeline.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingCustomersFile = errors.New("input.customers is required")
	ErrMissingProductsFile  = errors.New("input.products is required")
	ErrMissingSalesFile     = errors.New("input.sales is required")
	ErrMissingDatabasePath  = errors.New("database.path is required")
	ErrMissingReportPath    = errors.New("report.path is required")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete pipeline configuration.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Database DatabaseConfig `yaml:"database"`
	Report   ReportConfig   `yaml:"report"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// InputConfig names the three raw extract files.
type InputConfig struct {
	Customers string `yaml:"customers"`
	Products  string `yaml:"products"`
	Sales     string `yaml:"sales"`
}

// DatabaseConfig defines where the relational store lives.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ReportConfig defines where the data-quality report is written.
type ReportConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no config file is given.
// The paths match the upstream extract layout.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Customers: "data/customers_raw.csv",
			Products:  "data/products_raw.csv",
			Sales:     "data/sales_raw.csv",
		},
		Database: DatabaseConfig{Path: "fleximart.db"},
		Report:   ReportConfig{Path: "data_quality_report.txt"},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file. Fields left empty in the file
// fall back to the defaults.
func Load(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Input.Customers == "" {
		return ErrMissingCustomersFile
	}

	if c.Input.Products == "" {
		return ErrMissingProductsFile
	}

	if c.Input.Sales == "" {
		return ErrMissingSalesFile
	}

	if c.Database.Path == "" {
		return ErrMissingDatabasePath
	}

	if c.Report.Path == "" {
		return ErrMissingReportPath
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Customers: %s, Products: %s, Sales: %s, Database: %s}",
		c.Input.Customers,
		c.Input.Products,
		c.Input.Sales,
		c.Database.Path,
	)
}
