// Package config provides the configuration for tablegrid.
//
// The configuration is organized into sections:
//   - Inference: sample window size and majority threshold
//   - Format: locale and time zone used for display values
//   - Export: output format, compression and directory
//   - Performance: worker count and row batch size for the grid builder
//   - Logging: level, encoding and output paths
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Inference.SampleSize = 25
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"runtime"
	"time"

	"golang.org/x/text/language"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/logger"
)

// Config is the complete tablegrid configuration.
type Config struct {
	Inference   InferenceConfig   `yaml:"inference" json:"inference"`
	Format      FormatConfig      `yaml:"format" json:"format"`
	Export      ExportConfig      `yaml:"export" json:"export"`
	Performance PerformanceConfig `yaml:"performance" json:"performance"`
	Logging     logger.Config     `yaml:"logging" json:"logging"`
}

// InferenceConfig controls column type inference.
type InferenceConfig struct {
	// SampleSize is the number of leading rows inspected per column
	SampleSize int `yaml:"sample_size" json:"sample_size"`
	// Threshold is the share of samples one type needs to win the column
	Threshold float64 `yaml:"threshold" json:"threshold"`
}

// FormatConfig controls display formatting.
type FormatConfig struct {
	// Locale is a BCP 47 tag such as en-US or de-DE
	Locale string `yaml:"locale" json:"locale"`
	// Timezone is an IANA name; empty means the local zone
	Timezone string `yaml:"timezone" json:"timezone"`
}

// ExportConfig controls the export command.
type ExportConfig struct {
	Format           string `yaml:"format" json:"format"`
	Compression      string `yaml:"compression" json:"compression"`
	CompressionLevel int    `yaml:"compression_level" json:"compression_level"`
	Directory        string `yaml:"directory" json:"directory"`
	Pretty           bool   `yaml:"pretty" json:"pretty"`
}

// PerformanceConfig controls the parallel grid builder.
type PerformanceConfig struct {
	Workers   int `yaml:"workers" json:"workers"`
	BatchSize int `yaml:"batch_size" json:"batch_size"`
}

var (
	exportFormats      = []string{"csv", "json", "jsonl", "arrow", "parquet"}
	compressionNames   = []string{"none", "gzip", "zstd", "snappy", "s2", "lz4"}
	defaultSampleSize  = 10
	defaultThreshold   = 0.7
	defaultBatchSize   = 500
	defaultExportLevel = 5
)

// Default returns a configuration with every section populated.
func Default() *Config {
	return &Config{
		Inference: InferenceConfig{
			SampleSize: defaultSampleSize,
			Threshold:  defaultThreshold,
		},
		Format: FormatConfig{
			Locale: "en-US",
		},
		Export: ExportConfig{
			Format:           "csv",
			Compression:      "none",
			CompressionLevel: defaultExportLevel,
			Directory:        ".",
		},
		Performance: PerformanceConfig{
			Workers:   runtime.NumCPU(),
			BatchSize: defaultBatchSize,
		},
		Logging: logger.DefaultConfig(),
	}
}

// ApplyDefaults fills zero values left by a partial YAML file.
func (c *Config) ApplyDefaults() {
	def := Default()

	if c.Inference.SampleSize == 0 {
		c.Inference.SampleSize = def.Inference.SampleSize
	}
	if c.Inference.Threshold == 0 {
		c.Inference.Threshold = def.Inference.Threshold
	}
	if c.Format.Locale == "" {
		c.Format.Locale = def.Format.Locale
	}
	if c.Export.Format == "" {
		c.Export.Format = def.Export.Format
	}
	if c.Export.Compression == "" {
		c.Export.Compression = def.Export.Compression
	}
	if c.Export.CompressionLevel == 0 {
		c.Export.CompressionLevel = def.Export.CompressionLevel
	}
	if c.Export.Directory == "" {
		c.Export.Directory = def.Export.Directory
	}
	if c.Performance.Workers == 0 {
		c.Performance.Workers = def.Performance.Workers
	}
	if c.Performance.BatchSize == 0 {
		c.Performance.BatchSize = def.Performance.BatchSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Encoding == "" {
		c.Logging.Encoding = def.Logging.Encoding
	}
	if len(c.Logging.OutputPaths) == 0 {
		c.Logging.OutputPaths = def.Logging.OutputPaths
	}
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if c.Inference.SampleSize < 1 {
		return errors.Newf(errors.ErrorTypeConfig, "inference.sample_size must be at least 1, got %d", c.Inference.SampleSize)
	}
	if c.Inference.Threshold <= 0 || c.Inference.Threshold > 1 {
		return errors.Newf(errors.ErrorTypeConfig, "inference.threshold must be in (0, 1], got %g", c.Inference.Threshold)
	}

	if _, err := c.LanguageTag(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	if !contains(exportFormats, c.Export.Format) {
		return errors.Newf(errors.ErrorTypeConfig, "export.format %q is not one of %v", c.Export.Format, exportFormats)
	}
	if !contains(compressionNames, c.Export.Compression) {
		return errors.Newf(errors.ErrorTypeConfig, "export.compression %q is not one of %v", c.Export.Compression, compressionNames)
	}
	if c.Export.CompressionLevel < 1 || c.Export.CompressionLevel > 9 {
		return errors.Newf(errors.ErrorTypeConfig, "export.compression_level must be between 1 and 9, got %d", c.Export.CompressionLevel)
	}

	if c.Performance.Workers < 1 {
		return errors.Newf(errors.ErrorTypeConfig, "performance.workers must be at least 1, got %d", c.Performance.Workers)
	}
	if c.Performance.BatchSize < 1 {
		return errors.Newf(errors.ErrorTypeConfig, "performance.batch_size must be at least 1, got %d", c.Performance.BatchSize)
	}

	if _, err := logger.New(c.Logging); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid logging section")
	}

	return nil
}

// LanguageTag parses Format.Locale.
func (c *Config) LanguageTag() (language.Tag, error) {
	tag, err := language.Parse(c.Format.Locale)
	if err != nil {
		return language.Und, errors.Wrap(err, errors.ErrorTypeConfig, "invalid format.locale").
			WithDetail("locale", c.Format.Locale)
	}
	return tag, nil
}

// Location resolves Format.Timezone, defaulting to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Format.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Format.Timezone)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid format.timezone").
			WithDetail("timezone", c.Format.Timezone)
	}
	return loc, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
