// Package config provides configuration management for the pivot engine and
// its ingestion, export and logging collaborators.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/quocdat202/pivot/internal/errors"
	"github.com/quocdat202/pivot/internal/validation"
)

// Config represents the global configuration for pivot operations
type Config struct {
	// Engine Configuration
	TotalLabel     string `json:"total_label" yaml:"total_label"`         // Path element of the grand-total row
	SplitSeparator string `json:"split_separator" yaml:"split_separator"` // Joins split combination values

	// Ingestion Configuration
	TypeSampleSize  int    `json:"type_sample_size" yaml:"type_sample_size"`   // Rows inspected by column type detection
	AutoMetricLimit int    `json:"auto_metric_limit" yaml:"auto_metric_limit"` // Metrics chosen by auto-configuration
	CSVDelimiter    string `json:"csv_delimiter" yaml:"csv_delimiter"`         // Single-character CSV field delimiter

	// Presentation and Export Configuration
	DefaultColumnWidth   int    `json:"default_column_width" yaml:"default_column_width"`     // Metric column width in pixels
	HierarchyColumnWidth int    `json:"hierarchy_column_width" yaml:"hierarchy_column_width"` // Group column width in pixels
	ParquetCompression   string `json:"parquet_compression" yaml:"parquet_compression"`       // snappy, gzip, zstd, lz4 or none
	ParquetBatchSize     int    `json:"parquet_batch_size" yaml:"parquet_batch_size"`         // Rows per Parquet write batch

	// Debugging Configuration
	LogLevel          string `json:"log_level" yaml:"log_level"`                   // debug, info, warn or error
	VerboseLogging    bool   `json:"verbose_logging" yaml:"verbose_logging"`       // Forces debug logging
	MetricsCollection bool   `json:"metrics_collection" yaml:"metrics_collection"` // Enable stage metrics collection
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultTotalLabel           = "Total"
	DefaultSplitSeparator       = "|"
	DefaultTypeSampleSize       = 100
	DefaultAutoMetricLimit      = 5
	DefaultCSVDelimiter         = ","
	DefaultColumnWidth          = 200
	DefaultHierarchyColumnWidth = 350
	DefaultParquetCompression   = "snappy"
	DefaultParquetBatchSize     = 1024
	DefaultLogLevel             = "info"
)

// ParquetCompressions lists the accepted ParquetCompression values.
var ParquetCompressions = []string{"snappy", "gzip", "zstd", "lz4", "none"}

// LogLevels lists the accepted LogLevel values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Initialize global configuration with defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		TotalLabel:     DefaultTotalLabel,
		SplitSeparator: DefaultSplitSeparator,

		TypeSampleSize:  DefaultTypeSampleSize,
		AutoMetricLimit: DefaultAutoMetricLimit,
		CSVDelimiter:    DefaultCSVDelimiter,

		DefaultColumnWidth:   DefaultColumnWidth,
		HierarchyColumnWidth: DefaultHierarchyColumnWidth,
		ParquetCompression:   DefaultParquetCompression,
		ParquetBatchSize:     DefaultParquetBatchSize,

		LogLevel:          DefaultLogLevel,
		VerboseLogging:    false,
		MetricsCollection: false,
	}
}

// Validate validates the configuration and reports every invalid field.
func (c *Config) Validate() error {
	const op = "Config"

	return validation.ValidateAll(
		required(op, "TotalLabel", c.TotalLabel),
		required(op, "SplitSeparator", c.SplitSeparator),
		validation.NewMinValidator("TypeSampleSize", c.TypeSampleSize, 1, op),
		validation.NewMinValidator("AutoMetricLimit", c.AutoMetricLimit, 0, op),
		validation.ValidatorFunc(func() error {
			if utf8.RuneCountInString(c.CSVDelimiter) != 1 || c.CSVDelimiter == "\"" ||
				c.CSVDelimiter == "\n" || c.CSVDelimiter == "\r" {
				return errors.NewValidationError(op, "",
					fmt.Sprintf("CSVDelimiter must be a single non-quote character, got %q", c.CSVDelimiter))
			}
			return nil
		}),
		validation.NewMinValidator("DefaultColumnWidth", c.DefaultColumnWidth, 1, op),
		validation.NewMinValidator("HierarchyColumnWidth", c.HierarchyColumnWidth, 1, op),
		validation.ValidatorFunc(func() error {
			if !contains(ParquetCompressions, c.ParquetCompression) {
				return errors.NewConfigurationError("ParquetCompression", c.ParquetCompression, ParquetCompressions)
			}
			return nil
		}),
		validation.NewMinValidator("ParquetBatchSize", c.ParquetBatchSize, 1, op),
		validation.ValidatorFunc(func() error {
			if !contains(LogLevels, strings.ToLower(c.LogLevel)) {
				return errors.NewConfigurationError("LogLevel", c.LogLevel, LogLevels)
			}
			return nil
		}),
	)
}

func required(op, name, s string) validation.Validator {
	return validation.ValidatorFunc(func() error {
		if s == "" {
			return errors.NewValidationError(op, "", name+" must not be empty")
		}
		return nil
	})
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.TotalLabel == "" {
		c.TotalLabel = defaults.TotalLabel
	}
	if c.SplitSeparator == "" {
		c.SplitSeparator = defaults.SplitSeparator
	}
	if c.TypeSampleSize == 0 {
		c.TypeSampleSize = defaults.TypeSampleSize
	}
	if c.AutoMetricLimit == 0 {
		c.AutoMetricLimit = defaults.AutoMetricLimit
	}
	if c.CSVDelimiter == "" {
		c.CSVDelimiter = defaults.CSVDelimiter
	}
	if c.DefaultColumnWidth == 0 {
		c.DefaultColumnWidth = defaults.DefaultColumnWidth
	}
	if c.HierarchyColumnWidth == 0 {
		c.HierarchyColumnWidth = defaults.HierarchyColumnWidth
	}
	if c.ParquetCompression == "" {
		c.ParquetCompression = defaults.ParquetCompression
	}
	if c.ParquetBatchSize == 0 {
		c.ParquetBatchSize = defaults.ParquetBatchSize
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}

	// Boolean fields keep their zero values so an explicit false survives.
	return c
}

// Delimiter returns CSVDelimiter as a rune.
func (c Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// SlogLevel returns the configured log level. VerboseLogging forces debug.
func (c Config) SlogLevel() slog.Level {
	if c.VerboseLogging {
		return slog.LevelDebug
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.SlogLevel()}))
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromYAML loads configuration from YAML data
func LoadFromYAML(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing YAML configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a JSON or YAML file
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config.WithDefaults(), nil
}

// LoadFromEnv loads configuration from PIVOT_* environment variables on top
// of the defaults. Unparseable values are ignored.
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv("PIVOT_TOTAL_LABEL"); val != "" {
		config.TotalLabel = val
	}

	if val := os.Getenv("PIVOT_SPLIT_SEPARATOR"); val != "" {
		config.SplitSeparator = val
	}

	if val := os.Getenv("PIVOT_TYPE_SAMPLE_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.TypeSampleSize = parsed
		}
	}

	if val := os.Getenv("PIVOT_AUTO_METRIC_LIMIT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.AutoMetricLimit = parsed
		}
	}

	if val := os.Getenv("PIVOT_CSV_DELIMITER"); val != "" {
		config.CSVDelimiter = val
	}

	if val := os.Getenv("PIVOT_DEFAULT_COLUMN_WIDTH"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.DefaultColumnWidth = parsed
		}
	}

	if val := os.Getenv("PIVOT_HIERARCHY_COLUMN_WIDTH"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.HierarchyColumnWidth = parsed
		}
	}

	if val := os.Getenv("PIVOT_PARQUET_COMPRESSION"); val != "" {
		config.ParquetCompression = strings.ToLower(val)
	}

	if val := os.Getenv("PIVOT_PARQUET_BATCH_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.ParquetBatchSize = parsed
		}
	}

	if val := os.Getenv("PIVOT_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(val)
	}

	if val := os.Getenv("PIVOT_VERBOSE_LOGGING"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.VerboseLogging = parsed
		}
	}

	if val := os.Getenv("PIVOT_METRICS_COLLECTION"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.MetricsCollection = parsed
		}
	}

	return config
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
