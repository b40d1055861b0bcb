package config_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quocdat202/pivot/internal/config"
)

func TestConfig_DefaultValues(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, "Total", cfg.TotalLabel)
	assert.Equal(t, "|", cfg.SplitSeparator)
	assert.Equal(t, 100, cfg.TypeSampleSize)
	assert.Equal(t, 5, cfg.AutoMetricLimit)
	assert.Equal(t, ",", cfg.CSVDelimiter)
	assert.Equal(t, 200, cfg.DefaultColumnWidth)
	assert.Equal(t, 350, cfg.HierarchyColumnWidth)
	assert.Equal(t, "snappy", cfg.ParquetCompression)
	assert.Equal(t, 1024, cfg.ParquetBatchSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.VerboseLogging)
	assert.False(t, cfg.MetricsCollection)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validation(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(c *config.Config)
		expectedError string
	}{
		{"valid config", func(c *config.Config) {}, ""},
		{"empty total label", func(c *config.Config) { c.TotalLabel = "" }, "TotalLabel must not be empty"},
		{"empty separator", func(c *config.Config) { c.SplitSeparator = "" }, "SplitSeparator must not be empty"},
		{"zero sample size", func(c *config.Config) { c.TypeSampleSize = 0 }, "TypeSampleSize must be at least 1, got 0"},
		{"negative metric limit", func(c *config.Config) { c.AutoMetricLimit = -1 }, "AutoMetricLimit must be at least 0, got -1"},
		{"multi-character delimiter", func(c *config.Config) { c.CSVDelimiter = ";;" }, `CSVDelimiter must be a single non-quote character, got ";;"`},
		{"quote delimiter", func(c *config.Config) { c.CSVDelimiter = `"` }, `CSVDelimiter must be a single non-quote character, got "\""`},
		{"negative width", func(c *config.Config) { c.DefaultColumnWidth = -5 }, "DefaultColumnWidth must be at least 1, got -5"},
		{"zero batch size", func(c *config.Config) { c.ParquetBatchSize = 0 }, "ParquetBatchSize must be at least 1, got 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectedError == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, "Config operation failed: "+tt.expectedError)
			}
		})
	}
}

func TestConfig_Validation_ReportsEveryField(t *testing.T) {
	cfg := config.NewConfig()
	cfg.TypeSampleSize = 0
	cfg.HierarchyColumnWidth = 0
	cfg.LogLevel = "trace"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TypeSampleSize must be at least 1, got 0")
	assert.Contains(t, err.Error(), "HierarchyColumnWidth must be at least 1, got 0")
	assert.Contains(t, err.Error(), "invalid value for parameter 'LogLevel'")
}

func TestConfig_Validation_EnumeratedOptions(t *testing.T) {
	cfg := config.NewConfig()
	cfg.ParquetCompression = "brotli"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ParquetCompression")
	assert.Contains(t, err.Error(), "Valid options: snappy, gzip, zstd, lz4, none")

	cfg = config.NewConfig()
	cfg.LogLevel = "trace"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")

	cfg.LogLevel = "WARN"
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromJSON(t *testing.T) {
	jsonData := `{
		"total_label": "Grand total",
		"type_sample_size": 250,
		"csv_delimiter": ";",
		"metrics_collection": true
	}`

	cfg, err := config.LoadFromJSON([]byte(jsonData))
	require.NoError(t, err)

	assert.Equal(t, "Grand total", cfg.TotalLabel)
	assert.Equal(t, 250, cfg.TypeSampleSize)
	assert.Equal(t, ';', cfg.Delimiter())
	assert.True(t, cfg.MetricsCollection)
	assert.Equal(t, "|", cfg.SplitSeparator, "unset fields get defaults")
}

func TestConfig_InvalidJSON(t *testing.T) {
	_, err := config.LoadFromJSON([]byte(`{"total_label": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing JSON configuration")
}

func TestConfig_LoadFromFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "pivot.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"default_column_width": 180, "verbose_logging": true}`), 0o600))

	cfg, err := config.LoadFromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 180, cfg.DefaultColumnWidth)
	assert.True(t, cfg.VerboseLogging)

	yamlPath := filepath.Join(dir, "pivot.yaml")
	yamlData := "split_separator: \" / \"\nparquet_compression: zstd\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlData), 0o600))

	cfg, err = config.LoadFromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, " / ", cfg.SplitSeparator)
	assert.Equal(t, "zstd", cfg.ParquetCompression)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 100, cfg.TypeSampleSize)
}

func TestConfig_LoadFromYAML(t *testing.T) {
	cfg, err := config.LoadFromYAML([]byte("auto_metric_limit: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.AutoMetricLimit)

	_, err = config.LoadFromYAML([]byte("auto_metric_limit: [\n"))
	assert.Error(t, err)
}

func TestConfig_UnsupportedFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pivot.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))

	_, err := config.LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file format: .toml")
}

func TestConfig_LoadFromNonExistentFile(t *testing.T) {
	_, err := config.LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("PIVOT_TOTAL_LABEL", "All")
	t.Setenv("PIVOT_TYPE_SAMPLE_SIZE", "50")
	t.Setenv("PIVOT_PARQUET_COMPRESSION", "GZIP")
	t.Setenv("PIVOT_METRICS_COLLECTION", "true")
	t.Setenv("PIVOT_DEFAULT_COLUMN_WIDTH", "not-a-number")

	cfg := config.LoadFromEnv()

	assert.Equal(t, "All", cfg.TotalLabel)
	assert.Equal(t, 50, cfg.TypeSampleSize)
	assert.Equal(t, "gzip", cfg.ParquetCompression)
	assert.True(t, cfg.MetricsCollection)
	assert.Equal(t, 200, cfg.DefaultColumnWidth, "unparseable values are ignored")
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := config.Config{TotalLabel: "Sum"}.WithDefaults()

	assert.Equal(t, "Sum", cfg.TotalLabel)
	assert.Equal(t, "|", cfg.SplitSeparator)
	assert.Equal(t, 350, cfg.HierarchyColumnWidth)
	assert.False(t, cfg.VerboseLogging)
	require.NoError(t, cfg.Validate())
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level    string
		verbose  bool
		expected slog.Level
	}{
		{"debug", false, slog.LevelDebug},
		{"info", false, slog.LevelInfo},
		{"warn", false, slog.LevelWarn},
		{"error", false, slog.LevelError},
		{"", false, slog.LevelInfo},
		{"error", true, slog.LevelDebug},
	}
	for _, tt := range tests {
		cfg := config.Config{LogLevel: tt.level, VerboseLogging: tt.verbose}
		assert.Equal(t, tt.expected, cfg.SlogLevel(), "level=%q verbose=%v", tt.level, tt.verbose)
	}
}

func TestConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewConfig()
	logger := cfg.NewLogger(&buf)

	logger.Debug("hidden")
	logger.Info("shown", "rows", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "rows=3")
}

func TestGlobalConfig_SetAndGet(t *testing.T) {
	original := config.GetGlobalConfig()
	defer config.SetGlobalConfig(original)

	updated := config.NewConfig()
	updated.TotalLabel = "Everything"
	config.SetGlobalConfig(updated)

	assert.Equal(t, "Everything", config.GetGlobalConfig().TotalLabel)
}

func TestConfig_ToJSON(t *testing.T) {
	data, err := json.Marshal(config.NewConfig())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Total", decoded["total_label"])
	assert.InDelta(t, 100, decoded["type_sample_size"], 0)
}
