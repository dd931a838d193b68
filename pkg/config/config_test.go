package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evanokeefe39/vibe-code-ig-scraper-saas/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero sample size", func(c *Config) { c.Inference.SampleSize = 0 }, "sample_size"},
		{"negative sample size", func(c *Config) { c.Inference.SampleSize = -3 }, "sample_size"},
		{"zero threshold", func(c *Config) { c.Inference.Threshold = 0 }, "threshold"},
		{"threshold above one", func(c *Config) { c.Inference.Threshold = 1.01 }, "threshold"},
		{"bad locale", func(c *Config) { c.Format.Locale = "not a locale!" }, "format.locale"},
		{"bad timezone", func(c *Config) { c.Format.Timezone = "Mars/Olympus" }, "format.timezone"},
		{"bad export format", func(c *Config) { c.Export.Format = "xlsx" }, "export.format"},
		{"bad compression", func(c *Config) { c.Export.Compression = "brotli" }, "export.compression"},
		{"bad level", func(c *Config) { c.Export.CompressionLevel = 12 }, "compression_level"},
		{"no workers", func(c *Config) { c.Performance.Workers = 0 }, "workers"},
		{"no batch", func(c *Config) { c.Performance.BatchSize = 0 }, "batch_size"},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, "logging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestThresholdOfOneIsAllowed(t *testing.T) {
	cfg := Default()
	cfg.Inference.Threshold = 1
	assert.NoError(t, cfg.Validate())
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("TABLEGRID_TEST_TZ", "Europe/London")

	path := filepath.Join(t.TempDir(), "tablegrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
format:
  timezone: ${TABLEGRID_TEST_TZ}
export:
  format: jsonl
  compression: gzip
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", cfg.Format.Timezone)
	assert.Equal(t, "jsonl", cfg.Export.Format)
	assert.Equal(t, "gzip", cfg.Export.Compression)
	assert.Equal(t, 10, cfg.Inference.SampleSize)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", loc.String())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}

func TestLoadInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inference:\n  threshold: 2\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Inference.SampleSize = 42
	cfg.Export.Pretty = true

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("TG_A", "alpha")
	assert.Equal(t, "x alpha y  z", substituteEnvVars("x ${TG_A} y ${TG_UNSET_VAR} z"))
	assert.Equal(t, "open ${brace", substituteEnvVars("open ${brace"))
}
