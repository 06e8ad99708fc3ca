package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipeline-builder/domain/core/aggregates"
	"pipeline-builder/infrastructure/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_ADDRESS", "")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.ServerAddress)
	assert.Equal(t, "http://localhost:8000/pipelines/parse", cfg.ValidationEndpoint)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, aggregates.DropDangling, cfg.Policy())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_address: ":9000"
validation_timeout: 3s
dangling_policy: flag
cors_origins:
  - http://a.test
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDRESS", ":9100")
	t.Setenv("CORS_ORIGINS", "http://b.test, http://c.test")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.ServerAddress)
	assert.Equal(t, 3*time.Second, cfg.ValidationTimeout)
	assert.Equal(t, aggregates.FlagDangling, cfg.Policy())
	assert.Equal(t, []string{"http://b.test", "http://c.test"}, cfg.CORSOrigins)
}

func TestLoadConfigMillisecondTimeout(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("VALIDATION_TIMEOUT", "1500")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.ValidationTimeout)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := config.LoadConfig()
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		errMsg string
	}{
		{
			name:   "relative endpoint",
			mutate: func(c *config.Config) { c.ValidationEndpoint = "/pipelines/parse" },
			errMsg: "VALIDATION_ENDPOINT",
		},
		{
			name:   "zero timeout",
			mutate: func(c *config.Config) { c.ValidationTimeout = 0 },
			errMsg: "VALIDATION_TIMEOUT",
		},
		{
			name:   "unknown policy",
			mutate: func(c *config.Config) { c.DanglingPolicy = "keep" },
			errMsg: "DANGLING_POLICY",
		},
		{
			name:   "failure ratio above one",
			mutate: func(c *config.Config) { c.BreakerFailureRatio = 1.5 },
			errMsg: "BREAKER_FAILURE_RATIO",
		},
		{
			name: "production tracing without collector",
			mutate: func(c *config.Config) {
				c.Environment = "production"
				c.EnableTracing = true
			},
			errMsg: "OTEL_EXPORTER_OTLP_ENDPOINT",
		},
	}

	require.NoError(t, config.Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
