package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func setRequired(t *testing.T) {
	t.Setenv("PARKING_DATABASE__URL", "postgres://u:p@localhost:5432/parking")
	t.Setenv("PARKING_JWT__SECRET_KEY", "secret")
}

func TestLoad_DefaultsWithRequiredEnv(t *testing.T) {
	setRequired(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/parking", cfg.Database.URL)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.MetricsPort)
	assert.Equal(t, 30*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, "revenue", cfg.Statistics.SlotRanking)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	setRequired(t)
	path := writeFile(t, `
server:
  port: "8000"
  request_timeout: 5s
database:
  max_open_conns: 7
log:
  level: debug
  format: text
cors:
  allowed_origins:
    - https://admin.example.com
statistics:
  slot_ranking: occupancy
  rate_limit: 2.5
`)
	t.Setenv("PARKING_SERVER__PORT", "8001")
	t.Setenv("PARKING_DATABASE__CONNECT_ATTEMPTS", "9")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "8001", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, 9, cfg.Database.ConnectAttempts)
	assert.Equal(t, 2, cfg.Database.MaxIdleConns)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"https://admin.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "occupancy", cfg.Statistics.SlotRanking)
	assert.Equal(t, 2.5, cfg.Statistics.RateLimit)
}

func TestLoad_MissingFile(t *testing.T) {
	setRequired(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}

func TestLoad_MissingRequired(t *testing.T) {
	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url is required")
	assert.Contains(t, err.Error(), "jwt.secret_key is required")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Default()
		cfg.Database.URL = "postgres://localhost/parking"
		cfg.JWT.SecretKey = "secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad ranking", func(c *Config) { c.Statistics.SlotRanking = "popularity" }, "statistics.slot_ranking"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"same ports", func(c *Config) { c.Server.MetricsPort = c.Server.Port }, "metrics_port"},
		{"zero rate", func(c *Config) { c.Statistics.RateLimit = 0 }, "rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.max_open_conns", envKey("PARKING_DATABASE__MAX_OPEN_CONNS"))
	assert.Equal(t, "jwt.secret_key", envKey("PARKING_JWT__SECRET_KEY"))
}
