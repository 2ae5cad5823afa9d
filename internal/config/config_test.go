package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"NBA_SERVER_PORT", "NBA_SERVER_READ_TIMEOUT", "NBA_SERVER_WRITE_TIMEOUT",
	"NBA_SECURITY_ALLOWED_ORIGINS", "NBA_SECURITY_ENABLE_CORS",
	"NBA_LOGGING_LEVEL", "NBA_LOGGING_FORMAT", "NBA_LOGGING_OUTPUT",
	"NBA_DATA_BASE_URL", "NBA_DATA_FETCH_TIMEOUT", "NBA_DATA_ARCHIVE_PATH",
	"NBA_WINDOW_CHART_DEFAULT", "NBA_WINDOW_CHART_MAX", "NBA_TELEMETRY_SAMPLE_RATE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range testEnvVars {
		if val, ok := os.LookupEnv(name); ok {
			t.Cleanup(func() { os.Setenv(name, val) })
		} else {
			t.Cleanup(func() { os.Unsetenv(name) })
		}
		os.Unsetenv(name)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
				assert.Equal(t, []string{"http://localhost:3000"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, "data", cfg.Data.BaseURL)
				assert.Equal(t, "nba_players_game_logs_2018_25.csv", cfg.Data.GameLogsFile)
				assert.Equal(t, "nba_players_info.csv", cfg.Data.PlayerInfoFile)
				assert.Equal(t, time.Duration(0), cfg.Data.FetchTimeout)
				assert.Equal(t, 10, cfg.Window.ChartDefault)
				assert.Equal(t, 30, cfg.Window.ChartMax)
				assert.Equal(t, 20, cfg.Window.CompareDefault)
				assert.Equal(t, 3, cfg.Window.CompareMin)
			},
		},
		{
			name: "custom environment variables",
			env: map[string]string{
				"NBA_SERVER_PORT":              "9090",
				"NBA_SECURITY_ALLOWED_ORIGINS": "http://a.example,https://b.example",
				"NBA_LOGGING_LEVEL":            "debug",
				"NBA_LOGGING_FORMAT":           "text",
				"NBA_DATA_BASE_URL":            "https://static.example.com/data",
				"NBA_DATA_FETCH_TIMEOUT":       "20s",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, []string{"http://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format, "format is forced to json")
				assert.Equal(t, "https://static.example.com/data", cfg.Data.BaseURL)
				assert.Equal(t, 20*time.Second, cfg.Data.FetchTimeout)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"NBA_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "negative read timeout",
			env:     map[string]string{"NBA_SERVER_READ_TIMEOUT": "-5s"},
			wantErr: true,
		},
		{
			name:    "unsupported base URL scheme",
			env:     map[string]string{"NBA_DATA_BASE_URL": "ftp://example.com/data"},
			wantErr: true,
		},
		{
			name:    "chart default above max",
			env:     map[string]string{"NBA_WINDOW_CHART_DEFAULT": "40"},
			wantErr: true,
		},
		{
			name:    "sample rate out of range",
			env:     map[string]string{"NBA_TELEMETRY_SAMPLE_RATE": "1.5"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			cfg, err := LoadFrom("")
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 7070
logging:
  level: warn
data:
  base_url: https://cdn.example.com/nba
  archive_path: /var/lib/nba/archive.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Run("file values replace defaults", func(t *testing.T) {
		cfg, err := LoadFrom(path)
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, "https://cdn.example.com/nba", cfg.Data.BaseURL)
		assert.Equal(t, "/var/lib/nba/archive.db", cfg.Data.ArchivePath)
		assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		os.Setenv("NBA_SERVER_PORT", "6060")
		cfg, err := LoadFrom(path)
		require.NoError(t, err)
		assert.Equal(t, 6060, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("server: [unterminated"), 0o644))
		_, err := LoadFrom(bad)
		assert.Error(t, err)
	})

	t.Run("missing file falls back to env", func(t *testing.T) {
		os.Unsetenv("NBA_SERVER_PORT")
		cfg, err := LoadFrom(filepath.Join(dir, "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
	})
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, "nba_alltime_%sleaders.csv", cfg.Data.LeadersPattern)
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}
