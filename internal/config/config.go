package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Window    WindowConfig    `yaml:"window" envconfig:"WINDOW"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// DataConfig describes where the static CSV snapshots live.
// BaseURL is either an http(s) URL serving the files or a local directory
// (plain path or file:// URL).
type DataConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"BASE_URL" default:"data"`
	GameLogsFile   string        `yaml:"game_logs_file" envconfig:"GAME_LOGS_FILE" default:"nba_players_game_logs_2018_25.csv"`
	PlayerInfoFile string        `yaml:"player_info_file" envconfig:"PLAYER_INFO_FILE" default:"nba_players_info.csv"`
	LeadersPattern string        `yaml:"leaders_pattern" envconfig:"LEADERS_PATTERN" default:"nba_alltime_%sleaders.csv"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT" default:"0s"`
	ArchivePath    string        `yaml:"archive_path" envconfig:"ARCHIVE_PATH"`
}

// WindowConfig holds the default game counts for the chart and compare views
type WindowConfig struct {
	ChartDefault   int `yaml:"chart_default" envconfig:"CHART_DEFAULT" default:"10"`
	ChartMax       int `yaml:"chart_max" envconfig:"CHART_MAX" default:"30"`
	CompareDefault int `yaml:"compare_default" envconfig:"COMPARE_DEFAULT" default:"20"`
	CompareMin     int `yaml:"compare_min" envconfig:"COMPARE_MIN" default:"3"`
}

// TelemetryConfig toggles OpenTelemetry exporters
type TelemetryConfig struct {
	TracingEnabled bool    `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED" default:"false"`
	MetricsEnabled bool    `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED" default:"true"`
	SampleRate     float64 `yaml:"sample_rate" envconfig:"SAMPLE_RATE" default:"1.0"`
}

// EnvPrefix is the namespace for all environment variables (NBA_SERVER_PORT, ...)
const EnvPrefix = "NBA"

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration using the given YAML file, if it exists.
// Environment variables take precedence over file values.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. A value set explicitly in
// the environment wins; otherwise a non-zero file value replaces the default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	set := func(name string) bool {
		_, ok := os.LookupEnv(EnvPrefix + "_" + name)
		return ok
	}

	if !set("SERVER_PORT") && fileConfig.Server.Port != 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if !set("SERVER_READ_TIMEOUT") && fileConfig.Server.ReadTimeout != 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if !set("SERVER_WRITE_TIMEOUT") && fileConfig.Server.WriteTimeout != 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if !set("SERVER_REQUEST_TIMEOUT") && fileConfig.Server.RequestTimeout != 0 {
		envConfig.Server.RequestTimeout = fileConfig.Server.RequestTimeout
	}
	if !set("SECURITY_ALLOWED_ORIGINS") && len(fileConfig.Security.AllowedOrigins) > 0 {
		envConfig.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	if !set("LOGGING_LEVEL") && fileConfig.Logging.Level != "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if !set("LOGGING_OUTPUT") && fileConfig.Logging.Output != "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if !set("LOGGING_FILE_PATH") && fileConfig.Logging.FilePath != "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if !set("DATA_BASE_URL") && fileConfig.Data.BaseURL != "" {
		envConfig.Data.BaseURL = fileConfig.Data.BaseURL
	}
	if !set("DATA_GAME_LOGS_FILE") && fileConfig.Data.GameLogsFile != "" {
		envConfig.Data.GameLogsFile = fileConfig.Data.GameLogsFile
	}
	if !set("DATA_PLAYER_INFO_FILE") && fileConfig.Data.PlayerInfoFile != "" {
		envConfig.Data.PlayerInfoFile = fileConfig.Data.PlayerInfoFile
	}
	if !set("DATA_FETCH_TIMEOUT") && fileConfig.Data.FetchTimeout != 0 {
		envConfig.Data.FetchTimeout = fileConfig.Data.FetchTimeout
	}
	if !set("DATA_ARCHIVE_PATH") && fileConfig.Data.ArchivePath != "" {
		envConfig.Data.ArchivePath = fileConfig.Data.ArchivePath
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if strings.TrimSpace(c.Data.BaseURL) == "" {
		return fmt.Errorf("data base URL must be set")
	}
	if u, err := url.Parse(c.Data.BaseURL); err != nil {
		return fmt.Errorf("invalid data base URL %q: %w", c.Data.BaseURL, err)
	} else if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "file" {
		return fmt.Errorf("unsupported data base URL scheme: %s", u.Scheme)
	}

	if !strings.Contains(c.Data.LeadersPattern, "%s") {
		return fmt.Errorf("leaders pattern must contain %%s: %q", c.Data.LeadersPattern)
	}

	if c.Data.FetchTimeout < 0 {
		return fmt.Errorf("fetch timeout cannot be negative")
	}

	if c.Window.ChartDefault < 1 || c.Window.ChartMax < c.Window.ChartDefault {
		return fmt.Errorf("invalid chart window: default=%d max=%d", c.Window.ChartDefault, c.Window.ChartMax)
	}
	if c.Window.CompareMin < 1 || c.Window.CompareDefault < c.Window.CompareMin {
		return fmt.Errorf("invalid compare window: default=%d min=%d", c.Window.CompareDefault, c.Window.CompareMin)
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry sample rate must be within [0,1]: %v", c.Telemetry.SampleRate)
	}

	// Logs are always JSON
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Data: DataConfig{
			BaseURL:        "data",
			GameLogsFile:   "nba_players_game_logs_2018_25.csv",
			PlayerInfoFile: "nba_players_info.csv",
			LeadersPattern: "nba_alltime_%sleaders.csv",
		},
		Window: WindowConfig{
			ChartDefault:   10,
			ChartMax:       30,
			CompareDefault: 20,
			CompareMin:     3,
		},
		Telemetry: TelemetryConfig{
			MetricsEnabled: true,
			SampleRate:     1.0,
		},
	}
}
