// Package config loads the dashboard configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file
//	3. Default values declared in struct tags (lowest priority)
//
// # Environment Variables
//
// All environment variables use the NBA_ prefix followed by the section:
//
//	NBA_SERVER_PORT=8080
//	NBA_DATA_BASE_URL=https://static.example.com/data
//	NBA_DATA_FETCH_TIMEOUT=20s
//	NBA_LOGGING_LEVEL=debug
//
// NBA_CONFIG_FILE points at an explicit YAML file; otherwise config.yaml and
// configs/config.yaml are tried.
//
// # Data Source
//
// Data.BaseURL selects where CSV snapshots are read from. An http or https
// URL fetches over the network, anything else is treated as a directory.
// FetchTimeout of zero means fetches are bounded only by the caller's context.
//
// # Testing
//
// Use Default() to get a configuration that needs no environment.
package config
