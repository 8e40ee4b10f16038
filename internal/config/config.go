// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	API       APIConfig
	Upload    UploadConfig
	Table     TableConfig
	DevServer DevServerConfig
	Logging   LoggingConfig
}

// APIConfig holds settings for the backend REST API.
type APIConfig struct {
	// BaseURL is the root of the backend API (default: local dev server)
	// Supports both API_BASE_URL and BACKEND_URL env vars for compatibility
	BaseURL string `env:"API_BASE_URL" envAlt:"BACKEND_URL" default:"http://127.0.0.1:8080"`

	// Token is the bearer credential sent on every request
	Token string `env:"API_TOKEN"`

	// TokenFile is a file to read the credential from when API_TOKEN is unset
	TokenFile string `env:"API_TOKEN_FILE"`

	// Timeout is the per-request HTTP timeout (default: 30s)
	Timeout time.Duration `env:"API_TIMEOUT" default:"30s"`
}

// UploadConfig holds bulk sheet upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed spreadsheet size in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`
}

// TableConfig holds table view defaults.
type TableConfig struct {
	// PageSize is the initial rows-per-page selection (default: 5)
	PageSize int `env:"TABLE_PAGE_SIZE" default:"5"`
}

// DevServerConfig holds settings for the bundled in-memory dev server.
type DevServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"DEVSERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"DEVSERVER_PORT" default:"8080"`

	// Token is the credential the dev server accepts (default: dev-token)
	Token string `env:"DEVSERVER_TOKEN" default:"dev-token"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"DEVSERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"DEVSERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"DEVSERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"DEVSERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the dev server listen address in host:port format. An
// empty host binds all interfaces.
func (c *DevServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// ResolveToken returns the API credential, reading TokenFile when Token
// itself is unset.
func (c *APIConfig) ResolveToken() (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}
	if c.TokenFile == "" {
		return "", nil
	}
	raw, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
