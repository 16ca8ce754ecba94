// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Format   FormatConfig
	Storage  StorageConfig
	Transfer TransferConfig
	Database DatabaseConfig
	Server   ServerConfig
	Logging  LoggingConfig
}

// FormatConfig holds table reformatting settings.
type FormatConfig struct {
	// TrueToken is the cell text coerced to true (default: 네)
	TrueToken string `env:"FORMAT_TRUE_TOKEN" default:"네"`

	// FalseToken is the cell text coerced to false (default: 아니오)
	FalseToken string `env:"FORMAT_FALSE_TOKEN" default:"아니오"`

	// OutputDir is where formatted files are written; empty means next to the input
	OutputDir string `env:"FORMAT_OUTPUT_DIR"`
}

// StorageConfig holds object storage settings for link migration.
type StorageConfig struct {
	// URL is the storage project URL, e.g. https://xyz.supabase.co
	// Supports both STORAGE_URL and SUPABASE_URL env vars for compatibility
	URL string `env:"STORAGE_URL" envAlt:"SUPABASE_URL"`

	// Key is the service key sent as bearer token and apikey header
	Key string `env:"STORAGE_KEY" envAlt:"SUPABASE_KEY"`

	// Timeout is the per-request timeout (default: 60s)
	Timeout time.Duration `env:"STORAGE_TIMEOUT" default:"60s"`

	// RetryCount is how often a failed request is retried (default: 3)
	RetryCount int `env:"STORAGE_RETRY_COUNT" default:"3"`

	// RetryWait is the initial wait between retries (default: 500ms)
	RetryWait time.Duration `env:"STORAGE_RETRY_WAIT" default:"500ms"`

	// DefaultBucket receives files no route matches (default: other)
	DefaultBucket string `env:"STORAGE_DEFAULT_BUCKET" default:"other"`

	// RewriteBaseURL replaces the bubble host in the rewrite command
	RewriteBaseURL string `env:"STORAGE_REWRITE_BASE_URL" default:"https://plpl-file-from-bubble.s3.ap-northeast-2.amazonaws.com"`
}

// TransferConfig holds download and upload concurrency settings.
type TransferConfig struct {
	// Workers is the number of links processed at once (default: 8)
	Workers int `env:"TRANSFER_WORKERS" default:"8"`

	// MaxConcurrent is the maximum number of files in flight (default: 4).
	// Workers that only consult the ledger or skip existing files need no slot.
	MaxConcurrent int `env:"TRANSFER_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long to wait for a transfer slot (default: 2m)
	MaxWait time.Duration `env:"TRANSFER_MAX_WAIT" default:"2m"`

	// Timeout bounds a whole download or migrate run (default: 1h)
	Timeout time.Duration `env:"TRANSFER_TIMEOUT" default:"1h"`

	// DownloadDir is the default target of the download command (default: downloads)
	DownloadDir string `env:"TRANSFER_DOWNLOAD_DIR" default:"downloads"`
}

// DatabaseConfig holds settings for the optional migration ledger.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string; empty disables the ledger
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxUploadSize is the largest accepted request body in bytes (default: 100MB)
	MaxUploadSize int64 `env:"SERVER_MAX_UPLOAD_SIZE" default:"104857600"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// LedgerEnabled reports whether a database is configured for the ledger.
func (c *DatabaseConfig) LedgerEnabled() bool {
	return c.URL != ""
}
