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
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	CORS     CORSConfig
	Archive  ArchiveConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8000)
	Port int `envconfig:"SERVER_PORT" default:"8000"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 30s)
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// TrustedProxies lists proxy IPs or CIDRs whose X-Real-IP / X-Forwarded-For
	// headers are believed. Empty means forwarding headers are ignored.
	TrustedProxies []string `envconfig:"SERVER_TRUSTED_PROXIES"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required).
	// DB_URL is accepted as a fallback, see Load.
	URL string `envconfig:"DATABASE_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `envconfig:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `envconfig:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// UploadConfig holds CSV import settings.
type UploadConfig struct {
	// MaxFileSize is the maximum accepted CSV size in bytes (default: 10MB)
	MaxFileSize int64 `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent is the maximum number of imports running at once (default: 4)
	MaxConcurrent int `envconfig:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long an import waits for a free slot (default: 10s)
	MaxWaitTime time.Duration `envconfig:"UPLOAD_MAX_WAIT_TIME" default:"10s"`

	// Timeout bounds a single import including its transactions (default: 2m)
	Timeout time.Duration `envconfig:"UPLOAD_TIMEOUT" default:"2m"`
}

// CORSConfig holds cross-origin settings for the browser frontend.
type CORSConfig struct {
	// AllowedOrigins is a comma-separated list of origins allowed to call the API
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	// AllowCredentials lets the frontend send cookies and auth headers (default: true)
	AllowCredentials bool `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
}

// ArchiveConfig holds settings for copying raw uploads to S3-compatible storage.
type ArchiveConfig struct {
	// Enabled turns the archive on (default: false)
	Enabled bool `envconfig:"ARCHIVE_ENABLED" default:"false"`

	// Endpoint overrides the S3 endpoint, e.g. a MinIO or Supabase storage URL
	Endpoint string `envconfig:"ARCHIVE_S3_ENDPOINT"`

	// Bucket receives the archived files
	Bucket string `envconfig:"ARCHIVE_S3_BUCKET"`

	// Region is the S3 region (default: us-east-1)
	Region string `envconfig:"ARCHIVE_S3_REGION" default:"us-east-1"`

	// AccessKey and SecretKey are static credentials; empty uses the default chain
	AccessKey string `envconfig:"ARCHIVE_S3_ACCESS_KEY"`
	SecretKey string `envconfig:"ARCHIVE_S3_SECRET_KEY"`

	// Prefix is prepended to every object key (default: imports)
	Prefix string `envconfig:"ARCHIVE_S3_PREFIX" default:"imports"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
