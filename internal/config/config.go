// Package config provides centralized configuration management for the application.
// It loads configuration from an optional YAML file and environment variables
// with sensible defaults and validates all settings to fail fast on misconfiguration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultFile is the YAML file Load reads when it exists.
const DefaultFile = "config.yaml"

// Config holds all application configuration.
// Environment variables override values from the YAML file.
// Secrets (DB_PASSWORD) only come from the environment.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Upload   UploadConfig   `yaml:"upload"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0" env-description:"interface to bind to"`
	Port int    `yaml:"port" env:"SERVER_PORT" env-default:"8080" env-description:"port to listen on"`

	// ReadTimeout bounds reading the request, including the uploaded workbook.
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"60s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"0s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL selects the driver by scheme: postgres://, libsql://, duckdb:<path>.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility.
	URL string `yaml:"url" env:"DATABASE_URL,DB_URL" env-description:"target database URL"`

	// User and Password are merged into URL by DSN.
	User     string `yaml:"user" env:"DB_USER" env-description:"database user"`
	Password string `yaml:"-" env:"DB_PASSWORD" env-description:"database password or libsql auth token"`

	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"10s"`
	MaxConns        int           `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"4"`
	MinConns        int           `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"DB_MAX_CONN_LIFETIME" env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// UploadConfig holds workbook upload settings for the HTTP API.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 100MB)
	MaxFileSize int64 `yaml:"max_file_size" env:"UPLOAD_MAX_FILE_SIZE" env-default:"104857600"`

	// Timeout bounds a single import request.
	Timeout time.Duration `yaml:"timeout" env:"UPLOAD_TIMEOUT" env-default:"10m"`

	// MaxConcurrent caps imports running at once; further requests queue.
	MaxConcurrent int `yaml:"max_concurrent" env:"UPLOAD_MAX_CONCURRENT" env-default:"4"`

	// MaxWait is how long a queued import waits for a slot before a 503.
	MaxWait time.Duration `yaml:"max_wait" env:"UPLOAD_MAX_WAIT" env-default:"30s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Load reads path (if it exists) with environment overrides. It does not
// validate, so callers can apply flag overrides first and then call Validate.
// An empty path means DefaultFile. The database URL is not required here
// because commands such as plan never connect; see RequireDatabase.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}

	cfg := &Config{}
	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, cfg)
	} else if errors.Is(statErr, fs.ErrNotExist) {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = statErr
	}
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	return cfg, nil
}

// Describe returns a listing of every environment variable with its default.
func Describe() (string, error) {
	header := "Environment variables:"
	return cleanenv.GetDescription(&Config{}, &header)
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Database validation
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns))
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		errs = append(errs, "DB_MIN_CONNS must be non-negative")
	}
	if c.Database.ConnectTimeout <= 0 {
		errs = append(errs, "DB_CONNECT_TIMEOUT must be positive")
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Upload validation
	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, "UPLOAD_MAX_FILE_SIZE must be positive")
	}
	if c.Upload.Timeout <= 0 {
		errs = append(errs, "UPLOAD_TIMEOUT must be positive")
	}
	if c.Upload.MaxConcurrent < 0 {
		errs = append(errs, "UPLOAD_MAX_CONCURRENT must not be negative")
	}
	if c.Upload.MaxWait < 0 {
		errs = append(errs, "UPLOAD_MAX_WAIT must not be negative")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// RequireDatabase reports a missing database URL. Called by commands that
// connect, after flags have been merged in.
func (c *Config) RequireDatabase() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("DATABASE_URL is required (or pass --db-url)")
	}
	return nil
}

// DSN returns URL with User and Password applied. For postgres URLs they
// become the userinfo; for libsql URLs the password becomes the authToken
// unless one is already present. Credentials already in the URL win.
func (d DatabaseConfig) DSN() (string, error) {
	if d.User == "" && d.Password == "" {
		return d.URL, nil
	}

	u, err := url.Parse(d.URL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		if u.User != nil {
			return d.URL, nil
		}
		if d.Password != "" {
			u.User = url.UserPassword(d.User, d.Password)
		} else {
			u.User = url.User(d.User)
		}
	case "libsql", "http", "https", "ws", "wss":
		q := u.Query()
		if d.Password == "" || q.Get("authToken") != "" {
			return d.URL, nil
		}
		q.Set("authToken", d.Password)
		u.RawQuery = q.Encode()
	default:
		return d.URL, nil
	}
	return u.String(), nil
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs and passwords are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Database: {URL: [MASKED], User: %q, Password: [MASKED], MaxConns: %d, MinConns: %d}, ",
		c.Database.User, c.Database.MaxConns, c.Database.MinConns))
	b.WriteString(fmt.Sprintf("Upload: {MaxFileSize: %d, Timeout: %s, MaxConcurrent: %d}, ",
		c.Upload.MaxFileSize, c.Upload.Timeout, c.Upload.MaxConcurrent))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
