package common

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDSN is the SQLite file used when RYNESS_DB is not set.
const DefaultDSN = "ryness.db"

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Ingest   IngestConfig
	Watch    WatchConfig
	LogLevel string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	// DSN is a SQLite path (or file: URI) or a postgres:// URL.
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
	// BusyTimeout is how long a SQLite writer waits on a locked database.
	BusyTimeout time.Duration
}

// IsPostgres reports whether the DSN points at a Postgres server.
func (d DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(d.DSN, "postgres://") || strings.HasPrefix(d.DSN, "postgresql://")
}

// IngestConfig holds document ingestion settings
type IngestConfig struct {
	Timeout     time.Duration
	Workers     int
	MaxFileSize int64
	ProfilePath string
}

// WatchConfig holds folder watch settings
type WatchConfig struct {
	Debounce time.Duration
}

// LoadConfig loads a .env file when present, then reads configuration from
// environment variables.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Default().Warn("could not load .env file", "error", err)
	}

	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("RYNESS_DB", DefaultDSN),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 4),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			BusyTimeout:     getEnvAsDuration("DB_BUSY_TIMEOUT", 5*time.Second),
		},
		Ingest: IngestConfig{
			Timeout:     getEnvAsDuration("INGEST_TIMEOUT", 180*time.Second),
			Workers:     getEnvAsInt("INGEST_WORKERS", 1),
			MaxFileSize: getEnvAsInt64("INGEST_MAX_FILE_SIZE", 50*1024*1024),
			ProfilePath: getEnv("RYNESS_PROFILE", ""),
		},
		Watch: WatchConfig{
			Debounce: getEnvAsDuration("WATCH_DEBOUNCE", 2*time.Second),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// plain integers are seconds, as in INGEST_TIMEOUT=180
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("RYNESS_DB", c.Database.DSN, Required)
	v.Field("INGEST_TIMEOUT", c.Ingest.Timeout, NonNegative)
	v.Field("INGEST_WORKERS", c.Ingest.Workers, Positive)
	v.Field("INGEST_MAX_FILE_SIZE", c.Ingest.MaxFileSize, Positive)
	v.Field("LOG_LEVEL", c.LogLevel, OneOf("debug", "info", "warn", "error"))
	if c.Database.IsPostgres() {
		v.Field("DB_MAX_CONNS", c.Database.MaxConns, Positive)
		if c.Database.MinConns > c.Database.MaxConns {
			v.Field("DB_MIN_CONNS", c.Database.MinConns, func(field string, value any) *ValidationError {
				return &ValidationError{Field: field, Value: value, Message: "must not exceed DB_MAX_CONNS"}
			})
		}
	}
	if v.HasErrors() {
		return NewAppError(CodeConfig, v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
