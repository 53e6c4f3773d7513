package common

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"RYNESS_DB", "INGEST_TIMEOUT", "INGEST_WORKERS", "LOG_LEVEL", "RYNESS_PROFILE"} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())

	cfg := LoadConfig()
	if cfg.Database.DSN != DefaultDSN {
		t.Errorf("dsn: got %q, want %q", cfg.Database.DSN, DefaultDSN)
	}
	if cfg.Ingest.Timeout != 180*time.Second {
		t.Errorf("timeout: got %v", cfg.Ingest.Timeout)
	}
	if cfg.Ingest.Workers != 1 {
		t.Errorf("workers: got %d", cfg.Ingest.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RYNESS_DB", "postgres://ryness@localhost/ryness")
	t.Setenv("INGEST_TIMEOUT", "45")
	t.Setenv("INGEST_WORKERS", "4")
	t.Setenv("DB_BUSY_TIMEOUT", "250ms")

	cfg := LoadConfig()
	if !cfg.Database.IsPostgres() {
		t.Error("expected a postgres DSN")
	}
	if cfg.Ingest.Timeout != 45*time.Second {
		t.Errorf("bare integer timeout should be seconds, got %v", cfg.Ingest.Timeout)
	}
	if cfg.Ingest.Workers != 4 {
		t.Errorf("workers: got %d", cfg.Ingest.Workers)
	}
	if cfg.Database.BusyTimeout != 250*time.Millisecond {
		t.Errorf("busy timeout: got %v", cfg.Database.BusyTimeout)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{DSN: "", MaxConns: 2, MinConns: 5},
		Ingest:   IngestConfig{Timeout: -time.Second, Workers: 1, MaxFileSize: 1},
		LogLevel: "loud",
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if Code(err) != CodeConfig {
		t.Errorf("code: got %q", Code(err))
	}
	for _, field := range []string{"RYNESS_DB", "INGEST_TIMEOUT", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected %s in %q", field, err)
		}
	}
}
