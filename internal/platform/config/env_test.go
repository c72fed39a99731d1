package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port int `env:"INCUMBENT_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("INCUMBENT_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseProcess_Defaults(t *testing.T) {
	p, err := ParseProcess()
	if err != nil {
		t.Fatalf("parse process: %v", err)
	}
	if p.Store != StoreMemory {
		t.Fatalf("expected memory store, got %q", p.Store)
	}
	if p.TickInterval != time.Second {
		t.Fatalf("expected 1s interval, got %s", p.TickInterval)
	}
	if p.HTTPAddr != ":8080" {
		t.Fatalf("expected :8080, got %q", p.HTTPAddr)
	}
}

func TestParseProcess_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("INCUMBENT_STORE", "Postgres")
	t.Setenv("INCUMBENT_DB_DSN", "")

	if _, err := ParseProcess(); err == nil || !strings.Contains(err.Error(), "INCUMBENT_DB_DSN") {
		t.Fatalf("expected missing dsn error, got %v", err)
	}

	t.Setenv("INCUMBENT_DB_DSN", "postgres://localhost/incumbent")
	p, err := ParseProcess()
	if err != nil {
		t.Fatalf("parse process: %v", err)
	}
	if p.Store != StorePostgres {
		t.Fatalf("expected postgres store, got %q", p.Store)
	}
}

func TestParseProcess_RejectsUnknownStoreAndBadInterval(t *testing.T) {
	t.Setenv("INCUMBENT_STORE", "redis")
	if _, err := ParseProcess(); err == nil {
		t.Fatal("expected unknown store error")
	}

	t.Setenv("INCUMBENT_STORE", "sqlite")
	t.Setenv("INCUMBENT_TICK_INTERVAL", "0s")
	if _, err := ParseProcess(); err == nil {
		t.Fatal("expected interval error")
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := (Process{LogLevel: in}).SlogLevel(); got != want {
			t.Fatalf("level %q: expected %s, got %s", in, want, got)
		}
	}
}
