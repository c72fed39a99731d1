package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type StoreKind string

const (
	StoreMemory   StoreKind = "memory"
	StorePostgres StoreKind = "postgres"
	StoreSQLite   StoreKind = "sqlite"
)

// Process holds the settings of the server process. Game tuning lives in
// the YAML file named by GameConfigPath.
type Process struct {
	HTTPAddr       string        `env:"INCUMBENT_HTTP_ADDR" envDefault:":8080"`
	WSAddr         string        `env:"INCUMBENT_WS_ADDR" envDefault:":8081"`
	Store          StoreKind     `env:"INCUMBENT_STORE" envDefault:"memory"`
	DSN            string        `env:"INCUMBENT_DB_DSN"`
	SQLitePath     string        `env:"INCUMBENT_SQLITE_PATH" envDefault:"data/incumbent.db"`
	MigrationsDir  string        `env:"INCUMBENT_MIGRATIONS_DIR" envDefault:"db/migrations"`
	TickInterval   time.Duration `env:"INCUMBENT_TICK_INTERVAL" envDefault:"1s"`
	Seed           uint64        `env:"INCUMBENT_SEED"`
	GameConfigPath string        `env:"INCUMBENT_GAME_CONFIG"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	ServiceName    string        `env:"INCUMBENT_SERVICE_NAME" envDefault:"incumbent"`
	CORSOrigins    []string      `env:"INCUMBENT_CORS_ORIGINS" envSeparator:","`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseProcess reads and validates the process settings.
func ParseProcess() (Process, error) {
	var p Process
	if err := ParseEnv(&p); err != nil {
		return Process{}, err
	}
	p.Store = StoreKind(strings.ToLower(strings.TrimSpace(string(p.Store))))
	switch p.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if strings.TrimSpace(p.DSN) == "" {
			return Process{}, fmt.Errorf("INCUMBENT_DB_DSN is required for store %q", p.Store)
		}
	default:
		return Process{}, fmt.Errorf("unknown store %q", p.Store)
	}
	if p.TickInterval <= 0 {
		return Process{}, fmt.Errorf("tick interval must be positive, got %s", p.TickInterval)
	}
	return p, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (p Process) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(p.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
