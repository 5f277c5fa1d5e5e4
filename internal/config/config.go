package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	applog "finance-dashboard/internal/log"
	"github.com/joho/godotenv"
)

const (
	EnvDBPath   = "FINANCE_DASHBOARD_DB_PATH"
	EnvLogLevel = "FINANCE_DASHBOARD_LOG_LEVEL"
	EnvTimezone = "FINANCE_DASHBOARD_TIMEZONE"
	EnvOutput   = "FINANCE_DASHBOARD_OUTPUT"

	DefaultTimezone = "UTC"
	DefaultLogLevel = "warn"
	DefaultOutput   = "human"
)

// Config is the process configuration resolved from the environment. CLI
// flags take precedence over every field.
type Config struct {
	DBPath   string
	LogLevel string
	Timezone string
	Output   string
}

// Load reads an optional .env file from the working directory, then the
// environment. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, falling back to defaults.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		DBPath:   strings.TrimSpace(getenv(EnvDBPath)),
		LogLevel: getenvDefault(getenv, EnvLogLevel, DefaultLogLevel),
		Timezone: getenvDefault(getenv, EnvTimezone, DefaultTimezone),
		Output:   getenvDefault(getenv, EnvOutput, DefaultOutput),
	}

	if cfg.DBPath == "" {
		path, err := DefaultDBPath(getenv)
		if err != nil {
			path = DefaultDBFile
		}
		cfg.DBPath = path
	}

	return cfg
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var problems []error

	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, errors.New("db path is required"))
	}
	if _, ok := applog.ParseLevel(c.LogLevel); !ok {
		problems = append(problems, fmt.Errorf("invalid log level %q: supported values are debug|info|warn|error", c.LogLevel))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
	}

	return errors.Join(problems...)
}

func getenvDefault(getenv func(string) string, key, fallback string) string {
	if value := strings.TrimSpace(getenv(key)); value != "" {
		return value
	}
	return fallback
}
