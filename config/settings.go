package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvBackend     = "LIBRARY_BACKEND"
	EnvAdapter     = "LIBRARY_ADAPTER"
	EnvPostgresDSN = "LIBRARY_POSTGRES_DSN"
	EnvSQLitePath  = "LIBRARY_SQLITE_PATH"
	EnvLogLevel    = "LIBRARY_LOG_LEVEL"
)

// Backend is the relational engine the library data lives in.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

// Adapter is the Go database library the service talks to the backend with.
type Adapter string

const (
	AdapterPGXPool Adapter = "pgx.pool"
	AdapterSQLDB   Adapter = "sql.db"
	AdapterSQLX    Adapter = "sqlx.db"
)

const (
	defaultSQLitePath = "library.db"
	defaultLogLevel   = slog.LevelInfo
)

var (
	ErrUnknownBackend      = errors.New("unknown backend, use one of: postgres, sqlite")
	ErrUnknownAdapter      = errors.New("unknown adapter, use one of: pgx.pool, sql.db, sqlx.db")
	ErrUnsupportedCombo    = errors.New("the pgx.pool adapter only supports the postgres backend")
	ErrUnknownLogLevel     = errors.New("unknown log level, use one of: debug, info, warn, error")
	ErrMissingPostgresDSN  = errors.New("the postgres backend needs a DSN")
	ErrMissingSQLiteSource = errors.New("the sqlite backend needs a database file path")
)

// Settings describe which database the library service connects to and how.
type Settings struct {
	Backend     Backend
	Adapter     Adapter
	PostgresDSN string
	SQLitePath  string
	LogLevel    slog.Level
}

// DefaultSettings returns settings for a local SQLite file accessed via sql.DB.
func DefaultSettings() Settings {
	return Settings{
		Backend:     BackendSQLite,
		Adapter:     AdapterSQLDB,
		PostgresDSN: PostgresDSN(),
		SQLitePath:  defaultSQLitePath,
		LogLevel:    defaultLogLevel,
	}
}

// FromEnv overlays the LIBRARY_* environment variables onto DefaultSettings and validates the result.
func FromEnv() (Settings, error) {
	settings := DefaultSettings()

	if backend := os.Getenv(EnvBackend); backend != "" {
		settings.Backend = Backend(strings.ToLower(backend))
	}

	if adapter := os.Getenv(EnvAdapter); adapter != "" {
		settings.Adapter = Adapter(strings.ToLower(adapter))
	}

	if dsn := os.Getenv(EnvPostgresDSN); dsn != "" {
		settings.PostgresDSN = dsn
	}

	if path := os.Getenv(EnvSQLitePath); path != "" {
		settings.SQLitePath = path
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		parsed, err := ParseLogLevel(level)
		if err != nil {
			return Settings{}, err
		}

		settings.LogLevel = parsed
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

// Validate checks that backend and adapter are known and fit together.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendPostgres:
		if s.PostgresDSN == "" {
			return ErrMissingPostgresDSN
		}
	case BackendSQLite:
		if s.SQLitePath == "" {
			return ErrMissingSQLiteSource
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}

	switch s.Adapter {
	case AdapterPGXPool:
		if s.Backend != BackendPostgres {
			return ErrUnsupportedCombo
		}
	case AdapterSQLDB, AdapterSQLX:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAdapter, s.Adapter)
	}

	return nil
}

// ParseLogLevel maps debug, info, warn and error (case-insensitive) to slog levels.
func ParseLogLevel(level string) (slog.Level, error) {
	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
	}

	return parsed, nil
}
