package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-management-go/config"
	"github.com/AntonStoeckl/library-management-go/library/sqlengine"
)

const (
	flagBackend   = "backend"
	flagAdapter   = "adapter"
	flagDSN       = "dsn"
	flagSQLite    = "sqlite-path"
	flagLogLevel  = "log-level"
	flagTelemetry = "telemetry"
	flagEnvFile   = "env-file"
)

// app holds what the commands share: the flags, the opened service and the output streams.
type app struct {
	stdout io.Writer
	stderr io.Writer

	backend   string
	adapter   string
	dsn       string
	sqlite    string
	logLevel  string
	envFile   string
	telemetry bool

	service  sqlengine.LibraryService
	shutdown func(ctx context.Context) error
}

func (a *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "librarian",
		Short:         "Manage books, library cards and borrows",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
	}

	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.backend, flagBackend, "", "database backend: postgres or sqlite (env "+config.EnvBackend+")")
	flags.StringVar(&a.adapter, flagAdapter, "", "database adapter: pgx.pool, sql.db or sqlx.db (env "+config.EnvAdapter+")")
	flags.StringVar(&a.dsn, flagDSN, "", "postgres connection string (env "+config.EnvPostgresDSN+")")
	flags.StringVar(&a.sqlite, flagSQLite, "", "sqlite database file (env "+config.EnvSQLitePath+")")
	flags.StringVar(&a.logLevel, flagLogLevel, "", "log level: debug, info, warn or error (env "+config.EnvLogLevel+")")
	flags.StringVar(&a.envFile, flagEnvFile, ".env", "file with LIBRARY_* variables, ignored if missing")
	flags.BoolVar(&a.telemetry, flagTelemetry, false, "record traces and metrics and log them on exit")

	root.AddCommand(
		a.newResetCommand(),
		a.newBookCommand(),
		a.newCardCommand(),
		a.newBorrowCommand(),
		a.newReturnCommand(),
		a.newHistoryCommand(),
	)

	return root
}

// settings resolves the connection settings: flags override the environment, which overrides the defaults.
func (a *app) settings(cmd *cobra.Command) (config.Settings, error) {
	if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Settings{}, err
	}

	settings, err := config.FromEnv()
	if err != nil {
		return config.Settings{}, err
	}

	flags := cmd.Flags()

	if flags.Changed(flagBackend) {
		settings.Backend = config.Backend(a.backend)
	}

	if flags.Changed(flagAdapter) {
		settings.Adapter = config.Adapter(a.adapter)
	}

	if flags.Changed(flagDSN) {
		settings.PostgresDSN = a.dsn
	}

	if flags.Changed(flagSQLite) {
		settings.SQLitePath = a.sqlite
	}

	if flags.Changed(flagLogLevel) {
		if settings.LogLevel, err = config.ParseLogLevel(a.logLevel); err != nil {
			return config.Settings{}, err
		}
	}

	return settings, settings.Validate()
}

// open connects the service before any subcommand runs.
func (a *app) open(cmd *cobra.Command) error {
	ctx := cmd.Context()

	settings, err := a.settings(cmd)
	if err != nil {
		return err
	}

	handler := slog.NewJSONHandler(a.stderr, &slog.HandlerOptions{Level: settings.LogLevel})

	var tel *telemetry
	options := []sqlengine.Option{sqlengine.WithLogger(slog.New(handler))}

	if a.telemetry {
		tel = newTelemetry(handler)
		options = tel.options()
	}

	service, closeDB, err := openService(ctx, settings, options...)
	if err != nil {
		if tel != nil {
			_ = tel.shutdown(ctx)
		}

		return err
	}

	a.service = service
	a.shutdown = func(ctx context.Context) error {
		var telemetryErr error
		if tel != nil {
			telemetryErr = tel.shutdown(ctx)
		}

		return errors.Join(telemetryErr, closeDB())
	}

	return nil
}

// close releases the database and flushes the telemetry; it is safe to call when nothing was opened.
func (a *app) close(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}

	shutdown := a.shutdown
	a.shutdown = nil

	return shutdown(ctx)
}
