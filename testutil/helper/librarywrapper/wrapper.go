// Package librarywrapper creates a LibraryService on the store selected by the ADAPTER_TYPE environment variable.
//
// Without ADAPTER_TYPE the tests run on a fresh SQLite file per test, so they need no running database.
// The Postgres adapter types connect to LIBRARY_POSTGRES_DSN (or the local test database) and reset it.
package librarywrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-management-go/config"
	"github.com/AntonStoeckl/library-management-go/library/sqlengine"
)

// EnvAdapterType selects the store and adapter the tests run against.
const EnvAdapterType = "ADAPTER_TYPE"

// Adapter type constants
const (
	typeSQLite     = "sqlite"
	typeSQLiteSQLX = "sqlite.sqlx"
	typePGXPool    = "pgx.pool"
	typeSQLDB      = "sql.db"
	typeSQLXDB     = "sqlx.db"
)

// Wrapper abstracts over the different adapter types.
type Wrapper interface {
	GetLibraryService() sqlengine.LibraryService
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool    *pgxpool.Pool
	service sqlengine.LibraryService
}

func (w *PGXPoolWrapper) GetLibraryService() sqlengine.LibraryService {
	return w.service
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing, on Postgres or SQLite.
type SQLDBWrapper struct {
	db      *sql.DB
	service sqlengine.LibraryService
}

func (w *SQLDBWrapper) GetLibraryService() sqlengine.LibraryService {
	return w.service
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing, on Postgres or SQLite.
type SQLXWrapper struct {
	db      *sqlx.DB
	service sqlengine.LibraryService
}

func (w *SQLXWrapper) GetLibraryService() sqlengine.LibraryService {
	return w.service
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// AdapterType returns the lower-cased ADAPTER_TYPE, with SQLite as the default.
func AdapterType() string {
	adapterType := strings.ToLower(strings.TrimSpace(os.Getenv(EnvAdapterType)))
	if adapterType == "" {
		return typeSQLite
	}

	return adapterType
}

// UsesPostgres reports whether the tests run against Postgres.
func UsesPostgres() bool {
	switch AdapterType() {
	case typePGXPool, typeSQLDB, typeSQLXDB:
		return true
	default:
		return false
	}
}

// CreateWrapperWithTestConfig creates the wrapper selected by ADAPTER_TYPE, with a freshly reset database.
// The wrapper is closed when the test finishes.
func CreateWrapperWithTestConfig(t testing.TB, options ...sqlengine.Option) Wrapper {
	t.Helper()

	ctx := context.Background()
	wrapper := createWrapper(t, ctx, options...)
	t.Cleanup(wrapper.Close)

	result := wrapper.GetLibraryService().ResetDatabase(ctx)
	require.True(t, result.Ok, "error resetting the database in test setup: %s", result.Message)

	return wrapper
}

func createWrapper(t testing.TB, ctx context.Context, options ...sqlengine.Option) Wrapper {
	switch adapterType := AdapterType(); adapterType {
	case typeSQLite:
		db, err := config.OpenSQLite(ctx, sqliteTestFile(t))
		require.NoError(t, err, "error opening the sqlite database in test setup")

		service, err := sqlengine.NewLibraryServiceFromSQLDB(db, withSQLiteDialect(options)...)
		require.NoError(t, err, "error creating the library service in test setup")

		return &SQLDBWrapper{db: db, service: service}

	case typeSQLiteSQLX:
		db, err := config.OpenSQLiteX(ctx, sqliteTestFile(t))
		require.NoError(t, err, "error opening the sqlite database in test setup")

		service, err := sqlengine.NewLibraryServiceFromSQLX(db, withSQLiteDialect(options)...)
		require.NoError(t, err, "error creating the library service in test setup")

		return &SQLXWrapper{db: db, service: service}

	case typePGXPool:
		pool, err := config.OpenPostgresPGXPool(ctx, config.PostgresDSN())
		require.NoError(t, err, "error connecting to DB pool in test setup")

		service, err := sqlengine.NewLibraryServiceFromPGXPool(pool, options...)
		require.NoError(t, err, "error creating the library service in test setup")

		return &PGXPoolWrapper{pool: pool, service: service}

	case typeSQLDB:
		db, err := config.OpenPostgresSQLDB(ctx, config.PostgresDSN())
		require.NoError(t, err, "error connecting to DB in test setup")

		service, err := sqlengine.NewLibraryServiceFromSQLDB(db, options...)
		require.NoError(t, err, "error creating the library service in test setup")

		return &SQLDBWrapper{db: db, service: service}

	case typeSQLXDB:
		db, err := config.OpenPostgresSQLX(ctx, config.PostgresDSN())
		require.NoError(t, err, "error connecting to DB in test setup")

		service, err := sqlengine.NewLibraryServiceFromSQLX(db, options...)
		require.NoError(t, err, "error creating the library service in test setup")

		return &SQLXWrapper{db: db, service: service}

	default: // none of the known types
		panic(fmt.Sprintf("unsupported adapter type from env: %s", adapterType))
	}
}

func sqliteTestFile(t testing.TB) string {
	return filepath.Join(t.TempDir(), "library.db")
}

func withSQLiteDialect(options []sqlengine.Option) []sqlengine.Option {
	return append([]sqlengine.Option{sqlengine.WithDialect(sqlengine.DialectSQLite)}, options...)
}
