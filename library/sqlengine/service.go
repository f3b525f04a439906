package sqlengine

import (
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-management-go/library"
	"github.com/AntonStoeckl/library-management-go/library/sqlengine/internal/adapters"
)

// Dialect selects the SQL flavor the statements are built for.
type Dialect string

const (
	// DialectPostgres builds statements with $n placeholders, RETURNING and FOR UPDATE.
	DialectPostgres Dialect = "postgres"

	// DialectSQLite builds statements with ? placeholders; generated ids are read with LastInsertId
	// and row locks are elided because SQLite serializes writers.
	DialectSQLite Dialect = "sqlite3"
)

func (d Dialect) valid() bool {
	return d == DialectPostgres || d == DialectSQLite
}

func (d Dialect) supportsReturning() bool {
	return d == DialectPostgres
}

// LibraryService runs the library operations against a relational store.
//
// Every operation runs in exactly one transaction, which is committed on success and rolled back on any failure.
// The service holds no mutable state and is safe for concurrent use.
type LibraryService struct {
	db               adapters.DBAdapter
	dialect          Dialect
	builder          goqu.DialectWrapper
	schema           SchemaInitializer
	logger           library.Logger
	contextualLogger library.ContextualLogger
	metricsCollector library.MetricsCollector
	tracingCollector library.TracingCollector
}

// NewLibraryServiceFromPGXPool creates a new LibraryService using a pgx Pool with optional configuration.
// pgx only talks to PostgreSQL, so any other dialect is rejected with library.ErrUnsupportedDialect.
func NewLibraryServiceFromPGXPool(db *pgxpool.Pool, options ...Option) (LibraryService, error) {
	if db == nil {
		return LibraryService{}, library.ErrNilDatabaseConnection
	}

	service, err := newLibraryService(adapters.NewPGXAdapter(db), options...)
	if err != nil {
		return LibraryService{}, err
	}

	if service.dialect != DialectPostgres {
		return LibraryService{}, library.ErrUnsupportedDialect
	}

	return service, nil
}

// NewLibraryServiceFromSQLDB creates a new LibraryService using a sql.DB with optional configuration.
// The dialect defaults to DialectPostgres, use WithDialect(DialectSQLite) for a sqlite3 database.
func NewLibraryServiceFromSQLDB(db *sql.DB, options ...Option) (LibraryService, error) {
	if db == nil {
		return LibraryService{}, library.ErrNilDatabaseConnection
	}

	return newLibraryService(adapters.NewSQLAdapter(db), options...)
}

// NewLibraryServiceFromSQLX creates a new LibraryService using a sqlx.DB with optional configuration.
// The dialect defaults to DialectPostgres, use WithDialect(DialectSQLite) for a sqlite3 database.
func NewLibraryServiceFromSQLX(db *sqlx.DB, options ...Option) (LibraryService, error) {
	if db == nil {
		return LibraryService{}, library.ErrNilDatabaseConnection
	}

	return newLibraryService(adapters.NewSQLXAdapter(db), options...)
}

func newLibraryService(db adapters.DBAdapter, options ...Option) (LibraryService, error) {
	service := LibraryService{
		db:      db,
		dialect: DialectPostgres,
	}

	for _, option := range options {
		if err := option(&service); err != nil {
			return LibraryService{}, err
		}
	}

	service.builder = goqu.Dialect(string(service.dialect))

	if service.schema == nil {
		service.schema = schemaFor(service.dialect)
	}

	return service, nil
}

// Dialect returns the SQL dialect the service builds its statements for.
func (s LibraryService) Dialect() Dialect {
	return s.dialect
}
