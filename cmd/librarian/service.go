package main

import (
	"context"

	"github.com/AntonStoeckl/library-management-go/config"
	"github.com/AntonStoeckl/library-management-go/library/sqlengine"
)

// openService connects to the database described by settings and creates the library service on it.
// The returned func closes the connection pool.
func openService(ctx context.Context, settings config.Settings, options ...sqlengine.Option) (sqlengine.LibraryService, func() error, error) {
	if settings.Backend == config.BackendSQLite {
		options = append([]sqlengine.Option{sqlengine.WithDialect(sqlengine.DialectSQLite)}, options...)

		if settings.Adapter == config.AdapterSQLX {
			db, err := config.OpenSQLiteX(ctx, settings.SQLitePath)
			if err != nil {
				return sqlengine.LibraryService{}, nil, err
			}

			return serviceOrClose(sqlengine.NewLibraryServiceFromSQLX(db, options...))(db.Close)
		}

		db, err := config.OpenSQLite(ctx, settings.SQLitePath)
		if err != nil {
			return sqlengine.LibraryService{}, nil, err
		}

		return serviceOrClose(sqlengine.NewLibraryServiceFromSQLDB(db, options...))(db.Close)
	}

	switch settings.Adapter {
	case config.AdapterPGXPool:
		pool, err := config.OpenPostgresPGXPool(ctx, settings.PostgresDSN)
		if err != nil {
			return sqlengine.LibraryService{}, nil, err
		}

		return serviceOrClose(sqlengine.NewLibraryServiceFromPGXPool(pool, options...))(func() error {
			pool.Close()
			return nil
		})

	case config.AdapterSQLX:
		db, err := config.OpenPostgresSQLX(ctx, settings.PostgresDSN)
		if err != nil {
			return sqlengine.LibraryService{}, nil, err
		}

		return serviceOrClose(sqlengine.NewLibraryServiceFromSQLX(db, options...))(db.Close)

	default:
		db, err := config.OpenPostgresSQLDB(ctx, settings.PostgresDSN)
		if err != nil {
			return sqlengine.LibraryService{}, nil, err
		}

		return serviceOrClose(sqlengine.NewLibraryServiceFromSQLDB(db, options...))(db.Close)
	}
}

// serviceOrClose closes the connection again when the service could not be created.
func serviceOrClose(
	service sqlengine.LibraryService,
	err error,
) func(closeDB func() error) (sqlengine.LibraryService, func() error, error) {

	return func(closeDB func() error) (sqlengine.LibraryService, func() error, error) {
		if err != nil {
			_ = closeDB()
			return sqlengine.LibraryService{}, nil, err
		}

		return service, closeDB, nil
	}
}
