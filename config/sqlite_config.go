package config

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

const sqliteDriverName = "sqlite3"

// OpenSQLite opens the SQLite database file at path (created if missing) and checks that it is usable.
//
// SQLite allows only one writer at a time, so the pool is limited to one connection;
// concurrent operations queue up in the pool instead of failing with "database is locked".
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, SQLiteDSN(path))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}

// OpenSQLiteX is OpenSQLite wrapped into a *sqlx.DB.
func OpenSQLiteX(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	return sqlx.NewDb(db, sqliteDriverName), nil
}
