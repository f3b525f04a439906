package config

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// OpenPostgresSQLX opens a configured *sqlx.DB on the lib/pq driver, with the same pool settings as OpenPostgresSQLDB.
func OpenPostgresSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := OpenPostgresSQLDB(ctx, dsn)
	if err != nil {
		return nil, err
	}

	return sqlx.NewDb(db, postgresDriverName), nil
}
