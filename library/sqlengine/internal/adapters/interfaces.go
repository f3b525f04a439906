package adapters

import (
	"context"
	"errors"
)

// ErrLastInsertIDNotSupported is returned by DBResult.LastInsertId for drivers without that capability (pgx).
var ErrLastInsertIDNotSupported = errors.New("last insert id is not supported by this driver, use RETURNING")

// DBAdapter defines the interface for opening the transactions all library operations run in.
type DBAdapter interface {
	BeginTx(ctx context.Context) (DBTx, error)
}

// DBTx defines the interface for statements executed inside one transaction.
type DBTx interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}
