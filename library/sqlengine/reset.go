package sqlengine

import (
	"context"

	"github.com/AntonStoeckl/library-management-go/library"
	"github.com/AntonStoeckl/library-management-go/library/sqlengine/internal/adapters"
)

const (
	operationResetDatabase = "reset_database"

	msgDatabaseReset = "The database is reset successfully!"
)

// ResetDatabase drops and recreates the borrow, book and card tables in one transaction,
// using the DDL of the configured SchemaInitializer.
func (s LibraryService) ResetDatabase(ctx context.Context) library.Result {
	return s.inTransaction(ctx, operationResetDatabase, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		for _, statement := range resetStatements(s.schema) {
			if _, err := s.execSQL(ctx, tx, operationResetDatabase, statement); err != nil {
				return operationOutcome{}, err
			}
		}

		return completed(msgDatabaseReset), nil
	})
}
