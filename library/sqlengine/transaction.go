package sqlengine

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/library-management-go/library"
	"github.com/AntonStoeckl/library-management-go/library/sqlengine/internal/adapters"
)

const (
	logMsgBuildQueryFailed = "failed to build sql statement"
	logMsgDBQueryFailed    = "database query execution failed"
	logMsgDBExecFailed     = "database statement execution failed"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgScanRowFailed    = "failed to scan database row"
	logMsgBeginTxFailed    = "failed to begin transaction"
	logMsgCommitFailed     = "failed to commit transaction"
	logMsgRollbackFailed   = "failed to roll back transaction"
	logMsgRuleViolation    = "business rule violated"
	logMsgOperationFailed  = "library operation failed"
	logMsgSQLExecuted      = "executed sql for: "
	logMsgOperation        = "library operation: "
	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrAction          = "action"
	logAttrOperation       = "operation"
	logAttrErrorType       = "error_type"
	logAttrDurationMS      = "duration_ms"
	logAttrRowCount        = "row_count"
	noRowCount             = -1
)

// operationOutcome is what a successful transaction body hands back to inTransaction.
type operationOutcome struct {
	message  string
	payload  any
	rowCount int
}

func completed(message string) operationOutcome {
	return operationOutcome{message: message, rowCount: noRowCount}
}

func queried(message string, payload any, rowCount int) operationOutcome {
	return operationOutcome{message: message, payload: payload, rowCount: rowCount}
}

// txBody is the body of one library operation, running inside the transaction it is handed.
type txBody func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error)

// inTransaction runs body in one transaction and converts its outcome into a library.Result.
// The transaction is committed only when body succeeds, and rolled back on every other exit path.
func (s LibraryService) inTransaction(ctx context.Context, operation string, body txBody) library.Result {
	tracing, ctx := s.startTracing(ctx, operation)
	metrics := s.startMetrics(ctx, operation)
	start := time.Now()

	outcome, err := s.runTx(ctx, body)
	duration := time.Since(start)

	if err != nil {
		errorType := errorTypeOf(err)
		tracing.finishError(errorType, duration)
		metrics.recordError(errorType, duration)

		if errorType == errorTypeRuleViolation {
			s.logWarn(ctx, logMsgRuleViolation, err, logAttrOperation, operation)
		} else {
			s.logError(ctx, logMsgOperationFailed, err, logAttrOperation, operation, logAttrErrorType, errorType)
		}

		return library.Failed(err)
	}

	tracing.finishSuccess(max(outcome.rowCount, 0), duration)
	metrics.recordSuccess(outcome.rowCount, duration)

	logArgs := []any{logAttrDurationMS, toMilliseconds(duration)}
	if outcome.rowCount != noRowCount {
		logArgs = append(logArgs, logAttrRowCount, outcome.rowCount)
	}
	s.logOperation(ctx, operation, logArgs...)

	return library.Succeeded(outcome.message, outcome.payload)
}

func (s LibraryService) runTx(ctx context.Context, body txBody) (operationOutcome, error) {
	tx, beginErr := s.db.BeginTx(ctx)
	if beginErr != nil {
		s.logError(ctx, logMsgBeginTxFailed, beginErr)
		return operationOutcome{}, errors.Join(library.ErrBeginTxFailed, beginErr)
	}

	// A failed commit releases the transaction in all supported drivers, so only unfinished ones are rolled back.
	finished := false
	defer func() {
		if !finished {
			s.rollback(ctx, tx)
		}
	}()

	outcome, err := body(ctx, tx)
	if err != nil {
		return operationOutcome{}, err
	}

	finished = true
	if commitErr := tx.Commit(ctx); commitErr != nil {
		s.logError(ctx, logMsgCommitFailed, commitErr)
		return operationOutcome{}, errors.Join(library.ErrCommitFailed, commitErr)
	}

	return outcome, nil
}

func (s LibraryService) rollback(ctx context.Context, tx adapters.DBTx) {
	// The caller's context may already be canceled, the rollback must still reach the database.
	if rollbackErr := tx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
		s.logWarn(ctx, logMsgRollbackFailed, rollbackErr)
	}
}

// sqlStatement is implemented by all goqu datasets.
type sqlStatement interface {
	ToSQL() (string, []any, error)
}

// query executes a statement that returns rows. The caller must close the rows with closeRows.
func (s LibraryService) query(ctx context.Context, tx adapters.DBTx, action string, stmt sqlStatement) (adapters.DBRows, error) {
	sqlQuery, args, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrAction, action)
		return nil, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	rows, queryErr := tx.Query(ctx, sqlQuery, args...)
	s.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	if queryErr != nil {
		s.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(library.ErrQueryingFailed, queryErr)
	}

	return rows, nil
}

// exec executes a statement that returns no rows.
func (s LibraryService) exec(ctx context.Context, tx adapters.DBTx, action string, stmt sqlStatement) (adapters.DBResult, error) {
	sqlQuery, args, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		s.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrAction, action)
		return nil, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	return s.execSQL(ctx, tx, action, sqlQuery, args...)
}

func (s LibraryService) execSQL(ctx context.Context, tx adapters.DBTx, action string, sqlQuery string, args ...any) (adapters.DBResult, error) {
	start := time.Now()
	result, execErr := tx.Exec(ctx, sqlQuery, args...)
	s.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	if execErr != nil {
		s.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(library.ErrExecutingFailed, execErr)
	}

	return result, nil
}

// execAffected executes a statement and returns the number of affected rows.
func (s LibraryService) execAffected(ctx context.Context, tx adapters.DBTx, action string, stmt sqlStatement) (int64, error) {
	result, err := s.exec(ctx, tx, action, stmt)
	if err != nil {
		return 0, err
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logError(ctx, logMsgDBExecFailed, rowsAffectedErr, logAttrAction, action)
		return 0, errors.Join(library.ErrExecutingFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// closeRows closes database rows and logs any errors.
func (s LibraryService) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		s.logWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

// scanAll scans every row with scanRow and closes the rows.
func scanAll[T any](ctx context.Context, s LibraryService, rows adapters.DBRows, scanRow func(adapters.DBRows) (T, error)) ([]T, error) {
	defer s.closeRows(ctx, rows)

	items := make([]T, 0)

	for rows.Next() {
		item, scanErr := scanRow(rows)
		if scanErr != nil {
			s.logError(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(library.ErrScanningRowFailed, scanErr)
		}

		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		s.logError(ctx, logMsgDBQueryFailed, rowsErr)
		return nil, errors.Join(library.ErrQueryingFailed, rowsErr)
	}

	return items, nil
}

// queryExists reports whether stmt returns at least one row.
func (s LibraryService) queryExists(ctx context.Context, tx adapters.DBTx, action string, stmt sqlStatement) (bool, error) {
	rows, err := s.query(ctx, tx, action, stmt)
	if err != nil {
		return false, err
	}
	defer s.closeRows(ctx, rows)

	exists := rows.Next()

	if rowsErr := rows.Err(); rowsErr != nil {
		s.logError(ctx, logMsgDBQueryFailed, rowsErr)
		return false, errors.Join(library.ErrQueryingFailed, rowsErr)
	}

	return exists, nil
}

// queryInt64 reads the first column of the first row stmt returns; found is false when there is no row.
func (s LibraryService) queryInt64(ctx context.Context, tx adapters.DBTx, action string, stmt sqlStatement) (value int64, found bool, err error) {
	rows, err := s.query(ctx, tx, action, stmt)
	if err != nil {
		return 0, false, err
	}

	values, err := scanAll(ctx, s, rows, func(row adapters.DBRows) (int64, error) {
		var v int64
		scanErr := row.Scan(&v)

		return v, scanErr
	})
	if err != nil {
		return 0, false, err
	}

	if len(values) == 0 {
		return 0, false, nil
	}

	return values[0], true, nil
}
