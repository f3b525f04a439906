package sqlengine

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/library-management-go/library"
	"github.com/AntonStoeckl/library-management-go/library/sqlengine/internal/adapters"
)

// insertReturningID executes insert and returns the id the store generated for idColumn.
// Dialects with RETURNING read it from the statement, the others from the driver's last insert id.
func (s LibraryService) insertReturningID(
	ctx context.Context,
	tx adapters.DBTx,
	action string,
	insert *goqu.InsertDataset,
	idColumn string,
) (int64, error) {

	if s.dialect.supportsReturning() {
		id, found, err := s.queryInt64(ctx, tx, action, insert.Returning(goqu.C(idColumn)))
		if err != nil {
			return 0, err
		}

		if !found {
			noRowErr := errors.New("insert returned no generated id")
			s.logError(ctx, logMsgScanRowFailed, noRowErr, logAttrAction, action)

			return 0, errors.Join(library.ErrScanningRowFailed, noRowErr)
		}

		return id, nil
	}

	result, err := s.exec(ctx, tx, action, insert)
	if err != nil {
		return 0, err
	}

	id, idErr := result.LastInsertId()
	if idErr != nil {
		s.logError(ctx, logMsgDBExecFailed, idErr, logAttrAction, action)
		return 0, errors.Join(library.ErrExecutingFailed, idErr)
	}

	return id, nil
}
