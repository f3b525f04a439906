package sqlengine

import (
	"context"

	"github.com/AntonStoeckl/library-management-go/library"
	"github.com/AntonStoeckl/library-management-go/library/sqlengine/internal/adapters"
)

const (
	operationBorrowBook        = "borrow_book"
	operationReturnBook        = "return_book"
	operationShowBorrowHistory = "show_borrow_history"

	msgBookBorrowed = "Borrow successfully!"
	msgBookReturned = "Return successfully!"
	msgHistoryShown = "Show borrow history successfully!"
)

// BorrowBook records that the card borrowed one copy of the book at borrow.BorrowTime and decrements the stock.
//
// The book row is locked first, so concurrent borrows of the same book serialize. Then it fails if the card
// already holds an unreturned copy of the book, if the book does not exist, if no copy is in stock,
// or if the card does not exist. The card row is locked too, which serializes the borrow with RemoveCard.
// borrow.ReturnTime is ignored, a new borrow is always outstanding.
func (s LibraryService) BorrowBook(ctx context.Context, borrow library.Borrow) library.Result {
	return s.inTransaction(ctx, operationBorrowBook, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		stock, bookFound, err := s.queryInt64(ctx, tx, operationBorrowBook, s.selectStockForUpdate(borrow.BookID))
		if err != nil {
			return operationOutcome{}, err
		}

		outstanding, err := s.queryExists(
			ctx,
			tx,
			operationBorrowBook,
			s.selectOutstandingByCardAndBook(borrow.CardID, borrow.BookID),
		)
		if err != nil {
			return operationOutcome{}, err
		}

		switch {
		case outstanding:
			return operationOutcome{}, library.ErrBookAlreadyBorrowed
		case !bookFound:
			return operationOutcome{}, library.ErrBookNotFound
		case stock <= 0:
			return operationOutcome{}, library.ErrStockEmpty
		}

		cardFound, err := s.queryExists(ctx, tx, operationBorrowBook, s.selectCardForUpdate(borrow.CardID))
		if err != nil {
			return operationOutcome{}, err
		}

		if !cardFound {
			return operationOutcome{}, library.ErrCardNotFound
		}

		if _, err = s.exec(ctx, tx, operationBorrowBook, s.insertBorrow(borrow)); err != nil {
			return operationOutcome{}, err
		}

		if err = s.incStock(ctx, tx, borrow.BookID, -1); err != nil {
			return operationOutcome{}, err
		}

		return completed(msgBookBorrowed), nil
	})
}

// ReturnBook sets the return time of the outstanding borrow identified by card, book and borrow time,
// and increments the stock.
//
// It fails if borrow.ReturnTime is not positive or before borrow.BorrowTime,
// and if there is no such outstanding borrow.
func (s LibraryService) ReturnBook(ctx context.Context, borrow library.Borrow) library.Result {
	return s.inTransaction(ctx, operationReturnBook, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		if borrow.ReturnTime <= 0 || borrow.ReturnTime < borrow.BorrowTime {
			return operationOutcome{}, library.ErrReturnTimeBeforeBorrowTime
		}

		rowsAffected, err := s.execAffected(ctx, tx, operationReturnBook, s.updateReturnTime(borrow))
		if err != nil {
			return operationOutcome{}, err
		}

		if rowsAffected != 1 {
			return operationOutcome{}, library.ErrNoSuchLoan
		}

		if err = s.incStock(ctx, tx, borrow.BookID, 1); err != nil {
			return operationOutcome{}, err
		}

		return completed(msgBookReturned), nil
	})
}

// ShowBorrowHistory returns every borrow of the card joined with its book as a library.BorrowHistory payload,
// the most recent borrow first. A card without borrows, or an unknown card, yields an empty history.
func (s LibraryService) ShowBorrowHistory(ctx context.Context, cardID library.CardID) library.Result {
	return s.inTransaction(ctx, operationShowBorrowHistory, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		rows, err := s.query(ctx, tx, operationShowBorrowHistory, s.selectBorrowHistory(cardID))
		if err != nil {
			return operationOutcome{}, err
		}

		history, err := scanAll(ctx, s, rows, scanBorrowHistoryItem)
		if err != nil {
			return operationOutcome{}, err
		}

		return queried(msgHistoryShown, history, len(history)), nil
	})
}

func scanBorrowHistoryItem(row adapters.DBRows) (library.BorrowHistoryItem, error) {
	var item library.BorrowHistoryItem

	err := row.Scan(
		&item.CardID,
		&item.Book.ID,
		&item.Book.Category,
		&item.Book.Title,
		&item.Book.Press,
		&item.Book.PublishYear,
		&item.Book.Author,
		&item.Book.Price,
		&item.Book.Stock,
		&item.Borrow.BorrowTime,
		&item.Borrow.ReturnTime,
	)

	item.Borrow.CardID = item.CardID
	item.Borrow.BookID = item.Book.ID

	return item, err
}
