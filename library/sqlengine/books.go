package sqlengine

import (
	"context"

	"github.com/AntonStoeckl/library-management-go/library"
	"github.com/AntonStoeckl/library-management-go/library/sqlengine/internal/adapters"
)

const (
	operationStoreBook      = "store_book"
	operationStoreBooks     = "store_books"
	operationIncBookStock   = "inc_book_stock"
	operationRemoveBook     = "remove_book"
	operationModifyBookInfo = "modify_book_info"
	operationQueryBook      = "query_book"

	msgBookStored   = "The book is stored successfully!"
	msgBooksStored  = "The books are stored successfully!"
	msgStockChanged = "Increment success!"
	msgBookRemoved  = "Remove successfully!"
	msgBookModified = "Modify successfully!"
	msgBooksQueried = "Query successfully!"
)

// StoreBook inserts one book and assigns the generated id to book.ID once the transaction committed.
//
// The book must not be nil, its stock must not be negative, and no other book may share its
// category, title, author, press and publish year.
func (s LibraryService) StoreBook(ctx context.Context, book *library.Book) library.Result {
	var id library.BookID

	result := s.inTransaction(ctx, operationStoreBook, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		if book == nil {
			return operationOutcome{}, library.ErrNilBook
		}

		var err error
		if id, err = s.storeBook(ctx, tx, *book); err != nil {
			return operationOutcome{}, err
		}

		return completed(msgBookStored), nil
	})

	if result.Ok {
		book.ID = id
	}

	return result
}

// StoreBooks inserts all books atomically: either all of them are stored or none.
//
// The books are checked and inserted in order. A book whose category, title, author, press and publish year
// match an already stored book (including one stored earlier in the same batch) fails the whole batch
// with library.ErrBookAlreadyExists. The generated ids are assigned to the elements only once the transaction committed.
// An empty batch succeeds without touching the store.
func (s LibraryService) StoreBooks(ctx context.Context, books []library.Book) library.Result {
	ids := make([]library.BookID, len(books))

	result := s.inTransaction(ctx, operationStoreBooks, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		for i, book := range books {
			id, err := s.storeBook(ctx, tx, book)
			if err != nil {
				return operationOutcome{}, err
			}

			ids[i] = id
		}

		return completed(msgBooksStored), nil
	})

	if result.Ok {
		for i := range books {
			books[i].ID = ids[i]
		}
	}

	return result
}

func (s LibraryService) storeBook(ctx context.Context, tx adapters.DBTx, book library.Book) (library.BookID, error) {
	if book.Stock < 0 {
		return 0, library.ErrNegativeStock
	}

	exists, err := s.queryExists(ctx, tx, operationStoreBook, s.selectBookIDByEdition(book))
	if err != nil {
		return 0, err
	}

	if exists {
		return 0, library.ErrBookAlreadyExists
	}

	return s.insertReturningID(ctx, tx, operationStoreBook, s.insertBook(book), colBookID)
}

// IncBookStock changes the stock of a book by delta, which may be negative.
// It fails if the book does not exist or the stock would drop below zero.
func (s LibraryService) IncBookStock(ctx context.Context, bookID library.BookID, delta int) library.Result {
	return s.inTransaction(ctx, operationIncBookStock, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		if err := s.incStock(ctx, tx, bookID, delta); err != nil {
			return operationOutcome{}, err
		}

		return completed(msgStockChanged), nil
	})
}

// incStock is the only path that mutates the stock. BorrowBook and ReturnBook call it inside their own transaction.
func (s LibraryService) incStock(ctx context.Context, tx adapters.DBTx, bookID library.BookID, delta int) error {
	stock, found, err := s.queryInt64(ctx, tx, operationIncBookStock, s.selectStockForUpdate(bookID))
	if err != nil {
		return err
	}

	if !found {
		return library.ErrBookNotFound
	}

	newStock := stock + int64(delta)
	if newStock < 0 {
		return library.ErrNegativeStock
	}

	rowsAffected, err := s.execAffected(ctx, tx, operationIncBookStock, s.updateStock(bookID, newStock))
	if err != nil {
		return err
	}

	if rowsAffected != 1 {
		return library.ErrStockNotUpdated
	}

	return nil
}

// RemoveBook deletes a book. It fails while any copy of it is borrowed and not returned,
// and if the book does not exist. Returned borrow records of the book are deleted with it.
//
// The book row is locked before the outstanding borrows are checked, the same lock BorrowBook takes first,
// so a concurrent borrow either commits before the check sees it or finds the book gone.
func (s LibraryService) RemoveBook(ctx context.Context, bookID library.BookID) library.Result {
	return s.inTransaction(ctx, operationRemoveBook, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		_, found, err := s.queryInt64(ctx, tx, operationRemoveBook, s.selectStockForUpdate(bookID))
		if err != nil {
			return operationOutcome{}, err
		}

		if !found {
			return operationOutcome{}, library.ErrBookNotFound
		}

		outstanding, err := s.queryExists(ctx, tx, operationRemoveBook, s.selectOutstandingByBook(bookID))
		if err != nil {
			return operationOutcome{}, err
		}

		if outstanding {
			return operationOutcome{}, library.ErrBookNotReturned
		}

		if _, err = s.exec(ctx, tx, operationRemoveBook, s.deleteBook(bookID)); err != nil {
			return operationOutcome{}, err
		}

		return completed(msgBookRemoved), nil
	})
}

// ModifyBookInfo overwrites category, title, author, press, publish year and price of the book identified by book.ID.
// The stock is never touched, use IncBookStock for that.
func (s LibraryService) ModifyBookInfo(ctx context.Context, book library.Book) library.Result {
	return s.inTransaction(ctx, operationModifyBookInfo, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		rowsAffected, err := s.execAffected(ctx, tx, operationModifyBookInfo, s.updateBookInfo(book))
		if err != nil {
			return operationOutcome{}, err
		}

		if rowsAffected == 0 {
			return operationOutcome{}, library.ErrBookNotFound
		}

		return completed(msgBookModified), nil
	})
}

// QueryBook returns the books matching all conditions of query as a []library.Book payload.
// An empty result is a success.
func (s LibraryService) QueryBook(ctx context.Context, query library.BookQuery) library.Result {
	return s.inTransaction(ctx, operationQueryBook, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		rows, err := s.query(ctx, tx, operationQueryBook, s.selectBooks(query))
		if err != nil {
			return operationOutcome{}, err
		}

		books, err := scanAll(ctx, s, rows, scanBook)
		if err != nil {
			return operationOutcome{}, err
		}

		return queried(msgBooksQueried, books, len(books)), nil
	})
}

func scanBook(row adapters.DBRows) (library.Book, error) {
	var book library.Book

	err := row.Scan(
		&book.ID,
		&book.Category,
		&book.Title,
		&book.Press,
		&book.PublishYear,
		&book.Author,
		&book.Price,
		&book.Stock,
	)

	return book, err
}
