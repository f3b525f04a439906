package sqlengine

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/library-management-go/library"
)

const (
	tableBook       = "book"
	tableCard       = "card"
	tableBorrow     = "borrow"
	colBookID       = "book_id"
	colCategory     = "category"
	colTitle        = "title"
	colPress        = "press"
	colPublishYear  = "publish_year"
	colAuthor       = "author"
	colPrice        = "price"
	colStock        = "stock"
	colCardID       = "card_id"
	colName         = "name"
	colDepartment   = "department"
	colType         = "type"
	colBorrowTime   = "borrow_time"
	colReturnTime   = "return_time"
	outstandingLoan = 0
	likeAnyWildcard = "%"
)

var bookColumns = []any{colBookID, colCategory, colTitle, colPress, colPublishYear, colAuthor, colPrice, colStock}

// All statements are prepared, values travel as bind parameters.

func (s LibraryService) selectFrom(table string) *goqu.SelectDataset {
	return s.builder.From(table).Prepared(true)
}

/***** book *****/

func (s LibraryService) selectBookIDByEdition(book library.Book) *goqu.SelectDataset {
	return s.selectFrom(tableBook).
		Select(colBookID).
		Where(goqu.Ex{
			colCategory:    book.Category,
			colTitle:       book.Title,
			colAuthor:      book.Author,
			colPress:       book.Press,
			colPublishYear: book.PublishYear,
		})
}

func (s LibraryService) selectStockForUpdate(bookID library.BookID) *goqu.SelectDataset {
	return s.selectFrom(tableBook).
		Select(colStock).
		Where(goqu.C(colBookID).Eq(bookID)).
		ForUpdate(exp.Wait)
}

func (s LibraryService) insertBook(book library.Book) *goqu.InsertDataset {
	return s.builder.Insert(tableBook).Prepared(true).
		Rows(goqu.Record{
			colCategory:    book.Category,
			colTitle:       book.Title,
			colAuthor:      book.Author,
			colPress:       book.Press,
			colPublishYear: book.PublishYear,
			colPrice:       book.Price,
			colStock:       book.Stock,
		})
}

func (s LibraryService) updateStock(bookID library.BookID, stock int64) *goqu.UpdateDataset {
	return s.builder.Update(tableBook).Prepared(true).
		Set(goqu.Record{colStock: stock}).
		Where(goqu.C(colBookID).Eq(bookID))
}

func (s LibraryService) updateBookInfo(book library.Book) *goqu.UpdateDataset {
	return s.builder.Update(tableBook).Prepared(true).
		Set(goqu.Record{
			colCategory:    book.Category,
			colTitle:       book.Title,
			colAuthor:      book.Author,
			colPress:       book.Press,
			colPublishYear: book.PublishYear,
			colPrice:       book.Price,
		}).
		Where(goqu.C(colBookID).Eq(book.ID))
}

func (s LibraryService) deleteBook(bookID library.BookID) *goqu.DeleteDataset {
	return s.builder.Delete(tableBook).Prepared(true).
		Where(goqu.C(colBookID).Eq(bookID))
}

// selectBooks turns a BookQuery into a predicate list and an ordering.
// Unset conditions add no predicate.
func (s LibraryService) selectBooks(query library.BookQuery) *goqu.SelectDataset {
	predicates := make([]goqu.Expression, 0)

	if bookID, ok := query.BookID(); ok {
		predicates = append(predicates, goqu.C(colBookID).Eq(bookID))
	}

	if category, ok := query.Category(); ok {
		predicates = append(predicates, goqu.C(colCategory).Eq(category))
	}

	if title, ok := query.Title(); ok {
		predicates = append(predicates, goqu.C(colTitle).Like(contains(title)))
	}

	if press, ok := query.Press(); ok {
		predicates = append(predicates, goqu.C(colPress).Like(contains(press)))
	}

	if author, ok := query.Author(); ok {
		predicates = append(predicates, goqu.C(colAuthor).Like(contains(author)))
	}

	if minYear, ok := query.MinPublishYear(); ok {
		predicates = append(predicates, goqu.C(colPublishYear).Gte(minYear))
	}

	if maxYear, ok := query.MaxPublishYear(); ok {
		predicates = append(predicates, goqu.C(colPublishYear).Lte(maxYear))
	}

	if minPrice, ok := query.MinPrice(); ok {
		predicates = append(predicates, goqu.C(colPrice).Gte(minPrice))
	}

	if maxPrice, ok := query.MaxPrice(); ok {
		predicates = append(predicates, goqu.C(colPrice).Lte(maxPrice))
	}

	selectStmt := s.selectFrom(tableBook).
		Select(bookColumns...).
		Order(bookOrdering(query)...)

	if len(predicates) > 0 {
		selectStmt = selectStmt.Where(goqu.And(predicates...))
	}

	return selectStmt
}

func bookOrdering(query library.BookQuery) []exp.OrderedExpression {
	primary := goqu.I(string(query.SortBy()))

	ordering := make([]exp.OrderedExpression, 0, 2)

	if query.SortOrder() == library.Descending {
		ordering = append(ordering, primary.Desc())
	} else {
		ordering = append(ordering, primary.Asc())
	}

	if query.SortBy() != library.SortByBookID {
		ordering = append(ordering, goqu.I(colBookID).Asc())
	}

	return ordering
}

// contains wraps text in LIKE wildcards. Wildcards inside text are not escaped.
func contains(text string) string {
	return likeAnyWildcard + text + likeAnyWildcard
}

/***** card *****/

func (s LibraryService) insertCard(card library.Card) *goqu.InsertDataset {
	return s.builder.Insert(tableCard).Prepared(true).
		Rows(goqu.Record{
			colName:       card.Name,
			colDepartment: card.Department,
			colType:       string(card.Type),
		})
}

// selectCardForUpdate locks the card row, so that borrowing on a card and removing it serialize.
func (s LibraryService) selectCardForUpdate(cardID library.CardID) *goqu.SelectDataset {
	return s.selectFrom(tableCard).
		Select(colCardID).
		Where(goqu.C(colCardID).Eq(cardID)).
		ForUpdate(exp.Wait)
}

func (s LibraryService) deleteCard(cardID library.CardID) *goqu.DeleteDataset {
	return s.builder.Delete(tableCard).Prepared(true).
		Where(goqu.C(colCardID).Eq(cardID))
}

func (s LibraryService) selectCards() *goqu.SelectDataset {
	return s.selectFrom(tableCard).
		Select(colCardID, colName, colDepartment, colType).
		Order(goqu.I(colCardID).Asc())
}

/***** borrow *****/

func (s LibraryService) selectOutstandingByCardAndBook(cardID library.CardID, bookID library.BookID) *goqu.SelectDataset {
	return s.selectFrom(tableBorrow).
		Select(colCardID).
		Where(goqu.Ex{
			colCardID:     cardID,
			colBookID:     bookID,
			colReturnTime: outstandingLoan,
		})
}

func (s LibraryService) selectOutstandingByBook(bookID library.BookID) *goqu.SelectDataset {
	return s.selectFrom(tableBorrow).
		Select(colBookID).
		Where(goqu.Ex{
			colBookID:     bookID,
			colReturnTime: outstandingLoan,
		})
}

func (s LibraryService) selectOutstandingByCard(cardID library.CardID) *goqu.SelectDataset {
	return s.selectFrom(tableBorrow).
		Select(colCardID).
		Where(goqu.Ex{
			colCardID:     cardID,
			colReturnTime: outstandingLoan,
		})
}

func (s LibraryService) insertBorrow(borrow library.Borrow) *goqu.InsertDataset {
	return s.builder.Insert(tableBorrow).Prepared(true).
		Rows(goqu.Record{
			colCardID:     borrow.CardID,
			colBookID:     borrow.BookID,
			colBorrowTime: borrow.BorrowTime,
			colReturnTime: outstandingLoan,
		})
}

func (s LibraryService) updateReturnTime(borrow library.Borrow) *goqu.UpdateDataset {
	return s.builder.Update(tableBorrow).Prepared(true).
		Set(goqu.Record{colReturnTime: borrow.ReturnTime}).
		Where(goqu.Ex{
			colCardID:     borrow.CardID,
			colBookID:     borrow.BookID,
			colBorrowTime: borrow.BorrowTime,
			colReturnTime: outstandingLoan,
		})
}

func (s LibraryService) selectBorrowHistory(cardID library.CardID) *goqu.SelectDataset {
	borrow := goqu.T(tableBorrow)
	book := goqu.T(tableBook)

	return s.selectFrom(tableBorrow).
		Select(
			borrow.Col(colCardID),
			book.Col(colBookID),
			book.Col(colCategory),
			book.Col(colTitle),
			book.Col(colPress),
			book.Col(colPublishYear),
			book.Col(colAuthor),
			book.Col(colPrice),
			book.Col(colStock),
			borrow.Col(colBorrowTime),
			borrow.Col(colReturnTime),
		).
		InnerJoin(book, goqu.On(borrow.Col(colBookID).Eq(book.Col(colBookID)))).
		Where(borrow.Col(colCardID).Eq(cardID)).
		Order(borrow.Col(colBorrowTime).Desc(), borrow.Col(colBookID).Asc())
}
