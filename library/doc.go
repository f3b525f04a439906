// Package library provides the core types of the library management backend:
// books, membership cards, borrow records, book queries and the operation result contract.
//
// The types are plain data and carry no storage logic. The business rules that keep
// them consistent (stock never negative, no double borrow, no removal of loaned books
// or cards with unreturned books) live in the sqlengine package, which executes every
// operation inside one store transaction.
//
// Key types:
//   - Book, Card, Borrow: rows of the book, card and borrow tables
//   - BookQuery: immutable filter and ordering for book searches, built with BuildBookQuery
//   - Result: the structured {ok, message, payload} outcome of every operation
//
// Common usage pattern:
//
//	query := library.BuildBookQuery().
//		WithCategory("Computer Science").
//		TitleContains("Database").
//		PublishedBetween(2000, 2024).
//		SortBy(library.SortByPrice, library.Descending).
//		Finalize()
//
//	result := service.QueryBook(ctx, query)
//	if !result.Ok {
//		// handle result.Err / result.Message
//	}
//
//	for _, book := range result.Books() {
//		// ...
//	}
package library
