// Package helper provides fixtures, givens and observability spies for the library service tests.
package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-management-go/library"
	"github.com/AntonStoeckl/library-management-go/library/sqlengine"
)

// GivenUniqueID returns a fresh time-ordered uuid, used to make fixture data unique.
func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return id
}

// FixtureBook returns a book with a unique title and the given stock.
func FixtureBook(t testing.TB, stock int) library.Book {
	return library.Book{
		Category:    "Computer Science",
		Title:       "Learning Domain-Driven Design " + GivenUniqueID(t).String(),
		Author:      "Vlad Khononov",
		Press:       "O'Reilly Media",
		PublishYear: 2021,
		Price:       49.99,
		Stock:       stock,
	}
}

// FixtureCard returns a student card with a unique name.
func FixtureCard(t testing.TB) library.Card {
	return library.Card{
		Name:       "Reader " + GivenUniqueID(t).String(),
		Department: "Computer Science",
		Type:       library.CardTypeStudent,
	}
}

// FixtureBorrowTime returns a fixed point in time as Unix milliseconds, shifted by offset.
func FixtureBorrowTime(offset time.Duration) library.UnixMilli {
	base := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

	return base.Add(offset).UnixMilli()
}

// GivenBookWasStored stores book and returns it with the generated id.
func GivenBookWasStored(t testing.TB, ctx context.Context, service sqlengine.LibraryService, book library.Book) library.Book {
	result := service.StoreBook(ctx, &book)
	require.True(t, result.Ok, "error in arranging test data: %s", result.Message)

	return book
}

// GivenCardWasRegistered registers card and returns it with the generated id.
func GivenCardWasRegistered(t testing.TB, ctx context.Context, service sqlengine.LibraryService, card library.Card) library.Card {
	result := service.RegisterCard(ctx, &card)
	require.True(t, result.Ok, "error in arranging test data: %s", result.Message)

	return card
}

// GivenBookWasBorrowed borrows one copy of the book on the card at borrowTime.
func GivenBookWasBorrowed(
	t testing.TB,
	ctx context.Context,
	service sqlengine.LibraryService,
	cardID library.CardID,
	bookID library.BookID,
	borrowTime library.UnixMilli,
) library.Borrow {

	borrow := library.Borrow{CardID: cardID, BookID: bookID, BorrowTime: borrowTime}
	result := service.BorrowBook(ctx, borrow)
	require.True(t, result.Ok, "error in arranging test data: %s", result.Message)

	return borrow
}

// GivenBookWasReturned returns the borrowed copy at returnTime.
func GivenBookWasReturned(
	t testing.TB,
	ctx context.Context,
	service sqlengine.LibraryService,
	borrow library.Borrow,
	returnTime library.UnixMilli,
) library.Borrow {

	borrow.ReturnTime = returnTime
	result := service.ReturnBook(ctx, borrow)
	require.True(t, result.Ok, "error in arranging test data: %s", result.Message)

	return borrow
}

// FindBook looks the book up by id; found is false if it does not exist.
func FindBook(t testing.TB, ctx context.Context, service sqlengine.LibraryService, bookID library.BookID) (book library.Book, found bool) {
	result := service.QueryBook(ctx, library.BuildBookQuery().WithBookID(bookID).Finalize())
	require.True(t, result.Ok, "error in querying test data: %s", result.Message)

	for _, candidate := range result.Books() {
		if candidate.ID == bookID {
			return candidate, true
		}
	}

	return library.Book{}, false
}

// StockOf returns the current stock of an existing book.
func StockOf(t testing.TB, ctx context.Context, service sqlengine.LibraryService, bookID library.BookID) int {
	book, found := FindBook(t, ctx, service, bookID)
	require.True(t, found, "book %d not found", bookID)

	return book.Stock
}

// CardExists reports whether the card is listed by ShowCards.
func CardExists(t testing.TB, ctx context.Context, service sqlengine.LibraryService, cardID library.CardID) bool {
	result := service.ShowCards(ctx)
	require.True(t, result.Ok, "error in querying test data: %s", result.Message)

	for _, card := range result.Cards() {
		if card.ID == cardID {
			return true
		}
	}

	return false
}
