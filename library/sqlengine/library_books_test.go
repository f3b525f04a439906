package sqlengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-management-go/library"
	. "github.com/AntonStoeckl/library-management-go/testutil/helper"                 //nolint:revive
	. "github.com/AntonStoeckl/library-management-go/testutil/helper/librarywrapper" //nolint:revive
)

func Test_StoreBook_AssignsTheGeneratedID(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	book := FixtureBook(t, 3)

	// act
	result := service.StoreBook(ctxWithTimeout, &book)

	// assert
	assert.True(t, result.Ok, result.Message)
	assert.Equal(t, "The book is stored successfully!", result.Message)
	assert.Positive(t, book.ID)

	stored, found := FindBook(t, ctxWithTimeout, service, book.ID)
	assert.True(t, found)
	assert.Equal(t, book, stored)
}

func Test_StoreBook_ShouldFail_WithNilBook(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// act
	result := service.StoreBook(ctxWithTimeout, nil)

	// assert
	assert.False(t, result.Ok)
	assert.ErrorIs(t, result.Err, library.ErrNilBook)
}

func Test_StoreBook_ShouldFail_WithNegativeStock(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	book := FixtureBook(t, -1)

	// act
	result := service.StoreBook(ctxWithTimeout, &book)

	// assert
	assert.False(t, result.Ok)
	assert.ErrorIs(t, result.Err, library.ErrNegativeStock)
	assert.Zero(t, book.ID)
	assert.Empty(t, service.QueryBook(ctxWithTimeout, library.BuildBookQuery().Finalize()).Books())
}

func Test_StoreBook_ShouldFail_WithDuplicateEdition(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	stored := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 1))
	duplicate := stored
	duplicate.ID = 0
	duplicate.Price = 1.5

	// act
	result := service.StoreBook(ctxWithTimeout, &duplicate)

	// assert
	assert.False(t, result.Ok)
	assert.ErrorIs(t, result.Err, library.ErrBookAlreadyExists)
	assert.Zero(t, duplicate.ID)
}

func Test_StoreBooks_StoresAllAndAssignsTheIDs(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	books := []library.Book{FixtureBook(t, 1), FixtureBook(t, 2), FixtureBook(t, 3)}

	// act
	result := service.StoreBooks(ctxWithTimeout, books)

	// assert
	assert.True(t, result.Ok, result.Message)
	assert.Equal(t, "The books are stored successfully!", result.Message)

	for _, book := range books {
		stored, found := FindBook(t, ctxWithTimeout, service, book.ID)
		assert.True(t, found)
		assert.Equal(t, book, stored)
	}
}

func Test_StoreBooks_IsAtomic(t *testing.T) {
	testCases := []struct {
		name        string
		arrange     func(t *testing.T, existing library.Book) []library.Book
		expectedErr error
	}{
		{
			name: "duplicate of a stored book",
			arrange: func(t *testing.T, existing library.Book) []library.Book {
				duplicate := existing
				duplicate.ID = 0

				return []library.Book{FixtureBook(t, 1), duplicate}
			},
			expectedErr: library.ErrBookAlreadyExists,
		},
		{
			name: "duplicate within the batch",
			arrange: func(t *testing.T, _ library.Book) []library.Book {
				book := FixtureBook(t, 1)

				return []library.Book{book, FixtureBook(t, 2), book}
			},
			expectedErr: library.ErrBookAlreadyExists,
		},
		{
			name: "negative stock in the batch",
			arrange: func(t *testing.T, _ library.Book) []library.Book {
				return []library.Book{FixtureBook(t, 1), FixtureBook(t, -5)}
			},
			expectedErr: library.ErrNegativeStock,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			service := CreateWrapperWithTestConfig(t).GetLibraryService()

			// arrange
			existing := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 1))
			books := tc.arrange(t, existing)

			// act
			result := service.StoreBooks(ctxWithTimeout, books)

			// assert
			assert.False(t, result.Ok)
			assert.ErrorIs(t, result.Err, tc.expectedErr)

			all := service.QueryBook(ctxWithTimeout, library.BuildBookQuery().Finalize()).Books()
			assert.Len(t, all, 1, "only the book stored before the batch may exist")

			for _, book := range books {
				assert.Zero(t, book.ID, "no id is assigned when the batch fails")
			}
		})
	}
}

func Test_StoreBooks_WithEmptyBatch_Succeeds(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// act
	result := service.StoreBooks(ctxWithTimeout, nil)

	// assert
	assert.True(t, result.Ok, result.Message)
}

func Test_IncBookStock(t *testing.T) {
	testCases := []struct {
		name          string
		initialStock  int
		delta         int
		expectedErr   error
		expectedStock int
	}{
		{name: "increment", initialStock: 2, delta: 3, expectedStock: 5},
		{name: "decrement", initialStock: 2, delta: -2, expectedStock: 0},
		{name: "zero delta", initialStock: 2, delta: 0, expectedStock: 2},
		{name: "below zero", initialStock: 2, delta: -3, expectedErr: library.ErrNegativeStock, expectedStock: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			service := CreateWrapperWithTestConfig(t).GetLibraryService()

			// arrange
			book := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, tc.initialStock))

			// act
			result := service.IncBookStock(ctxWithTimeout, book.ID, tc.delta)

			// assert
			if tc.expectedErr != nil {
				assert.False(t, result.Ok)
				assert.ErrorIs(t, result.Err, tc.expectedErr)
			} else {
				assert.True(t, result.Ok, result.Message)
				assert.Equal(t, "Increment success!", result.Message)
			}

			assert.Equal(t, tc.expectedStock, StockOf(t, ctxWithTimeout, service, book.ID))
		})
	}
}

func Test_IncBookStock_ShouldFail_ForUnknownBook(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// act
	result := service.IncBookStock(ctxWithTimeout, 4711, 1)

	// assert
	assert.False(t, result.Ok)
	assert.ErrorIs(t, result.Err, library.ErrBookNotFound)
}

func Test_RemoveBook(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	book := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 1))

	// act
	result := service.RemoveBook(ctxWithTimeout, book.ID)

	// assert
	assert.True(t, result.Ok, result.Message)
	assert.Equal(t, "Remove successfully!", result.Message)

	_, found := FindBook(t, ctxWithTimeout, service, book.ID)
	assert.False(t, found)
}

func Test_RemoveBook_ShouldFail_ForUnknownBook(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// act
	result := service.RemoveBook(ctxWithTimeout, 4711)

	// assert
	assert.False(t, result.Ok)
	assert.ErrorIs(t, result.Err, library.ErrBookNotFound)
}

func Test_RemoveBook_ShouldFail_WhileACopyIsBorrowed(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	book := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 2))
	card := GivenCardWasRegistered(t, ctxWithTimeout, service, FixtureCard(t))
	GivenBookWasBorrowed(t, ctxWithTimeout, service, card.ID, book.ID, FixtureBorrowTime(0))

	// act
	result := service.RemoveBook(ctxWithTimeout, book.ID)

	// assert
	assert.False(t, result.Ok)
	assert.ErrorIs(t, result.Err, library.ErrBookNotReturned)

	_, found := FindBook(t, ctxWithTimeout, service, book.ID)
	assert.True(t, found)
}

func Test_RemoveBook_DeletesTheReturnedBorrowsOfTheBook(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	book := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 1))
	card := GivenCardWasRegistered(t, ctxWithTimeout, service, FixtureCard(t))
	borrow := GivenBookWasBorrowed(t, ctxWithTimeout, service, card.ID, book.ID, FixtureBorrowTime(0))
	GivenBookWasReturned(t, ctxWithTimeout, service, borrow, FixtureBorrowTime(time.Hour))

	// act
	result := service.RemoveBook(ctxWithTimeout, book.ID)

	// assert
	assert.True(t, result.Ok, result.Message)
	assert.Empty(t, service.ShowBorrowHistory(ctxWithTimeout, card.ID).BorrowHistory())
}

func Test_ModifyBookInfo_KeepsTheStock(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	book := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 4))
	modified := book
	modified.Title = "Modified " + book.Title
	modified.Category = "Software Architecture"
	modified.Price = 12.5
	modified.PublishYear = 2024
	modified.Stock = 100

	// act
	result := service.ModifyBookInfo(ctxWithTimeout, modified)

	// assert
	assert.True(t, result.Ok, result.Message)
	assert.Equal(t, "Modify successfully!", result.Message)

	stored, found := FindBook(t, ctxWithTimeout, service, book.ID)
	assert.True(t, found)
	assert.Equal(t, modified.Title, stored.Title)
	assert.Equal(t, modified.Category, stored.Category)
	assert.InDelta(t, modified.Price, stored.Price, 0.001)
	assert.Equal(t, modified.PublishYear, stored.PublishYear)
	assert.Equal(t, 4, stored.Stock, "the stock must not be modified")
}

func Test_ModifyBookInfo_ShouldFail_ForUnknownBook(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	book := FixtureBook(t, 1)
	book.ID = 4711

	// act
	result := service.ModifyBookInfo(ctxWithTimeout, book)

	// assert
	assert.False(t, result.Ok)
	assert.ErrorIs(t, result.Err, library.ErrBookNotFound)
}
