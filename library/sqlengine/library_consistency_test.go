package sqlengine_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-management-go/library"
	. "github.com/AntonStoeckl/library-management-go/testutil/helper"                 //nolint:revive
	. "github.com/AntonStoeckl/library-management-go/testutil/helper/librarywrapper" //nolint:revive
)

func Test_Consistency_ConcurrentBorrowsOfTheLastCopy_ExactlyOneSucceeds(t *testing.T) {
	const numCards = 8

	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	book := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 1))
	cards := make([]library.Card, numCards)
	for i := range cards {
		cards[i] = GivenCardWasRegistered(t, ctxWithTimeout, service, FixtureCard(t))
	}

	var succeeded, stockEmpty atomic.Int32
	var wg sync.WaitGroup

	// act
	for i := range cards {
		wg.Add(1)

		go func(card library.Card) {
			defer wg.Done()

			result := service.BorrowBook(ctxWithTimeout, library.Borrow{
				CardID:     card.ID,
				BookID:     book.ID,
				BorrowTime: FixtureBorrowTime(time.Duration(card.ID) * time.Second),
			})

			switch {
			case result.Ok:
				succeeded.Add(1)
			case library.IsBusinessRuleViolation(result.Err):
				if assert.ErrorIs(t, result.Err, library.ErrStockEmpty) {
					stockEmpty.Add(1)
				}
			default:
				t.Errorf("unexpected store error: %v", result.Err)
			}
		}(cards[i])
	}

	wg.Wait()

	// assert
	assert.Equal(t, int32(1), succeeded.Load(), "exactly one borrow of the last copy may succeed")
	assert.Equal(t, int32(numCards-1), stockEmpty.Load())
	assert.Equal(t, 0, StockOf(t, ctxWithTimeout, service, book.ID))
}

func Test_Consistency_ConcurrentBorrowAndRemoveBook_NeverBothSucceed(t *testing.T) {
	const rounds = 10

	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	for round := 0; round < rounds; round++ {
		// arrange
		book := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 1))
		card := GivenCardWasRegistered(t, ctxWithTimeout, service, FixtureCard(t))

		// act
		borrowResult, removeResult := concurrently(
			func() library.Result {
				return service.BorrowBook(ctxWithTimeout, library.Borrow{
					CardID:     card.ID,
					BookID:     book.ID,
					BorrowTime: FixtureBorrowTime(0),
				})
			},
			func() library.Result {
				return service.RemoveBook(ctxWithTimeout, book.ID)
			},
		)

		// assert
		_, bookFound := FindBook(t, ctxWithTimeout, service, book.ID)
		history := service.ShowBorrowHistory(ctxWithTimeout, card.ID).BorrowHistory()

		if borrowResult.Ok {
			assert.ErrorIs(t, removeResult.Err, library.ErrBookNotReturned)
			assert.True(t, bookFound)
			assert.Len(t, history, 1)
			assert.Equal(t, 0, StockOf(t, ctxWithTimeout, service, book.ID))
		} else {
			assert.True(t, removeResult.Ok, removeResult.Message)
			assert.ErrorIs(t, borrowResult.Err, library.ErrBookNotFound)
			assert.False(t, bookFound)
			assert.Empty(t, history)
		}
	}
}

func Test_Consistency_ConcurrentBorrowAndRemoveCard_NeverBothSucceed(t *testing.T) {
	const rounds = 10

	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	for round := 0; round < rounds; round++ {
		// arrange
		book := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 1))
		card := GivenCardWasRegistered(t, ctxWithTimeout, service, FixtureCard(t))

		// act
		borrowResult, removeResult := concurrently(
			func() library.Result {
				return service.BorrowBook(ctxWithTimeout, library.Borrow{
					CardID:     card.ID,
					BookID:     book.ID,
					BorrowTime: FixtureBorrowTime(0),
				})
			},
			func() library.Result {
				return service.RemoveCard(ctxWithTimeout, card.ID)
			},
		)

		// assert
		cardFound := CardExists(t, ctxWithTimeout, service, card.ID)
		stock := StockOf(t, ctxWithTimeout, service, book.ID)

		if borrowResult.Ok {
			assert.ErrorIs(t, removeResult.Err, library.ErrCardHasUnreturnedBooks)
			assert.True(t, cardFound)
			assert.Len(t, service.ShowBorrowHistory(ctxWithTimeout, card.ID).BorrowHistory(), 1)
			assert.Equal(t, 0, stock)
		} else {
			assert.True(t, removeResult.Ok, removeResult.Message)
			assert.ErrorIs(t, borrowResult.Err, library.ErrCardNotFound)
			assert.False(t, cardFound)
			assert.Equal(t, 1, stock, "a failed borrow must not take a copy")
		}
	}
}

// concurrently starts both operations at the same moment and waits for their results.
func concurrently(first, second func() library.Result) (library.Result, library.Result) {
	var firstResult, secondResult library.Result
	var wg sync.WaitGroup
	start := make(chan struct{})

	wg.Add(2)

	go func() {
		defer wg.Done()
		<-start
		firstResult = first()
	}()

	go func() {
		defer wg.Done()
		<-start
		secondResult = second()
	}()

	close(start)
	wg.Wait()

	return firstResult, secondResult
}

func Test_Consistency_ConcurrentStockChanges_AreNotLost(t *testing.T) {
	const numIncrements = 10

	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	book := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 0))

	var wg sync.WaitGroup

	// act
	for i := 0; i < numIncrements; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			result := service.IncBookStock(ctxWithTimeout, book.ID, 1)
			assert.True(t, result.Ok, result.Message)
		}()
	}

	wg.Wait()

	// assert
	assert.Equal(t, numIncrements, StockOf(t, ctxWithTimeout, service, book.ID))
}

func Test_Consistency_StockEqualsInitialStockMinusOutstandingBorrows(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	book := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 3))
	alice := GivenCardWasRegistered(t, ctxWithTimeout, service, FixtureCard(t))
	bob := GivenCardWasRegistered(t, ctxWithTimeout, service, FixtureCard(t))

	// act & assert
	aliceBorrow := GivenBookWasBorrowed(t, ctxWithTimeout, service, alice.ID, book.ID, FixtureBorrowTime(0))
	assert.Equal(t, 2, StockOf(t, ctxWithTimeout, service, book.ID))

	bobBorrow := GivenBookWasBorrowed(t, ctxWithTimeout, service, bob.ID, book.ID, FixtureBorrowTime(time.Minute))
	assert.Equal(t, 1, StockOf(t, ctxWithTimeout, service, book.ID))

	assert.False(t, service.BorrowBook(ctxWithTimeout, library.Borrow{CardID: alice.ID, BookID: book.ID, BorrowTime: FixtureBorrowTime(2 * time.Minute)}).Ok)
	assert.Equal(t, 1, StockOf(t, ctxWithTimeout, service, book.ID), "a rejected borrow must not change the stock")

	GivenBookWasReturned(t, ctxWithTimeout, service, aliceBorrow, FixtureBorrowTime(time.Hour))
	assert.Equal(t, 2, StockOf(t, ctxWithTimeout, service, book.ID))

	assert.False(t, service.ReturnBook(ctxWithTimeout, library.Borrow{CardID: alice.ID, BookID: book.ID, BorrowTime: aliceBorrow.BorrowTime, ReturnTime: FixtureBorrowTime(2 * time.Hour)}).Ok)
	assert.Equal(t, 2, StockOf(t, ctxWithTimeout, service, book.ID), "a rejected return must not change the stock")

	GivenBookWasReturned(t, ctxWithTimeout, service, bobBorrow, FixtureBorrowTime(time.Hour))
	assert.Equal(t, 3, StockOf(t, ctxWithTimeout, service, book.ID))
}

func Test_Consistency_CanceledContext_ChangesNothing(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	book := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 1))
	canceledCtx, cancelNow := context.WithCancel(ctxWithTimeout)
	cancelNow()

	// act
	result := service.IncBookStock(canceledCtx, book.ID, 5)

	// assert
	assert.False(t, result.Ok)
	assert.False(t, library.IsBusinessRuleViolation(result.Err))
	assert.Equal(t, 1, StockOf(t, ctxWithTimeout, service, book.ID))
}

func Test_Consistency_FullLibraryScenario(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	books := []library.Book{FixtureBook(t, 2), FixtureBook(t, 1)}
	assertOk(t, service.StoreBooks(ctxWithTimeout, books))

	card := FixtureCard(t)
	assertOk(t, service.RegisterCard(ctxWithTimeout, &card))

	// act & assert
	assertOk(t, service.BorrowBook(ctxWithTimeout, library.Borrow{CardID: card.ID, BookID: books[0].ID, BorrowTime: FixtureBorrowTime(0)}))
	assertOk(t, service.BorrowBook(ctxWithTimeout, library.Borrow{CardID: card.ID, BookID: books[1].ID, BorrowTime: FixtureBorrowTime(time.Second)}))
	assert.ErrorIs(t, service.RemoveCard(ctxWithTimeout, card.ID).Err, library.ErrCardHasUnreturnedBooks)
	assert.ErrorIs(t, service.RemoveBook(ctxWithTimeout, books[1].ID).Err, library.ErrBookNotReturned)

	assertOk(t, service.ReturnBook(ctxWithTimeout, library.Borrow{
		CardID:     card.ID,
		BookID:     books[1].ID,
		BorrowTime: FixtureBorrowTime(time.Second),
		ReturnTime: FixtureBorrowTime(time.Hour),
	}))
	assertOk(t, service.RemoveBook(ctxWithTimeout, books[1].ID))

	history := service.ShowBorrowHistory(ctxWithTimeout, card.ID).BorrowHistory()
	if assert.Len(t, history, 1) {
		assert.Equal(t, books[0].ID, history[0].Book.ID)
		assert.True(t, history[0].Borrow.Outstanding())
	}

	assertOk(t, service.ReturnBook(ctxWithTimeout, library.Borrow{
		CardID:     card.ID,
		BookID:     books[0].ID,
		BorrowTime: FixtureBorrowTime(0),
		ReturnTime: FixtureBorrowTime(2 * time.Hour),
	}))
	assertOk(t, service.RemoveCard(ctxWithTimeout, card.ID))

	remaining := service.QueryBook(ctxWithTimeout, library.BuildBookQuery().Finalize()).Books()
	if assert.Len(t, remaining, 1) {
		assert.Equal(t, books[0].ID, remaining[0].ID)
		assert.Equal(t, 2, remaining[0].Stock)
	}

	assert.Empty(t, service.ShowCards(ctxWithTimeout).Cards())
}

func Test_Consistency_ResetDatabase_DropsAllData(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	service := CreateWrapperWithTestConfig(t).GetLibraryService()

	// arrange
	book := GivenBookWasStored(t, ctxWithTimeout, service, FixtureBook(t, 1))
	card := GivenCardWasRegistered(t, ctxWithTimeout, service, FixtureCard(t))
	GivenBookWasBorrowed(t, ctxWithTimeout, service, card.ID, book.ID, FixtureBorrowTime(0))

	// act
	result := service.ResetDatabase(ctxWithTimeout)

	// assert
	assert.True(t, result.Ok, result.Message)
	assert.Equal(t, "The database is reset successfully!", result.Message)
	assert.Empty(t, service.QueryBook(ctxWithTimeout, library.BuildBookQuery().Finalize()).Books())
	assert.Empty(t, service.ShowCards(ctxWithTimeout).Cards())
	assert.Empty(t, service.ShowBorrowHistory(ctxWithTimeout, card.ID).BorrowHistory())
}

func assertOk(t *testing.T, result library.Result) {
	t.Helper()
	assert.True(t, result.Ok, result.Message)
}
