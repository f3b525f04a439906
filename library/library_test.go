package library_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-management-go/library"
)

func Test_ParseCardType(t *testing.T) {
	tests := []struct {
		input       string
		expected    library.CardType
		expectedErr error
	}{
		{input: "S", expected: library.CardTypeStudent},
		{input: "t", expected: library.CardTypeTeacher},
		{input: "Student", expected: library.CardTypeStudent},
		{input: " teacher ", expected: library.CardTypeTeacher},
		{input: "professor", expectedErr: library.ErrInvalidCardType},
		{input: "", expectedErr: library.ErrInvalidCardType},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cardType, err := library.ParseCardType(tt.input)

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expected, cardType)
		})
	}
}

func Test_CardType_ValidAndString(t *testing.T) {
	assert.True(t, library.CardTypeStudent.Valid())
	assert.True(t, library.CardTypeTeacher.Valid())
	assert.False(t, library.CardType("X").Valid())

	assert.Equal(t, "student", library.CardTypeStudent.String())
	assert.Equal(t, "teacher", library.CardTypeTeacher.String())
	assert.Equal(t, "unknown", library.CardType("X").String())
}

func Test_Book_SameEdition(t *testing.T) {
	// arrange
	book := library.Book{ID: 1, Category: "Fantasy", Title: "Dune", Author: "Herbert", Press: "Chilton", PublishYear: 1965, Price: 10, Stock: 1}
	sameEdition := book
	sameEdition.ID = 2
	sameEdition.Price = 20
	sameEdition.Stock = 5
	otherYear := book
	otherYear.PublishYear = 1966

	// assert
	assert.True(t, book.SameEdition(sameEdition), "id, price and stock are not part of the edition")
	assert.False(t, book.SameEdition(otherYear))
}

func Test_Borrow_Outstanding(t *testing.T) {
	assert.True(t, library.Borrow{BorrowTime: 1000}.Outstanding())
	assert.False(t, library.Borrow{BorrowTime: 1000, ReturnTime: 2000}.Outstanding())
}

func Test_IsBusinessRuleViolation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "rule violation", err: library.ErrStockEmpty, expected: true},
		{name: "wrapped rule violation", err: fmt.Errorf("borrowing: %w", library.ErrBookAlreadyBorrowed), expected: true},
		{name: "store error", err: errors.Join(library.ErrQueryingFailed, errors.New("connection reset")), expected: false},
		{name: "nil", err: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, library.IsBusinessRuleViolation(tt.err))
		})
	}
}

func Test_Result(t *testing.T) {
	// arrange
	books := []library.Book{{ID: 1}}
	cards := []library.Card{{ID: 2}}
	history := library.BorrowHistory{{CardID: 3}}

	// act
	booksResult := library.Succeeded("Query successfully!", books)
	cardsResult := library.Succeeded("Show cards successfully!", cards)
	historyResult := library.Succeeded("Show borrow history successfully!", history)
	failed := library.Failed(library.ErrCardNotFound)

	// assert
	assert.True(t, booksResult.Ok)
	assert.Equal(t, books, booksResult.Books())
	assert.Nil(t, booksResult.Cards())
	assert.Equal(t, cards, cardsResult.Cards())
	assert.Nil(t, cardsResult.BorrowHistory())
	assert.Equal(t, history, historyResult.BorrowHistory())

	assert.False(t, failed.Ok)
	assert.Equal(t, library.ErrCardNotFound.Error(), failed.Message)
	assert.ErrorIs(t, failed.Err, library.ErrCardNotFound)
	assert.Nil(t, failed.Payload)
}
