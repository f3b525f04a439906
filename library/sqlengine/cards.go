package sqlengine

import (
	"context"

	"github.com/AntonStoeckl/library-management-go/library"
	"github.com/AntonStoeckl/library-management-go/library/sqlengine/internal/adapters"
)

const (
	operationRegisterCard = "register_card"
	operationRemoveCard   = "remove_card"
	operationShowCards    = "show_cards"

	msgCardRegistered = "The card is registered successfully!"
	msgCardRemoved    = "Remove successfully!"
	msgCardsShown     = "Show cards successfully!"
)

// RegisterCard inserts a card and assigns the generated id to card.ID once the transaction committed.
func (s LibraryService) RegisterCard(ctx context.Context, card *library.Card) library.Result {
	var id library.CardID

	result := s.inTransaction(ctx, operationRegisterCard, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		if card == nil {
			return operationOutcome{}, library.ErrNilCard
		}

		if !card.Type.Valid() {
			return operationOutcome{}, library.ErrInvalidCardType
		}

		var err error
		if id, err = s.insertReturningID(ctx, tx, operationRegisterCard, s.insertCard(*card), colCardID); err != nil {
			return operationOutcome{}, err
		}

		return completed(msgCardRegistered), nil
	})

	if result.Ok {
		card.ID = id
	}

	return result
}

// RemoveCard deletes a card. It fails while the card has unreturned books, and if the card does not exist.
// The borrow history of the card is deleted with it.
//
// Like BorrowBook, it locks the card row before looking at the borrows of the card.
func (s LibraryService) RemoveCard(ctx context.Context, cardID library.CardID) library.Result {
	return s.inTransaction(ctx, operationRemoveCard, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		found, err := s.queryExists(ctx, tx, operationRemoveCard, s.selectCardForUpdate(cardID))
		if err != nil {
			return operationOutcome{}, err
		}

		if !found {
			return operationOutcome{}, library.ErrCardNotFound
		}

		outstanding, err := s.queryExists(ctx, tx, operationRemoveCard, s.selectOutstandingByCard(cardID))
		if err != nil {
			return operationOutcome{}, err
		}

		if outstanding {
			return operationOutcome{}, library.ErrCardHasUnreturnedBooks
		}

		if _, err = s.exec(ctx, tx, operationRemoveCard, s.deleteCard(cardID)); err != nil {
			return operationOutcome{}, err
		}

		return completed(msgCardRemoved), nil
	})
}

// ShowCards returns all cards ordered by id as a []library.Card payload.
func (s LibraryService) ShowCards(ctx context.Context) library.Result {
	return s.inTransaction(ctx, operationShowCards, func(ctx context.Context, tx adapters.DBTx) (operationOutcome, error) {
		rows, err := s.query(ctx, tx, operationShowCards, s.selectCards())
		if err != nil {
			return operationOutcome{}, err
		}

		cards, err := scanAll(ctx, s, rows, scanCard)
		if err != nil {
			return operationOutcome{}, err
		}

		return queried(msgCardsShown, cards, len(cards)), nil
	})
}

func scanCard(row adapters.DBRows) (library.Card, error) {
	var card library.Card
	var cardType string

	err := row.Scan(&card.ID, &card.Name, &card.Department, &cardType)
	card.Type = library.CardType(cardType)

	return card, err
}
