package library

import (
	"strings"
)

// CardType is the kind of membership a Card grants. It is stored as a single character.
type CardType string

const (
	CardTypeStudent CardType = "S"
	CardTypeTeacher CardType = "T"
)

// ParseCardType accepts the stored form ("S", "T") and the long form ("student", "teacher"), case-insensitive.
func ParseCardType(s string) (CardType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "student":
		return CardTypeStudent, nil
	case "t", "teacher":
		return CardTypeTeacher, nil
	default:
		return "", ErrInvalidCardType
	}
}

// Valid reports whether ct is one of the known card types.
func (ct CardType) Valid() bool {
	return ct == CardTypeStudent || ct == CardTypeTeacher
}

// String returns the long form of the card type.
func (ct CardType) String() string {
	switch ct {
	case CardTypeStudent:
		return "student"
	case CardTypeTeacher:
		return "teacher"
	default:
		return "unknown"
	}
}

// Card is a row of the card table.
type Card struct {
	ID         CardID   `json:"card_id"`
	Name       string   `json:"name"`
	Department string   `json:"department"`
	Type       CardType `json:"type"`
}
