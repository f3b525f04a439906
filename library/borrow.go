package library

// Borrow is a row of the borrow table, identified by (CardID, BookID, BorrowTime).
//
// A ReturnTime of 0 marks the loan as outstanding. Once returned, ReturnTime holds the
// return timestamp, which is never before BorrowTime. Both are Unix milliseconds.
type Borrow struct {
	CardID     CardID    `json:"card_id"`
	BookID     BookID    `json:"book_id"`
	BorrowTime UnixMilli `json:"borrow_time"`
	ReturnTime UnixMilli `json:"return_time"`
}

// Outstanding reports whether the borrowed book has not been returned yet.
func (b Borrow) Outstanding() bool {
	return b.ReturnTime == 0
}

// BorrowHistoryItem is one borrow record of a card joined with the borrowed book.
type BorrowHistoryItem struct {
	CardID CardID `json:"card_id"`
	Book   Book   `json:"book"`
	Borrow Borrow `json:"borrow"`
}

// BorrowHistory is the list of BorrowHistoryItem(s) of one card, most recent borrow first.
type BorrowHistory = []BorrowHistoryItem
