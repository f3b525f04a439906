package library

// Book is a row of the book table.
//
// ID is generated by the store and assigned back by StoreBook/StoreBooks once the transaction committed.
// Stock counts the copies currently available for borrowing and is never negative.
type Book struct {
	ID          BookID  `json:"book_id"`
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Press       string  `json:"press"`
	PublishYear int     `json:"publish_year"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// SameEdition reports whether b and other share the bulk-import uniqueness key
// (category, title, author, press, publish_year).
func (b Book) SameEdition(other Book) bool {
	return b.Category == other.Category &&
		b.Title == other.Title &&
		b.Author == other.Author &&
		b.Press == other.Press &&
		b.PublishYear == other.PublishYear
}
