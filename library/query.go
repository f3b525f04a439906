package library

import (
	"strings"
)

/***** Sorting *****/

// SortColumn names a book column a BookQuery can be ordered by.
type SortColumn string

const (
	SortByBookID      SortColumn = "book_id"
	SortByCategory    SortColumn = "category"
	SortByTitle       SortColumn = "title"
	SortByPress       SortColumn = "press"
	SortByPublishYear SortColumn = "publish_year"
	SortByAuthor      SortColumn = "author"
	SortByPrice       SortColumn = "price"
	SortByStock       SortColumn = "stock"
)

var sortColumns = []SortColumn{
	SortByBookID,
	SortByCategory,
	SortByTitle,
	SortByPress,
	SortByPublishYear,
	SortByAuthor,
	SortByPrice,
	SortByStock,
}

// ParseSortColumn maps a column name to a SortColumn; unknown names yield SortByBookID and false.
func ParseSortColumn(s string) (SortColumn, bool) {
	candidate := SortColumn(strings.ToLower(strings.TrimSpace(s)))
	for _, column := range sortColumns {
		if column == candidate {
			return column, true
		}
	}

	return SortByBookID, false
}

// SortOrder is the direction of the primary sort column.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

/***** BookQuery *****/

// BookQuery holds the conditions of a book search. Unset conditions do not restrict the result.
//
// It should only be constructed with BuildBookQuery.
type BookQuery struct {
	bookID         *BookID
	category       *string
	title          *string
	press          *string
	author         *string
	minPublishYear *int
	maxPublishYear *int
	minPrice       *float64
	maxPrice       *float64
	sortBy         SortColumn
	sortOrder      SortOrder
}

// BookID returns the id of the one book to match, if set.
func (q BookQuery) BookID() (BookID, bool) {
	return deref(q.bookID)
}

// Category returns the exact category to match, if set.
func (q BookQuery) Category() (string, bool) {
	return deref(q.category)
}

// Title returns the substring the title must contain, if set.
func (q BookQuery) Title() (string, bool) {
	return deref(q.title)
}

// Press returns the substring the press must contain, if set.
func (q BookQuery) Press() (string, bool) {
	return deref(q.press)
}

// Author returns the substring the author must contain, if set.
func (q BookQuery) Author() (string, bool) {
	return deref(q.author)
}

// MinPublishYear returns the inclusive lower publish year bound, if set.
func (q BookQuery) MinPublishYear() (int, bool) {
	return deref(q.minPublishYear)
}

// MaxPublishYear returns the inclusive upper publish year bound, if set.
func (q BookQuery) MaxPublishYear() (int, bool) {
	return deref(q.maxPublishYear)
}

// MinPrice returns the inclusive lower price bound, if set.
func (q BookQuery) MinPrice() (float64, bool) {
	return deref(q.minPrice)
}

// MaxPrice returns the inclusive upper price bound, if set.
func (q BookQuery) MaxPrice() (float64, bool) {
	return deref(q.maxPrice)
}

// SortBy returns the primary sort column, SortByBookID by default.
func (q BookQuery) SortBy() SortColumn {
	if q.sortBy == "" {
		return SortByBookID
	}

	return q.sortBy
}

// SortOrder returns the direction of the primary sort column, Ascending by default.
func (q BookQuery) SortOrder() SortOrder {
	if q.sortOrder == "" {
		return Ascending
	}

	return q.sortOrder
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}

	return *p, true
}

/***** BookQueryBuilder *****/

// BookQueryBuilder builds a BookQuery step by step; every method returns a modified copy.
//
// It sanitizes the input:
//   - empty (or whitespace only) strings leave the condition unset
//   - unknown sort columns fall back to SortByBookID
//   - unknown sort orders fall back to Ascending
type BookQueryBuilder struct {
	query BookQuery
}

// BuildBookQuery creates a BookQueryBuilder which must eventually be finalized with Finalize().
// Without any further call it matches all books ordered by book id.
func BuildBookQuery() BookQueryBuilder {
	return BookQueryBuilder{}
}

// WithBookID restricts the result to the book with this id.
func (b BookQueryBuilder) WithBookID(bookID BookID) BookQueryBuilder {
	b.query.bookID = &bookID

	return b
}

// WithCategory restricts the result to books of exactly this category.
func (b BookQueryBuilder) WithCategory(category string) BookQueryBuilder {
	b.query.category = sanitizeString(category)

	return b
}

// TitleContains restricts the result to books whose title contains the given text.
func (b BookQueryBuilder) TitleContains(title string) BookQueryBuilder {
	b.query.title = sanitizeString(title)

	return b
}

// PressContains restricts the result to books whose press contains the given text.
func (b BookQueryBuilder) PressContains(press string) BookQueryBuilder {
	b.query.press = sanitizeString(press)

	return b
}

// AuthorContains restricts the result to books whose author contains the given text.
func (b BookQueryBuilder) AuthorContains(author string) BookQueryBuilder {
	b.query.author = sanitizeString(author)

	return b
}

// PublishedFrom sets the inclusive lower publish year bound.
func (b BookQueryBuilder) PublishedFrom(year int) BookQueryBuilder {
	b.query.minPublishYear = &year

	return b
}

// PublishedUntil sets the inclusive upper publish year bound.
func (b BookQueryBuilder) PublishedUntil(year int) BookQueryBuilder {
	b.query.maxPublishYear = &year

	return b
}

// PublishedBetween sets both publish year bounds (inclusive).
func (b BookQueryBuilder) PublishedBetween(from, until int) BookQueryBuilder {
	return b.PublishedFrom(from).PublishedUntil(until)
}

// PricedFrom sets the inclusive lower price bound.
func (b BookQueryBuilder) PricedFrom(price float64) BookQueryBuilder {
	b.query.minPrice = &price

	return b
}

// PricedUntil sets the inclusive upper price bound.
func (b BookQueryBuilder) PricedUntil(price float64) BookQueryBuilder {
	b.query.maxPrice = &price

	return b
}

// PricedBetween sets both price bounds (inclusive).
func (b BookQueryBuilder) PricedBetween(from, until float64) BookQueryBuilder {
	return b.PricedFrom(from).PricedUntil(until)
}

// SortBy sets the primary sort column and its direction.
// Book id is always used as the ascending secondary sort column when the primary column is not the book id.
func (b BookQueryBuilder) SortBy(column SortColumn, order SortOrder) BookQueryBuilder {
	if sanitized, ok := ParseSortColumn(string(column)); ok {
		b.query.sortBy = sanitized
	} else {
		b.query.sortBy = SortByBookID
	}

	if order == Descending {
		b.query.sortOrder = Descending
	} else {
		b.query.sortOrder = Ascending
	}

	return b
}

// Finalize returns the BookQuery.
func (b BookQueryBuilder) Finalize() BookQuery {
	return b.query
}

func sanitizeString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	return &s
}
