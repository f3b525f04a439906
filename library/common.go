package library

import (
	"errors"
)

// Construction errors.
var (
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrUnsupportedDialect    = errors.New("unsupported sql dialect")
	ErrNilSchemaInitializer  = errors.New("schema initializer must not be nil")
)

// Business rule violations. Each one is reported as a failed Result with its own message.
var (
	ErrNilBook                    = errors.New("the book must not be empty")
	ErrNilCard                    = errors.New("the card must not be empty")
	ErrBookAlreadyExists          = errors.New("there is a book already in the library system")
	ErrBookNotFound               = errors.New("the book is not in the library system")
	ErrNegativeStock              = errors.New("stock of the book can't be less than 0")
	ErrStockNotUpdated            = errors.New("stock of the book was not updated, the book was changed concurrently")
	ErrBookNotReturned            = errors.New("someone has not returned the book")
	ErrBookAlreadyBorrowed        = errors.New("the book has been borrowed and has not been returned")
	ErrStockEmpty                 = errors.New("the book stock is empty")
	ErrReturnTimeBeforeBorrowTime = errors.New("time error: the return time must be positive and not before the borrow time")
	ErrNoSuchLoan                 = errors.New("there is no record of this loan")
	ErrCardNotFound               = errors.New("the card is not in the library system")
	ErrCardHasUnreturnedBooks     = errors.New("the card has unreturned books")
	ErrInvalidCardType            = errors.New("the card type must be one of: S (student), T (teacher)")
)

// Store errors. The underlying driver error is joined to one of these.
var (
	ErrBuildingQueryFailed = errors.New("building the sql statement failed")
	ErrBeginTxFailed       = errors.New("starting the transaction failed")
	ErrCommitFailed        = errors.New("committing the transaction failed")
	ErrQueryingFailed      = errors.New("querying the store failed")
	ErrExecutingFailed     = errors.New("executing the sql statement failed")
	ErrScanningRowFailed   = errors.New("scanning a database row failed")
)

var businessRuleViolations = []error{
	ErrNilBook,
	ErrNilCard,
	ErrBookAlreadyExists,
	ErrBookNotFound,
	ErrNegativeStock,
	ErrStockNotUpdated,
	ErrBookNotReturned,
	ErrBookAlreadyBorrowed,
	ErrStockEmpty,
	ErrReturnTimeBeforeBorrowTime,
	ErrNoSuchLoan,
	ErrCardNotFound,
	ErrCardHasUnreturnedBooks,
	ErrInvalidCardType,
}

// IsBusinessRuleViolation reports whether err is (or wraps) one of the business rule violations,
// as opposed to a store or connectivity error.
func IsBusinessRuleViolation(err error) bool {
	for _, violation := range businessRuleViolations {
		if errors.Is(err, violation) {
			return true
		}
	}

	return false
}

// BookID, CardID and UnixMilli are aliases to make signatures self-explaining.
type (
	BookID    = int64
	CardID    = int64
	UnixMilli = int64
)
