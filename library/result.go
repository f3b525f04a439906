package library

// Result is the outcome of every library operation.
//
// Ok is true when the operation committed. On failure, Message carries the human-readable reason
// (the business rule that was violated or the store error) and Err the underlying error for errors.Is checks.
// Payload is set only by the query operations: []Book, []Card or BorrowHistory.
type Result struct {
	Ok      bool   `json:"ok"`
	Message string `json:"message"`
	Payload any    `json:"payload,omitempty"`
	Err     error  `json:"-"`
}

// Succeeded builds a successful Result with an optional payload.
func Succeeded(message string, payload any) Result {
	return Result{
		Ok:      true,
		Message: message,
		Payload: payload,
	}
}

// Failed builds a failed Result from err.
func Failed(err error) Result {
	if err == nil {
		return Result{Ok: false}
	}

	return Result{
		Ok:      false,
		Message: err.Error(),
		Err:     err,
	}
}

// Books returns the payload of a QueryBook result, or nil for any other payload.
func (r Result) Books() []Book {
	books, _ := r.Payload.([]Book)

	return books
}

// Cards returns the payload of a ShowCards result, or nil for any other payload.
func (r Result) Cards() []Card {
	cards, _ := r.Payload.([]Card)

	return cards
}

// BorrowHistory returns the payload of a ShowBorrowHistory result, or nil for any other payload.
func (r Result) BorrowHistory() BorrowHistory {
	history, _ := r.Payload.(BorrowHistory)

	return history
}
