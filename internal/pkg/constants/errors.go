package constants

import "net/http"

// CodedError carries an HTTP status code up to the API error handler.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound   = NewCodedError(http.StatusNotFound, "not found")
	ErrUnauthorized = NewCodedError(http.StatusUnauthorized, "unauthorized")
	ErrBadRequest   = NewCodedError(http.StatusBadRequest, "bad request")

	// ErrInconsistentDuplicate means two records with an identical dedup key
	// disagree on availability_status. The key includes every status field,
	// so this can only happen when upstream classification is broken; the
	// run must halt instead of silently picking a winner.
	ErrInconsistentDuplicate = NewCodedError(http.StatusUnprocessableEntity, "duplicate dedup key with inconsistent availability status")
)
