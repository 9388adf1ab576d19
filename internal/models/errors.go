package models

import "errors"

// Error classes. Handlers map these to HTTP statuses.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalid      = errors.New("invalid request")
	ErrAlreadyVoted = errors.New("already voted")
	ErrMismatch     = errors.New("reference mismatch")
)

// Error pairs an error class with a message that is safe to show to API callers.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an *Error of the given class.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrUserNotFound     = NewError(ErrNotFound, "User not found")
	ErrQuestionNotFound = NewError(ErrNotFound, "Question not found")
	ErrAnswerNotFound   = NewError(ErrNotFound, "Answer not found")
	ErrEmailTaken       = NewError(ErrInvalid, "User already exists")
)
