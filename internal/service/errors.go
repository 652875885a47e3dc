package service

import "errors"

// Error kinds. Match with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
)

// Error carries a user-facing message alongside its kind
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func validation(msg string) error   { return &Error{Kind: ErrValidation, Msg: msg} }
func unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Msg: msg} }
func conflict(msg string) error     { return &Error{Kind: ErrConflict, Msg: msg} }

// Message returns the user-facing text for err. Errors outside the taxonomy
// get a generic message so internal details never reach the client.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "Not found."
	case errors.Is(err, ErrForbidden):
		return "You do not have permission to do that."
	}
	return "Something went wrong. Please try again."
}
