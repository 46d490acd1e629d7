// Package common provides shared errors and logging helpers used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Data errors.
	ErrDataNotFound  = errors.New("trip data not found")
	ErrMalformedData = errors.New("malformed trip data")
	ErrUnknownCity   = errors.New("unknown city")

	// Input errors.
	ErrInputClosed   = errors.New("input closed")
	ErrInvalidFilter = errors.New("invalid filter")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage returns the message meant for the user, falling back to err itself.
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}
