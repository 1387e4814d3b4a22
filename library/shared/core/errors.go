package core

import (
	"errors"
)

// Kinds of DomainError, match them with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrLimitExceeded = errors.New("limit exceeded")
	ErrStorage       = errors.New("storage error")
)

// DomainError is an error of one of the kinds above, with a message meant for the caller.
type DomainError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}

	return e.Message
}

// Is matches the kind, errors.Is(err, core.ErrNotFound).
func (e *DomainError) Is(target error) bool {
	return target == e.Kind
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

func ValidationError(message string) error {
	return &DomainError{Kind: ErrValidation, Message: message}
}

func NotFoundError(message string) error {
	return &DomainError{Kind: ErrNotFound, Message: message}
}

func ConflictError(message string) error {
	return &DomainError{Kind: ErrConflict, Message: message}
}

func LimitExceededError(message string) error {
	return &DomainError{Kind: ErrLimitExceeded, Message: message}
}

// StorageError wraps an infrastructure failure, the cause stays reachable with errors.Is/As.
func StorageError(cause error) error {
	return &DomainError{Kind: ErrStorage, Message: "storage failure", Cause: cause}
}

// MessageOf returns the caller facing message of a DomainError, or a generic one for any other error.
func MessageOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return "internal error"
}
