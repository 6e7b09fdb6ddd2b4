package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConfiguration indicates that a company setting required by the operation is missing.
var ErrConfiguration = errors.New("configuration error")

// ErrConflict indicates a concurrent modification; the whole operation may be retried.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// AppError carries a status-like code and a message on top of the underlying error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
