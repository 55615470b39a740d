package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of its HTTP code.
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindInvalidState    Kind = "invalid_state"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindUnavailable     Kind = "unavailable"
	KindInternal        Kind = "internal"
)

// InternalMessage is the only message a client sees for unexpected failures.
const InternalMessage = "Server error. Try again later."

type AppError struct {
	Code    int         `json:"code"`
	Kind    Kind        `json:"kind"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, KindInvalidInput, message, nil)
}

// InvalidInput carries field-level validation details.
func InvalidInput(message string, details interface{}) *AppError {
	e := New(http.StatusBadRequest, KindInvalidInput, message, nil)
	e.Details = details
	return e
}

// InvalidState reports a request that is well formed but cannot be served
// given the current state of a record (e.g. applying without a stored CV).
func InvalidState(message string) *AppError {
	return New(http.StatusBadRequest, KindInvalidState, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, KindUnauthenticated, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, KindForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, KindConflict, message, nil)
}

func Unavailable(message string, err error) *AppError {
	return New(http.StatusServiceUnavailable, KindUnavailable, message, err)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, KindInternal, InternalMessage, err)
}

// As extracts an *AppError from err.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// IsNotFound is shorthand for IsKind(err, KindNotFound).
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// Wrap converts any error into an AppError, keeping existing AppErrors intact.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Internal(err)
}
