package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeTimeout      = "TIMEOUT"
	CodeInvalidInput = "INVALID_INPUT"
)

var statusByCode = map[string]int{
	CodeNotFound:     http.StatusNotFound,
	CodeValidation:   http.StatusUnprocessableEntity,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeConflict:     http.StatusConflict,
	CodeInternal:     http.StatusInternalServerError,
	CodeTimeout:      http.StatusGatewayTimeout,
	CodeInvalidInput: http.StatusBadRequest,
}

// AppError is the error every service returns to its handler. Code is part of
// the public API; Err is kept for logs and never rendered.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the code to an HTTP status; unknown codes are 500.
func (e *AppError) StatusCode() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithDetails merges details into the error, overwriting existing keys.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

func newError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NotFoundWithID(resource, id string) *AppError {
	return newError(CodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetails(map[string]any{"resource": resource, "id": id})
}

func Validation(message string, details map[string]any) *AppError {
	e := newError(CodeValidation, message)
	e.Details = details
	return e
}

func InvalidInput(message string) *AppError {
	return newError(CodeInvalidInput, message)
}

func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return newError(CodeForbidden, message)
}

func Conflict(message string) *AppError {
	return newError(CodeConflict, message)
}

func Internal(message string, err error) *AppError {
	e := newError(CodeInternal, message)
	e.Err = err
	return e
}

func Timeout(message string) *AppError {
	return newError(CodeTimeout, message)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError finds the AppError in err's chain, treating anything else as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
