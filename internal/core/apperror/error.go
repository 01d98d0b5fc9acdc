// Package apperror is the error type returned across layers and rendered by
// the HTTP error middleware. Code classifies the error and fixes the HTTP
// status; ErrorCode carries the stable domain identifier (ORG_001, APP_002).
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes.
const (
	CodeInternal       = "INTERNAL_ERROR"
	CodeTimeout        = "TIMEOUT_ERROR"
	CodeValidation     = "VALIDATION_ERROR"
	CodeBusinessRule   = "BUSINESS_RULE_VIOLATION"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeNotImplemented = "NOT_IMPLEMENTED"
)

// AppError is a classified error with client-safe message and details.
type AppError struct {
	Code      string         `json:"code"`
	ErrorCode string         `json:"errorCode,omitempty"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`

	HTTPStatus int   `json:"-"`
	Err        error `json:"-"`
}

func (e *AppError) Error() string {
	code := e.Code
	if e.ErrorCode != "" {
		code += "/" + e.ErrorCode
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail sets one details entry. Details are shown to clients.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause attaches the underlying error. It is logged, never rendered.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// WithErrorCode sets the domain error code.
func (e *AppError) WithErrorCode(code string) *AppError {
	e.ErrorCode = code
	return e
}

func newError(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NewValidation is a 400 for malformed or incomplete input.
func NewValidation(message string) *AppError {
	return newError(CodeValidation, http.StatusBadRequest, message)
}

// NewNotFound is a 404 naming the entity and key that was looked up.
func NewNotFound(entity string, key any) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, entity+" not found").
		WithDetail("entity", entity).
		WithDetail("id", key)
}

// NewBusinessRule is a 422 for well-formed input that breaks a domain rule.
func NewBusinessRule(errorCode, message string) *AppError {
	return newError(CodeBusinessRule, http.StatusUnprocessableEntity, message).WithErrorCode(errorCode)
}

// NewInternal is a 500 whose message never reveals err.
func NewInternal(err error) *AppError {
	return newError(CodeInternal, http.StatusInternalServerError, "Internal server error").WithCause(err)
}

// NewTimeout is a 504 for work cut short by a deadline.
func NewTimeout(message string, err error) *AppError {
	return newError(CodeTimeout, http.StatusGatewayTimeout, message).WithCause(err)
}

func NewUnauthorized(message string) *AppError {
	return newError(CodeUnauthorized, http.StatusUnauthorized, message)
}

func NewForbidden(message string) *AppError {
	return newError(CodeForbidden, http.StatusForbidden, message)
}

func NewConflict(message string) *AppError {
	return newError(CodeConflict, http.StatusConflict, message)
}

func NewNotImplemented(message string) *AppError {
	return newError(CodeNotImplemented, http.StatusNotImplemented, message)
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// GetHTTPStatus is the AppError status, or 500 for anything else.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func hasCode(err error, code string) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func IsNotFound(err error) bool   { return hasCode(err, CodeNotFound) }
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }
func IsConflict(err error) bool   { return hasCode(err, CodeConflict) }

// ErrorCodeOf returns the domain error code carried by err, or "".
func ErrorCodeOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.ErrorCode
	}
	return ""
}
