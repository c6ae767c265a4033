// Package apierror defines the typed errors the API returns to clients.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeBadRequest          Code = "bad_request"
	CodeUnauthorized        Code = "unauthorized"
	CodeForbidden           Code = "forbidden"
	CodeExceededLimit       Code = "exceeded_limit"
	CodeNotFound            Code = "not_found"
	CodeConflict            Code = "conflict"
	CodeUnprocessableEntity Code = "unprocessable_entity"
	CodeRateLimitExceeded   Code = "rate_limit_exceeded"
	CodeInternalServerError Code = "internal_server_error"
)

var statusByCode = map[Code]int{
	CodeBadRequest:          http.StatusBadRequest,
	CodeUnauthorized:        http.StatusUnauthorized,
	CodeForbidden:           http.StatusForbidden,
	CodeExceededLimit:       http.StatusForbidden,
	CodeNotFound:            http.StatusNotFound,
	CodeConflict:            http.StatusConflict,
	CodeUnprocessableEntity: http.StatusUnprocessableEntity,
	CodeRateLimitExceeded:   http.StatusTooManyRequests,
	CodeInternalServerError: http.StatusInternalServerError,
}

// Error is an error with a client-facing code and message.
type Error struct {
	Code    Code
	Message string
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Status returns the HTTP status for the error's code.
func (e *Error) Status() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Code == code
}
