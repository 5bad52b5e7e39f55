package weather

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrCacheMiss is returned by stores when no entry exists for a key.
var ErrCacheMiss = errors.New("no cached forecast for location")

// ErrorCode categorises application errors.
type ErrorCode string

const (
	ErrCodeMissingCoordinates ErrorCode = "validation_missing_coordinates"
	ErrCodeUpstreamFetch      ErrorCode = "upstream_fetch_failed"
	ErrCodeUpstreamParse      ErrorCode = "upstream_parse_failed"
	ErrCodeCacheIO            ErrorCode = "internal_cache_io"
	ErrCodeInternal           ErrorCode = "internal_unexpected_error"
)

// HTTPStatus maps the code to the status returned to clients.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest
	case strings.HasPrefix(s, "upstream_"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the error type surfaced by the service.
type AppError struct {
	Code     ErrorCode
	Message  string
	Provider string
	Err      error
}

func (e *AppError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status for the error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// NewAppError creates an AppError.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// UpstreamFetchError wraps a network, timeout or status failure of a provider.
func UpstreamFetchError(provider string, err error) *AppError {
	return &AppError{Code: ErrCodeUpstreamFetch, Message: "forecast provider unavailable", Provider: provider, Err: err}
}

// UpstreamParseError wraps an unreadable provider body.
func UpstreamParseError(provider string, err error) *AppError {
	return &AppError{Code: ErrCodeUpstreamParse, Message: "forecast provider returned an invalid body", Provider: provider, Err: err}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
