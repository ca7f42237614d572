package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key already exists.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrUnauthorized is returned when a bearer token is missing, invalid or revoked.
	ErrUnauthorized = errors.New("Unauthorized")
	// ErrUpstream is returned when the payment provider fails.
	ErrUpstream = errors.New("upstream failure")
)

// ValidationError carries a client-facing message for malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NotFoundError names the missing resource. It matches ErrNotFound.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Message: e.Message}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Anything it does not recognise becomes a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	var validation *ValidationError
	var notFound *NotFoundError
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.As(err, &validation):
		return NewHTTPError(http.StatusBadRequest, validation.Message)
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error())
	case errors.As(err, &notFound):
		return NewHTTPError(http.StatusNotFound, notFound.Message)
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, "Resource already exists")
	case errors.Is(err, ErrUpstream):
		return NewHTTPError(http.StatusInternalServerError, "Failed to create payment")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

// Handler renders every error returned by a handler as {"message": ...}.
func Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	var mapped *HTTPError
	if errors.As(err, &he) {
		mapped = fromEcho(he)
	} else {
		mapped = MapErrorToHTTP(err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(mapped.StatusCode)
		return
	}
	_ = c.JSON(mapped.StatusCode, mapped.ToErrorResponse())
}

func fromEcho(he *echo.HTTPError) *HTTPError {
	switch msg := he.Message.(type) {
	case string:
		return NewHTTPError(he.Code, msg)
	case ErrorResponse:
		return NewHTTPError(he.Code, msg.Message)
	default:
		return NewHTTPError(he.Code, http.StatusText(he.Code))
	}
}
