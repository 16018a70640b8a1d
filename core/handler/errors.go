package handler

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusCoder is implemented by failures that suggest an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// HTTPError is a failure with a suggested status and a message that is safe to
// send to the client. The wrapped Err is for logs only.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

// NewHTTPError creates an HTTPError using the standard status text as message.
func NewHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the suggested HTTP status.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// Is matches another HTTPError with the same status and code, so predefined
// values work with errors.Is after WithMessage or WithError.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Status == e.Status && t.Code == e.Code
}

// WithMessage returns a copy with a custom public message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy with additional public details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError returns a copy wrapping the cause.
func (e HTTPError) WithError(err error) HTTPError {
	e.Err = err
	return e
}

var (
	ErrBadRequest            = NewHTTPError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized          = NewHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden             = NewHTTPError(http.StatusForbidden, "forbidden")
	ErrNotFound              = NewHTTPError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed      = NewHTTPError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrRequestTimeout        = NewHTTPError(http.StatusRequestTimeout, "request_timeout")
	ErrConflict              = NewHTTPError(http.StatusConflict, "conflict")
	ErrRequestEntityTooLarge = NewHTTPError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrUnsupportedMediaType  = NewHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type")
	ErrUnprocessableEntity   = NewHTTPError(http.StatusUnprocessableEntity, "unprocessable_entity")
	ErrTooManyRequests       = NewHTTPError(http.StatusTooManyRequests, "too_many_requests")
	ErrInternalServerError   = NewHTTPError(http.StatusInternalServerError, "internal_server_error")
	ErrServiceUnavailable    = NewHTTPError(http.StatusServiceUnavailable, "service_unavailable")
	ErrGatewayTimeout        = NewHTTPError(http.StatusGatewayTimeout, "gateway_timeout")
)

// ErrNilResponse is reported when a handler returns neither a Response nor an error.
var ErrNilResponse = errors.New("handler returned nil response")

// AbortError carries a complete Response chosen by a handler or middleware.
type AbortError struct {
	Response *Response
}

// Abort stops processing and sends resp as-is.
func Abort(resp *Response) error {
	return &AbortError{Response: resp}
}

// Error implements the error interface.
func (e *AbortError) Error() string {
	return fmt.Sprintf("request aborted with status %d", e.StatusCode())
}

// StatusCode returns the status of the carried response.
func (e *AbortError) StatusCode() int {
	if e.Response == nil {
		return http.StatusInternalServerError
	}
	return e.Response.Status()
}

// StatusOf reports the status a (response, error) pair returned by a handler
// will be sent with, assuming the default error mapping.
func StatusOf(resp *Response, err error) int {
	if err == nil {
		if resp == nil {
			return http.StatusInternalServerError
		}
		return resp.Status()
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 100 && code <= 999 {
			return code
		}
	}
	return http.StatusInternalServerError
}
