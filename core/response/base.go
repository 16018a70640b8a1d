package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/highnoon/core/handler"
)

const (
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Status creates an empty response with the given status code.
func Status(code int) (*handler.Response, error) {
	if code == 0 {
		code = http.StatusOK
	}
	return handler.NewResponse(code), nil
}

// NoContent creates a 204 No Content response.
func NoContent() (*handler.Response, error) {
	return Status(http.StatusNoContent)
}

// String creates a text/plain response with 200 OK status.
func String(content string) (*handler.Response, error) {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus creates a text/plain response with a custom status code.
func StringWithStatus(content string, status int) (*handler.Response, error) {
	return BytesWithStatus([]byte(content), ContentTypeText, status)
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) (*handler.Response, error) {
	return BytesWithStatus([]byte(content), ContentTypeHTML, http.StatusOK)
}

// Bytes creates a response with a custom content type and 200 OK status.
func Bytes(content []byte, contentType string) (*handler.Response, error) {
	return BytesWithStatus(content, contentType, http.StatusOK)
}

// BytesWithStatus creates a response with a custom content type and status code.
func BytesWithStatus(content []byte, contentType string, status int) (*handler.Response, error) {
	resp, _ := Status(status)
	if contentType != "" {
		resp.SetHeader("Content-Type", contentType)
	}
	return resp.SetBody(content), nil
}

// JSON encodes v as the response body with 200 OK status.
func JSON(v any) (*handler.Response, error) {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus encodes v as the response body with a custom status code.
func JSONWithStatus(v any, status int) (*handler.Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json response: %w", err)
	}
	return BytesWithStatus(b, ContentTypeJSON, status)
}

// JSONOrNotFound encodes *v, or responds 404 when v is nil.
func JSONOrNotFound[T any](v *T) (*handler.Response, error) {
	if v == nil {
		return nil, handler.ErrNotFound
	}
	return JSON(*v)
}

// Form encodes values as an application/x-www-form-urlencoded body.
func Form(values url.Values) (*handler.Response, error) {
	return BytesWithStatus([]byte(values.Encode()), ContentTypeForm, http.StatusOK)
}

// Error propagates err to the middlewares and the error handler.
func Error(err error) (*handler.Response, error) {
	return nil, err
}
