package router

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/highnoon/core/handler"
)

type allowedKey struct{}

// AllowedMethods returns the methods registered for the requested path while
// a method-not-allowed handler is running.
func AllowedMethods(ctx context.Context) []string {
	allowed, _ := ctx.Value(allowedKey{}).([]string)
	return allowed
}

// DefaultErrorHandler maps failures to plain-text responses. Only HTTPError
// messages and explicitly aborted responses reach the client; everything else
// becomes a generic 500.
func DefaultErrorHandler(_ context.Context, err error) *handler.Response {
	var abort *handler.AbortError
	if errors.As(err, &abort) && abort.Response != nil {
		return abort.Response
	}

	var httpErr handler.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status >= 400 && httpErr.Status <= 599 {
		msg := httpErr.Message
		if msg == "" {
			msg = http.StatusText(httpErr.Status)
		}
		return textResponse(httpErr.Status, msg)
	}

	return textResponse(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func notFoundHandler[S handler.State[C], C any](_ *handler.Request[S, C]) (*handler.Response, error) {
	return textResponse(http.StatusNotFound, http.StatusText(http.StatusNotFound)), nil
}

func methodNotAllowedHandler[S handler.State[C], C any](req *handler.Request[S, C]) (*handler.Response, error) {
	resp := textResponse(http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	resp.SetHeader("Allow", strings.Join(AllowedMethods(req), ", "))
	return resp, nil
}

func textResponse(status int, msg string) *handler.Response {
	return handler.NewResponse(status).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetHeader("X-Content-Type-Options", "nosniff").
		SetBody([]byte(msg + "\n"))
}
