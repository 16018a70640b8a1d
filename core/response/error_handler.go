package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/highnoon/core/handler"
)

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONErrorHandler renders failures as {"code", "message", "details"} JSON.
// Only HTTPError fields reach the client; other failures become a generic 500.
// It can be installed with router.WithErrorHandler.
func JSONErrorHandler(_ context.Context, err error) *handler.Response {
	var abort *handler.AbortError
	if errors.As(err, &abort) && abort.Response != nil {
		return abort.Response
	}

	body := errorBody{
		Code:    handler.ErrInternalServerError.Code,
		Message: handler.ErrInternalServerError.Message,
	}
	status := http.StatusInternalServerError

	var httpErr handler.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status >= 400 && httpErr.Status <= 599 {
		status = httpErr.Status
		body = errorBody{Code: httpErr.Code, Message: httpErr.Message, Details: httpErr.Details}
	}

	b, mErr := json.Marshal(body)
	if mErr != nil {
		b = []byte(`{"code":"internal_server_error","message":"Internal Server Error"}`)
		status = http.StatusInternalServerError
	}

	resp, _ := BytesWithStatus(b, ContentTypeJSON, status)
	return resp
}
