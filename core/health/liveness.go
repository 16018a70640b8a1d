package health

import (
	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/response"
)

// Liveness always answers "ALIVE" with 200 OK.
func Liveness[S handler.State[C], C any](*handler.Request[S, C]) (*handler.Response, error) {
	return response.String("ALIVE")
}

// NoContent answers 204 without a body.
func NoContent[S handler.State[C], C any](*handler.Request[S, C]) (*handler.Response, error) {
	return response.NoContent()
}
