package middleware

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/highnoon/core/handler"
)

type basicAuthUserKey struct{}

// BasicAuth requires HTTP Basic credentials accepted by validate. Rejected
// requests get 401 with a WWW-Authenticate challenge for realm. The accepted
// user name is available through GetBasicAuthUser.
func BasicAuth[S handler.State[C], C any](realm string, validate func(user, pass string) bool) handler.Middleware[S, C] {
	challenge := fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", realm)

	return func(next handler.HandlerFunc[S, C]) handler.HandlerFunc[S, C] {
		return func(req *handler.Request[S, C]) (*handler.Response, error) {
			user, pass, ok := req.Raw().BasicAuth()
			if !ok || validate == nil || !validate(user, pass) {
				resp := handler.NewResponse(http.StatusUnauthorized).
					SetHeader("WWW-Authenticate", challenge).
					SetHeader("Content-Type", "text/plain; charset=utf-8").
					SetBody([]byte(http.StatusText(http.StatusUnauthorized) + "\n"))
				return nil, handler.Abort(resp)
			}

			req.SetValue(basicAuthUserKey{}, user)
			return next(req)
		}
	}
}

// BasicAuthUsers validates against a fixed user to password map in constant
// time per comparison.
func BasicAuthUsers(users map[string]string) func(user, pass string) bool {
	return func(user, pass string) bool {
		want, ok := users[user]
		if !ok {
			// compare anyway so unknown users take as long as known ones
			want = pass + "x"
		}
		return subtle.ConstantTimeCompare([]byte(pass), []byte(want)) == 1 && ok
	}
}

// GetBasicAuthUser returns the user accepted by BasicAuth.
func GetBasicAuthUser(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(basicAuthUserKey{}).(string)
	return user, ok
}
