package response

import (
	"net/http"

	"github.com/dmitrymomot/highnoon/core/handler"
)

// Redirect creates a 302 Found response.
func Redirect(url string) (*handler.Response, error) {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectPermanent creates a 301 Moved Permanently response.
func RedirectPermanent(url string) (*handler.Response, error) {
	return RedirectWithStatus(url, http.StatusMovedPermanently)
}

// RedirectSeeOther creates a 303 See Other response, typically after a POST.
func RedirectSeeOther(url string) (*handler.Response, error) {
	return RedirectWithStatus(url, http.StatusSeeOther)
}

// RedirectWithStatus creates a redirect with a custom 3xx status.
// Statuses outside 300-399 fall back to 302.
func RedirectWithStatus(url string, status int) (*handler.Response, error) {
	if status < 300 || status > 399 {
		status = http.StatusFound
	}
	resp := handler.NewResponse(status).SetHeader("Location", url)
	return resp, nil
}
