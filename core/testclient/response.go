package testclient

import (
	"encoding/json"
	"io"
	"net/http"
)

// Response is a fully buffered response.
type Response struct {
	raw  *http.Response
	body []byte
}

func newResponse(raw *http.Response) *Response {
	// a recorder result body is an in-memory reader and cannot fail
	b, _ := io.ReadAll(raw.Body)
	_ = raw.Body.Close()
	return &Response{raw: raw, body: b}
}

// Status returns the status code.
func (r *Response) Status() int {
	return r.raw.StatusCode
}

// Header returns the first value of a response header.
func (r *Response) Header(key string) string {
	return r.raw.Header.Get(key)
}

// Headers returns all response headers.
func (r *Response) Headers() http.Header {
	return r.raw.Header
}

// Bytes returns the body.
func (r *Response) Bytes() []byte {
	return r.body
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.body, v)
}

// Cookies returns the cookies set by the response.
func (r *Response) Cookies() []*http.Cookie {
	return r.raw.Cookies()
}

// Cookie returns the named cookie set by the response, or nil.
func (r *Response) Cookie(name string) *http.Cookie {
	for _, c := range r.raw.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Raw returns the underlying *http.Response. Its body has been consumed.
func (r *Response) Raw() *http.Response {
	return r.raw
}
