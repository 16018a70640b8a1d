package testclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// ErrBodyAlreadySet is returned by Send when more than one body was given.
var ErrBodyAlreadySet = errors.New("request body already set")

// Request is a request under construction. Builder methods record failures
// and Send reports the first one.
type Request struct {
	client  *Client
	method  string
	target  string
	header  http.Header
	query   url.Values
	cookies []*http.Cookie
	body    io.Reader
	ctx     context.Context
	err     error
}

// Header sets a request header.
func (r *Request) Header(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

// Query adds a query parameter to the target URL.
func (r *Request) Query(key, value string) *Request {
	if r.query == nil {
		r.query = make(url.Values)
	}
	r.query.Add(key, value)
	return r
}

// Cookie adds a request cookie.
func (r *Request) Cookie(c *http.Cookie) *Request {
	r.cookies = append(r.cookies, c)
	return r
}

// BasicAuth sets HTTP Basic credentials.
func (r *Request) BasicAuth(user, pass string) *Request {
	hr := &http.Request{Header: make(http.Header)}
	hr.SetBasicAuth(user, pass)
	r.header.Set("Authorization", hr.Header.Get("Authorization"))
	return r
}

// Context sets the context of the request, e.g. to simulate a client that
// goes away.
func (r *Request) Context(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Body sets a raw body.
func (r *Request) Body(body io.Reader) *Request {
	if r.body != nil {
		r.fail(ErrBodyAlreadySet)
		return r
	}
	r.body = body
	return r
}

// Bytes sets a raw body.
func (r *Request) Bytes(b []byte) *Request {
	return r.Body(bytes.NewReader(b))
}

// String sets a text body.
func (r *Request) String(s string) *Request {
	return r.Body(strings.NewReader(s))
}

// JSON encodes v as the body and sets Content-Type to application/json.
func (r *Request) JSON(v any) *Request {
	b, err := json.Marshal(v)
	if err != nil {
		r.fail(fmt.Errorf("encode JSON body: %w", err))
		return r
	}
	r.header.Set("Content-Type", "application/json")
	return r.Bytes(b)
}

// Form sets a URL-encoded body and its Content-Type.
func (r *Request) Form(values url.Values) *Request {
	r.header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r.String(values.Encode())
}

func (r *Request) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Send runs the request through the handler and returns the recorded response.
func (r *Request) Send() (*Response, error) {
	if r.err != nil {
		return nil, r.err
	}

	target := r.target
	if len(r.query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + r.query.Encode()
	}

	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	hr := httptest.NewRequestWithContext(ctx, r.method, target, r.body)
	hr.RemoteAddr = r.client.remoteAddr
	for k, v := range r.header {
		hr.Header[k] = v
	}
	for _, c := range r.client.jarCookies() {
		hr.AddCookie(c)
	}
	for _, c := range r.cookies {
		hr.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	r.client.handler.ServeHTTP(rec, hr)

	resp := newResponse(rec.Result())
	r.client.store(resp.Cookies())
	return resp, nil
}
