package testclient

import (
	"net/http"
	"sync"
)

// Client sends in-process requests to an http.Handler, typically a built
// router.Dispatcher. No network listener is involved.
type Client struct {
	handler    http.Handler
	header     http.Header
	remoteAddr string

	mu  sync.Mutex
	jar map[string]*http.Cookie // nil unless WithCookieJar
}

// Option configures a Client.
type Option func(*Client)

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// WithRemoteAddr sets the client address seen by handlers.
func WithRemoteAddr(addr string) Option {
	return func(c *Client) {
		c.remoteAddr = addr
	}
}

// WithCookieJar keeps cookies set by responses and sends them with later
// requests, like a browser would. Expired cookies are removed.
func WithCookieJar() Option {
	return func(c *Client) {
		c.jar = make(map[string]*http.Cookie)
	}
}

// New creates a client for h.
func New(h http.Handler, opts ...Option) *Client {
	c := &Client{
		handler:    h,
		header:     make(http.Header),
		remoteAddr: "127.0.0.1:8080",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get prepares a GET request.
func (c *Client) Get(target string) *Request {
	return c.Method(http.MethodGet, target)
}

// Head prepares a HEAD request.
func (c *Client) Head(target string) *Request {
	return c.Method(http.MethodHead, target)
}

// Post prepares a POST request.
func (c *Client) Post(target string) *Request {
	return c.Method(http.MethodPost, target)
}

// Put prepares a PUT request.
func (c *Client) Put(target string) *Request {
	return c.Method(http.MethodPut, target)
}

// Patch prepares a PATCH request.
func (c *Client) Patch(target string) *Request {
	return c.Method(http.MethodPatch, target)
}

// Delete prepares a DELETE request.
func (c *Client) Delete(target string) *Request {
	return c.Method(http.MethodDelete, target)
}

// Options prepares an OPTIONS request.
func (c *Client) Options(target string) *Request {
	return c.Method(http.MethodOptions, target)
}

// Method prepares a request with an arbitrary method.
func (c *Client) Method(method, target string) *Request {
	return &Request{
		client: c,
		method: method,
		target: target,
		header: c.header.Clone(),
	}
}

// Cookies returns the cookies currently held by the jar.
func (c *Client) Cookies() []*http.Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*http.Cookie, 0, len(c.jar))
	for _, ck := range c.jar {
		out = append(out, ck)
	}
	return out
}

func (c *Client) jarCookies() []*http.Cookie {
	if c.jar == nil {
		return nil
	}
	return c.Cookies()
}

func (c *Client) store(cookies []*http.Cookie) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.jar == nil {
		return
	}
	for _, ck := range cookies {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.jar, ck.Name)
			continue
		}
		c.jar[ck.Name] = ck
	}
}
