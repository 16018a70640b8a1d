package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
)

// StreamFunc produces a response body incrementally. Every Write is flushed to
// the client. ctx is canceled when the client goes away.
type StreamFunc func(ctx context.Context, w io.Writer) error

// Loop owns an upgraded connection until it returns.
type Loop func(ctx context.Context)

// Upgrade performs a protocol switch handshake on w and returns the loop that
// takes over the connection. h holds the response headers set on the way out
// of the middleware chain and is sent with the handshake. When it fails the
// handshake has already been answered on w.
type Upgrade func(w http.ResponseWriter, r *http.Request, h http.Header) (Loop, error)

// Response is the value produced by handlers. It carries a status, headers and
// exactly one of a buffered body, a stream producer or a protocol upgrade.
// Middlewares may rewrite any part of it on the way out.
type Response struct {
	status  int
	header  http.Header
	body    []byte
	stream  StreamFunc
	upgrade Upgrade
}

// NewResponse creates an empty response with the given status.
func NewResponse(status int) *Response {
	return &Response{status: status, header: make(http.Header)}
}

// Status returns the response status code.
func (r *Response) Status() int {
	return r.status
}

// SetStatus replaces the status code.
func (r *Response) SetStatus(code int) *Response {
	r.status = code
	return r
}

// Header returns the response headers. It satisfies the Header method of
// http.ResponseWriter, so cookie helpers can write into a Response.
func (r *Response) Header() http.Header {
	if r.header == nil {
		r.header = make(http.Header)
	}
	return r.header
}

// SetHeader sets a header value, replacing existing ones.
func (r *Response) SetHeader(key, value string) *Response {
	r.Header().Set(key, value)
	return r
}

// Body returns the buffered body.
func (r *Response) Body() []byte {
	return r.body
}

// SetBody replaces the body with a buffered one.
func (r *Response) SetBody(b []byte) *Response {
	r.body = b
	r.stream = nil
	return r
}

// Stream returns the stream producer, or nil for buffered responses.
func (r *Response) Stream() StreamFunc {
	return r.stream
}

// SetStream replaces the body with a stream producer.
func (r *Response) SetStream(fn StreamFunc) *Response {
	r.stream = fn
	r.body = nil
	return r
}

// Upgrade returns the protocol upgrade, or nil for regular responses.
func (r *Response) Upgrade() Upgrade {
	return r.upgrade
}

// SetUpgrade marks the response as a protocol upgrade.
func (r *Response) SetUpgrade(u Upgrade) *Response {
	r.upgrade = u
	r.body = nil
	r.stream = nil
	return r
}

// Render writes status, headers and body to w. Upgrades are not rendered; the
// dispatcher hands them the connection instead.
func (r *Response) Render(w http.ResponseWriter, req *http.Request) error {
	dst := w.Header()
	for k, v := range r.header {
		dst[k] = v
	}

	status := r.status
	if status == 0 {
		status = http.StatusOK
	}

	if r.stream != nil {
		w.WriteHeader(status)
		if req.Method == http.MethodHead {
			return nil
		}
		fw := &flushWriter{w: w, rc: http.NewResponseController(w)}
		_ = fw.rc.Flush()
		return r.stream(req.Context(), fw)
	}

	if len(r.body) > 0 && dst.Get("Content-Length") == "" && dst.Get("Transfer-Encoding") == "" {
		dst.Set("Content-Length", strconv.Itoa(len(r.body)))
	}
	w.WriteHeader(status)
	if len(r.body) == 0 || req.Method == http.MethodHead {
		return nil
	}
	_, err := w.Write(r.body)
	return err
}

type flushWriter struct {
	w  io.Writer
	rc *http.ResponseController
}

func (f *flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		return n, err
	}
	// writers without flush support just buffer
	_ = f.rc.Flush()
	return n, nil
}
