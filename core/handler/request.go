package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Params holds the values bound by route parameters and wildcards, keyed by name.
type Params map[string]string

// Get returns the value bound to name.
func (p Params) Get(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// Request is the per-request view handed to handlers and middlewares.
// It implements context.Context by delegating to the transport request's
// context, so Done is closed when the client goes away.
//
// A Request is owned by one request and must not be retained after the
// handler chain returns.
type Request[S State[C], C any] struct {
	r       *http.Request
	state   S
	ctx     C
	params  Params
	pattern string

	body     []byte
	bodyRead bool
	bodyErr  error

	mu       sync.Mutex
	cleanups []func()
	released bool
}

// NewRequest wraps r and creates the per-request context from state.
func NewRequest[S State[C], C any](r *http.Request, state S, pattern string, params Params) *Request[S, C] {
	if params == nil {
		params = Params{}
	}
	return &Request[S, C]{
		r:       r,
		state:   state,
		ctx:     state.NewContext(),
		params:  params,
		pattern: pattern,
	}
}

// Deadline delegates to the transport request context.
func (r *Request[S, C]) Deadline() (time.Time, bool) {
	return r.r.Context().Deadline()
}

// Done is closed when the request is canceled, e.g. on client disconnect.
func (r *Request[S, C]) Done() <-chan struct{} {
	return r.r.Context().Done()
}

// Err delegates to the transport request context.
func (r *Request[S, C]) Err() error {
	return r.r.Context().Err()
}

// Value delegates to the transport request context.
func (r *Request[S, C]) Value(key any) any {
	return r.r.Context().Value(key)
}

// SetValue stores a request-scoped value readable through Value.
func (r *Request[S, C]) SetValue(key, val any) {
	r.r = r.r.WithContext(context.WithValue(r.r.Context(), key, val))
}

// SetContext replaces the underlying context, e.g. to attach a deadline.
func (r *Request[S, C]) SetContext(ctx context.Context) {
	r.r = r.r.WithContext(ctx)
}

// SetRaw replaces the transport request, e.g. with the one a net/http
// middleware passed on after rewriting it.
func (r *Request[S, C]) SetRaw(hr *http.Request) {
	if hr != nil {
		r.r = hr
	}
}

// State returns the application state shared by all requests.
func (r *Request[S, C]) State() S {
	return r.state
}

// Ctx returns the per-request context created by State.NewContext.
func (r *Request[S, C]) Ctx() C {
	return r.ctx
}

// Raw returns the underlying *http.Request.
func (r *Request[S, C]) Raw() *http.Request {
	return r.r
}

// Method returns the request method.
func (r *Request[S, C]) Method() string {
	return r.r.Method
}

// Path returns the unescaped request path.
func (r *Request[S, C]) Path() string {
	return r.r.URL.Path
}

// URL returns the request URL.
func (r *Request[S, C]) URL() *url.URL {
	return r.r.URL
}

// Pattern returns the route pattern that matched, or "" for unmatched requests.
func (r *Request[S, C]) Pattern() string {
	return r.pattern
}

// RemoteAddr returns the network address of the client.
func (r *Request[S, C]) RemoteAddr() string {
	return r.r.RemoteAddr
}

// Header returns the first value of the request header key.
func (r *Request[S, C]) Header(key string) string {
	return r.r.Header.Get(key)
}

// Headers returns all request headers.
func (r *Request[S, C]) Headers() http.Header {
	return r.r.Header
}

// Query returns the first value of the query parameter key.
func (r *Request[S, C]) Query(key string) string {
	return r.r.URL.Query().Get(key)
}

// QueryValues returns all query parameters.
func (r *Request[S, C]) QueryValues() url.Values {
	return r.r.URL.Query()
}

// Param returns the value bound to the named route parameter.
func (r *Request[S, C]) Param(name string) string {
	return r.params[name]
}

// Params returns all bound route parameters.
func (r *Request[S, C]) Params() Params {
	return r.params
}

// Cookie returns the named request cookie.
func (r *Request[S, C]) Cookie(name string) (*http.Cookie, error) {
	return r.r.Cookie(name)
}

// Body returns the raw request body. Reading it directly makes Bytes and the
// Bind helpers see whatever is left.
func (r *Request[S, C]) Body() io.ReadCloser {
	return r.r.Body
}

// Bytes reads the whole body. The result is cached, so it may be called more than once.
func (r *Request[S, C]) Bytes() ([]byte, error) {
	if r.bodyRead {
		return r.body, r.bodyErr
	}
	r.bodyRead = true
	if r.r.Body == nil || r.r.Body == http.NoBody {
		return nil, nil
	}
	r.body, r.bodyErr = io.ReadAll(r.r.Body)
	if r.bodyErr != nil {
		var maxErr *http.MaxBytesError
		if errors.As(r.bodyErr, &maxErr) {
			r.bodyErr = ErrRequestEntityTooLarge.WithError(r.bodyErr)
		}
	}
	return r.body, r.bodyErr
}

// String reads the whole body as a string.
func (r *Request[S, C]) String() (string, error) {
	b, err := r.Bytes()
	return string(b), err
}

// BindJSON decodes the JSON body into v and validates it using `validate` struct tags.
// Decoding failures are reported as ErrBadRequest, validation failures as
// ErrUnprocessableEntity with per-field details.
func (r *Request[S, C]) BindJSON(v any) error {
	b, err := r.Bytes()
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return ErrBadRequest.WithMessage("request body is empty")
	}
	if err := json.Unmarshal(b, v); err != nil {
		return ErrBadRequest.WithMessage("invalid JSON body").WithError(err)
	}
	return validateStruct(v)
}

// Form parses a URL-encoded or multipart body and returns its fields.
func (r *Request[S, C]) Form() (url.Values, error) {
	if err := r.r.ParseForm(); err != nil {
		return nil, ErrBadRequest.WithMessage("invalid form body").WithError(err)
	}
	return r.r.PostForm, nil
}

// Defer registers fn to run when the request finishes. Deferred functions run
// in reverse registration order.
func (r *Request[S, C]) Defer(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanups = append(r.cleanups, fn)
}

// Release runs deferred cleanups and releases the per-request context.
// Only the first call has an effect.
func (r *Request[S, C]) Release() {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.released = true
	cleanups := r.cleanups
	r.cleanups = nil
	r.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	if rel, ok := any(r.ctx).(Releaser); ok {
		rel.Release()
	}
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		// non-struct targets (maps, slices) have nothing to validate
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]any, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		return ErrUnprocessableEntity.WithDetails(details).WithError(err)
	}
	return ErrUnprocessableEntity.WithError(err)
}
