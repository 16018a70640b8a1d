package session

import (
	"context"
	"maps"
	"net/url"
	"sync"
)

// Session is the per-request view of a client's session data: a flat map of
// strings. It is safe for concurrent use by goroutines serving one request.
//
// Only sessions that were changed during the request are written back.
type Session struct {
	mu          sync.RWMutex
	id          string
	values      map[string]string
	isNew       bool
	modified    bool
	destroyed   bool
	regenerated bool
}

func newSession(id string, values map[string]string, isNew bool) *Session {
	if values == nil {
		values = make(map[string]string)
	}
	return &Session{id: id, values: values, isNew: isNew}
}

// ID returns the session identifier stored in the client cookie.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// IsNew reports whether the session was created by this request.
func (s *Session) IsNew() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isNew
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the value stored under key, or "" when absent.
func (s *Session) GetString(key string) string {
	v, _ := s.Get(key)
	return v
}

// Set stores value under key and marks the session modified.
func (s *Session) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.modified = true
}

// Delete removes key. Removing a missing key is not a modification.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.modified = true
	}
}

// Values returns a copy of all stored values.
func (s *Session) Values() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// IsModified reports whether the session changed since it was loaded.
func (s *Session) IsModified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Destroy drops all values. The stored session and the client cookie are
// removed once the request completes.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	s.destroyed = true
	s.modified = true
}

// Regenerate moves the data to a fresh id when the request completes, e.g.
// after login, so an id known before authentication stops working.
func (s *Session) Regenerate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerated = true
	s.modified = true
}

// encode serializes values as application/x-www-form-urlencoded.
func (s *Session) encode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := make(url.Values, len(s.values))
	for k, val := range s.values {
		v.Set(k, val)
	}
	return v.Encode()
}

func decode(raw string) (map[string]string, error) {
	v, err := url.ParseQuery(raw)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(v))
	for k := range v {
		values[k] = v.Get(k)
	}
	return values, nil
}

// Carrier is implemented by per-request contexts that hold the session, so
// handlers can reach it through req.Ctx() without a context lookup.
type Carrier interface {
	SetSession(s *Session)
}

type ctxKey struct{}

// FromContext returns the session attached by the middleware, or nil.
// A *handler.Request is a context.Context, so handlers pass it directly.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}
