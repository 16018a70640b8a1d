package handler

import "sync"

// State is the application-wide value shared by all requests.
// NewContext is called once per request; the value it returns is owned by that
// request alone. It must not fail: setup that can fail belongs in a middleware.
type State[C any] interface {
	NewContext() C
}

// Releaser is implemented by per-request contexts that hold resources.
// Release is called exactly once, after the response has been produced.
type Releaser interface {
	Release()
}

// EmptyState is a State without application data.
type EmptyState struct{}

// NewContext returns an empty Locals store.
func (EmptyState) NewContext() *Locals {
	return &Locals{}
}

// Locals is a small key/value store for per-request data.
// A request may be observed by goroutines it spawns, so access is synchronized.
type Locals struct {
	mu     sync.RWMutex
	values map[string]any
}

// Set stores a value under key.
func (l *Locals) Set(key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.values == nil {
		l.values = make(map[string]any)
	}
	l.values[key] = value
}

// Get returns the value stored under key.
func (l *Locals) Get(key string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	v, ok := l.values[key]
	return v, ok
}

// GetString returns the string stored under key, or "" when absent or of another type.
func (l *Locals) GetString(key string) string {
	v, _ := l.Get(key)
	s, _ := v.(string)
	return s
}

// Delete removes key.
func (l *Locals) Delete(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.values, key)
}

// Len reports the number of stored keys.
func (l *Locals) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.values)
}
