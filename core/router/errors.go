package router

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPattern   = errors.New("routing pattern must begin with '/'")
	ErrEmptySegment     = errors.New("routing pattern contains an empty segment")
	ErrEmptyParam       = errors.New("route param name is empty")
	ErrParamDelimiter   = errors.New("route param closing delimiter '}' is missing")
	ErrWildcardPosition = errors.New("wildcard must be the last segment in a route")
	ErrDuplicateParam   = errors.New("routing pattern contains duplicate param name")
	ErrDuplicateRoute   = errors.New("route already registered")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrNilHandler       = errors.New("handler is nil")
	ErrNilApp           = errors.New("cannot mount nil app")
	ErrFrozen           = errors.New("app is frozen: routes and middlewares must be registered before Build")
)

// ConfigError reports an invalid route registration. It is only ever produced
// while the app is being built.
type ConfigError struct {
	Method  string
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	switch {
	case e.Method != "" && e.Pattern != "":
		return fmt.Sprintf("router: %s %s: %v", e.Method, e.Pattern, e.Err)
	case e.Pattern != "":
		return fmt.Sprintf("router: %s: %v", e.Pattern, e.Err)
	default:
		return fmt.Sprintf("router: %v", e.Err)
	}
}

// Unwrap returns the underlying sentinel error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PanicError is produced when a handler or middleware panics. Error handlers can
// detect it with errors.As to log the stack.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap exposes panics raised with an error value.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
