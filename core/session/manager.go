package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/highnoon/core/cookie"
	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/logger"
)

const (
	// DefaultCookieName is the cookie holding the signed session id.
	DefaultCookieName = "sid"
	// DefaultTTL is how long an untouched session is kept.
	DefaultTTL = 24 * time.Hour
)

// Manager loads sessions before a request and saves them afterwards.
// The session id travels in a signed cookie; data stays in the Store.
type Manager struct {
	store      Store
	cookies    *cookie.Manager
	name       string
	ttl        time.Duration
	cookieOpts []cookie.Option
	logger     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.name = name
		}
	}
}

// WithTTL sets the session lifetime, used for both the store entry and the
// cookie Max-Age. Zero keeps sessions until the browser closes.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithCookieOptions overrides attributes of the session cookie, e.g.
// cookie.WithSecure(false) for local development.
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(m *Manager) {
		m.cookieOpts = append(m.cookieOpts, opts...)
	}
}

// WithLogger sets the logger used for session lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Manager backed by store. cookies signs the session id.
func New(store Store, cookies *cookie.Manager, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if cookies == nil {
		return nil, ErrNilCookieManager
	}

	m := &Manager{
		store:   store,
		cookies: cookies,
		name:    DefaultCookieName,
		ttl:     DefaultTTL,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// CookieName returns the session cookie name.
func (m *Manager) CookieName() string {
	return m.name
}

// Healthcheck reports whether the store is reachable. Stores without a
// Healthcheck method are always healthy.
func (m *Manager) Healthcheck(ctx context.Context) error {
	if hc, ok := m.store.(interface{ Healthcheck(context.Context) error }); ok {
		return hc.Healthcheck(ctx)
	}
	return nil
}

// Middleware attaches the request's session before the handler runs and
// persists it afterwards when it was modified. The session is reachable with
// FromContext and, when the per-request context implements Carrier, through
// req.Ctx().
//
// A missing, tampered or unknown cookie starts a new session. Nothing is saved
// when the handler fails.
func Middleware[S handler.State[C], C any](m *Manager) handler.Middleware[S, C] {
	return func(next handler.HandlerFunc[S, C]) handler.HandlerFunc[S, C] {
		return func(req *handler.Request[S, C]) (*handler.Response, error) {
			sess, err := m.load(req)
			if err != nil {
				return nil, err
			}

			req.SetValue(ctxKey{}, sess)
			if c, ok := any(req.Ctx()).(Carrier); ok {
				c.SetSession(sess)
			}

			resp, err := next(req)
			if err != nil || resp == nil {
				return resp, err
			}

			if err := m.commit(req, resp, sess); err != nil {
				return nil, err
			}
			return resp, nil
		}
	}
}

// incoming is what the manager needs from a request: its context and cookies.
type incoming interface {
	context.Context
	cookie.Source
}

func (m *Manager) load(req incoming) (*Session, error) {
	id, err := m.cookies.GetSigned(req, m.name)
	if err != nil {
		if !errors.Is(err, cookie.ErrCookieNotFound) {
			m.logger.DebugContext(req, "invalid session cookie", logger.Component("session"), logger.Error(err))
		}
		return newSession(uuid.NewString(), nil, true), nil
	}

	raw, err := m.store.Load(req, id)
	if errors.Is(err, ErrNotFound) {
		m.logger.DebugContext(req, "unknown session id", logger.Component("session"))
		return newSession(uuid.NewString(), nil, true), nil
	}
	if err != nil {
		return nil, errors.Join(ErrLoadSession, err)
	}

	values, err := decode(raw)
	if err != nil {
		m.logger.WarnContext(req, "discarding undecodable session",
			logger.Component("session"), logger.Error(err))
		return newSession(uuid.NewString(), nil, true), nil
	}
	return newSession(id, values, false), nil
}

func (m *Manager) commit(req context.Context, resp *handler.Response, sess *Session) error {
	sess.mu.Lock()
	modified, destroyed, regenerated := sess.modified, sess.destroyed, sess.regenerated
	id, isNew := sess.id, sess.isNew
	sess.mu.Unlock()

	if !modified {
		return nil
	}

	if destroyed || regenerated {
		if !isNew {
			if err := m.store.Delete(req, id); err != nil {
				return errors.Join(ErrDeleteSession, err)
			}
		}
		if destroyed {
			m.cookies.Delete(resp, m.name)
			return nil
		}
		id = uuid.NewString()
		sess.mu.Lock()
		sess.id, sess.regenerated = id, false
		sess.mu.Unlock()
	}

	if err := m.store.Save(req, id, sess.encode(), m.ttl); err != nil {
		return errors.Join(ErrSaveSession, err)
	}

	opts := m.cookieOpts
	if m.ttl > 0 {
		opts = append([]cookie.Option{cookie.WithMaxAge(int(m.ttl / time.Second))}, opts...)
	}
	if err := m.cookies.SetSigned(resp, m.name, id, opts...); err != nil {
		return errors.Join(ErrSaveSession, err)
	}

	m.logger.DebugContext(req, "session saved", logger.Component("session"), slog.Bool("new", isNew))
	return nil
}
