package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/health"
	"github.com/dmitrymomot/highnoon/core/response"
	"github.com/dmitrymomot/highnoon/core/router"
	"github.com/dmitrymomot/highnoon/core/session"
	"github.com/dmitrymomot/highnoon/middleware"
)

// db stands in for a connection pool.
type db struct {
	name string
}

func (d *db) String() string {
	return "Db(" + d.name + ")"
}

// State is shared by every request of the demo app.
type State struct {
	DB *db
}

// NewContext creates the per-request Context.
func (s *State) NewContext() *Context {
	return &Context{}
}

// Context is owned by a single request.
type Context struct {
	session *session.Session
	token   string
}

// SetSession is called by the session middleware.
func (c *Context) SetSession(s *session.Session) {
	c.session = s
}

type (
	appRequest    = handler.Request[*State, *Context]
	appMiddleware = handler.Middleware[*State, *Context]
)

type appDeps struct {
	logger    *slog.Logger
	sessions  *session.Manager
	staticDir string
	timeout   time.Duration
	bodyLimit int64
	cors      *middleware.CORSConfig
}

type sample struct {
	Data  string `json:"data"`
	Value int    `json:"value"`
}

func newApp(deps appDeps) *router.App[*State, *Context] {
	log := deps.logger
	app := router.New[*State, *Context](&State{DB: &db{name: "demo"}}, router.WithLogger(log))

	app.With(
		middleware.RequestID[*State, *Context](),
		middleware.Log[*State, *Context](log),
		middleware.Adapt[*State, *Context](chimw.RealIP),
		middleware.SecurityHeadersWithConfig[*State, *Context](middleware.DevelopmentSecurity),
	)
	if deps.cors != nil {
		app.With(middleware.CORS[*State, *Context](*deps.cors))
	}
	if deps.bodyLimit > 0 {
		app.With(middleware.BodyLimit[*State, *Context](deps.bodyLimit))
	}
	if deps.timeout > 0 {
		app.With(middleware.Timeout[*State, *Context](deps.timeout))
	}
	app.With(session.Middleware[*State, *Context](deps.sessions))

	app.At("/health/live").Get(health.Liveness[*State, *Context])
	app.At("/health/ready").Get(health.Readiness[*State, *Context](log, deps.sessions.Healthcheck))

	app.At("/hello").
		Get(func(*appRequest) (*handler.Response, error) {
			return response.String("Hello world!\n\n")
		}).
		Post(func(req *appRequest) (*handler.Response, error) {
			body, err := req.Bytes()
			if err != nil {
				return nil, err
			}
			return response.Bytes(body, "application/octet-stream")
		})

	app.At("/echo/:name").Get(greet)

	app.At("/db").Get(func(req *appRequest) (*handler.Response, error) {
		return response.String(fmt.Sprintf("database is %s", req.State().DB))
	})

	app.At("/json").Get(func(*appRequest) (*handler.Response, error) {
		return response.JSON(sample{Data: "hello", Value: 1234})
	})

	app.At("/error/:fail").Get(func(req *appRequest) (*handler.Response, error) {
		if err := failOnRequest(req); err != nil {
			return nil, err
		}
		return response.String("")
	})

	app.At("/query").Any(echoRequest(log))

	app.At("/ws").WS(greeter(log))

	app.At("/api/:version").Mount(newAPI(log))

	if deps.staticDir != "" {
		app.At("/static").Static(deps.staticDir)
	}

	return app
}

// greet counts visits in the session.
func greet(req *appRequest) (*handler.Response, error) {
	sess := req.Ctx().session

	seen := 0
	if s := sess.GetString("seen"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, handler.ErrBadRequest.WithMessage("corrupt session counter").WithError(err)
		}
		seen = n
	}

	greeting := "Hello"
	switch {
	case seen > 1:
		greeting = "You again!"
	case seen == 1:
		greeting = "Welcome back"
	}
	sess.Set("seen", strconv.Itoa(seen+1))

	name := req.Param("name")
	if name == "" {
		name = "anonymous"
	}
	return response.String(greeting + " " + name + "\n\n")
}

func failOnRequest(req *appRequest) error {
	fail, err := strconv.ParseBool(req.Param("fail"))
	if err != nil {
		return handler.ErrBadRequest.WithMessage("fail must be a boolean").WithError(err)
	}
	if fail {
		return handler.ErrBadRequest.WithMessage("you asked for it")
	}
	return nil
}

func echoRequest(log *slog.Logger) handler.HandlerFunc[*State, *Context] {
	return func(req *appRequest) (*handler.Response, error) {
		body, err := req.Bytes()
		if err != nil {
			return nil, err
		}
		log.InfoContext(req, "echo",
			slog.String("uri", req.URL().String()),
			slog.String("method", req.Method()),
			slog.Any("headers", req.Headers()),
			slog.String("body", string(body)),
			slog.String("remote_addr", req.RemoteAddr()),
		)
		return response.Status(http.StatusOK)
	}
}

func greeter(log *slog.Logger) response.WebSocketHandler {
	return func(ctx context.Context, conn *websocket.Conn) error {
		log.DebugContext(ctx, "websocket connected")
		for {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					return err
				}
				return nil
			}
			log.DebugContext(ctx, "websocket message", slog.String("message", string(msg)))
			if err := conn.WriteMessage(websocket.TextMessage, []byte("Hello from Highnoon!")); err != nil {
				return err
			}
		}
	}
}

// bearerAuth rejects requests without a bearer token and keeps the token in
// the request context.
func bearerAuth(log *slog.Logger) appMiddleware {
	return func(next handler.HandlerFunc[*State, *Context]) handler.HandlerFunc[*State, *Context] {
		return func(req *appRequest) (*handler.Response, error) {
			token, ok := strings.CutPrefix(req.Header("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				log.DebugContext(req, "rejected request", slog.String("reason", "missing bearer token"))
				return response.Status(http.StatusUnauthorized)
			}
			req.Ctx().token = strings.TrimSpace(token)
			return next(req)
		}
	}
}

// newAPI builds the sub-application mounted below /api/:version.
func newAPI(log *slog.Logger) *router.App[*State, *Context] {
	api := router.New[*State, *Context](&State{}, router.WithLogger(log))
	api.With(bearerAuth(log))

	api.At("/check").Get(func(req *appRequest) (*handler.Response, error) {
		return response.JSON(map[string]string{
			"version": req.Param("version"),
			"token":   req.Ctx().token,
		})
	})

	api.At("/user/:name").Get(func(req *appRequest) (*handler.Response, error) {
		return response.JSON(req.Params())
	})

	return api
}
