package response

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/highnoon/core/handler"
)

// WebSocketHandler owns an established WebSocket connection. ctx is canceled
// when the handler returns; the connection is closed afterwards.
type WebSocketHandler func(ctx context.Context, conn *websocket.Conn) error

type wsConfig struct {
	upgrader       *websocket.Upgrader
	responseHeader http.Header
	onConnect      func(context.Context, *websocket.Conn) error
	onDisconnect   func(context.Context, *websocket.Conn)
	onError        func(context.Context, error)
}

// WebSocketOption configures a WebSocket response.
type WebSocketOption func(*wsConfig)

func WithWSReadBuffer(size int) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.ReadBufferSize = size
	}
}

func WithWSWriteBuffer(size int) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.WriteBufferSize = size
	}
}

func WithWSHandshakeTimeout(timeout time.Duration) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.HandshakeTimeout = timeout
	}
}

// WithWSOriginCheck replaces the default same-origin check.
func WithWSOriginCheck(fn func(r *http.Request) bool) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

func WithWSAllowAnyOrigin() WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
}

func WithWSSubprotocols(protocols ...string) WebSocketOption {
	return func(c *wsConfig) {
		c.upgrader.Subprotocols = protocols
	}
}

func WithWSUpgradeHeaders(header http.Header) WebSocketOption {
	return func(c *wsConfig) {
		c.responseHeader = header
	}
}

func WithWSOnConnect(fn func(context.Context, *websocket.Conn) error) WebSocketOption {
	return func(c *wsConfig) {
		c.onConnect = fn
	}
}

func WithWSOnDisconnect(fn func(context.Context, *websocket.Conn)) WebSocketOption {
	return func(c *wsConfig) {
		c.onDisconnect = fn
	}
}

func WithWSErrorHandler(fn func(context.Context, error)) WebSocketOption {
	return func(c *wsConfig) {
		c.onError = fn
	}
}

// WebSocket creates a 101 upgrade response. After the handshake the
// connection is served by fn on its own goroutine, independent of the HTTP
// request that opened it. Failed handshakes are answered by the upgrader
// (typically 400 or 403).
func WebSocket(fn WebSocketHandler, opts ...WebSocketOption) (*handler.Response, error) {
	cfg := &wsConfig{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	upgrade := func(w http.ResponseWriter, r *http.Request, h http.Header) (handler.Loop, error) {
		conn, err := cfg.upgrader.Upgrade(w, r, handshakeHeader(cfg.responseHeader, h))
		if err != nil {
			if cfg.onError != nil {
				cfg.onError(r.Context(), err)
			}
			return nil, err
		}

		return func(ctx context.Context) {
			defer func() {
				_ = conn.Close()
				if cfg.onDisconnect != nil {
					cfg.onDisconnect(ctx, conn)
				}
			}()

			if cfg.onConnect != nil {
				if err := cfg.onConnect(ctx, conn); err != nil {
					if cfg.onError != nil {
						cfg.onError(ctx, err)
					}
					return
				}
			}

			if err := fn(ctx, conn); err != nil && cfg.onError != nil {
				cfg.onError(ctx, err)
			}
		}, nil
	}

	return handler.NewResponse(http.StatusSwitchingProtocols).SetUpgrade(upgrade), nil
}

// handshakeHeader merges the headers collected by middlewares into the
// configured upgrade headers. Headers owned by the handshake itself are left
// to the upgrader.
func handshakeHeader(configured, collected http.Header) http.Header {
	if len(collected) == 0 {
		return configured
	}
	out := configured.Clone()
	if out == nil {
		out = make(http.Header, len(collected))
	}
	for key, values := range collected {
		switch key = http.CanonicalHeaderKey(key); {
		case key == "Upgrade", key == "Connection", key == "Content-Length", key == "Content-Type":
			continue
		case strings.HasPrefix(key, "Sec-Websocket-"):
			continue
		}
		out[key] = slices.Clone(values)
	}
	return out
}

// EchoWebSocket writes every received message back to the client.
func EchoWebSocket(opts ...WebSocketOption) (*handler.Response, error) {
	return WebSocket(Echo, opts...)
}

// Echo is a WebSocketHandler that sends every message back unchanged until
// the peer closes the connection.
func Echo(ctx context.Context, conn *websocket.Conn) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return err
			}
			return nil
		}
		if err := conn.WriteMessage(msgType, data); err != nil {
			return err
		}
	}
}
