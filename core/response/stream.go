package response

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrymomot/highnoon/core/handler"
)

// DefaultSSEKeepAlive is the default keep-alive interval for SSE connections.
const DefaultSSEKeepAlive = 30 * time.Second

// Stream creates a chunked response produced by fn. Each write is flushed.
func Stream(contentType string, fn handler.StreamFunc) (*handler.Response, error) {
	resp := handler.NewResponse(http.StatusOK).
		SetHeader("Cache-Control", "no-cache").
		SetStream(fn)
	if contentType != "" {
		resp.SetHeader("Content-Type", contentType)
	}
	return resp, nil
}

// StreamJSON writes each item received from items as one line of JSON
// (application/x-ndjson) until the channel is closed or the client leaves.
func StreamJSON(items <-chan any) (*handler.Response, error) {
	return Stream("application/x-ndjson", func(ctx context.Context, w io.Writer) error {
		enc := json.NewEncoder(w)
		for {
			select {
			case <-ctx.Done():
				return nil
			case item, ok := <-items:
				if !ok {
					return nil
				}
				if err := enc.Encode(item); err != nil {
					return fmt.Errorf("encode stream item: %w", err)
				}
			}
		}
	})
}

// SSE streams events as Server-Sent Events. Strings and byte slices are sent
// verbatim, anything else as JSON. A comment is sent every keepAlive when no
// event was written; zero uses DefaultSSEKeepAlive.
func SSE(events <-chan any, keepAlive time.Duration) (*handler.Response, error) {
	if keepAlive <= 0 {
		keepAlive = DefaultSSEKeepAlive
	}

	resp, _ := Stream("text/event-stream", func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, ": connected\n\n"); err != nil {
			return err
		}

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
					return err
				}
			case data, ok := <-events:
				if !ok {
					return nil
				}
				ticker.Reset(keepAlive)
				if err := writeEvent(w, data); err != nil {
					return err
				}
			}
		}
	})
	resp.SetHeader("X-Accel-Buffering", "no")
	return resp, nil
}

func writeEvent(w io.Writer, data any) error {
	var payload string
	switch v := data.(type) {
	case string:
		payload = v
	case []byte:
		payload = string(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal sse event: %w", err)
		}
		payload = string(b)
	}
	_, err := fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}
