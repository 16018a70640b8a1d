package server_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/highnoon/core/server"
)

var hello = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("hello"))
})

func TestServer_RunAndShutdown(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(2*time.Second))
	require.NoError(t, srv.Listen())
	addr := srv.Addr()
	assert.NotEqual(t, "127.0.0.1:0", addr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, hello)() }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		var err error
		resp, err = http.Get("http://" + addr + "/")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = http.Get("http://" + addr + "/")
	assert.Error(t, err)
}

func TestServer_BindFailure(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	srv := server.New(ln.Addr().String())
	err = srv.Run(context.Background(), hello)()
	assert.ErrorIs(t, err, server.ErrBind)
}

func TestServer_AlreadyRunning(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	require.NoError(t, srv.Listen())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, hello)() }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.Addr() + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, srv.Start(ctx, hello), server.ErrServerAlreadyRunning)

	cancel()
	assert.NoError(t, <-done)
}

func TestServer_StopBeforeStart(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	assert.NoError(t, srv.Stop())

	require.NoError(t, srv.Listen())
	assert.NoError(t, srv.Stop())
}
