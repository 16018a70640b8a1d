package testclient_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/response"
	"github.com/dmitrymomot/highnoon/core/router"
	"github.com/dmitrymomot/highnoon/core/testclient"
)

type req = handler.Request[handler.EmptyState, *handler.Locals]

type user struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func testApp() http.Handler {
	app := router.Default()

	app.At("/hello").
		Get(func(*req) (*handler.Response, error) {
			return response.String("Hello, World!")
		}).
		Post(func(r *req) (*handler.Response, error) {
			body, err := r.String()
			if err != nil {
				return nil, err
			}
			return response.String(body)
		})

	app.At("/users").Post(func(r *req) (*handler.Response, error) {
		var u user
		if err := r.BindJSON(&u); err != nil {
			return nil, err
		}
		u.Age++
		return response.JSONWithStatus(u, http.StatusCreated)
	})

	app.At("/form").Put(func(r *req) (*handler.Response, error) {
		form, err := r.Form()
		if err != nil {
			return nil, err
		}
		return response.String(form.Get("a") + "," + form.Get("b"))
	})

	app.At("/echo").Any(func(r *req) (*handler.Response, error) {
		return response.JSON(map[string]string{
			"method": r.Method(),
			"query":  r.URL().RawQuery,
			"header": r.Header("X-Test"),
			"remote": r.RemoteAddr(),
			"auth":   r.Header("Authorization"),
		})
	})

	app.At("/login").Post(func(*req) (*handler.Response, error) {
		resp, err := response.String("in")
		resp.Header().Add("Set-Cookie", "token=abc; Path=/")
		return resp, err
	})
	app.At("/logout").Post(func(*req) (*handler.Response, error) {
		resp, err := response.String("out")
		resp.Header().Add("Set-Cookie", "token=; Path=/; Max-Age=0")
		return resp, err
	})
	app.At("/whoami").Get(func(r *req) (*handler.Response, error) {
		c, err := r.Cookie("token")
		if err != nil {
			return response.String("anonymous")
		}
		return response.String(c.Value)
	})

	return app.MustBuild()
}

func TestClient_GetText(t *testing.T) {
	t.Parallel()

	c := testclient.New(testApp())
	resp, err := c.Get("/hello").Send()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status())
	assert.Equal(t, "Hello, World!", resp.Text())
	assert.Equal(t, []byte("Hello, World!"), resp.Bytes())
	assert.Contains(t, resp.Header("Content-Type"), "text/plain")
}

func TestClient_PostBody(t *testing.T) {
	t.Parallel()

	c := testclient.New(testApp())
	resp, err := c.Post("/hello").String("echo me").Send()
	require.NoError(t, err)
	assert.Equal(t, "echo me", resp.Text())
}

func TestClient_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	c := testclient.New(testApp())
	resp, err := c.Post("/users").JSON(user{Name: "ann", Age: 41}).Send()
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.Status())

	var got user
	require.NoError(t, resp.JSON(&got))
	assert.Equal(t, user{Name: "ann", Age: 42}, got)
}

func TestClient_JSONEncodeError(t *testing.T) {
	t.Parallel()

	c := testclient.New(testApp())
	_, err := c.Post("/users").JSON(make(chan int)).Send()
	assert.Error(t, err)
}

func TestClient_BodyTwice(t *testing.T) {
	t.Parallel()

	c := testclient.New(testApp())
	_, err := c.Post("/hello").String("a").String("b").Send()
	assert.ErrorIs(t, err, testclient.ErrBodyAlreadySet)
}

func TestClient_Form(t *testing.T) {
	t.Parallel()

	c := testclient.New(testApp())
	resp, err := c.Put("/form").Form(url.Values{"a": {"1"}, "b": {"2"}}).Send()
	require.NoError(t, err)
	assert.Equal(t, "1,2", resp.Text())
}

func TestClient_HeadersQueryAndAddress(t *testing.T) {
	t.Parallel()

	c := testclient.New(testApp(),
		testclient.WithHeader("X-Test", "default"),
		testclient.WithRemoteAddr("10.0.0.9:5555"),
	)

	tests := []struct {
		name   string
		build  func() *testclient.Request
		method string
		query  string
		header string
	}{
		{"defaults", func() *testclient.Request { return c.Get("/echo") }, "GET", "", "default"},
		{"override header", func() *testclient.Request { return c.Delete("/echo").Header("X-Test", "mine") }, "DELETE", "", "mine"},
		{"query", func() *testclient.Request { return c.Patch("/echo").Query("q", "go lang") }, "PATCH", "q=go+lang", "default"},
		{"query appended", func() *testclient.Request { return c.Method("PURGE", "/echo?a=1").Query("b", "2") }, "PURGE", "a=1&b=2", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, err := tt.build().Send()
			require.NoError(t, err)

			var got map[string]string
			require.NoError(t, resp.JSON(&got))
			assert.Equal(t, tt.method, got["method"])
			assert.Equal(t, tt.query, got["query"])
			assert.Equal(t, tt.header, got["header"])
			assert.Equal(t, "10.0.0.9:5555", got["remote"])
		})
	}
}

func TestClient_BasicAuth(t *testing.T) {
	t.Parallel()

	c := testclient.New(testApp())
	resp, err := c.Get("/echo").BasicAuth("user", "pass").Send()
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, resp.JSON(&got))
	assert.Equal(t, "Basic dXNlcjpwYXNz", got["auth"])
}

func TestClient_CookieJar(t *testing.T) {
	t.Parallel()

	c := testclient.New(testApp(), testclient.WithCookieJar())

	resp, err := c.Get("/whoami").Send()
	require.NoError(t, err)
	assert.Equal(t, "anonymous", resp.Text())

	resp, err = c.Post("/login").Send()
	require.NoError(t, err)
	require.NotNil(t, resp.Cookie("token"))
	assert.Equal(t, "abc", resp.Cookie("token").Value)
	assert.Len(t, c.Cookies(), 1)

	resp, err = c.Get("/whoami").Send()
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Text())

	_, err = c.Post("/logout").Send()
	require.NoError(t, err)
	assert.Empty(t, c.Cookies())

	resp, err = c.Get("/whoami").Send()
	require.NoError(t, err)
	assert.Equal(t, "anonymous", resp.Text())
}

func TestClient_NoJarByDefault(t *testing.T) {
	t.Parallel()

	c := testclient.New(testApp())
	_, err := c.Post("/login").Send()
	require.NoError(t, err)
	assert.Empty(t, c.Cookies())

	resp, err := c.Get("/whoami").Cookie(&http.Cookie{Name: "token", Value: "manual"}).Send()
	require.NoError(t, err)
	assert.Equal(t, "manual", resp.Text())
}

func TestClient_Context(t *testing.T) {
	t.Parallel()

	var seen error
	app := router.Default()
	app.At("/ctx").Get(func(r *req) (*handler.Response, error) {
		seen = r.Err()
		return response.String("too late")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := testclient.New(app.MustBuild()).Get("/ctx").Context(ctx).Send()
	require.NoError(t, err)
	assert.ErrorIs(t, seen, context.Canceled)
	assert.Empty(t, resp.Text(), "nothing is written for a client that went away")
}

func TestClient_NotFoundAndOptions(t *testing.T) {
	t.Parallel()

	c := testclient.New(testApp())

	resp, err := c.Get("/missing").Send()
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status())

	resp, err = c.Options("/hello").Send()
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Status())
	assert.NotNil(t, resp.Raw())
}
