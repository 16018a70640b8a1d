package router_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/router"
)

func newTree(t *testing.T, cfg router.TreeConfig, routes ...[2]string) *router.Tree[string] {
	t.Helper()
	tree := router.NewTree[string](cfg)
	for _, r := range routes {
		require.NoError(t, tree.Insert(r[0], r[1], r[0]+" "+r[1]))
	}
	return tree
}

func TestTree_Resolve(t *testing.T) {
	t.Parallel()

	tree := newTree(t, router.TreeConfig{},
		[2]string{"GET", "/"},
		[2]string{"GET", "/users"},
		[2]string{"POST", "/users"},
		[2]string{"GET", "/users/new"},
		[2]string{"GET", "/users/:id"},
		[2]string{"GET", "/users/{id}/posts/:post"},
		[2]string{"GET", "/static/*path"},
		[2]string{"*", "/any"},
		[2]string{"DELETE", "/any"},
	)

	tests := []struct {
		name    string
		method  string
		path    string
		outcome router.Outcome
		handler string
		params  handler.Params
		allowed []string
	}{
		{"root", "GET", "/", router.Found, "GET /", handler.Params{}, nil},
		{"literal", "GET", "/users", router.Found, "GET /users", handler.Params{}, nil},
		{"literal beats param", "GET", "/users/new", router.Found, "GET /users/new", handler.Params{}, nil},
		{"param", "GET", "/users/42", router.Found, "GET /users/:id", handler.Params{"id": "42"}, nil},
		{"two params", "GET", "/users/7/posts/hello", router.Found, "GET /users/{id}/posts/:post", handler.Params{"id": "7", "post": "hello"}, nil},
		{"escaped param", "GET", "/users/a%2Fb", router.Found, "GET /users/:id", handler.Params{"id": "a/b"}, nil},
		{"wildcard", "GET", "/static/css/app.css", router.Found, "GET /static/*path", handler.Params{"path": "css/app.css"}, nil},
		{"wildcard needs tail", "GET", "/static/", router.NotFound, "", nil, nil},
		{"wildcard without slash", "GET", "/static", router.NotFound, "", nil, nil},
		{"trailing slash is strict", "GET", "/users/", router.NotFound, "", nil, nil},
		{"unknown path", "GET", "/nope", router.NotFound, "", nil, nil},
		{"too long", "GET", "/users/1/posts", router.NotFound, "", nil, nil},
		{"method not allowed", "PUT", "/users", router.MethodNotAllowed, "", nil, []string{"GET", "POST"}},
		{"any method", "PATCH", "/any", router.Found, "* /any", handler.Params{}, nil},
		{"specific beats any", "DELETE", "/any", router.Found, "DELETE /any", handler.Params{}, nil},
		{"custom method", "PURGE", "/users", router.MethodNotAllowed, "", nil, []string{"GET", "POST"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := tree.Resolve(tt.method, tt.path)
			assert.Equal(t, tt.outcome, m.Outcome)
			assert.Equal(t, tt.handler, m.Handler)
			if tt.outcome == router.Found {
				assert.Equal(t, tt.params, m.Params)
			}
			assert.Equal(t, tt.allowed, m.Allowed)
		})
	}
}

func TestTree_PatternReported(t *testing.T) {
	t.Parallel()

	tree := newTree(t, router.TreeConfig{}, [2]string{"GET", "/users/{id}"})
	m := tree.Resolve("GET", "/users/1")
	assert.Equal(t, "/users/:id", m.Pattern)
}

func TestTree_Precedence(t *testing.T) {
	t.Parallel()

	routes := [][2]string{
		{"GET", "/users/new"},
		{"GET", "/users/:id/edit"},
		{"POST", "/files/upload"},
		{"GET", "/files/:name"},
		{"GET", "/files/*rest"},
	}

	t.Run("backtrack falls back to param", func(t *testing.T) {
		t.Parallel()
		tree := newTree(t, router.TreeConfig{}, routes...)

		m := tree.Resolve("GET", "/users/new/edit")
		require.Equal(t, router.Found, m.Outcome)
		assert.Equal(t, "new", m.Params["id"])

		// literal matched the path but not the method
		m = tree.Resolve("GET", "/files/upload")
		require.Equal(t, router.Found, m.Outcome)
		assert.Equal(t, "GET /files/:name", m.Handler)

		m = tree.Resolve("GET", "/files/a/b")
		require.Equal(t, router.Found, m.Outcome)
		assert.Equal(t, "a/b", m.Params["rest"])
	})

	t.Run("strict commits to literal", func(t *testing.T) {
		t.Parallel()
		tree := newTree(t, router.TreeConfig{Precedence: router.PrecedenceStrict}, routes...)

		m := tree.Resolve("GET", "/users/new/edit")
		assert.Equal(t, router.NotFound, m.Outcome)

		m = tree.Resolve("GET", "/files/upload")
		assert.Equal(t, router.MethodNotAllowed, m.Outcome)
		assert.Equal(t, []string{"POST"}, m.Allowed)

		m = tree.Resolve("GET", "/users/7/edit")
		require.Equal(t, router.Found, m.Outcome)
		assert.Equal(t, "7", m.Params["id"])
	})
}

func TestTree_AllowedIsUnion(t *testing.T) {
	t.Parallel()

	tree := newTree(t, router.TreeConfig{},
		[2]string{"POST", "/items/special"},
		[2]string{"GET", "/items/:id"},
		[2]string{"PUT", "/items/:id"},
	)

	m := tree.Resolve("DELETE", "/items/special")
	assert.Equal(t, router.MethodNotAllowed, m.Outcome)
	assert.Equal(t, []string{"GET", "POST", "PUT"}, m.Allowed)
}

func TestTree_TrailingSlashLenient(t *testing.T) {
	t.Parallel()

	tree := newTree(t, router.TreeConfig{TrailingSlash: router.SlashLenient},
		[2]string{"GET", "/"},
		[2]string{"GET", "/users"},
	)

	assert.Equal(t, router.Found, tree.Resolve("GET", "/users/").Outcome)
	assert.Equal(t, router.Found, tree.Resolve("GET", "/users//").Outcome)
	assert.Equal(t, router.Found, tree.Resolve("GET", "/").Outcome)
}

func TestTree_InsertErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		method  string
		pattern string
		err     error
	}{
		{"no leading slash", "GET", "users", router.ErrInvalidPattern},
		{"empty", "GET", "", router.ErrInvalidPattern},
		{"empty segment", "GET", "/a//b", router.ErrEmptySegment},
		{"trailing slash", "GET", "/a/", router.ErrEmptySegment},
		{"empty param", "GET", "/a/:", router.ErrEmptyParam},
		{"empty brace param", "GET", "/a/{}", router.ErrEmptyParam},
		{"unclosed brace", "GET", "/a/{id", router.ErrParamDelimiter},
		{"wildcard not last", "GET", "/a/*rest/b", router.ErrWildcardPosition},
		{"duplicate param", "GET", "/a/:id/b/:id", router.ErrDuplicateParam},
		{"bad method", "FETCH", "/a", router.ErrInvalidMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := router.NewTree[string](router.TreeConfig{})
			err := tree.Insert(tt.method, tt.pattern, "h")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)

			var cfgErr *router.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.pattern, cfgErr.Pattern)
		})
	}
}

func TestTree_Duplicates(t *testing.T) {
	t.Parallel()

	t.Run("identical route", func(t *testing.T) {
		t.Parallel()
		tree := newTree(t, router.TreeConfig{}, [2]string{"GET", "/users/:id"})
		err := tree.Insert("get", "/users/{id}", "again")
		assert.ErrorIs(t, err, router.ErrDuplicateRoute)
	})

	t.Run("same shape different names keeps first", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(slog.NewTextHandler(&buf, nil))
		tree := router.NewTree[string](router.TreeConfig{Logger: log})

		require.NoError(t, tree.Insert("GET", "/users/:id", "first"))
		require.NoError(t, tree.Insert("GET", "/users/:name", "second"))
		assert.Contains(t, buf.String(), "ambiguous route")

		m := tree.Resolve("GET", "/users/1")
		assert.Equal(t, "first", m.Handler)
		assert.Equal(t, handler.Params{"id": "1"}, m.Params)
		assert.Len(t, tree.Routes(), 1)
	})

	t.Run("same path other method", func(t *testing.T) {
		t.Parallel()
		tree := newTree(t, router.TreeConfig{}, [2]string{"GET", "/users"})
		assert.NoError(t, tree.Insert("POST", "/users", "post"))
	})
}

func TestTree_ResolveIsRepeatable(t *testing.T) {
	t.Parallel()

	tree := newTree(t, router.TreeConfig{},
		[2]string{"GET", "/a/:x"},
		[2]string{"GET", "/a/b"},
	)

	first := tree.Resolve("GET", "/a/c")
	for range 10 {
		assert.Equal(t, first, tree.Resolve("GET", "/a/c"))
	}
	assert.Equal(t, "GET /a/b", tree.Resolve("GET", "/a/b").Handler)
}

func TestTree_Routes(t *testing.T) {
	t.Parallel()

	tree := newTree(t, router.TreeConfig{},
		[2]string{"POST", "/b"},
		[2]string{"GET", "/b"},
		[2]string{"GET", "/a/{id}"},
	)

	assert.Equal(t, []router.Route{
		{Method: "GET", Pattern: "/a/:id"},
		{Method: "GET", Pattern: "/b"},
		{Method: "POST", Pattern: "/b"},
	}, tree.Routes())
}

func TestParsePattern(t *testing.T) {
	t.Parallel()

	segs, err := router.ParsePattern("/api/{version}/users/:id/*")
	require.NoError(t, err)
	assert.Equal(t, []router.Segment{
		{Kind: router.Literal, Value: "api"},
		{Kind: router.Param, Value: "version"},
		{Kind: router.Literal, Value: "users"},
		{Kind: router.Param, Value: "id"},
		{Kind: router.Wildcard, Value: "*"},
	}, segs)

	segs, err = router.ParsePattern("/")
	require.NoError(t, err)
	assert.Empty(t, segs)
}
