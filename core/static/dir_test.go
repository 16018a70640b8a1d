package static_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/highnoon/core/handler"
	"github.com/dmitrymomot/highnoon/core/router"
	"github.com/dmitrymomot/highnoon/core/static"
)

func setupRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>hi</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data.unknownext"), []byte("plain words"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "app.css"), []byte("body{}"), 0o644))
	return root
}

func serve(t *testing.T, root string) http.Handler {
	t.Helper()
	app := router.Default()
	app.At("/files/*path").Get(static.Dir[handler.EmptyState, *handler.Locals](root, "path"))
	return app.MustBuild()
}

func TestDir(t *testing.T) {
	t.Parallel()

	h := serve(t, setupRoot(t))

	tests := []struct {
		name        string
		target      string
		status      int
		contentType string
		body        string
	}{
		{"html file", "/files/index.html", http.StatusOK, "text/html; charset=utf-8", "<h1>hi</h1>"},
		{"nested file", "/files/sub/app.css", http.StatusOK, "text/css; charset=utf-8", "body{}"},
		{"sniffed type", "/files/data.unknownext", http.StatusOK, "text/plain; charset=utf-8", "plain words"},
		{"dot segments inside root", "/files/sub/../index.html", http.StatusOK, "text/html; charset=utf-8", "<h1>hi</h1>"},
		{"missing file", "/files/nope.txt", http.StatusNotFound, "", ""},
		{"directory", "/files/sub", http.StatusNotFound, "", ""},
		{"escape root", "/files/../secret", http.StatusForbidden, "", ""},
		{"escape root encoded", "/files/%2e%2e/secret", http.StatusForbidden, "", ""},
		{"escape after descent", "/files/sub/../../secret", http.StatusForbidden, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
				assert.Equal(t, tt.body, w.Body.String())
				assert.NotEmpty(t, w.Header().Get("Last-Modified"))
			}
		})
	}
}

func TestDir_ContentLength(t *testing.T) {
	t.Parallel()

	h := serve(t, setupRoot(t))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/index.html", nil))

	assert.Equal(t, "11", w.Header().Get("Content-Length"))
}

func TestDir_NotModified(t *testing.T) {
	t.Parallel()

	h := serve(t, setupRoot(t))

	r := httptest.NewRequest(http.MethodGet, "/files/index.html", nil)
	r.Header.Set("If-Modified-Since", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	r = httptest.NewRequest(http.MethodGet, "/files/index.html", nil)
	r.Header.Set("If-Modified-Since", time.Now().Add(-24*time.Hour).UTC().Format(http.TimeFormat))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/srv/www")

	tests := []struct {
		tail    string
		want    string
		wantErr bool
	}{
		{"a.txt", "/srv/www/a.txt", false},
		{"a/b/c.txt", "/srv/www/a/b/c.txt", false},
		{"./a//b", "/srv/www/a/b", false},
		{"a/../b", "/srv/www/b", false},
		{"", "/srv/www", false},
		{"..", "", true},
		{"a/../../b", "", true},
	}

	for _, tt := range tests {
		got, err := static.Resolve(root, tt.tail)
		if tt.wantErr {
			assert.ErrorIs(t, err, static.ErrOutsideRoot, tt.tail)
			continue
		}
		require.NoError(t, err, tt.tail)
		assert.Equal(t, filepath.FromSlash(tt.want), got, tt.tail)
	}
}

func TestValidateDir(t *testing.T) {
	t.Parallel()

	root := setupRoot(t)
	assert.NoError(t, static.ValidateDir(root))
	assert.ErrorIs(t, static.ValidateDir(filepath.Join(root, "index.html")), static.ErrNotDirectory)
	assert.ErrorIs(t, static.ValidateDir(filepath.Join(root, "missing")), os.ErrNotExist)
}
