package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/highnoon/core/handler"
)

var (
	ErrNotDirectory = errors.New("static root is not a directory")
	ErrOutsideRoot  = errors.New("path escapes static root")
)

// ValidateDir checks at startup that root exists and is a directory.
func ValidateDir(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("static root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	return nil
}

// Resolve joins the slash-separated tail to root. "." segments are skipped
// and ".." steps up, but never above root.
func Resolve(root, tail string) (string, error) {
	var parts []string
	for _, p := range strings.Split(tail, "/") {
		switch p {
		case "", ".":
		case "..":
			if len(parts) == 0 {
				return "", ErrOutsideRoot
			}
			parts = parts[:len(parts)-1]
		default:
			if strings.ContainsRune(p, filepath.Separator) || strings.ContainsRune(p, 0) {
				return "", ErrOutsideRoot
			}
			parts = append(parts, p)
		}
	}
	return filepath.Join(append([]string{filepath.Clean(root)}, parts...)...), nil
}

// Dir serves regular files below root. The file path is taken from the route
// parameter named param (typically a trailing wildcard).
//
// Paths escaping root get 403, missing files and directories get 404.
// Conditional requests with If-Modified-Since are answered with 304.
func Dir[S handler.State[C], C any](root, param string) handler.HandlerFunc[S, C] {
	root = filepath.Clean(root)

	return func(req *handler.Request[S, C]) (*handler.Response, error) {
		name, err := Resolve(root, req.Param(param))
		if err != nil {
			return nil, handler.ErrForbidden
		}

		f, err := os.Open(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				return nil, handler.ErrNotFound
			}
			return nil, err
		}

		info, err := f.Stat()
		if err != nil || !info.Mode().IsRegular() {
			_ = f.Close()
			if err != nil {
				return nil, err
			}
			return nil, handler.ErrNotFound
		}
		req.Defer(func() { _ = f.Close() })

		modTime := info.ModTime().UTC().Truncate(time.Second)
		if since, err := http.ParseTime(req.Header("If-Modified-Since")); err == nil && !modTime.After(since) {
			return handler.NewResponse(http.StatusNotModified).
				SetHeader("Last-Modified", modTime.Format(http.TimeFormat)), nil
		}

		ctype := mime.TypeByExtension(filepath.Ext(name))
		if ctype == "" {
			ctype = sniff(f)
		}

		resp := handler.NewResponse(http.StatusOK).
			SetHeader("Content-Type", ctype).
			SetHeader("Content-Length", strconv.FormatInt(info.Size(), 10)).
			SetHeader("Last-Modified", modTime.Format(http.TimeFormat)).
			SetStream(func(ctx context.Context, w io.Writer) error {
				_, err := io.Copy(w, f)
				return err
			})
		return resp, nil
	}
}

// sniff detects the content type from the first bytes and rewinds f.
func sniff(f *os.File) string {
	var buf [512]byte
	n, _ := io.ReadFull(f, buf[:])
	_, _ = f.Seek(0, io.SeekStart)
	return http.DetectContentType(buf[:n])
}
