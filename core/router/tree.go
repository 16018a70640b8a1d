package router

import (
	"io"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/dmitrymomot/highnoon/core/handler"
)

// Precedence decides how a segment that matches both a literal child and a
// parameter child is resolved.
type Precedence uint8

const (
	// PrecedenceBacktrack prefers the literal child and falls back to the
	// parameter and wildcard children when the literal branch does not lead
	// to a route for the request method.
	PrecedenceBacktrack Precedence = iota
	// PrecedenceStrict commits to the first child kind matching the segment
	// (literal, then parameter, then wildcard) and never revisits siblings.
	PrecedenceStrict
)

// TrailingSlash decides how a trailing slash on a request path is treated.
type TrailingSlash uint8

const (
	// SlashStrict treats "/users/" and "/users" as different paths.
	SlashStrict TrailingSlash = iota
	// SlashLenient trims trailing slashes before matching.
	SlashLenient
)

// Outcome is the result kind of Tree.Resolve.
type Outcome uint8

const (
	NotFound Outcome = iota
	Found
	MethodNotAllowed
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case MethodNotAllowed:
		return "method_not_allowed"
	default:
		return "not_found"
	}
}

// Match is the result of resolving a method and path.
type Match[H any] struct {
	Outcome Outcome
	Handler H
	Pattern string
	Params  handler.Params
	// Allowed lists the methods registered for the path when Outcome is MethodNotAllowed.
	Allowed []string
}

// TreeConfig tunes matching behavior. The zero value is the default.
type TreeConfig struct {
	Precedence    Precedence
	TrailingSlash TrailingSlash
	// Logger receives configuration warnings such as ambiguous routes.
	Logger *slog.Logger
}

// Tree is a segment trie mapping (method, path) to handlers of type H.
// Nodes live in a single slice and refer to each other by index.
//
// Insert is not safe for concurrent use. Once all routes are inserted, Resolve
// may be called from any number of goroutines.
type Tree[H any] struct {
	nodes  []node[H]
	routes []Route
	cfg    TreeConfig
}

type node[H any] struct {
	literals  map[string]int32
	param     int32
	wildcard  int32
	endpoints map[methodTyp]*endpoint[H]
	mask      methodTyp
}

type endpoint[H any] struct {
	handler H
	pattern string
	names   []string
}

func (n *node[H]) endpoint(m methodTyp) *endpoint[H] {
	if n.endpoints == nil {
		return nil
	}
	if m != 0 {
		if ep, ok := n.endpoints[m]; ok {
			return ep
		}
	}
	return n.endpoints[mANY]
}

// Route describes one registered route.
type Route struct {
	Method  string `json:"method" yaml:"method"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// NewTree creates an empty tree containing only the root node.
func NewTree[H any](cfg TreeConfig) *Tree[H] {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t := &Tree[H]{cfg: cfg}
	t.newNode()
	return t
}

func (t *Tree[H]) newNode() int32 {
	t.nodes = append(t.nodes, node[H]{param: -1, wildcard: -1})
	return int32(len(t.nodes) - 1)
}

// Insert registers h for method and pattern. Registering the same method and
// pattern twice is an error. Patterns that differ only in parameter names
// resolve to the same route; the first one inserted wins and a warning is logged.
func (t *Tree[H]) Insert(method, pattern string, h H) error {
	m, ok := parseMethod(method)
	if !ok {
		return &ConfigError{Method: method, Pattern: pattern, Err: ErrInvalidMethod}
	}

	segs, err := ParsePattern(pattern)
	if err != nil {
		return &ConfigError{Method: method, Pattern: pattern, Err: err}
	}

	var names []string
	idx := int32(0)
	for _, seg := range segs {
		switch seg.Kind {
		case Literal:
			n := &t.nodes[idx]
			child, ok := n.literals[seg.Value]
			if !ok {
				child = t.newNode()
				n = &t.nodes[idx] // newNode may have moved the slice
				if n.literals == nil {
					n.literals = make(map[string]int32)
				}
				n.literals[seg.Value] = child
			}
			idx = child
		case Param:
			if t.nodes[idx].param < 0 {
				child := t.newNode()
				t.nodes[idx].param = child
			}
			idx = t.nodes[idx].param
			names = append(names, seg.Value)
		case Wildcard:
			if t.nodes[idx].wildcard < 0 {
				child := t.newNode()
				t.nodes[idx].wildcard = child
			}
			idx = t.nodes[idx].wildcard
			names = append(names, seg.Value)
		}
	}

	canon := canonical(segs)
	n := &t.nodes[idx]
	if existing, ok := n.endpoints[m]; ok {
		if existing.pattern == canon {
			return &ConfigError{Method: m.String(), Pattern: pattern, Err: ErrDuplicateRoute}
		}
		t.cfg.Logger.Warn("ambiguous route ignored",
			slog.String("method", m.String()),
			slog.String("pattern", canon),
			slog.String("shadowed_by", existing.pattern),
		)
		return nil
	}

	if n.endpoints == nil {
		n.endpoints = make(map[methodTyp]*endpoint[H])
	}
	n.endpoints[m] = &endpoint[H]{handler: h, pattern: canon, names: names}
	n.mask |= m
	t.routes = append(t.routes, Route{Method: m.String(), Pattern: canon})
	return nil
}

// Routes returns the registered routes ordered by pattern and method.
func (t *Tree[H]) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Resolve finds the route for method and path. path is expected in escaped
// form (as returned by url.URL.EscapedPath); bound values are unescaped.
// Resolve does not modify the tree.
func (t *Tree[H]) Resolve(method, path string) Match[H] {
	if path == "" || path[0] != '/' {
		return Match[H]{Outcome: NotFound}
	}
	if t.cfg.TrailingSlash == SlashLenient && len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}

	var raw []string
	if path != "/" {
		raw = strings.Split(path[1:], "/")
	}
	segs := make([]string, len(raw))
	for i, r := range raw {
		segs[i] = unescape(r)
	}

	m := methodMap[method]
	if m == mANY {
		// "*" is not a real request method
		m = 0
	}

	s := &search[H]{t: t, raw: raw, segs: segs, m: m}
	ep := s.find(0, 0)
	switch {
	case ep != nil:
		params := make(handler.Params, len(ep.names))
		for i, name := range ep.names {
			if i < len(s.vals) {
				params[name] = s.vals[i]
			}
		}
		return Match[H]{Outcome: Found, Handler: ep.handler, Pattern: ep.pattern, Params: params}
	case s.allowed != 0:
		return Match[H]{Outcome: MethodNotAllowed, Allowed: s.allowed.names()}
	default:
		return Match[H]{Outcome: NotFound}
	}
}

type search[H any] struct {
	t       *Tree[H]
	raw     []string
	segs    []string
	m       methodTyp
	vals    []string
	allowed methodTyp
}

// find descends one segment per level. It returns the endpoint for the
// request method, recording the methods of every node whose path matched.
func (s *search[H]) find(idx int32, i int) *endpoint[H] {
	n := &s.t.nodes[idx]

	if i == len(s.segs) {
		if ep := n.endpoint(s.m); ep != nil {
			return ep
		}
		s.allowed |= n.mask
		return nil
	}

	strict := s.t.cfg.Precedence == PrecedenceStrict
	seg := s.segs[i]

	if child, ok := n.literals[seg]; ok {
		if ep := s.find(child, i+1); ep != nil {
			return ep
		}
		if strict {
			return nil
		}
	}

	if n.param >= 0 && seg != "" {
		s.vals = append(s.vals, seg)
		if ep := s.find(n.param, i+1); ep != nil {
			return ep
		}
		s.vals = s.vals[:len(s.vals)-1]
		if strict {
			return nil
		}
	}

	if n.wildcard >= 0 {
		tail := unescape(strings.Join(s.raw[i:], "/"))
		if tail != "" {
			wn := &s.t.nodes[n.wildcard]
			if ep := wn.endpoint(s.m); ep != nil {
				s.vals = append(s.vals, tail)
				return ep
			}
			s.allowed |= wn.mask
		}
	}

	return nil
}

func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}
