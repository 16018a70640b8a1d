package router

import (
	"fmt"
	"strings"
)

// SegmentKind classifies one segment of a route pattern.
type SegmentKind uint8

const (
	// Literal matches the segment text exactly (case-sensitive).
	Literal SegmentKind = iota
	// Param matches any single non-empty segment and binds it by name.
	Param
	// Wildcard matches the non-empty remainder of the path. Only valid last.
	Wildcard
)

// Segment is one parsed element of a route pattern.
type Segment struct {
	Kind  SegmentKind
	Value string // literal text or parameter name
}

func (s Segment) String() string {
	switch s.Kind {
	case Param:
		return ":" + s.Value
	case Wildcard:
		if s.Value == "*" {
			return "*"
		}
		return "*" + s.Value
	default:
		return s.Value
	}
}

// ParsePattern splits a route pattern into segments.
//
// Supported forms: literal segments, ":name" or "{name}" parameters and a
// trailing "*name" (or bare "*") wildcard. The root pattern "/" has no
// segments.
func ParsePattern(pattern string) ([]Segment, error) {
	if pattern == "" || pattern[0] != '/' {
		return nil, ErrInvalidPattern
	}
	if pattern == "/" {
		return []Segment{}, nil
	}

	parts := strings.Split(pattern[1:], "/")
	segs := make([]Segment, 0, len(parts))
	seen := make(map[string]struct{})

	for i, part := range parts {
		if part == "" {
			return nil, ErrEmptySegment
		}

		var seg Segment
		switch part[0] {
		case ':':
			seg = Segment{Kind: Param, Value: part[1:]}
		case '{':
			if part[len(part)-1] != '}' {
				return nil, ErrParamDelimiter
			}
			name := part[1 : len(part)-1]
			if strings.ContainsAny(name, ":{}") {
				return nil, fmt.Errorf("%w: unsupported param %q", ErrInvalidPattern, part)
			}
			seg = Segment{Kind: Param, Value: name}
		case '*':
			if i != len(parts)-1 {
				return nil, ErrWildcardPosition
			}
			name := part[1:]
			if name == "" {
				name = "*"
			}
			seg = Segment{Kind: Wildcard, Value: name}
		default:
			seg = Segment{Kind: Literal, Value: part}
		}

		if seg.Kind != Literal {
			if seg.Value == "" {
				return nil, ErrEmptyParam
			}
			if _, dup := seen[seg.Value]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateParam, seg.Value)
			}
			seen[seg.Value] = struct{}{}
		}
		segs = append(segs, seg)
	}

	return segs, nil
}

// canonical renders segments back into the ":name" pattern form.
func canonical(segs []Segment) string {
	if len(segs) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(s.String())
	}
	return b.String()
}

// joinPattern joins a group prefix and a relative pattern.
func joinPattern(prefix, pattern string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	switch {
	case pattern == "" || pattern == "/":
		if prefix == "" {
			return "/"
		}
		return prefix
	case pattern[0] != '/':
		return prefix + "/" + pattern
	default:
		return prefix + pattern
	}
}
