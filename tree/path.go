package tree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a path: a mapping key or a sequence index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// String renders the segment the way it appears inside a path.
func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}

	return s.Key
}

// ParsePath parses a path string into segments.
// Supports: "name", "server.port", "servers[0]", "servers[0].tags[1]".
func ParsePath(path string) ([]Segment, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}

	var segments []Segment

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", path)
		}

		key, rest, _ := strings.Cut(part, "[")
		if key == "" && len(segments) == 0 && !strings.HasPrefix(part, "[") {
			return nil, fmt.Errorf("invalid path %q: empty key", path)
		}

		if key != "" {
			if strings.ContainsAny(key, "]") {
				return nil, fmt.Errorf("invalid path %q: unexpected ']' in %q", path, part)
			}
			segments = append(segments, Segment{Key: key})
		}

		if !strings.Contains(part, "[") {
			continue
		}

		// Index notation, possibly repeated: "[0][1]"
		for rest != "" {
			idx, after, ok := strings.Cut(rest, "]")
			if !ok {
				return nil, fmt.Errorf("invalid path %q: unterminated index in %q", path, part)
			}

			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid path %q: bad index %q", path, idx)
			}

			segments = append(segments, Segment{Index: n, IsIndex: true})

			if after == "" {
				break
			}

			if !strings.HasPrefix(after, "[") {
				return nil, fmt.Errorf("invalid path %q: unexpected %q after index", path, after)
			}

			rest = after[1:]
		}
	}

	return segments, nil
}

// Lookup resolves path against root.
func Lookup(root Node, path string) (Node, bool) {
	segments, err := ParsePath(path)
	if err != nil {
		return nil, false
	}

	current := root
	for _, seg := range segments {
		switch v := current.(type) {
		case *Mapping:
			if seg.IsIndex {
				return nil, false
			}

			next, ok := v.Get(seg.Key)
			if !ok {
				return nil, false
			}
			current = next
		case *Sequence:
			if !seg.IsIndex || seg.Index >= v.Len() {
				return nil, false
			}
			current = v.Items[seg.Index]
		default:
			return nil, false
		}
	}

	return current, true
}
