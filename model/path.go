package model

import (
	"strconv"
	"strings"
)

// PathSegment is one step of a structural path such as "TD[2]"
type PathSegment struct {
	Name  string
	Index int // 1 when the path carries no explicit index
}

// String formats the segment the way the extraction service writes it
func (s PathSegment) String() string {
	if s.Index <= 1 {
		return s.Name
	}
	return s.Name + "[" + strconv.Itoa(s.Index) + "]"
}

// SplitPath splits a slash-delimited structural path into segments.
// Empty segments (from the leading "//") are dropped and malformed index
// suffixes are kept as part of the name.
func SplitPath(path string) []PathSegment {
	parts := strings.Split(path, "/")
	segments := make([]PathSegment, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments = append(segments, parseSegment(part))
	}
	return segments
}

func parseSegment(part string) PathSegment {
	open := strings.IndexByte(part, '[')
	if open <= 0 || !strings.HasSuffix(part, "]") {
		return PathSegment{Name: part, Index: 1}
	}
	n, err := strconv.Atoi(part[open+1 : len(part)-1])
	if err != nil || n < 1 {
		return PathSegment{Name: part, Index: 1}
	}
	return PathSegment{Name: part[:open], Index: n}
}

// CanonicalPath rewrites a path so that variants naming the same node
// compare equal: "//Document/Table[1]/" and "//Document/Table" both become
// "//Document/Table".
func CanonicalPath(path string) string {
	segments := SplitPath(path)
	names := make([]string, len(segments))
	for i, s := range segments {
		names[i] = s.String()
	}
	return "//" + strings.Join(names, "/")
}

// IsDescendantPath reports whether child lies strictly below ancestor.
// Both paths must be canonical.
func IsDescendantPath(ancestor, child string) bool {
	return len(child) > len(ancestor)+1 &&
		strings.HasPrefix(child, ancestor) &&
		child[len(ancestor)] == '/'
}
