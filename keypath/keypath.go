package keypath

import (
	"errors"
	"fmt"
	"strings"
)

// Separator joins path segments in the textual form of a Path.
const Separator = "."

// ErrInvalidPath is returned when a string cannot be parsed into a Path.
var ErrInvalidPath = errors.New("invalid key path")

// Path is a dotted sequence of key segments. The empty Path addresses the root table.
type Path []string

// Parse splits a dotted string into a Path, validating every segment.
func Parse(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	segments := strings.Split(s, Separator)
	for i, seg := range segments {
		if !ValidSegment(seg) {
			return nil, fmt.Errorf("%w: %q has an invalid segment at position %d", ErrInvalidPath, s, i)
		}
	}

	return Path(segments), nil
}

// MustParse is like Parse but panics on error. Intended for package-level variables and tests.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return p
}

// ValidSegment reports whether s can be used as a single bare key.
func ValidSegment(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if !IsKeyByte(s[i]) {
			return false
		}
	}

	return true
}

// IsKeyByte reports whether c may appear in a bare key.
func IsKeyByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_' || c == '-'
}

// String returns the dotted form of the path.
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p)
}

// IsRoot reports whether the path addresses the root table.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Append returns a new Path with the given segments added. The receiver is not modified.
func (p Path) Append(segments ...string) Path {
	out := make(Path, 0, len(p)+len(segments))
	out = append(out, p...)

	return append(out, segments...)
}

// Parent returns the path without its last segment. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}

	return p[: len(p)-1 : len(p)-1]
}

// Last returns the final segment, or "" for the root.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}

	return p[len(p)-1]
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}

	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

// IsAncestorOf reports whether p is a strict prefix of other.
func (p Path) IsAncestorOf(other Path) bool {
	if len(p) >= len(other) {
		return false
	}

	return p.Equal(other[:len(p)])
}
