package schemaedit

import (
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key builds a key segment.
func Key(k string) Segment { return Segment{Key: k} }

// Index builds an index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// Path is an ordered list of segments. The empty path is the document root.
type Path []Segment

// String renders p as "a.b[0].c". The root renders as "".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for i, s := range p {
		if s.IsIndex {
			b.WriteString("[")
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.Key)
	}
	return b.String()
}

// Parent drops the last segment. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

// Child returns a new path with seg appended; p is left untouched.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Concat returns p followed by q as a new path.
func (p Path) Concat(q Path) Path {
	out := make(Path, 0, len(p)+len(q))
	out = append(out, p...)
	return append(out, q...)
}

// Equal reports segment-wise equality.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// IsRootMarker reports whether s is a special root-level marker such as
// "__root__" emitted by model-level validators.
func IsRootMarker(s string) bool { return strings.HasPrefix(s, "__") }

// ParsePath tokenizes s into segments. Keys are maximal runs of characters
// other than '.', '[' and ']'; indices are "[digits]". Anything else is
// skipped, so ParsePath never fails: an empty or unparseable string is the
// root. Root markers are passed through as the root.
func ParsePath(s string) Path {
	if s == "" || IsRootMarker(s) {
		return nil
	}
	var out Path
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c != '.' && c != '[' && c != ']':
			j := i + 1
			for j < len(s) && s[j] != '.' && s[j] != '[' && s[j] != ']' {
				j++
			}
			out = append(out, Key(s[i:j]))
			i = j
		case c == '[':
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			if j > i+1 && j < len(s) && s[j] == ']' {
				n, err := strconv.Atoi(s[i+1 : j])
				if err == nil {
					out = append(out, Index(n))
					i = j + 1
					continue
				}
				// out of int range: drop the whole bracket token
				i = j + 1
				continue
			}
			i++
		default:
			i++
		}
	}
	return out
}

// NormalizePath re-renders s in canonical form.
func NormalizePath(s string) string { return ParsePath(s).String() }

// JoinKey appends a key to a rendered path.
func JoinKey(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// JoinIndex appends an index to a rendered path.
func JoinIndex(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}

// HasPathPrefix reports whether path equals prefix or lies below it,
// comparing segments (so "ab" is not under "a").
func HasPathPrefix(path, prefix string) bool {
	pp := ParsePath(prefix)
	p := ParsePath(path)
	if len(pp) > len(p) {
		return false
	}
	return p[:len(pp)].Equal(pp)
}
