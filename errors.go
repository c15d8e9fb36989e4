package schemaedit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType        = "invalid_type"
	CodeUnresolvedPath     = "unresolved_path"
	CodeUnionAmbiguous     = "union_ambiguous"
	CodeVariantOutOfRange  = "variant_out_of_range"
	CodeIncompatibleSchema = "incompatible_schema"
	CodeInvalidClipboard   = "invalid_clipboard"
	CodeIndexOutOfRange    = "index_out_of_range"
	CodeParseError         = "parse_error"
)

// Issue represents a single problem attached to a document location.
type Issue struct {
	Path    string // Editor path syntax (for example: items[2].price); "" is the root.
	Code    string // One of the codes listed above, or a validator-supplied code.
	Message string
	Hint    string // Optional: remediation hints, expected kinds, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"index":3, "len":2})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		p := it.Path
		if p == "" {
			p = "<root>"
		}
		fmt.Fprintf(b, "%s at %s", it.Code, p)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Under returns the issues located at path or below it. Root markers
// ("__root__" and friends) only belong to the root.
func (iss Issues) Under(path string) Issues {
	var out Issues
	for _, it := range iss {
		if IsRootMarker(it.Path) {
			if path == "" {
				out = append(out, it)
			}
			continue
		}
		if HasPathPrefix(it.Path, path) {
			out = append(out, it)
		}
	}
	return out
}

// ByPath groups issues by their normalized path. Root markers are grouped
// under "".
func (iss Issues) ByPath() map[string]Issues {
	out := make(map[string]Issues)
	for _, it := range iss {
		k := ParsePath(it.Path).String()
		out[k] = append(out[k], it)
	}
	return out
}

// Paths returns the distinct normalized paths carrying issues, sorted.
func (iss Issues) Paths() []string {
	groups := iss.ByPath()
	out := make([]string, 0, len(groups))
	for k := range groups {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
