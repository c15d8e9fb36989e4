// Package fieldtree flattens an object schema, together with a live source
// value, into a selectable tree for partial paste.
//
// Object fields recurse; array fields are opaque leaves annotated with the
// current item count. A Selection tracks which leaves are chosen and, for
// array leaves, how they combine with the target (append, prepend,
// overwrite).
package fieldtree

import (
	"fmt"
	"sort"
	"strings"

	se "github.com/reoring/schemaedit"
)

// maxDepth bounds recursion through recursive schema definitions.
const maxDepth = 32

// Node is one entry of the field tree. Path is relative to the object the
// tree was built from and uses the editor path syntax.
type Node struct {
	Path        string
	Name        string
	Type        string // primitive type, or "object"/"array"/"union"
	Children    []*Node
	IsLeaf      bool
	IsArray     bool
	ArrayLength int // item count of the source value; -1 when it is not an array
}

// Build returns the top-level nodes for obj. value is the source object the
// tree describes; it drives array lengths and union variant resolution.
func Build(obj *se.Object, value any) []*Node {
	return buildFields(obj, value, "", 0)
}

func buildFields(obj *se.Object, value any, prefix string, depth int) []*Node {
	if obj == nil {
		return nil
	}
	m, _ := value.(map[string]any)
	names := obj.FieldNames()
	out := make([]*Node, 0, len(names))
	for _, name := range names {
		f, _ := obj.Field(name)
		out = append(out, buildNode(name, f, m[name], se.JoinKey(prefix, name), depth))
	}
	return out
}

func buildNode(name string, schema se.Node, value any, path string, depth int) *Node {
	if u, ok := schema.(*se.Union); ok && u != nil {
		if v := se.ResolveVariant(u, value, se.NoSelection); v != nil {
			schema = v
		}
	}
	n := &Node{Path: path, Name: name, Type: se.TypeName(schema), ArrayLength: -1}
	switch t := schema.(type) {
	case *se.Object:
		if t != nil && len(t.Fields) > 0 && depth < maxDepth {
			n.Children = buildFields(t, value, path, depth+1)
			return n
		}
	case *se.Array:
		n.IsArray = true
		if arr, ok := value.([]any); ok {
			n.ArrayLength = len(arr)
		}
	}
	n.IsLeaf = true
	return n
}

// LeafPaths returns the paths of all leaves at or under n, in tree order.
func LeafPaths(n *Node) []string {
	if n == nil {
		return nil
	}
	if n.IsLeaf {
		return []string{n.Path}
	}
	var out []string
	for _, c := range n.Children {
		out = append(out, LeafPaths(c)...)
	}
	return out
}

// Walk visits every node depth-first in tree order.
func Walk(roots []*Node, fn func(n *Node, depth int)) {
	var rec func(ns []*Node, d int)
	rec = func(ns []*Node, d int) {
		for _, n := range ns {
			fn(n, d)
			rec(n.Children, d+1)
		}
	}
	rec(roots, 0)
}

// State is the tri-state check mark of a node.
type State int

const (
	Unchecked State = iota
	Indeterminate
	Checked
)

func (s State) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// PasteMode controls how an array leaf combines with the target array.
type PasteMode int

const (
	Append    PasteMode = iota // target followed by source
	Prepend                    // source followed by target
	Overwrite                  // source replaces target
)

func (m PasteMode) String() string {
	switch m {
	case Prepend:
		return "prepend"
	case Overwrite:
		return "overwrite"
	default:
		return "append"
	}
}

// ParsePasteMode parses "append", "prepend" or "overwrite".
func ParsePasteMode(s string) (PasteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "append", "":
		return Append, nil
	case "prepend":
		return Prepend, nil
	case "overwrite":
		return Overwrite, nil
	}
	return Append, fmt.Errorf("fieldtree: unknown paste mode %q", s)
}

// Merge combines target and source according to the mode into a new slice.
func (m PasteMode) Merge(target, source []any) []any {
	switch m {
	case Prepend:
		out := make([]any, 0, len(source)+len(target))
		out = append(out, source...)
		return append(out, target...)
	case Overwrite:
		return append([]any{}, source...)
	default:
		out := make([]any, 0, len(target)+len(source))
		out = append(out, target...)
		return append(out, source...)
	}
}

// Selection is the set of selected leaves of one tree plus the paste mode of
// each array leaf. Modes are independent of selection.
type Selection struct {
	roots       []*Node
	leaves      map[string]*Node
	selected    map[string]struct{}
	modes       map[string]PasteMode
	defaultMode PasteMode
}

// NewSelection binds an empty selection to the tree rooted at roots.
func NewSelection(roots []*Node) *Selection {
	s := &Selection{
		roots:    roots,
		leaves:   map[string]*Node{},
		selected: map[string]struct{}{},
		modes:    map[string]PasteMode{},
	}
	Walk(roots, func(n *Node, _ int) {
		if n.IsLeaf {
			s.leaves[n.Path] = n
		}
	})
	return s
}

// SetDefaultMode changes the mode reported for array leaves without an
// explicit mode.
func (s *Selection) SetDefaultMode(m PasteMode) { s.defaultMode = m }

// Roots returns the tree this selection is bound to.
func (s *Selection) Roots() []*Node { return s.roots }

// Leaf returns the leaf node for path.
func (s *Selection) Leaf(path string) (*Node, bool) {
	n, ok := s.leaves[se.NormalizePath(path)]
	return n, ok
}

// Select marks leaves as selected. Paths that are not leaves of the tree are
// ignored; the number of paths accepted is returned.
func (s *Selection) Select(paths ...string) int {
	n := 0
	for _, p := range paths {
		p = se.NormalizePath(p)
		if _, ok := s.leaves[p]; ok {
			s.selected[p] = struct{}{}
			n++
		}
	}
	return n
}

// Deselect unmarks leaves.
func (s *Selection) Deselect(paths ...string) {
	for _, p := range paths {
		delete(s.selected, se.NormalizePath(p))
	}
}

// IsSelected reports whether the leaf at path is selected.
func (s *Selection) IsSelected(path string) bool {
	_, ok := s.selected[se.NormalizePath(path)]
	return ok
}

// State reports Checked when every leaf under n is selected, Indeterminate
// when only some are, and Unchecked otherwise.
func (s *Selection) State(n *Node) State {
	leaves := LeafPaths(n)
	if len(leaves) == 0 {
		return Unchecked
	}
	count := 0
	for _, p := range leaves {
		if _, ok := s.selected[p]; ok {
			count++
		}
	}
	switch {
	case count == 0:
		return Unchecked
	case count == len(leaves):
		return Checked
	default:
		return Indeterminate
	}
}

// Toggle selects every leaf under n, or deselects them all when n is
// already fully checked.
func (s *Selection) Toggle(n *Node) {
	leaves := LeafPaths(n)
	if s.State(n) == Checked {
		s.Deselect(leaves...)
		return
	}
	s.Select(leaves...)
}

// SelectAll selects every leaf of the tree.
func (s *Selection) SelectAll() {
	for p := range s.leaves {
		s.selected[p] = struct{}{}
	}
}

// Clear deselects everything; paste modes are kept.
func (s *Selection) Clear() { s.selected = map[string]struct{}{} }

// Selected lists the selected leaf paths, sorted.
func (s *Selection) Selected() []string {
	out := make([]string, 0, len(s.selected))
	for p := range s.selected {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of selected leaves.
func (s *Selection) Len() int { return len(s.selected) }

// SetMode sets the paste mode for the array leaf at path.
func (s *Selection) SetMode(path string, m PasteMode) error {
	n, ok := s.Leaf(path)
	if !ok || !n.IsArray {
		return fmt.Errorf("fieldtree: %q is not an array leaf", path)
	}
	s.modes[n.Path] = m
	return nil
}

// Mode returns the paste mode for the array leaf at path.
func (s *Selection) Mode(path string) PasteMode {
	if m, ok := s.modes[se.NormalizePath(path)]; ok {
		return m
	}
	return s.defaultMode
}
