package schemaedit

import (
	"sort"
	"strconv"
)

// VariantSelections maps canonical paths to user-forced variant indices. It
// lives for one editing session and is threaded through calls explicitly. A
// nil *VariantSelections is a valid, empty store for reads.
type VariantSelections struct {
	m map[string]int
}

// NewVariantSelections returns an empty store.
func NewVariantSelections() *VariantSelections {
	return &VariantSelections{m: map[string]int{}}
}

// Get returns the stored index for path.
func (s *VariantSelections) Get(path string) (int, bool) {
	if s == nil {
		return 0, false
	}
	i, ok := s.m[NormalizePath(path)]
	return i, ok
}

// Index returns the stored index for path or NoSelection.
func (s *VariantSelections) Index(path string) int {
	if i, ok := s.Get(path); ok {
		return i
	}
	return NoSelection
}

// Set records the user's choice for path. s must not be nil.
func (s *VariantSelections) Set(path string, idx int) {
	if s.m == nil {
		s.m = map[string]int{}
	}
	s.m[NormalizePath(path)] = idx
}

// Delete forgets the choice for path.
func (s *VariantSelections) Delete(path string) {
	if s == nil {
		return
	}
	delete(s.m, NormalizePath(path))
}

// DeleteUnder forgets the choices strictly below path.
func (s *VariantSelections) DeleteUnder(path string) {
	if s == nil {
		return
	}
	base := NormalizePath(path)
	for k := range s.m {
		if k != base && HasPathPrefix(k, base) {
			delete(s.m, k)
		}
	}
}

// Reset forgets every choice.
func (s *VariantSelections) Reset() {
	if s == nil {
		return
	}
	s.m = map[string]int{}
}

// Observe keeps the store consistent with a value change at path: when the
// value goes from non-null to null the choice at path, and every choice
// below it, is cleared. Otherwise choices are sticky.
func (s *VariantSelections) Observe(path string, prev, next any) {
	if s == nil {
		return
	}
	if prev != nil && next == nil {
		s.Delete(path)
		s.DeleteUnder(path)
	}
}

// Len reports the number of stored choices.
func (s *VariantSelections) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

// Paths lists the paths with a stored choice, sorted.
func (s *VariantSelections) Paths() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s *VariantSelections) Clone() *VariantSelections {
	out := NewVariantSelections()
	if s == nil {
		return out
	}
	for k, v := range s.m {
		out.m[k] = v
	}
	return out
}

// SwitchVariant forces variant idx of the union at path. The choice is
// recorded in sel, choices below path are dropped, and the value at path is
// replaced by a fresh default for the variant. doc is not modified; the new
// document root is returned.
func SwitchVariant(root Node, doc any, path string, idx int, sel *VariantSelections) (any, error) {
	p := ParsePath(path)
	loc := Resolve(root, doc, p, sel)
	if loc.BasePath != p.String() {
		return doc, Issues{IssueAt(p.String(), CodeUnresolvedPath, map[string]any{"resolved": loc.BasePath})}
	}
	u, ok := asUnionNode(loc.Schema)
	if !ok {
		return doc, Issues{IssueAt(loc.BasePath, CodeInvalidType, map[string]any{"expected": "union", "got": TypeName(loc.Schema)})}
	}
	v, ok := u.Variant(idx)
	if !ok {
		return doc, Issues{IssueAt(loc.BasePath, CodeVariantOutOfRange, map[string]any{"index": idx, "variants": len(u.Variants)})}
	}
	fresh := DefaultValue(v)
	if d := u.Discriminator; d != nil {
		if m, ok := fresh.(map[string]any); ok {
			if lit, ok := discriminatorLiteral(d, idx); ok {
				m[d.Field] = typedLiteral(lit, v, d.Field)
			}
		}
	}
	out, err := Assign(Clone(doc), p, fresh)
	if err != nil {
		return doc, err
	}
	if sel != nil {
		sel.Set(loc.BasePath, idx)
		sel.DeleteUnder(loc.BasePath)
	}
	return out, nil
}

// typedLiteral converts a mapping literal to the primitive type the variant
// declares for the discriminator field. Literals that do not parse as that
// type stay strings.
func typedLiteral(lit string, variant Node, field string) any {
	obj, ok := asObjectNode(variant)
	if !ok {
		return lit
	}
	p, ok := obj.Fields[field].(*Primitive)
	if !ok || p == nil {
		return lit
	}
	switch p.Type {
	case TypeBoolean:
		if b, err := strconv.ParseBool(lit); err == nil {
			return b
		}
	case TypeInteger, TypeNumber:
		if f, err := strconv.ParseFloat(lit, 64); err == nil {
			return f
		}
	}
	return lit
}

// discriminatorLiteral finds the smallest literal mapped to idx so the
// result does not depend on map iteration order.
func discriminatorLiteral(d *Discriminator, idx int) (string, bool) {
	var lits []string
	for lit, i := range d.Mapping {
		if i == idx {
			lits = append(lits, lit)
		}
	}
	if len(lits) == 0 {
		return "", false
	}
	sort.Strings(lits)
	return lits[0], true
}

// DefaultValue builds a fresh value for n: declared primitive defaults or
// zero values, objects with their required fields filled, empty arrays, and
// nil for unions (the variant is unknown until chosen).
func DefaultValue(n Node) any {
	return defaultValue(n, 0)
}

func defaultValue(n Node, depth int) any {
	if depth > 32 {
		return nil
	}
	switch t := n.(type) {
	case *Primitive:
		if t == nil {
			return nil
		}
		if t.Default != nil {
			return Clone(t.Default)
		}
		switch t.Type {
		case TypeString:
			return ""
		case TypeInteger, TypeNumber:
			return float64(0)
		case TypeBoolean:
			return false
		}
		return nil
	case *Object:
		out := map[string]any{}
		if t == nil {
			return out
		}
		for _, name := range t.FieldNames() {
			f := t.Fields[name]
			if t.IsRequired(name) {
				out[name] = defaultValue(f, depth+1)
				continue
			}
			if p, ok := f.(*Primitive); ok && p != nil && p.Default != nil {
				out[name] = Clone(p.Default)
			}
		}
		return out
	case *Array:
		return []any{}
	}
	return nil
}
