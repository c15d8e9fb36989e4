package schemaedit

import "sort"

// NoSelection is passed as the stored index when the user has not forced a
// variant.
const NoSelection = -1

// Leaf type names used by array shape matching.
const (
	leafString  = "string"
	leafInteger = "integer"
	leafNumber  = "number"
	leafBoolean = "boolean"
	leafObject  = "object"
)

// ResolveVariant infers which variant of u applies to value. stored is a
// user-forced variant index (NoSelection when absent) and always wins when in
// range. A nil result means the variant cannot be determined; callers must
// ask the user rather than pick a default.
func ResolveVariant(u *Union, value any, stored int) Node {
	i := ResolveVariantIndex(u, value, stored)
	if i < 0 {
		return nil
	}
	return u.Variants[i]
}

// ResolveVariantIndex is ResolveVariant returning the variant index, or -1.
//
// Priority: stored selection, null value (undetermined), discriminator,
// object structural scoring, array shape matching, primitive kind matching.
func ResolveVariantIndex(u *Union, value any, stored int) int {
	if u == nil || len(u.Variants) == 0 {
		return -1
	}
	if _, ok := u.Variant(stored); ok {
		return stored
	}
	if value == nil {
		return -1
	}
	if i, ok := byDiscriminator(u, value); ok {
		return i
	}
	switch KindOf(value) {
	case ValueObject:
		if i, ok := byObjectScore(u, value.(map[string]any)); ok {
			return i
		}
	case ValueArray:
		if i, ok := byArrayShape(u, value.([]any)); ok {
			return i
		}
	case ValueString, ValueBool, ValueNumber:
		if i, ok := byPrimitiveKind(u, value); ok {
			return i
		}
	}
	return -1
}

func byDiscriminator(u *Union, value any) (int, bool) {
	d := u.Discriminator
	if d == nil || d.Field == "" {
		return 0, false
	}
	m, ok := value.(map[string]any)
	if !ok {
		return 0, false
	}
	lit, ok := m[d.Field]
	if !ok || lit == nil {
		return 0, false
	}
	switch KindOf(lit) {
	case ValueString, ValueBool, ValueNumber:
	default:
		return 0, false
	}
	idx, ok := d.Mapping[formatLiteral(lit)]
	if !ok {
		return 0, false
	}
	if _, ok := u.Variant(idx); !ok {
		return 0, false
	}
	return idx, true
}

type objectCandidate struct {
	index         int
	score         int
	perfectSubset bool
	keyCount      int
}

func byObjectScore(u *Union, value map[string]any) (int, bool) {
	var cands []objectCandidate
	for i, v := range u.Variants {
		obj, ok := asObjectNode(v)
		if !ok {
			continue
		}
		matching, extra := 0, 0
		for k := range value {
			if _, ok := obj.Fields[k]; ok {
				matching++
			} else {
				extra++
			}
		}
		if matching == 0 {
			continue
		}
		missing := len(obj.Fields) - matching
		cands = append(cands, objectCandidate{
			index:         i,
			score:         2*matching - extra - missing,
			perfectSubset: extra == 0,
			keyCount:      len(obj.Fields),
		})
	}
	if len(cands) == 0 {
		return 0, false
	}
	sort.SliceStable(cands, func(a, b int) bool {
		ca, cb := cands[a], cands[b]
		if ca.perfectSubset != cb.perfectSubset {
			return ca.perfectSubset
		}
		if ca.score != cb.score {
			return ca.score > cb.score
		}
		return ca.keyCount < cb.keyCount
	})
	return cands[0].index, true
}

// arrayShape is the (depth, leaf type) signature shared by values and
// array schemas. An empty leaf means unknown.
type arrayShape struct {
	depth int
	leaf  string
}

// valueArrayShape samples only the first non-null element at each level;
// mixed arrays are classified by that sample alone.
func valueArrayShape(arr []any) arrayShape {
	depth := 1
	cur := arr
	for {
		el := firstNonNull(cur)
		if el == nil {
			return arrayShape{depth: depth}
		}
		if sub, ok := el.([]any); ok {
			depth++
			cur = sub
			continue
		}
		return arrayShape{depth: depth, leaf: classifyLeaf(el)}
	}
}

func firstNonNull(arr []any) any {
	for _, v := range arr {
		if v != nil {
			return v
		}
	}
	return nil
}

func classifyLeaf(v any) string {
	switch KindOf(v) {
	case ValueString:
		return leafString
	case ValueBool:
		return leafBoolean
	case ValueNumber:
		if IsWholeNumber(v) {
			return leafInteger
		}
		return leafNumber
	case ValueObject:
		return leafObject
	}
	return ""
}

func schemaArrayShape(a *Array) arrayShape {
	depth := 1
	items := a.Items
	for {
		sub, ok := asArrayNode(items)
		if !ok {
			break
		}
		depth++
		items = sub.Items
	}
	switch t := items.(type) {
	case *Primitive:
		if t == nil {
			return arrayShape{depth: depth}
		}
		switch t.Type {
		case TypeString, TypeInteger, TypeNumber, TypeBoolean:
			return arrayShape{depth: depth, leaf: string(t.Type)}
		}
	case *Object:
		if t != nil {
			return arrayShape{depth: depth, leaf: leafObject}
		}
	}
	return arrayShape{depth: depth}
}

func numericLeaves(a, b string) bool {
	return (a == leafInteger || a == leafNumber) && (b == leafInteger || b == leafNumber)
}

func byArrayShape(u *Union, value []any) (int, bool) {
	type cand struct {
		index int
		shape arrayShape
	}
	var cands []cand
	for i, v := range u.Variants {
		if a, ok := asArrayNode(v); ok {
			cands = append(cands, cand{index: i, shape: schemaArrayShape(a)})
		}
	}
	if len(cands) == 0 {
		return 0, false
	}
	got := valueArrayShape(value)
	if got.leaf != "" {
		for _, c := range cands {
			if c.shape == got {
				return c.index, true
			}
		}
		for _, c := range cands {
			if c.shape.depth == got.depth && numericLeaves(c.shape.leaf, got.leaf) {
				return c.index, true
			}
		}
	}
	if len(value) > 0 {
		for _, c := range cands {
			if c.shape.depth == got.depth {
				return c.index, true
			}
		}
	}
	if len(cands) == 1 {
		return cands[0].index, true
	}
	// empty value with several array variants: ambiguous by design
	return 0, false
}

func byPrimitiveKind(u *Union, value any) (int, bool) {
	vk := KindOf(value)
	for i, v := range u.Variants {
		p, ok := v.(*Primitive)
		if !ok || p == nil {
			continue
		}
		switch vk {
		case ValueString:
			if p.Type == TypeString {
				return i, true
			}
		case ValueBool:
			if p.Type == TypeBoolean {
				return i, true
			}
		case ValueNumber:
			if p.Type == TypeInteger || p.Type == TypeNumber {
				return i, true
			}
		}
	}
	return 0, false
}
