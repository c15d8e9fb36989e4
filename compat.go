package schemaedit

// Compatible reports whether data copied under source may be pasted where
// target is expected. The check is deliberately lenient:
//
//   - different kinds are incompatible;
//   - objects match when either declares no fields or their field names overlap;
//   - arrays match when either lacks an items schema or the items match;
//   - primitives match on type;
//   - unions match when any pair of variants matches.
//
// It only gates paste actions and never transforms data.
func Compatible(source, target Node) bool {
	return compatible(source, target, map[[2]Node]struct{}{})
}

func compatible(source, target Node, seen map[[2]Node]struct{}) bool {
	if source == nil || target == nil {
		return source == nil && target == nil
	}
	if source.Kind() != target.Kind() {
		return false
	}
	key := [2]Node{source, target}
	if _, ok := seen[key]; ok {
		// recursive definitions: assume compatible on revisit
		return true
	}
	seen[key] = struct{}{}

	switch s := source.(type) {
	case *Primitive:
		t := target.(*Primitive)
		if s == nil || t == nil {
			return s == t
		}
		return s.Type == t.Type
	case *Object:
		t := target.(*Object)
		if s == nil || t == nil || len(s.Fields) == 0 || len(t.Fields) == 0 {
			return true
		}
		for name := range s.Fields {
			if _, ok := t.Fields[name]; ok {
				return true
			}
		}
		return false
	case *Array:
		t := target.(*Array)
		if s == nil || t == nil || s.Items == nil || t.Items == nil {
			return true
		}
		return compatible(s.Items, t.Items, seen)
	case *Union:
		t := target.(*Union)
		if s == nil || t == nil || len(s.Variants) == 0 || len(t.Variants) == 0 {
			return true
		}
		for _, sv := range s.Variants {
			for _, tv := range t.Variants {
				if compatible(sv, tv, seen) {
					return true
				}
			}
		}
		return false
	}
	return false
}

// CompatibleAt reports whether data with schema source can be pasted at
// targetPath of doc. The target path must resolve completely. A union target
// accepts the source when any of its variants does.
func CompatibleAt(root Node, doc any, targetPath string, source Node, sel *VariantSelections) bool {
	p := ParsePath(targetPath)
	loc := Resolve(root, doc, p, sel)
	if loc.BasePath != p.String() {
		return false
	}
	if u, ok := asUnionNode(loc.Schema); ok && source != nil && source.Kind() != KindUnion {
		for _, v := range u.Variants {
			if Compatible(source, v) {
				return true
			}
		}
		return false
	}
	return Compatible(source, loc.Schema)
}
