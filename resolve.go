package schemaedit

import "github.com/rs/zerolog"

// Location is the (schema, value, path) triple reached by walking a path.
// It is a transient projection and is recomputed on demand.
type Location struct {
	Schema      Node
	Value       any
	BasePath    string // canonical rendering of the segments actually applied
	IsArrayItem bool
	ArrayPath   string // path of the enclosing array when IsArrayItem
	ArrayIndex  int    // -1 when not an array item
}

// Resolver walks a schema and a document value together.
type Resolver struct {
	log zerolog.Logger
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithLogger traces, at debug level, the segment at which a walk stops.
func WithLogger(l zerolog.Logger) ResolverOption {
	return func(r *Resolver) { r.log = l }
}

// NewResolver returns a Resolver. Without options it does not log.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{log: zerolog.Nop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

var defaultResolver = NewResolver()

// Resolve walks root/value along path using the package default Resolver.
func Resolve(root Node, value any, path Path, sel *VariantSelections) Location {
	return defaultResolver.Resolve(root, value, path, sel)
}

// ResolveString parses path and resolves it.
func ResolveString(root Node, value any, path string, sel *VariantSelections) Location {
	return defaultResolver.Resolve(root, value, ParsePath(path), sel)
}

// Resolve applies segments in order. The first segment that cannot be
// applied stops the walk and the last successfully resolved location is
// returned, so the result is the root in the worst case. Neither root nor
// value is mutated.
func (r *Resolver) Resolve(root Node, value any, path Path, sel *VariantSelections) Location {
	loc := rootLocation(root, value)
	for i, seg := range path {
		next, ok := r.step(loc, seg, sel)
		if !ok {
			r.log.Debug().
				Str("at", loc.BasePath).
				Str("segment", seg.String()).
				Int("applied", i).
				Int("requested", len(path)).
				Str("schema", Describe(loc.Schema)).
				Msg("path resolution stopped")
			return loc
		}
		loc = next
	}
	return loc
}

// Walk returns the root location followed by one location per applied
// segment, stopping like Resolve does.
func (r *Resolver) Walk(root Node, value any, path Path, sel *VariantSelections) []Location {
	loc := rootLocation(root, value)
	out := make([]Location, 0, len(path)+1)
	out = append(out, loc)
	for _, seg := range path {
		next, ok := r.step(loc, seg, sel)
		if !ok {
			break
		}
		out = append(out, next)
		loc = next
	}
	return out
}

func rootLocation(root Node, value any) Location {
	return Location{Schema: root, Value: value, ArrayIndex: -1}
}

// effective returns the concrete node at loc: the node itself, or for a
// union the variant in effect (stored selection first, then inference).
func effective(loc Location, sel *VariantSelections) Node {
	u, ok := asUnionNode(loc.Schema)
	if !ok {
		return loc.Schema
	}
	return ResolveVariant(u, loc.Value, sel.Index(loc.BasePath))
}

func (r *Resolver) step(loc Location, seg Segment, sel *VariantSelections) (Location, bool) {
	n := effective(loc, sel)
	if seg.IsIndex {
		arr, ok := asArrayNode(n)
		if !ok || arr.Items == nil || seg.Index < 0 {
			return loc, false
		}
		var v any
		if vs, ok := loc.Value.([]any); ok && seg.Index < len(vs) {
			v = vs[seg.Index]
		}
		return Location{
			Schema:      arr.Items,
			Value:       v,
			BasePath:    JoinIndex(loc.BasePath, seg.Index),
			IsArrayItem: true,
			ArrayPath:   loc.BasePath,
			ArrayIndex:  seg.Index,
		}, true
	}
	obj, ok := asObjectNode(n)
	if !ok {
		return loc, false
	}
	field, ok := obj.Field(seg.Key)
	if !ok {
		return loc, false
	}
	var v any
	if m, ok := loc.Value.(map[string]any); ok {
		v = m[seg.Key]
	}
	// A key step always clears array-item tracking; a following index step
	// sets it again for the nested array.
	return Location{
		Schema:     field,
		Value:      v,
		BasePath:   JoinKey(loc.BasePath, seg.Key),
		ArrayIndex: -1,
	}, true
}

// EffectiveSchema returns the concrete schema in effect at loc. For unions
// this is the selected or inferred variant, or nil when ambiguous.
func EffectiveSchema(loc Location, sel *VariantSelections) Node {
	return effective(loc, sel)
}

// SchemaAt resolves path completely and returns the concrete schema in
// effect there along with the location. It fails with unresolved_path when
// the walk stops early and with union_ambiguous when the union at path has
// no stored or inferable variant.
func (r *Resolver) SchemaAt(root Node, value any, path Path, sel *VariantSelections) (Node, Location, error) {
	loc := r.Resolve(root, value, path, sel)
	if loc.BasePath != path.String() {
		return nil, loc, Issues{IssueAt(path.String(), CodeUnresolvedPath, map[string]any{"resolved": loc.BasePath})}
	}
	n := effective(loc, sel)
	if n == nil {
		return nil, loc, Issues{IssueAt(loc.BasePath, CodeUnionAmbiguous, map[string]any{"schema": Describe(loc.Schema)})}
	}
	return n, loc, nil
}
