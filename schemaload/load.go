// Package schemaload compiles schema protocol documents into schemaedit
// nodes.
//
// A schema document is a recursive JSON/YAML object:
//
//	{type: "object"|"array"|"union"|<primitive>, fields?, items?, variants?,
//	 discriminator?: {field, mapping}, required?, default?, ...constraints}
//
// Local definitions are supported through "$defs" (or "definitions") on the
// root and "$ref": "#/$defs/Name" anywhere below; recursive definitions
// compile to cyclic node graphs.
package schemaload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	se "github.com/reoring/schemaedit"
)

// ErrNilSchema is returned when no schema document is given.
var ErrNilSchema = errors.New("schemaload: nil schema")

// reserved keys are not copied into primitive constraints.
var reserved = map[string]struct{}{
	"type": {}, "default": {}, "fields": {}, "items": {}, "variants": {}, "oneOf": {}, "anyOf": {},
	"discriminator": {}, "required": {}, "$defs": {}, "definitions": {}, "$ref": {},
}

// Load compiles a schema given as raw JSON bytes or an already decoded
// map[string]any. Field order follows lexical order; use LoadYAML to keep
// declaration order.
func Load(schema any, opts Options) (se.Node, Diag, error) {
	d := &simpleDiag{}
	if schema == nil {
		return nil, d, ErrNilSchema
	}
	var root any
	switch t := schema.(type) {
	case []byte:
		if err := json.Unmarshal(t, &root); err != nil {
			return nil, d, fmt.Errorf("schemaload: invalid JSON: %w", err)
		}
	case string:
		if err := json.Unmarshal([]byte(t), &root); err != nil {
			return nil, d, fmt.Errorf("schemaload: invalid JSON: %w", err)
		}
	case map[string]any:
		root = t
	default:
		// try json.Marshaler style
		b, err := json.Marshal(t)
		if err != nil {
			return nil, d, fmt.Errorf("schemaload: cannot marshal input: %w", err)
		}
		if err := json.Unmarshal(b, &root); err != nil {
			return nil, d, fmt.Errorf("schemaload: invalid marshaled JSON: %w", err)
		}
	}
	n, err := compile(root, opts, d)
	return n, d, err
}

// LoadFile reads path and compiles it. ".yaml" and ".yml" files, and JSON
// files alike, go through the order-preserving YAML reader.
func LoadFile(path string, opts Options) (se.Node, Diag, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &simpleDiag{}, fmt.Errorf("schemaload: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return LoadYAML(b, opts)
	default:
		return Load(b, opts)
	}
}

func compile(root any, opts Options, d *simpleDiag) (se.Node, error) {
	m, _, ok := asMap(root)
	if !ok {
		return nil, fmt.Errorf("schemaload: root must be an object, got %T", root)
	}
	c := &compiler{opts: opts, d: d, built: map[string]se.Node{}, resolving: map[string]bool{}}
	c.defs = extractDefs(m)
	return c.node(root, "#")
}

type compiler struct {
	opts      Options
	d         *simpleDiag
	defs      map[string]any
	built     map[string]se.Node
	resolving map[string]bool
}

// problem reports a recoverable issue: an error in strict mode, otherwise a
// warning.
func (c *compiler) problem(f string, a ...any) error {
	if c.opts.Strict {
		return fmt.Errorf("schemaload: "+f, a...)
	}
	c.d.warnf(f, a...)
	return nil
}

func (c *compiler) node(v any, at string) (se.Node, error) {
	m, _, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("schemaload: %s: schema node must be an object, got %T", at, v)
	}
	if ref, ok := m["$ref"].(string); ok {
		return c.ref(ref, at)
	}
	shell, err := c.shell(m, at)
	if err != nil {
		return nil, err
	}
	return shell, c.fill(shell, m, at)
}

// shell allocates the concrete node for m without compiling children, so
// that $ref cycles can point at it before it is complete.
func (c *compiler) shell(m map[string]any, at string) (se.Node, error) {
	t, _ := m["type"].(string)
	switch t {
	case "object":
		return &se.Object{Fields: map[string]se.Node{}}, nil
	case "array":
		return &se.Array{}, nil
	case "union":
		return &se.Union{}, nil
	case "":
		switch {
		case m["fields"] != nil:
			return &se.Object{Fields: map[string]se.Node{}}, nil
		case m["items"] != nil:
			return &se.Array{}, nil
		case variantsOf(m) != nil:
			return &se.Union{}, nil
		}
		if err := c.problem("%s: node without type treated as primitive %q", at, "any"); err != nil {
			return nil, err
		}
		return &se.Primitive{Type: "any"}, nil
	default:
		return &se.Primitive{Type: se.PrimitiveType(t)}, nil
	}
}

func (c *compiler) fill(n se.Node, m map[string]any, at string) error {
	switch t := n.(type) {
	case *se.Primitive:
		return c.fillPrimitive(t, m)
	case *se.Object:
		return c.fillObject(t, m, at)
	case *se.Array:
		return c.fillArray(t, m, at)
	case *se.Union:
		return c.fillUnion(t, m, at)
	}
	return nil
}

func (c *compiler) fillPrimitive(p *se.Primitive, m map[string]any) error {
	if dv, ok := m["default"]; ok {
		p.Default = plain(dv)
	}
	for k, v := range m {
		if _, skip := reserved[k]; skip {
			continue
		}
		if p.Constraints == nil {
			p.Constraints = map[string]any{}
		}
		p.Constraints[k] = plain(v)
	}
	return nil
}

func (c *compiler) fillObject(o *se.Object, m map[string]any, at string) error {
	if raw, ok := m["fields"]; ok && raw != nil {
		fm, keys, ok := asMap(raw)
		if !ok {
			return fmt.Errorf("schemaload: %s.fields: expected an object, got %T", at, raw)
		}
		for _, name := range keys {
			fn, err := c.node(fm[name], at+".fields."+name)
			if err != nil {
				return err
			}
			o.Fields[name] = fn
			o.Order = append(o.Order, name)
		}
	}
	o.Required = stringList(m["required"])
	for _, r := range o.Required {
		if _, ok := o.Fields[r]; !ok {
			c.d.warnf("%s: required field %q is not declared", at, r)
		}
	}
	return nil
}

func (c *compiler) fillArray(a *se.Array, m map[string]any, at string) error {
	if raw, ok := m["items"]; ok && raw != nil {
		items, err := c.node(raw, at+".items")
		if err != nil {
			return err
		}
		a.Items = items
	}
	a.MinItems = intPtr(m["minItems"])
	a.MaxItems = intPtr(m["maxItems"])
	return nil
}

func (c *compiler) fillUnion(u *se.Union, m map[string]any, at string) error {
	vs := variantsOf(m)
	for i, raw := range vs {
		vn, err := c.node(raw, fmt.Sprintf("%s.variants[%d]", at, i))
		if err != nil {
			return err
		}
		u.Variants = append(u.Variants, vn)
	}
	if len(u.Variants) == 0 {
		if err := c.problem("%s: union without variants", at); err != nil {
			return err
		}
	}
	raw, ok := m["discriminator"]
	if !ok || raw == nil {
		return nil
	}
	dm, _, ok := asMap(raw)
	if !ok {
		return fmt.Errorf("schemaload: %s.discriminator: expected an object, got %T", at, raw)
	}
	field, _ := dm["field"].(string)
	if field == "" {
		field, _ = dm["propertyName"].(string)
	}
	if field == "" {
		return c.problem("%s.discriminator: missing field", at)
	}
	d := &se.Discriminator{Field: field, Mapping: map[string]int{}}
	mm, keys, _ := asMap(dm["mapping"])
	for _, lit := range keys {
		idx, ok := toInt(mm[lit])
		if !ok {
			idx, ok = c.variantIndexByRef(mm[lit], u)
		}
		if !ok || idx < 0 || idx >= len(u.Variants) {
			if err := c.problem("%s.discriminator: mapping %q does not name a variant", at, lit); err != nil {
				return err
			}
			continue
		}
		d.Mapping[lit] = idx
	}
	u.Discriminator = d
	return nil
}

// variantIndexByRef accepts OpenAPI-style mappings whose values are $ref
// strings of one of the variants.
func (c *compiler) variantIndexByRef(v any, u *se.Union) (int, bool) {
	ref, ok := v.(string)
	if !ok {
		return 0, false
	}
	target, ok := c.built[defName(ref)]
	if !ok {
		return 0, false
	}
	for i, vn := range u.Variants {
		if vn == target {
			return i, true
		}
	}
	return 0, false
}

func variantsOf(m map[string]any) []any {
	for _, k := range []string{"variants", "oneOf", "anyOf"} {
		if l, ok := m[k].([]any); ok {
			return l
		}
	}
	return nil
}

// asMap accepts decoded JSON objects and order-preserving YAML mappings and
// returns their keys in iteration order (lexical for plain maps).
func asMap(v any) (map[string]any, []string, bool) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return t, keys, true
	case *orderedMap:
		if t == nil {
			return nil, nil, false
		}
		return t.m, t.keys, true
	}
	return nil, nil, false
}

// plain converts order-preserving mappings back into map[string]any.
func plain(v any) any {
	switch t := v.(type) {
	case *orderedMap:
		out := make(map[string]any, len(t.m))
		for k, vv := range t.m {
			out[k] = plain(vv)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = plain(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = plain(t[i])
		}
		return out
	}
	return v
}

func stringList(v any) []string {
	l, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, r := range l {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case uint64:
		return int(t), true
	case float64:
		if t == float64(int(t)) {
			return int(t), true
		}
	}
	return 0, false
}

func intPtr(v any) *int {
	if i, ok := toInt(v); ok {
		return &i
	}
	return nil
}
