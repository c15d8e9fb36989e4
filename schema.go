package schemaedit

import (
	"sort"
	"strconv"
	"strings"
)

// Kind identifies a schema node type.
type Kind int

const (
	KindPrimitive Kind = iota
	KindObject
	KindArray
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindUnion:
		return "union"
	default:
		return "unknown"
	}
}

// Node is a schema node. The set of implementations is closed: *Primitive,
// *Object, *Array and *Union. Nodes are immutable once built and may be
// shared (including cyclically, for recursive definitions).
type Node interface {
	Kind() Kind
	sealed()
}

// PrimitiveType names a scalar kind. Values other than the constants below
// are carried through and compared by equality.
type PrimitiveType string

const (
	TypeString  PrimitiveType = "string"
	TypeInteger PrimitiveType = "integer"
	TypeNumber  PrimitiveType = "number"
	TypeBoolean PrimitiveType = "boolean"
	TypeNull    PrimitiveType = "null"
)

// Primitive is a scalar leaf.
type Primitive struct {
	Type        PrimitiveType
	Constraints map[string]any // min/max/pattern/enum/format...; opaque to the core
	Default     any
}

func (*Primitive) Kind() Kind { return KindPrimitive }
func (*Primitive) sealed()    {}

// Object is a record with named fields.
type Object struct {
	Fields   map[string]Node
	Order    []string // optional declaration order; names not listed sort after it
	Required []string
}

func (*Object) Kind() Kind { return KindObject }
func (*Object) sealed()    {}

// Field returns the schema of the named field.
func (o *Object) Field(name string) (Node, bool) {
	if o == nil {
		return nil, false
	}
	n, ok := o.Fields[name]
	if !ok || n == nil {
		return nil, false
	}
	return n, true
}

// FieldNames lists field names in declaration order, followed by any
// undeclared names in lexical order.
func (o *Object) FieldNames() []string {
	if o == nil {
		return nil
	}
	out := make([]string, 0, len(o.Fields))
	seen := make(map[string]struct{}, len(o.Fields))
	for _, n := range o.Order {
		if _, ok := o.Fields[n]; !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	var rest []string
	for n := range o.Fields {
		if _, ok := seen[n]; !ok {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// IsRequired reports whether name is listed as required.
func (o *Object) IsRequired(name string) bool {
	if o == nil {
		return false
	}
	for _, r := range o.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Array is a homogeneous list. Items may be nil when the schema does not
// describe its elements.
type Array struct {
	Items    Node
	MinItems *int
	MaxItems *int
}

func (*Array) Kind() Kind { return KindArray }
func (*Array) sealed()    {}

// Discriminator selects a union variant from the literal value of Field.
type Discriminator struct {
	Field   string
	Mapping map[string]int // literal -> variant index
}

// Union is a set of alternative shapes.
type Union struct {
	Variants      []Node
	Discriminator *Discriminator
}

func (*Union) Kind() Kind { return KindUnion }
func (*Union) sealed()    {}

// Variant returns variants[i] when i is in range.
func (u *Union) Variant(i int) (Node, bool) {
	if u == nil || i < 0 || i >= len(u.Variants) || u.Variants[i] == nil {
		return nil, false
	}
	return u.Variants[i], true
}

// FieldDef is one entry for NewObject.
type FieldDef struct {
	Name     string
	Schema   Node
	Required bool
}

// F declares an optional field.
func F(name string, n Node) FieldDef { return FieldDef{Name: name, Schema: n} }

// R declares a required field.
func R(name string, n Node) FieldDef { return FieldDef{Name: name, Schema: n, Required: true} }

// NewObject builds an Object keeping the declaration order of fields.
func NewObject(fields ...FieldDef) *Object {
	o := &Object{Fields: make(map[string]Node, len(fields))}
	for _, f := range fields {
		if _, dup := o.Fields[f.Name]; !dup {
			o.Order = append(o.Order, f.Name)
		}
		o.Fields[f.Name] = f.Schema
		if f.Required {
			o.Required = append(o.Required, f.Name)
		}
	}
	return o
}

// NewArray builds an Array of items.
func NewArray(items Node) *Array { return &Array{Items: items} }

// NewUnion builds a Union without discriminator.
func NewUnion(variants ...Node) *Union { return &Union{Variants: variants} }

// NewDiscriminatedUnion builds a Union whose variant is selected by field.
func NewDiscriminatedUnion(field string, mapping map[string]int, variants ...Node) *Union {
	m := make(map[string]int, len(mapping))
	for k, v := range mapping {
		m[k] = v
	}
	return &Union{Variants: variants, Discriminator: &Discriminator{Field: field, Mapping: m}}
}

// Primitive shorthands.
func String() *Primitive  { return &Primitive{Type: TypeString} }
func Integer() *Primitive { return &Primitive{Type: TypeInteger} }
func Number() *Primitive  { return &Primitive{Type: TypeNumber} }
func Boolean() *Primitive { return &Primitive{Type: TypeBoolean} }

// Describe renders a short, human readable summary of a node, e.g.
// "object{a,b}", "array<string>" or "union[object{x}|string]".
func Describe(n Node) string {
	return describe(n, 0)
}

func describe(n Node, depth int) string {
	if depth > 4 {
		return "…"
	}
	switch t := n.(type) {
	case *Primitive:
		if t == nil {
			return "nil"
		}
		return string(t.Type)
	case *Object:
		if t == nil {
			return "nil"
		}
		return "object{" + strings.Join(t.FieldNames(), ",") + "}"
	case *Array:
		if t == nil {
			return "nil"
		}
		if t.Items == nil {
			return "array"
		}
		return "array<" + describe(t.Items, depth+1) + ">"
	case *Union:
		if t == nil {
			return "nil"
		}
		parts := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			parts[i] = describe(v, depth+1)
		}
		s := "union[" + strings.Join(parts, "|") + "]"
		if t.Discriminator != nil {
			s += "@" + t.Discriminator.Field
		}
		return s
	case nil:
		return "nil"
	default:
		return "unknown"
	}
}

// TypeName is the coarse name used in trees and CLI output: the primitive
// type for primitives, otherwise the Kind name.
func TypeName(n Node) string {
	if p, ok := n.(*Primitive); ok && p != nil {
		return string(p.Type)
	}
	if n == nil {
		return ""
	}
	return n.Kind().String()
}

func asObjectNode(n Node) (*Object, bool) {
	o, ok := n.(*Object)
	return o, ok && o != nil
}

func asArrayNode(n Node) (*Array, bool) {
	a, ok := n.(*Array)
	return a, ok && a != nil
}

func asUnionNode(n Node) (*Union, bool) {
	u, ok := n.(*Union)
	return u, ok && u != nil
}

func itoa(i int) string { return strconv.Itoa(i) }
