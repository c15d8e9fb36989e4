package schemaload_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	se "github.com/reoring/schemaedit"
	"github.com/reoring/schemaedit/schemaload"
)

const petsYAML = `
type: object
required: [name]
fields:
  name: {type: string, minLength: 1}
  age: {type: integer, default: 3}
  pet:
    type: union
    discriminator:
      field: kind
      mapping: {dog: 0, cat: 1}
    variants:
      - type: object
        fields:
          kind: {type: string}
          bark: {type: boolean}
      - type: object
        fields:
          kind: {type: string}
          meow: {type: boolean}
  tags:
    type: array
    minItems: 1
    items: {type: string}
`

func TestLoadYAML_PreservesOrderAndShape(t *testing.T) {
	n, diag, err := schemaload.LoadYAML([]byte(petsYAML), schemaload.Options{Strict: true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diag.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", diag.Warnings())
	}
	obj, ok := n.(*se.Object)
	if !ok {
		t.Fatalf("root must be an object, got %T", n)
	}
	if diff := cmp.Diff([]string{"name", "age", "pet", "tags"}, obj.FieldNames()); diff != "" {
		t.Fatalf("field order mismatch:\n%s", diff)
	}
	if !obj.IsRequired("name") || obj.IsRequired("age") {
		t.Fatalf("required flags wrong: %v", obj.Required)
	}
	name := obj.Fields["name"].(*se.Primitive)
	if name.Type != se.TypeString || name.Constraints["minLength"] != 1 {
		t.Fatalf("constraints not kept: %#v", name)
	}
	if obj.Fields["age"].(*se.Primitive).Default != 3 {
		t.Fatalf("default not kept")
	}
	pet := obj.Fields["pet"].(*se.Union)
	if len(pet.Variants) != 2 || pet.Discriminator == nil || pet.Discriminator.Field != "kind" {
		t.Fatalf("union not compiled: %#v", pet)
	}
	if diff := cmp.Diff(map[string]int{"dog": 0, "cat": 1}, pet.Discriminator.Mapping); diff != "" {
		t.Fatalf("mapping mismatch:\n%s", diff)
	}
	tags := obj.Fields["tags"].(*se.Array)
	if tags.MinItems == nil || *tags.MinItems != 1 || tags.MaxItems != nil {
		t.Fatalf("array bounds wrong: %#v", tags)
	}

	loc := se.ResolveString(n, map[string]any{"pet": map[string]any{"kind": "cat"}}, "pet.meow", nil)
	if loc.BasePath != "pet.meow" {
		t.Fatalf("loaded schema must resolve through the discriminator, got %q", loc.BasePath)
	}
}

func TestLoad_JSONAndInference(t *testing.T) {
	js := []byte(`{"fields":{"b":{"type":"string"},"a":{"items":{"type":"number"}},"u":{"oneOf":[{"type":"string"},{"type":"integer"}]}}}`)
	n, _, err := schemaload.Load(js, schemaload.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	obj := n.(*se.Object)
	if diff := cmp.Diff([]string{"a", "b", "u"}, obj.FieldNames()); diff != "" {
		t.Fatalf("JSON input orders fields lexically:\n%s", diff)
	}
	if obj.Fields["a"].Kind() != se.KindArray || obj.Fields["u"].Kind() != se.KindUnion {
		t.Fatalf("kinds not inferred: %s", se.Describe(n))
	}
}

func TestLoad_RecursiveDefs(t *testing.T) {
	src := map[string]any{
		"$defs": map[string]any{
			"Tree": map[string]any{
				"type": "object",
				"fields": map[string]any{
					"value":    map[string]any{"type": "string"},
					"children": map[string]any{"type": "array", "items": map[string]any{"$ref": "#/$defs/Tree"}},
				},
			},
			"Alias": map[string]any{"$ref": "#/$defs/Tree"},
		},
		"type":   "object",
		"fields": map[string]any{"root": map[string]any{"$ref": "#/$defs/Alias"}},
	}
	n, _, err := schemaload.Load(src, schemaload.Options{Strict: true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tree := n.(*se.Object).Fields["root"].(*se.Object)
	items := tree.Fields["children"].(*se.Array).Items
	if items != se.Node(tree) {
		t.Fatalf("recursive $ref must point back at the same node")
	}
	doc := map[string]any{"root": map[string]any{"children": []any{map[string]any{"value": "x"}}}}
	if loc := se.ResolveString(n, doc, "root.children[0].children[0].value", nil); loc.BasePath != "root.children[0].children[0].value" {
		t.Fatalf("resolve through cycle: %q", loc.BasePath)
	}
}

func TestLoad_Problems(t *testing.T) {
	if _, _, err := schemaload.Load(nil, schemaload.Options{}); !errors.Is(err, schemaload.ErrNilSchema) {
		t.Fatalf("expected ErrNilSchema, got %v", err)
	}

	cyc := map[string]any{
		"$defs": map[string]any{"A": map[string]any{"$ref": "#/$defs/B"}, "B": map[string]any{"$ref": "#/$defs/A"}},
		"type":  "object",
		"fields": map[string]any{"x": map[string]any{"$ref": "#/$defs/A"}},
	}
	if _, _, err := schemaload.Load(cyc, schemaload.Options{}); err == nil {
		t.Fatalf("pure $ref cycle must fail")
	}

	bad := map[string]any{
		"type": "object",
		"fields": map[string]any{
			"u": map[string]any{
				"type":          "union",
				"variants":      []any{map[string]any{"type": "string"}},
				"discriminator": map[string]any{"field": "k", "mapping": map[string]any{"x": 0.0, "y": 5.0}},
			},
			"r": map[string]any{"$ref": "#/$defs/Missing"},
			"q": map[string]any{"title": "untyped"},
		},
	}
	n, diag, err := schemaload.Load(bad, schemaload.Options{})
	if err != nil {
		t.Fatalf("lenient load must succeed: %v", err)
	}
	if got := len(diag.Warnings()); got != 3 {
		t.Fatalf("expected 3 warnings, got %d: %v", got, diag.Warnings())
	}
	u := n.(*se.Object).Fields["u"].(*se.Union)
	if diff := cmp.Diff(map[string]int{"x": 0}, u.Discriminator.Mapping); diff != "" {
		t.Fatalf("out-of-range mapping must be dropped:\n%s", diff)
	}
	if _, _, err := schemaload.Load(bad, schemaload.Options{Strict: true}); err == nil {
		t.Fatalf("strict load must fail")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "pets.yaml")
	if err := os.WriteFile(p, []byte(petsYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	n, _, err := schemaload.LoadFile(p, schemaload.Options{})
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if n.Kind() != se.KindObject {
		t.Fatalf("unexpected root %s", se.Describe(n))
	}
	if _, _, err := schemaload.LoadFile(filepath.Join(dir, "missing.yaml"), schemaload.Options{}); err == nil {
		t.Fatalf("missing file must fail")
	}
}
