package fieldtree_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	se "github.com/reoring/schemaedit"
	"github.com/reoring/schemaedit/fieldtree"
)

func profileSchema() *se.Object {
	address := se.NewObject(se.F("city", se.String()), se.F("zip", se.String()))
	pet := se.NewUnion(
		se.NewObject(se.F("bark", se.Boolean())),
		se.NewArray(se.String()),
	)
	return se.NewObject(
		se.F("name", se.String()),
		se.F("address", address),
		se.F("tags", se.NewArray(se.String())),
		se.F("meta", se.NewObject()),
		se.F("pet", pet),
	)
}

func paths(ns []*fieldtree.Node) []string {
	var out []string
	fieldtree.Walk(ns, func(n *fieldtree.Node, _ int) { out = append(out, n.Path) })
	return out
}

func TestBuild_Shape(t *testing.T) {
	src := map[string]any{
		"name":    "ann",
		"address": map[string]any{"city": "Oslo"},
		"tags":    []any{"a", "b", "c"},
		"pet":     map[string]any{"bark": true},
	}
	roots := fieldtree.Build(profileSchema(), src)
	want := []string{"name", "address", "address.city", "address.zip", "tags", "meta", "pet", "pet.bark"}
	if diff := cmp.Diff(want, paths(roots)); diff != "" {
		t.Fatalf("tree paths mismatch:\n%s", diff)
	}
	tags := roots[2]
	if !tags.IsLeaf || !tags.IsArray || tags.ArrayLength != 3 || len(tags.Children) != 0 {
		t.Fatalf("arrays must be opaque leaves with length: %#v", tags)
	}
	if roots[1].IsLeaf || roots[1].Type != "object" {
		t.Fatalf("address must be an inner node: %#v", roots[1])
	}
	if !roots[3].IsLeaf {
		t.Fatalf("field-less object must be a leaf")
	}
	if roots[4].IsLeaf {
		t.Fatalf("union resolved to an object variant must recurse")
	}
}

func TestBuild_UnresolvedUnionAndMissingValues(t *testing.T) {
	roots := fieldtree.Build(profileSchema(), nil)
	pet := roots[4]
	if !pet.IsLeaf || pet.Type != "union" {
		t.Fatalf("ambiguous union must be a leaf: %#v", pet)
	}
	if roots[2].ArrayLength != -1 {
		t.Fatalf("missing array value must report -1, got %d", roots[2].ArrayLength)
	}
	roots = fieldtree.Build(profileSchema(), map[string]any{"pet": []any{"x"}})
	if p := roots[4]; !p.IsLeaf || !p.IsArray || p.ArrayLength != 1 {
		t.Fatalf("union resolved to array must be an array leaf: %#v", p)
	}
}

func TestBuild_RecursiveSchemaTerminates(t *testing.T) {
	node := &se.Object{Fields: map[string]se.Node{"v": se.String()}}
	node.Fields["child"] = node
	roots := fieldtree.Build(node, nil)
	if len(roots) != 2 {
		t.Fatalf("unexpected roots: %d", len(roots))
	}
}

func TestSelection_TriStateAndToggle(t *testing.T) {
	roots := fieldtree.Build(profileSchema(), map[string]any{"pet": map[string]any{"bark": true}})
	sel := fieldtree.NewSelection(roots)
	address := roots[1]

	if got := fieldtree.LeafPaths(address); !cmp.Equal(got, []string{"address.city", "address.zip"}) {
		t.Fatalf("LeafPaths: %v", got)
	}
	if sel.State(address) != fieldtree.Unchecked {
		t.Fatalf("expected unchecked")
	}
	sel.Select("address.city")
	if sel.State(address) != fieldtree.Indeterminate {
		t.Fatalf("expected indeterminate, got %s", sel.State(address))
	}
	sel.Toggle(address)
	if sel.State(address) != fieldtree.Checked {
		t.Fatalf("toggle on partial must select all")
	}
	sel.Toggle(address)
	if sel.State(address) != fieldtree.Unchecked || sel.Len() != 0 {
		t.Fatalf("toggle on checked must deselect all")
	}

	if n := sel.Select("address", "nope", "tags"); n != 1 {
		t.Fatalf("only leaves are selectable, accepted %d", n)
	}
	sel.SelectAll()
	want := []string{"address.city", "address.zip", "meta", "name", "pet.bark", "tags"}
	if diff := cmp.Diff(want, sel.Selected()); diff != "" {
		t.Fatalf("SelectAll mismatch:\n%s", diff)
	}
	sel.Clear()
	if sel.Len() != 0 {
		t.Fatalf("clear")
	}
}

func TestSelection_Modes(t *testing.T) {
	roots := fieldtree.Build(profileSchema(), nil)
	sel := fieldtree.NewSelection(roots)
	if sel.Mode("tags") != fieldtree.Append {
		t.Fatalf("default mode must be append")
	}
	if err := sel.SetMode("tags", fieldtree.Prepend); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if sel.IsSelected("tags") {
		t.Fatalf("mode must not imply selection")
	}
	if err := sel.SetMode("name", fieldtree.Overwrite); err == nil {
		t.Fatalf("mode on non-array leaf must fail")
	}
	if sel.Mode("tags") != fieldtree.Prepend {
		t.Fatalf("mode not kept")
	}
	sel.SetDefaultMode(fieldtree.Overwrite)
	if sel.Mode("other") != fieldtree.Overwrite {
		t.Fatalf("default mode not applied")
	}
}

func TestPasteMode_MergeAndParse(t *testing.T) {
	target := []any{1.0, 2.0}
	source := []any{3.0}
	cases := map[string][]any{
		"append":    {1.0, 2.0, 3.0},
		"prepend":   {3.0, 1.0, 2.0},
		"overwrite": {3.0},
	}
	for name, want := range cases {
		m, err := fieldtree.ParsePasteMode(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if m.String() != name {
			t.Fatalf("String() = %q", m.String())
		}
		if diff := cmp.Diff(want, m.Merge(target, source)); diff != "" {
			t.Fatalf("%s mismatch:\n%s", name, diff)
		}
	}
	if len(target) != 2 || len(source) != 1 {
		t.Fatalf("merge must not modify inputs")
	}
	if _, err := fieldtree.ParsePasteMode("splice"); err == nil {
		t.Fatalf("expected error")
	}
}
