package clipboard_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	se "github.com/reoring/schemaedit"
	"github.com/reoring/schemaedit/clipboard"
	"github.com/reoring/schemaedit/fieldtree"
)

func fixedBoard(opts ...clipboard.Option) *clipboard.Board {
	n := 0
	base := []clipboard.Option{
		clipboard.WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }),
		clipboard.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	}
	return clipboard.NewBoard(append(base, opts...)...)
}

func TestPasteSelected_OnlySelectedLeaves(t *testing.T) {
	srcSchema := se.NewObject(se.F("x", se.Integer()), se.F("y", se.Integer()))
	tgtSchema := se.NewObject(se.F("x", se.Integer()), se.F("z", se.Integer()))
	root := se.NewObject(se.F("src", srcSchema), se.F("dst", tgtSchema))
	doc := map[string]any{
		"src": map[string]any{"x": 1.0, "y": 2.0},
		"dst": map[string]any{"x": 0.0, "z": 9.0},
	}

	b := fixedBoard()
	e, err := b.CopyAt(root, doc, "src", "Point", nil)
	require.NoError(t, err)
	require.True(t, clipboard.Gate(root, doc, "dst", e, nil))

	sel := fieldtree.NewSelection(fieldtree.Build(srcSchema, e.Data))
	require.Equal(t, 1, sel.Select("x"))

	res, err := clipboard.PasteSelected(doc, "dst", e, sel)
	require.NoError(t, err)
	got := res.Document.(map[string]any)
	assert.Equal(t, map[string]any{"x": 1.0, "z": 9.0}, got["dst"])
	assert.Equal(t, map[string]any{"x": 0.0, "z": 9.0}, doc["dst"], "original document must be untouched")

	patch, err := res.MergePatch()
	require.NoError(t, err)
	assert.JSONEq(t, `{"dst":{"x":1}}`, string(patch))
	assert.True(t, res.Changed())
}

func TestPasteSelected_ArrayModes(t *testing.T) {
	list := se.NewObject(se.F("tags", se.NewArray(se.String())), se.F("name", se.String()))
	doc := map[string]any{"a": map[string]any{"tags": []any{"t1", "t2"}, "name": "old"}}
	b := fixedBoard()
	e := b.Copy("b", map[string]any{"tags": []any{"s1"}, "name": "new"}, list, "")

	cases := []struct {
		mode fieldtree.PasteMode
		want []any
	}{
		{fieldtree.Append, []any{"t1", "t2", "s1"}},
		{fieldtree.Prepend, []any{"s1", "t1", "t2"}},
		{fieldtree.Overwrite, []any{"s1"}},
	}
	for _, tc := range cases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			sel := fieldtree.NewSelection(fieldtree.Build(list, e.Data))
			sel.SelectAll()
			require.NoError(t, sel.SetMode("tags", tc.mode))
			res, err := clipboard.PasteSelected(doc, "a", e, sel)
			require.NoError(t, err)
			a := res.Document.(map[string]any)["a"].(map[string]any)
			assert.Equal(t, tc.want, a["tags"])
			assert.Equal(t, "new", a["name"])
		})
	}
	assert.Equal(t, []any{"t1", "t2"}, doc["a"].(map[string]any)["tags"])
}

func TestPasteSelected_CreatesMissingTargets(t *testing.T) {
	obj := se.NewObject(se.F("inner", se.NewObject(se.F("v", se.Integer()))), se.F("list", se.NewArray(se.Integer())))
	b := fixedBoard()
	e := b.Copy("", map[string]any{"inner": map[string]any{"v": 5.0}, "list": []any{1.0}}, obj, "")
	sel := fieldtree.NewSelection(fieldtree.Build(obj, e.Data))
	sel.SelectAll()

	res, err := clipboard.PasteSelected(map[string]any{"other": true}, "target", e, sel)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"other":  true,
		"target": map[string]any{"inner": map[string]any{"v": 5.0}, "list": []any{1.0}},
	}, res.Document)
}

func TestPasteSelected_MalformedPayloadLeavesDocumentIntact(t *testing.T) {
	obj := se.NewObject(se.F("tags", se.NewArray(se.String())), se.F("n", se.Integer()))
	doc := map[string]any{"t": map[string]any{"tags": []any{"a"}, "n": 1.0}}
	before := se.Clone(doc)

	b := fixedBoard()
	// tags is declared as an array but the payload holds a string
	e := b.Copy("", map[string]any{"tags": "oops", "n": 2.0}, obj, "")
	sel := fieldtree.NewSelection(fieldtree.Build(obj, map[string]any{"tags": []any{}}))
	sel.SelectAll()

	res, err := clipboard.PasteSelected(doc, "t", e, sel)
	iss, ok := se.AsIssues(err)
	require.True(t, ok, "expected issues, got %v", err)
	require.Len(t, iss, 1)
	assert.Equal(t, se.CodeInvalidClipboard, iss[0].Code)
	assert.Equal(t, "t.tags", iss[0].Path)
	assert.Equal(t, before, any(doc))
	assert.Equal(t, any(doc), res.Document)

	// non-object container on the write path
	e2 := b.Copy("", map[string]any{"n": 3.0}, obj, "")
	sel2 := fieldtree.NewSelection(fieldtree.Build(obj, e2.Data))
	sel2.Select("n")
	_, err = clipboard.PasteSelected(map[string]any{"t": "scalar"}, "t", e2, sel2)
	iss, ok = se.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, se.CodeInvalidType, iss[0].Code)
}

func TestPasteSelected_SkipsLeavesAbsentFromSource(t *testing.T) {
	obj := se.NewObject(se.F("a", se.String()), se.F("b", se.String()))
	b := fixedBoard()
	e := b.Copy("", map[string]any{"a": "x"}, obj, "")
	sel := fieldtree.NewSelection(fieldtree.Build(obj, e.Data))
	sel.SelectAll()
	res, err := clipboard.PasteSelected(map[string]any{"a": "0", "b": "keep"}, "", e, sel)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "x", "b": "keep"}, res.Document)
}

func TestReplace(t *testing.T) {
	b := fixedBoard()
	e := b.Copy("items[0]", map[string]any{"name": "A"}, se.NewObject(se.F("name", se.String())), "Item")
	doc := map[string]any{"items": []any{map[string]any{"name": "Z"}}}

	res, err := clipboard.Replace(doc, "items[1]", e)
	require.NoError(t, err)
	items := res.Document.(map[string]any)["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, map[string]any{"name": "A"}, items[1])
	assert.Len(t, doc["items"], 1)

	// the pasted value does not alias the clipboard
	items[1].(map[string]any)["name"] = "mutated"
	latest, _ := b.Latest()
	assert.Equal(t, map[string]any{"name": "A"}, latest.Data)

	res, err = clipboard.Replace(doc, "", e)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "A"}, res.Document)

	_, err = clipboard.Replace(doc, "items[9]", e)
	require.Error(t, err)
}

func TestBoard_CopyIsolationAndOrdering(t *testing.T) {
	b := fixedBoard(clipboard.WithCapacity(2))
	data := map[string]any{"list": []any{1.0}}
	e1 := b.Copy("a.items[3]", data, nil, "A")
	data["list"].([]any)[0] = 99.0

	got, ok := b.Get(e1.ID)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"list": []any{1.0}}, got.Data)
	assert.Equal(t, "items[3]", got.Label)
	assert.Equal(t, "a.items[3]", got.SourcePath)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), got.Timestamp)

	b.Copy("b", 1.0, nil, "")
	b.Copy("", 2.0, nil, "")
	list := b.List()
	require.Len(t, list, 2)
	assert.Equal(t, "root", list[0].Label)
	assert.Equal(t, "b", list[1].Label)
	_, ok = b.Get(e1.ID)
	assert.False(t, ok, "oldest entry must be evicted")

	b.Clear()
	_, ok = b.Latest()
	assert.False(t, ok)
}

func TestBoard_DefaultIDsAreUnique(t *testing.T) {
	b := clipboard.NewBoard()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Copy("x", 1.0, nil, "")
		}()
	}
	wg.Wait()
	seen := map[string]bool{}
	for _, e := range b.List() {
		assert.False(t, seen[e.ID])
		seen[e.ID] = true
	}
	assert.Equal(t, 10, b.Len())
}

func TestCopyAt_UnresolvedAndGate(t *testing.T) {
	root := se.NewObject(se.F("n", se.Integer()), se.F("s", se.String()))
	doc := map[string]any{"n": 1.0}
	b := fixedBoard()
	_, err := b.CopyAt(root, doc, "n.x", "", nil)
	iss, ok := se.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, se.CodeUnresolvedPath, iss[0].Code)

	e, err := b.CopyAt(root, doc, "n", "", nil)
	require.NoError(t, err)
	assert.True(t, clipboard.Gate(root, doc, "n", e, nil))
	assert.False(t, clipboard.Gate(root, doc, "s", e, nil))
	assert.False(t, clipboard.Gate(root, doc, "s", clipboard.Entry{Data: "x"}, nil))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "root", clipboard.Label(""))
	assert.Equal(t, "city", clipboard.Label("users[0].address.city"))
	assert.Equal(t, "matrix[0][1]", clipboard.Label("x.matrix[0][1]"))
	assert.Equal(t, "[2]", clipboard.Label("[2]"))
}

func TestPasteSelected_NilSelectionIsNoOp(t *testing.T) {
	obj := se.NewObject(se.F("a", se.String()))
	e := fixedBoard().Copy("", map[string]any{"a": "x"}, obj, "")
	doc := map[string]any{"a": "keep"}

	res, err := clipboard.PasteSelected(doc, "", e, nil)
	require.NoError(t, err)
	assert.Equal(t, any(doc), res.Document)
	assert.False(t, res.Changed())
}
