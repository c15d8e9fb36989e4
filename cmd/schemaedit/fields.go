package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	se "github.com/reoring/schemaedit"
	"github.com/reoring/schemaedit/fieldtree"
)

func (a *app) fieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields [path]",
		Short: "Print the selectable field tree of the object at path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, doc, sel, err := a.load()
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			obj, value, err := objectAt(a.resolver(), root, doc, path, sel)
			if err != nil {
				return err
			}
			renderTree(a.out, fieldtree.Build(obj, value))
			return nil
		},
	}
}

// objectAt requires a fully resolved, unambiguous object schema at path.
func objectAt(r *se.Resolver, root se.Node, doc any, path string, sel *se.VariantSelections) (*se.Object, any, error) {
	n, loc, err := r.SchemaAt(root, doc, se.ParsePath(path), sel)
	if err != nil {
		return nil, nil, err
	}
	obj, ok := n.(*se.Object)
	if !ok || obj == nil {
		return nil, nil, fmt.Errorf("%s is %s, not an object", displayPath(loc.BasePath), se.Describe(n))
	}
	return obj, loc.Value, nil
}

// renderTree prints one line per node: the indented name padded to a common
// display width, then the type. Array leaves show their item count.
func renderTree(w io.Writer, roots []*fieldtree.Node) {
	width := 0
	fieldtree.Walk(roots, func(n *fieldtree.Node, depth int) {
		if cw := runewidth.StringWidth(strings.Repeat("  ", depth) + n.Name); cw > width {
			width = cw
		}
	})
	fieldtree.Walk(roots, func(n *fieldtree.Node, depth int) {
		name := runewidth.FillRight(strings.Repeat("  ", depth)+n.Name, width)
		typ := n.Type
		if n.IsArray && n.ArrayLength >= 0 {
			typ = fmt.Sprintf("%s[%d]", typ, n.ArrayLength)
		}
		fmt.Fprintf(w, "%s  %s\n", name, typ)
	})
}
