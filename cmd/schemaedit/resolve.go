package main

import (
	"github.com/spf13/cobra"

	se "github.com/reoring/schemaedit"
)

type locationView struct {
	Path        string `json:"path,omitempty"`
	Resolved    string `json:"resolved"`
	Complete    bool   `json:"complete"`
	Schema      string `json:"schema"`
	Effective   string `json:"effective,omitempty"`
	Value       any    `json:"value"`
	IsArrayItem bool   `json:"isArrayItem"`
	ArrayPath   string `json:"arrayPath,omitempty"`
	ArrayIndex  int    `json:"arrayIndex"`
}

func viewOf(requested se.Path, loc se.Location, sel *se.VariantSelections) locationView {
	v := locationView{
		Path:        requested.String(),
		Resolved:    loc.BasePath,
		Complete:    loc.BasePath == requested.String(),
		Schema:      se.Describe(loc.Schema),
		Value:       loc.Value,
		IsArrayItem: loc.IsArrayItem,
		ArrayPath:   loc.ArrayPath,
		ArrayIndex:  loc.ArrayIndex,
	}
	if loc.Schema != nil && loc.Schema.Kind() == se.KindUnion {
		if eff := se.EffectiveSchema(loc, sel); eff != nil {
			v.Effective = se.Describe(eff)
		}
	}
	return v
}

func (a *app) resolveCmd() *cobra.Command {
	var walk bool
	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve a path to its schema and value",
		Long: `Resolve walks the path through the schema and the document. When a segment
cannot be applied the walk stops and the deepest resolved location is
reported with "complete": false.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, doc, sel, err := a.load()
			if err != nil {
				return err
			}
			p := se.ParsePath(args[0])
			r := a.resolver()
			if !walk {
				return a.printJSON(viewOf(p, r.Resolve(root, doc, p, sel), sel))
			}
			steps := r.Walk(root, doc, p, sel)
			out := make([]locationView, len(steps))
			for i, loc := range steps {
				out[i] = viewOf(p[:i], loc, sel)
			}
			return a.printJSON(out)
		},
	}
	cmd.Flags().BoolVar(&walk, "walk", false, "print every intermediate location")
	return cmd
}
