package main

import (
	"fmt"

	"github.com/spf13/cobra"

	se "github.com/reoring/schemaedit"
)

type variantView struct {
	Index  int    `json:"index"`
	Schema string `json:"schema"`
	Label  string `json:"label,omitempty"`
}

type unionView struct {
	Path          string        `json:"path"`
	Discriminator string        `json:"discriminator,omitempty"`
	Selected      int           `json:"selected"` // -1 when no variant can be told apart
	Variants      []variantView `json:"variants"`
}

func describeUnion(path string, u *se.Union, value any, sel *se.VariantSelections) unionView {
	v := unionView{
		Path:     path,
		Selected: se.ResolveVariantIndex(u, value, sel.Index(path)),
		Variants: make([]variantView, len(u.Variants)),
	}
	labels := map[int]string{}
	if d := u.Discriminator; d != nil {
		v.Discriminator = d.Field
		for lit, i := range d.Mapping {
			if cur, ok := labels[i]; !ok || lit < cur {
				labels[i] = lit
			}
		}
	}
	for i, n := range u.Variants {
		v.Variants[i] = variantView{Index: i, Schema: se.Describe(n), Label: labels[i]}
	}
	return v
}

func (a *app) variantCmd() *cobra.Command {
	var (
		set int
		out string
	)
	cmd := &cobra.Command{
		Use:   "variant <path>",
		Short: "Show or switch the union variant at a path",
		Long: `Without --set, lists the variants of the union at path and the one in
effect. With --set N, replaces the value at path with a fresh default of
variant N and prints (or writes with --out) the new document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, doc, sel, err := a.load()
			if err != nil {
				return err
			}
			p := se.ParsePath(args[0])
			loc := a.resolver().Resolve(root, doc, p, sel)
			if loc.BasePath != p.String() {
				return se.Issues{se.IssueAt(p.String(), se.CodeUnresolvedPath, map[string]any{"resolved": loc.BasePath})}
			}
			u, ok := loc.Schema.(*se.Union)
			if !ok {
				return fmt.Errorf("%s is %s, not a union", displayPath(loc.BasePath), se.Describe(loc.Schema))
			}
			if !cmd.Flags().Changed("set") {
				return a.printJSON(describeUnion(loc.BasePath, u, loc.Value, sel))
			}
			next, err := se.SwitchVariant(root, doc, loc.BasePath, set, sel)
			if err != nil {
				return err
			}
			a.log.Info().Str("path", displayPath(loc.BasePath)).Int("variant", set).Msg("variant switched")
			return a.emitDocument(next, out)
		},
	}
	cmd.Flags().IntVar(&set, "set", 0, "variant index to switch to")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the new document to this file")
	return cmd
}

func displayPath(p string) string {
	if p == "" {
		return "<root>"
	}
	return p
}
