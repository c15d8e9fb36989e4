package main

import (
	"fmt"

	"github.com/spf13/cobra"

	se "github.com/reoring/schemaedit"
	"github.com/reoring/schemaedit/document"
)

type placementView struct {
	Path       string   `json:"path"`
	AttachedTo string   `json:"attachedTo"`
	Exact      bool     `json:"exact"`
	Schema     string   `json:"schema"`
	Messages   []string `json:"messages"`
}

func (a *app) validatePathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-paths <issues-file>",
		Short: "Place validator errors onto document locations",
		Long: `Reads a JSON or YAML list of validator errors, each {path, code, message},
and reports for every distinct path the location it attaches to. Paths
that do not fully resolve attach to their deepest resolved ancestor; root
markers such as "__root__" attach to the document root.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, doc, sel, err := a.load()
			if err != nil {
				return err
			}
			raw, err := document.LoadFile(args[0])
			if err != nil {
				return err
			}
			iss, err := decodeIssues(raw)
			if err != nil {
				return err
			}
			return a.printJSON(placeIssues(a.resolver(), root, doc, iss, sel))
		},
	}
}

func decodeIssues(raw any) (se.Issues, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("issues file must hold a list, got %s", se.KindOf(raw))
	}
	var iss se.Issues
	for i, it := range list {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("issues[%d]: expected an object", i)
		}
		path, _ := m["path"].(string)
		code, _ := m["code"].(string)
		msg, _ := m["message"].(string)
		iss = se.AppendIssues(iss, se.Issue{Path: path, Code: code, Message: msg})
	}
	return iss, nil
}

func placeIssues(r *se.Resolver, root se.Node, doc any, iss se.Issues, sel *se.VariantSelections) []placementView {
	groups := iss.ByPath()
	paths := iss.Paths()
	out := make([]placementView, 0, len(paths))
	for _, p := range paths {
		loc := r.Resolve(root, doc, se.ParsePath(p), sel)
		v := placementView{
			Path:       p,
			AttachedTo: loc.BasePath,
			Exact:      loc.BasePath == p,
			Schema:     se.Describe(loc.Schema),
		}
		for _, it := range groups[p] {
			msg := it.Message
			if it.Code != "" {
				msg = it.Code + ": " + msg
			}
			v.Messages = append(v.Messages, msg)
		}
		out = append(out, v)
	}
	return out
}
