package main

import (
	"github.com/spf13/cobra"

	se "github.com/reoring/schemaedit"
	"github.com/reoring/schemaedit/clipboard"
)

type compatView struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceSchema string `json:"sourceSchema"`
	TargetSchema string `json:"targetSchema"`
	Compatible   bool   `json:"compatible"`
}

func (a *app) compatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compat <source-path> <target-path>",
		Short: "Check whether the value at source may be pasted at target",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, doc, sel, err := a.load()
			if err != nil {
				return err
			}
			board := clipboard.NewBoard(clipboard.WithCapacity(a.cfg.Clipboard.Capacity))
			e, err := board.CopyAt(root, doc, args[0], "", sel)
			if err != nil {
				return err
			}
			target := a.resolver().Resolve(root, doc, se.ParsePath(args[1]), sel)
			return a.printJSON(compatView{
				Source:       e.SourcePath,
				Target:       se.NormalizePath(args[1]),
				SourceSchema: se.Describe(e.Schema),
				TargetSchema: se.Describe(target.Schema),
				Compatible:   clipboard.Gate(root, doc, args[1], e, sel),
			})
		},
	}
}
