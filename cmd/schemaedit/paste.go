package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	se "github.com/reoring/schemaedit"
	"github.com/reoring/schemaedit/clipboard"
	"github.com/reoring/schemaedit/fieldtree"
)

type pasteOptions struct {
	only  []string
	all   bool
	modes map[string]string
	patch bool
	force bool
	out   string
}

func (a *app) pasteCmd() *cobra.Command {
	var o pasteOptions
	cmd := &cobra.Command{
		Use:   "paste <source-path> <target-path>",
		Short: "Copy the subtree at source and paste it at target",
		Long: `Copies the value at source and pastes it at target.

Without --only/--all the target subtree is replaced. With --only (or --all)
just the selected leaves of the copied object are merged into the target
object; array leaves combine with the target array per --mode
(append, prepend or overwrite; default from paste.default_mode).

Examples:
  schemaedit paste -s s.yaml -d d.json users[0] users[1]
  schemaedit paste -s s.yaml -d d.json users[0] users[1] --only name --only tags --mode tags=prepend
  schemaedit paste -s s.yaml -d d.json users[0] users[1] --all --patch`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPaste(args[0], args[1], o)
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&o.only, "only", nil, "leaf path (relative to source) to paste; repeatable")
	f.BoolVar(&o.all, "all", false, "paste every leaf of the copied object")
	f.StringToStringVar(&o.modes, "mode", nil, "paste mode per array leaf, e.g. tags=prepend")
	f.BoolVar(&o.patch, "patch", false, "print the JSON merge patch instead of the document")
	f.BoolVar(&o.force, "force", false, "paste even when the schemas are not compatible")
	f.StringVarP(&o.out, "out", "o", "", "write the new document to this file")
	return cmd
}

func (a *app) runPaste(source, target string, o pasteOptions) error {
	root, doc, sel, err := a.load()
	if err != nil {
		return err
	}
	board := clipboard.NewBoard(clipboard.WithCapacity(a.cfg.Clipboard.Capacity))
	e, err := board.CopyAt(root, doc, source, "", sel)
	if err != nil {
		return err
	}
	if !clipboard.Gate(root, doc, target, e, sel) {
		if !o.force {
			return se.Issues{se.IssueAt(se.NormalizePath(target), se.CodeIncompatibleSchema, map[string]any{"source": se.Describe(e.Schema)})}
		}
		a.log.Warn().Str("source", e.SourcePath).Str("target", target).Msg("pasting across incompatible schemas")
	}

	var res clipboard.Result
	if len(o.only) == 0 && !o.all {
		res, err = clipboard.Replace(doc, target, e)
	} else {
		var s *fieldtree.Selection
		s, err = a.buildSelection(e, o)
		if err != nil {
			return err
		}
		res, err = clipboard.PasteSelected(doc, target, e, s)
	}
	if err != nil {
		return err
	}
	a.log.Debug().Str("source", e.SourcePath).Str("target", target).Bool("changed", res.Changed()).Msg("pasted")

	if o.patch {
		p, err := res.MergePatch()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.out, string(p))
		return err
	}
	return a.emitDocument(res.Document, o.out)
}

func (a *app) buildSelection(e clipboard.Entry, o pasteOptions) (*fieldtree.Selection, error) {
	obj, ok := e.Schema.(*se.Object)
	if !ok || obj == nil {
		return nil, fmt.Errorf("selective paste needs an object source, %s is %s", displayPath(e.SourcePath), se.Describe(e.Schema))
	}
	s := fieldtree.NewSelection(fieldtree.Build(obj, e.Data))
	s.SetDefaultMode(a.cfg.PasteMode())
	if o.all {
		s.SelectAll()
	}
	var unknown []string
	for _, p := range o.only {
		if s.Select(se.NormalizePath(p)) == 0 {
			unknown = append(unknown, p)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("not selectable leaves: %s", strings.Join(unknown, ", "))
	}
	for p, m := range o.modes {
		mode, err := fieldtree.ParsePasteMode(m)
		if err != nil {
			return nil, err
		}
		if err := s.SetMode(se.NormalizePath(p), mode); err != nil {
			return nil, err
		}
	}
	return s, nil
}
