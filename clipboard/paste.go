package clipboard

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	json "github.com/goccy/go-json"

	se "github.com/reoring/schemaedit"
	"github.com/reoring/schemaedit/fieldtree"
)

// Result is the outcome of a successful paste.
type Result struct {
	Previous any // the document the paste was applied to
	Document any // the new document root
}

// MergePatch returns the RFC 7396 merge patch turning Previous into
// Document, suitable for undo stacks and dirty tracking.
func (r Result) MergePatch() ([]byte, error) {
	before, err := json.Marshal(r.Previous)
	if err != nil {
		return nil, fmt.Errorf("clipboard: encode previous document: %w", err)
	}
	after, err := json.Marshal(r.Document)
	if err != nil {
		return nil, fmt.Errorf("clipboard: encode new document: %w", err)
	}
	patch, err := jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		return nil, fmt.Errorf("clipboard: create merge patch: %w", err)
	}
	return patch, nil
}

// Changed reports whether the paste altered the document.
func (r Result) Changed() bool {
	p, err := r.MergePatch()
	if err != nil {
		return true
	}
	return string(p) != "{}"
}

// Gate reports whether e may be pasted at targetPath. A nil entry schema
// (data copied without schema knowledge) is never pasteable.
func Gate(root se.Node, doc any, targetPath string, e Entry, sel *se.VariantSelections) bool {
	if e.Schema == nil {
		return false
	}
	return se.CompatibleAt(root, doc, targetPath, e.Schema, sel)
}

// Replace writes a copy of e.Data at targetPath, replacing the subtree
// there. An empty target path replaces the whole document.
func Replace(doc any, targetPath string, e Entry) (Result, error) {
	work := se.Clone(doc)
	out, err := se.Assign(work, se.ParsePath(targetPath), se.Clone(e.Data))
	if err != nil {
		return Result{Previous: doc, Document: doc}, err
	}
	return Result{Previous: doc, Document: out}, nil
}

// PasteSelected merges the selected leaves of e.Data into the object at
// targetPath. For each selected leaf path (relative to the copied object):
// array leaves combine with the target array according to the selection's
// paste mode, other leaves overwrite. Leaves absent from the source are
// skipped. Any malformed leaf aborts the paste and the original document is
// returned with the collected Issues. A nil selection selects nothing.
func PasteSelected(doc any, targetPath string, e Entry, sel *fieldtree.Selection) (Result, error) {
	if sel == nil {
		return Result{Previous: doc, Document: doc}, nil
	}
	base := se.ParsePath(targetPath)
	work := se.Clone(doc)
	var iss se.Issues
	for _, leafPath := range sel.Selected() {
		rel := se.ParsePath(leafPath)
		src, ok := se.Lookup(e.Data, rel)
		if !ok {
			continue
		}
		full := base.Concat(rel)
		val := se.Clone(src)
		if leaf, ok := sel.Leaf(leafPath); ok && leaf.IsArray {
			srcArr, ok := src.([]any)
			if !ok {
				if src == nil {
					continue
				}
				iss = se.AppendIssues(iss, se.IssueAt(full.String(), se.CodeInvalidClipboard, map[string]any{"expected": "array", "got": se.KindOf(src).String()}))
				continue
			}
			cur, _ := se.Lookup(work, full)
			curArr, _ := cur.([]any)
			val = sel.Mode(leafPath).Merge(curArr, se.Clone(srcArr).([]any))
		}
		next, err := se.Assign(work, full, val)
		if err != nil {
			if more, ok := se.AsIssues(err); ok {
				iss = se.AppendIssues(iss, more...)
				continue
			}
			return Result{Previous: doc, Document: doc}, err
		}
		work = next
	}
	if len(iss) > 0 {
		return Result{Previous: doc, Document: doc}, iss
	}
	return Result{Previous: doc, Document: work}, nil
}
