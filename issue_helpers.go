package schemaedit

import "github.com/reoring/schemaedit/i18n"

// IssueAt creates an Issue at the given path with provided code and params map.
// The message is looked up through the current i18n translator.
func IssueAt(path, code string, params map[string]any) Issue {
	return Issue{Path: path, Code: code, Message: i18n.T(code, stringParams(params)), Params: params}
}

func stringParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = formatLiteral(v)
	}
	return out
}
