package schemaedit

import (
	"math"
	"strconv"
)

// ValueKind classifies a document value by its runtime shape.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueString
	ValueNumber
	ValueArray
	ValueObject
	ValueOther
)

func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueBool:
		return "boolean"
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueArray:
		return "array"
	case ValueObject:
		return "object"
	default:
		return "other"
	}
}

// numberLiteral matches json.Number (encoding/json and goccy/go-json alike).
type numberLiteral interface {
	Float64() (float64, error)
	Int64() (int64, error)
	String() string
}

// KindOf reports the runtime kind of a document value.
func KindOf(v any) ValueKind {
	switch v.(type) {
	case nil:
		return ValueNull
	case bool:
		return ValueBool
	case string:
		return ValueString
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ValueNumber
	case numberLiteral:
		return ValueNumber
	case []any:
		return ValueArray
	case map[string]any:
		return ValueObject
	default:
		return ValueOther
	}
}

// IsWholeNumber reports whether v is a number without a fractional part.
func IsWholeNumber(v any) bool {
	switch t := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return !math.IsInf(t, 0) && t == math.Trunc(t)
	case float32:
		f := float64(t)
		return !math.IsInf(f, 0) && f == math.Trunc(f)
	case numberLiteral:
		if _, err := t.Int64(); err == nil {
			return true
		}
		f, err := t.Float64()
		return err == nil && !math.IsInf(f, 0) && f == math.Trunc(f)
	}
	return false
}

// Clone returns a structural deep copy of a document value. Objects and
// arrays are copied recursively; scalars are immutable and returned as is.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return map[string]any(nil)
		}
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Clone(vv)
		}
		return out
	case []any:
		if t == nil {
			return []any(nil)
		}
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = Clone(vv)
		}
		return out
	default:
		return v
	}
}

// Lookup reads the value at p. The boolean is false when a segment cannot
// be applied (missing key, index out of range, wrong container kind).
func Lookup(v any, p Path) (any, bool) {
	cur := v
	for _, seg := range p {
		if seg.IsIndex {
			arr, ok := cur.([]any)
			if !ok || seg.Index < 0 || seg.Index >= len(arr) {
				return nil, false
			}
			cur = arr[seg.Index]
			continue
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg.Key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Assign writes val at p inside doc and returns the (possibly new) root.
// Containers reachable from doc are modified in place, so callers pass a
// Clone. Missing objects along key segments are created; an index equal to
// the array length appends. Any other shape mismatch yields Issues and the
// returned root must be discarded.
func Assign(doc any, p Path, val any) (any, error) {
	return assign(doc, p, 0, val)
}

func assign(cur any, p Path, i int, val any) (any, error) {
	if i == len(p) {
		return val, nil
	}
	seg := p[i]
	here := p[:i].String()
	if seg.IsIndex {
		arr, ok := cur.([]any)
		if !ok {
			return nil, Issues{IssueAt(here, CodeInvalidType, map[string]any{"expected": "array", "got": KindOf(cur).String()})}
		}
		if seg.Index < 0 || seg.Index > len(arr) {
			return nil, Issues{IssueAt(p[:i+1].String(), CodeIndexOutOfRange, map[string]any{"index": seg.Index, "len": len(arr)})}
		}
		var child any
		if seg.Index < len(arr) {
			child = arr[seg.Index]
		}
		nv, err := assign(child, p, i+1, val)
		if err != nil {
			return nil, err
		}
		if seg.Index == len(arr) {
			return append(arr, nv), nil
		}
		arr[seg.Index] = nv
		return arr, nil
	}
	var m map[string]any
	switch t := cur.(type) {
	case nil:
		m = map[string]any{}
	case map[string]any:
		m = t
		if m == nil {
			m = map[string]any{}
		}
	default:
		return nil, Issues{IssueAt(here, CodeInvalidType, map[string]any{"expected": "object", "got": KindOf(cur).String()})}
	}
	nv, err := assign(m[seg.Key], p, i+1, val)
	if err != nil {
		return nil, err
	}
	m[seg.Key] = nv
	return m, nil
}

// formatLiteral renders scalars the way discriminator mappings and i18n
// placeholders expect them.
func formatLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case numberLiteral:
		return t.String()
	default:
		return ""
	}
}
