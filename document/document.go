// Package document reads and writes document snapshots in the plain value
// model used by schemaedit: map[string]any, []any, string, float64, bool and
// nil.
package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	gyaml "github.com/goccy/go-yaml"
)

// Format is a document encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Decode parses data in the given format.
func Decode(data []byte, f Format) (any, error) {
	if f == YAML {
		return DecodeYAML(data)
	}
	return DecodeJSON(data)
}

// DecodeJSON parses a JSON document. Empty input decodes to nil.
func DecodeJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("document: invalid JSON: %w", err)
	}
	return v, nil
}

// DecodeYAML parses a YAML document and normalizes it into the JSON value
// model: mapping keys become strings and every number becomes float64.
func DecodeYAML(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var v any
	if err := gyaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("document: invalid YAML: %w", err)
	}
	return normalize(v), nil
}

// Encode renders v in the given format. JSON output is indented.
func Encode(v any, f Format) ([]byte, error) {
	if f == YAML {
		b, err := gyaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("document: encode YAML: %w", err)
		}
		return b, nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("document: encode JSON: %w", err)
	}
	return append(b, '\n'), nil
}

// LoadFile reads and decodes the file at path, choosing the format from its
// extension.
func LoadFile(path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: read %s: %w", path, err)
	}
	return Decode(b, FormatFromPath(path))
}

// WriteFile encodes v and writes it to path in the format its extension
// names.
func WriteFile(path string, v any) error {
	b, err := Encode(v, FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("document: write %s: %w", path, err)
	}
	return nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalize(vv)
		}
		return out
	case gyaml.MapSlice:
		out := make(map[string]any, len(t))
		for _, it := range t {
			out[fmt.Sprint(it.Key)] = normalize(it.Value)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalize(t[i])
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	}
	return v
}
