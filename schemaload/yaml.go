package schemaload

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	se "github.com/reoring/schemaedit"
)

// orderedMap is a decoded YAML mapping that remembers key order, so object
// fields keep their declaration order.
type orderedMap struct {
	keys []string
	m    map[string]any
}

// LoadYAML compiles the first document of a YAML (or JSON) stream. Object
// fields keep the order in which they are declared.
func LoadYAML(data []byte, opts Options) (se.Node, Diag, error) {
	d := &simpleDiag{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, d, ErrNilSchema
		}
		return nil, d, fmt.Errorf("schemaload: invalid YAML: %w", err)
	}
	root, err := fromYAMLNode(&doc)
	if err != nil {
		return nil, d, err
	}
	if root == nil {
		return nil, d, ErrNilSchema
	}
	n, err := compile(root, opts, d)
	return n, d, err
}

func fromYAMLNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	case yaml.MappingNode:
		om := &orderedMap{m: make(map[string]any, len(n.Content)/2)}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("schemaload: line %d: mapping keys must be scalars", k.Line)
			}
			val, err := fromYAMLNode(v)
			if err != nil {
				return nil, err
			}
			if _, dup := om.m[k.Value]; !dup {
				om.keys = append(om.keys, k.Value)
			}
			om.m[k.Value] = val
		}
		return om, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("schemaload: line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("schemaload: line %d: unsupported YAML node", n.Line)
}
