package schemaload

import (
	"fmt"
	"strings"

	se "github.com/reoring/schemaedit"
)

func extractDefs(root map[string]any) map[string]any {
	out := map[string]any{}
	for _, k := range []string{"definitions", "$defs"} {
		m, keys, ok := asMap(root[k])
		if !ok {
			continue
		}
		for _, name := range keys {
			out[name] = m[name]
		}
	}
	return out
}

// defName extracts Name from "#/$defs/Name" or "#/definitions/Name".
func defName(ref string) string {
	for _, p := range []string{"#/$defs/", "#/definitions/"} {
		if strings.HasPrefix(ref, p) {
			return strings.TrimPrefix(ref, p)
		}
	}
	return ""
}

// ref compiles a local definition once. The node is registered before its
// children are compiled, so a definition that refers to itself receives the
// same (still filling) node.
func (c *compiler) ref(ref, at string) (se.Node, error) {
	name := defName(ref)
	if name == "" {
		if err := c.problem("%s: unsupported $ref %q", at, ref); err != nil {
			return nil, err
		}
		return &se.Primitive{Type: "any"}, nil
	}
	if n, ok := c.built[name]; ok {
		return n, nil
	}
	raw, ok := c.defs[name]
	if !ok {
		if err := c.problem("%s: unknown $ref %q", at, ref); err != nil {
			return nil, err
		}
		return &se.Primitive{Type: "any"}, nil
	}
	m, _, ok := asMap(raw)
	if !ok {
		return nil, fmt.Errorf("schemaload: definition %q must be an object, got %T", name, raw)
	}
	if inner, ok := m["$ref"].(string); ok {
		if c.resolving[name] {
			return nil, fmt.Errorf("schemaload: $ref cycle through %q", name)
		}
		c.resolving[name] = true
		n, err := c.ref(inner, "#/$defs/"+name)
		delete(c.resolving, name)
		if err != nil {
			return nil, err
		}
		c.built[name] = n
		return n, nil
	}
	shell, err := c.shell(m, "#/$defs/"+name)
	if err != nil {
		return nil, err
	}
	c.built[name] = shell
	if err := c.fill(shell, m, "#/$defs/"+name); err != nil {
		return nil, err
	}
	return shell, nil
}
