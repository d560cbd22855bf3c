// Package frontmatter serializes Jekyll front matter blocks.
//
// Field order is significant for stable output, so serialization goes through
// an ordered field list rather than a map.
package frontmatter

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Field is one front matter key/value pair. Fields serialize in slice order.
type Field struct {
	Key   string
	Value any
}

// Serialize encodes fields as YAML (without --- delimiters), preserving field
// order. Determinism: identical input yields byte-identical output.
//
// If fields is empty, Serialize returns an empty slice.
func Serialize(fields []Field) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}
		valNode, err := nodeFromValue(f.Value)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Document assembles a full Markdown document: `---` delimited front matter,
// a blank line, then the body, ending with a trailing newline.
func Document(fields []Field, body string) ([]byte, error) {
	fm, err := Serialize(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(fm) + len(body) + 16)
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

func nodeFromValue(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: vv}, nil
	case bool:
		if vv {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"}, nil
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "false"}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(vv)}, nil
	default:
		return nil, fmt.Errorf("unsupported front matter value type %T", v)
	}
}
