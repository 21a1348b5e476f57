// Package yamltree transcodes tree nodes to and from YAML.
//
// Mapping comments become head comments on the key, so descriptions written
// by traversal.DescriptionInjector show up above each entry. Scalars keep their
// resolved YAML type: integers decode as int64 (or uint64 when they do not fit),
// floats as float64, booleans as bool and everything else as string.
package yamltree

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"config-mapper/tree"
)

// ErrMergeKey is returned for "<<" merge keys, which have no tree form.
var ErrMergeKey = errors.New("merge keys are not supported")

// Error reports a YAML node that cannot become a tree node.
type Error struct {
	Line   int
	Column int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("yaml %d:%d: %s", e.Line, e.Column, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func nodeError(y *yaml.Node, reason string, err error) *Error {
	return &Error{Line: y.Line, Column: y.Column, Reason: reason, Err: err}
}

// Unmarshal parses one YAML document. Empty input is null.
func Unmarshal(data []byte) (tree.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return Decode(&doc)
}

// Marshal renders n as a YAML document with two-space indentation.
func Marshal(n tree.Node) ([]byte, error) {
	y, err := Encode(n)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(y); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode converts a parsed YAML node. Document nodes are unwrapped and
// aliases are followed.
func Decode(y *yaml.Node) (tree.Node, error) {
	if y == nil {
		return nil, nil
	}

	switch y.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return nil, nil
		}

		return Decode(y.Content[0])
	case yaml.AliasNode:
		return Decode(y.Alias)
	case yaml.ScalarNode:
		return decodeScalar(y)
	case yaml.SequenceNode:
		seq := &tree.Sequence{Items: make([]tree.Node, 0, len(y.Content))}

		for _, item := range y.Content {
			n, err := Decode(item)
			if err != nil {
				return nil, err
			}

			seq.Append(n)
		}

		return seq, nil
	case yaml.MappingNode:
		return decodeMapping(y)
	default:
		return nil, nodeError(y, fmt.Sprintf("unknown node kind %d", y.Kind), nil)
	}
}

func decodeMapping(y *yaml.Node) (*tree.Mapping, error) {
	m := tree.NewMapping()

	for i := 0; i+1 < len(y.Content); i += 2 {
		k, v := y.Content[i], y.Content[i+1]

		if k.Kind == yaml.AliasNode {
			k = k.Alias
		}

		if k.Kind != yaml.ScalarNode {
			return nil, nodeError(k, "mapping keys must be scalars", nil)
		}

		if k.ShortTag() == "!!merge" {
			return nil, nodeError(k, ErrMergeKey.Error(), ErrMergeKey)
		}

		if m.Has(k.Value) {
			return nil, nodeError(k, fmt.Sprintf("duplicate key %q", k.Value), nil)
		}

		n, err := Decode(v)
		if err != nil {
			return nil, err
		}

		m.Set(k.Value, n)

		if comment := stripComment(k.HeadComment); comment != "" {
			m.SetComment(k.Value, comment)
		}
	}

	return m, nil
}

func decodeScalar(y *yaml.Node) (tree.Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, nodeError(y, "bad bool", err)
		}

		return tree.Scalar{Value: b}, nil
	case "!!int":
		var i int64
		if err := y.Decode(&i); err == nil {
			return tree.Scalar{Value: i}, nil
		}

		var u uint64
		if err := y.Decode(&u); err != nil {
			return nil, nodeError(y, "integer out of range", err)
		}

		return tree.Scalar{Value: u}, nil
	case "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, nodeError(y, "bad float", err)
		}

		return tree.Scalar{Value: f}, nil
	default:
		return tree.Scalar{Value: y.Value}, nil
	}
}

// stripComment removes the "# " markers of a YAML comment block.
func stripComment(c string) string {
	if c == "" {
		return ""
	}

	lines := strings.Split(c, "\n")
	for i, line := range lines {
		line = strings.TrimPrefix(strings.TrimSpace(line), "#")
		lines[i] = strings.TrimPrefix(line, " ")
	}

	return strings.Join(lines, "\n")
}

// Encode converts n into a YAML document node.
func Encode(n tree.Node) (*yaml.Node, error) {
	content, err := encode(n)
	if err != nil {
		return nil, err
	}

	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{content}}, nil
}

func encode(n tree.Node) (*yaml.Node, error) {
	switch v := n.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case tree.Scalar:
		return encodeValue(v.Value)
	case tree.Opaque:
		return encodeValue(v.Value)
	case *tree.Sequence:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}

		for i, item := range v.Items {
			c, err := encode(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}

			y.Content = append(y.Content, c)
		}

		return y, nil
	case *tree.Mapping:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

		for k, item := range v.All() {
			c, err := encode(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}

			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k, HeadComment: v.Comment(k)}
			y.Content = append(y.Content, key, c)
		}

		return y, nil
	default:
		return nil, fmt.Errorf("cannot encode %s node %T", tree.KindOf(n), n)
	}
}

func encodeValue(value any) (*yaml.Node, error) {
	var y yaml.Node
	if err := y.Encode(value); err != nil {
		return nil, err
	}

	return &y, nil
}
