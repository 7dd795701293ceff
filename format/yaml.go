package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ConradIrwin/nt2-go/tree"
)

const (
	yamlStr       = "!!str"
	yamlNull      = "!!null"
	yamlBool      = "!!bool"
	yamlInt       = "!!int"
	yamlFloat     = "!!float"
	yamlTimestamp = "!!timestamp"
	yamlMerge     = "!!merge"
)

type yamlCodec struct{}

// Decode reads a YAML stream. A stream with several documents is returned as
// a list of them, and an empty stream as Null.
//
// Quoted strings, custom tags, booleans, numbers and timestamps are returned
// as hinted scalars so that their source text is not lost.
func (yamlCodec) Decode(data []byte) (tree.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	docs := tree.List{}
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		n, err := fromYAML(&doc)
		if err != nil {
			return nil, err
		}
		docs = append(docs, n)
	}
	switch len(docs) {
	case 0:
		return tree.Null{}, nil
	case 1:
		return docs[0], nil
	}
	return docs, nil
}

func fromYAML(n *yaml.Node) (tree.Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return tree.Null{}, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.SequenceNode:
		l := make(tree.List, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		return l, nil
	case yaml.MappingNode:
		m := tree.NewMap()
		if err := yamlMapping(m, n); err != nil {
			return nil, err
		}
		return m, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, fmt.Errorf("%d: unsupported YAML node", n.Line)
}

// yamlMapping adds the entries of n to m. Entries merged in with "<<" never
// replace keys given explicitly.
func yamlMapping(m *tree.Map, n *yaml.Node) error {
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.AliasNode {
			k = k.Alias
		}
		if k.Kind != yaml.ScalarNode {
			return fmt.Errorf("%d: mapping keys must be scalars", k.Line)
		}
		if k.ShortTag() == yamlMerge {
			merges = append(merges, v)
			continue
		}
		value, err := fromYAML(v)
		if err != nil {
			return err
		}
		m.Set(k.Value, value)
	}

	for _, v := range merges {
		if v.Kind == yaml.AliasNode {
			v = v.Alias
		}
		sources := []*yaml.Node{v}
		if v.Kind == yaml.SequenceNode {
			sources = v.Content
		}
		for _, src := range sources {
			if src.Kind == yaml.AliasNode {
				src = src.Alias
			}
			if src.Kind != yaml.MappingNode {
				return fmt.Errorf("%d: merged values must be mappings", src.Line)
			}
			merged := tree.NewMap()
			if err := yamlMapping(merged, src); err != nil {
				return err
			}
			for k, e := range merged.All() {
				if _, ok := m.Get(k); !ok {
					m.Set(k, e)
				}
			}
		}
	}
	return nil
}

func yamlScalar(n *yaml.Node) (tree.Node, error) {
	switch n.ShortTag() {
	case yamlStr:
		switch {
		case n.Style&yaml.DoubleQuotedStyle != 0:
			return tree.Quoted{Value: n.Value, Style: '"'}, nil
		case n.Style&yaml.SingleQuotedStyle != 0:
			return tree.Quoted{Value: n.Value, Style: '\''}, nil
		}
		return tree.String(n.Value), nil
	case yamlNull:
		return tree.Null{}, nil
	case yamlBool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return tree.Boxed{Value: tree.Bool(b), Source: n.Value}, nil
	case yamlInt, yamlFloat:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		var num tree.Node
		switch v := v.(type) {
		case int:
			num = tree.Int(v)
		case int64:
			num = tree.Int(v)
		case uint64:
			num = tree.Float(v)
		case float64:
			num = tree.Float(v)
		default:
			return nil, fmt.Errorf("%d: unexpected number %q", n.Line, n.Value)
		}
		return tree.Boxed{Value: num, Source: n.Value}, nil
	case yamlTimestamp:
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, err
		}
		dateOnly := !strings.ContainsAny(n.Value, "Tt ")
		return tree.Timestamp{
			Time:     t,
			DateOnly: dateOnly,
			Local:    !dateOnly && !strings.ContainsAny(n.Value, "Tt"),
			Source:   n.Value,
		}, nil
	}
	return tree.Tagged{Tag: n.Tag, Value: n.Value}, nil
}

// Encode writes n as a single YAML document indented by two spaces. Strings
// that would read back as another type are quoted.
func (yamlCodec) Encode(n tree.Node) ([]byte, error) {
	node, err := toYAML(n)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yamlScalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func toYAML(n tree.Node) (*yaml.Node, error) {
	switch v := tree.Plain(n).(type) {
	case *tree.Map:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, e := range v.All() {
			value, err := toYAML(e)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, yamlScalarNode(yamlStr, k), value)
		}
		return out, nil
	case tree.List:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v {
			value, err := toYAML(e)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, value)
		}
		return out, nil
	case tree.String:
		return yamlScalarNode(yamlStr, string(v)), nil
	case tree.Bool:
		return yamlScalarNode(yamlBool, strconv.FormatBool(bool(v))), nil
	case tree.Int:
		return yamlScalarNode(yamlInt, strconv.FormatInt(int64(v), 10)), nil
	case tree.Float:
		return yamlScalarNode(yamlFloat, yamlFloatText(float64(v))), nil
	case tree.Null:
		return yamlScalarNode(yamlNull, "null"), nil
	case tree.Date:
		return yamlScalarNode(yamlTimestamp, v.String()), nil
	case tree.DateTime:
		if v.Local {
			return yamlScalarNode(yamlTimestamp, v.Time.Format("2006-01-02 15:04:05.999999999")), nil
		}
		return yamlScalarNode(yamlTimestamp, v.String()), nil
	case tree.Time:
		return yamlScalarNode(yamlStr, v.String()), nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

func yamlFloatText(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
