package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ConradIrwin/nt2-go/tree"
)

type jsonCodec struct{}

// Decode reads one JSON value, or several (as in JSON Lines) which are
// returned as a list. Object keys keep their order. Numbers written without a
// fraction or exponent become tree.Int when they fit.
func (jsonCodec) Decode(data []byte) (tree.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	values := tree.List{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, jsonError(dec, err)
		}
		v, err := readJSON(dec, tok)
		if err != nil {
			return nil, jsonError(dec, err)
		}
		values = append(values, v)
	}
	if len(values) == 1 {
		return values[0], nil
	}
	return values, nil
}

func jsonError(dec *json.Decoder, err error) error {
	return fmt.Errorf("invalid JSON at offset %d: %w", dec.InputOffset(), err)
}

func readJSON(dec *json.Decoder, tok json.Token) (tree.Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			m := tree.NewMap()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected %v, expected object key", kt)
				}
				vt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				value, err := readJSON(dec, vt)
				if err != nil {
					return nil, err
				}
				m.Set(key, value)
			}
			_, err := dec.Token()
			return m, err
		case '[':
			l := tree.List{}
			for dec.More() {
				vt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				value, err := readJSON(dec, vt)
				if err != nil {
					return nil, err
				}
				l = append(l, value)
			}
			_, err := dec.Token()
			return l, err
		}
		return nil, fmt.Errorf("unexpected %v", v)
	case string:
		return tree.String(v), nil
	case json.Number:
		return jsonNumber(v)
	case bool:
		return tree.Bool(v), nil
	case nil:
		return tree.Null{}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func jsonNumber(n json.Number) (tree.Node, error) {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return tree.Int(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}
	return tree.Float(f), nil
}

// Encode writes n as JSON indented by two spaces, keeping map key order.
// Dates and times are written as ISO 8601 strings.
func (jsonCodec) Encode(n tree.Node) ([]byte, error) {
	var b bytes.Buffer
	if err := writeJSON(&b, n, 0); err != nil {
		return nil, err
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func jsonNewline(b *bytes.Buffer, depth int) {
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("  ", depth))
}

func writeJSONScalar(b *bytes.Buffer, v any) error {
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	b.Truncate(b.Len() - 1)
	return nil
}

func writeJSON(b *bytes.Buffer, n tree.Node, depth int) error {
	switch v := tree.Plain(n).(type) {
	case *tree.Map:
		if v.Len() == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteByte('{')
		first := true
		for k, e := range v.All() {
			if !first {
				b.WriteByte(',')
			}
			first = false
			jsonNewline(b, depth+1)
			if err := writeJSONScalar(b, k); err != nil {
				return err
			}
			b.WriteString(": ")
			if err := writeJSON(b, e, depth+1); err != nil {
				return err
			}
		}
		jsonNewline(b, depth)
		b.WriteByte('}')
	case tree.List:
		if len(v) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			jsonNewline(b, depth+1)
			if err := writeJSON(b, e, depth+1); err != nil {
				return err
			}
		}
		jsonNewline(b, depth)
		b.WriteByte(']')
	case tree.String:
		return writeJSONScalar(b, string(v))
	case tree.Bool:
		return writeJSONScalar(b, bool(v))
	case tree.Int:
		return writeJSONScalar(b, int64(v))
	case tree.Float:
		// Not valid JSON, but what JSON5 and most JSON readers accept.
		switch f := float64(v); {
		case math.IsNaN(f):
			b.WriteString("NaN")
			return nil
		case math.IsInf(f, 1):
			b.WriteString("Infinity")
			return nil
		case math.IsInf(f, -1):
			b.WriteString("-Infinity")
			return nil
		}
		start := b.Len()
		if err := writeJSONScalar(b, float64(v)); err != nil {
			return err
		}
		if !bytes.ContainsAny(b.Bytes()[start:], ".eE") {
			b.WriteString(".0")
		}
	case tree.Null:
		b.WriteString("null")
	case tree.Date:
		return writeJSONScalar(b, v.String())
	case tree.DateTime:
		return writeJSONScalar(b, v.String())
	case tree.Time:
		return writeJSONScalar(b, v.String())
	default:
		return fmt.Errorf("unsupported type: %T", v)
	}
	return nil
}
