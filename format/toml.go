//go:build !notoml

package format

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/ConradIrwin/nt2-go/tree"
)

// TopLevelArrayKey holds a list written as TOML, since a TOML document must
// be a table.
const TopLevelArrayKey = "TOML does not allow top-level arrays"

func init() {
	register(TOML, func() (Codec, error) { return tomlCodec{}, nil })
}

type tomlCodec struct{}

// Decode reads a TOML document, keeping keys in the order they are first
// written. Local dates, times and date-times keep their kind.
func (tomlCodec) Decode(data []byte) (tree.Node, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	order, err := tomlKeyOrder(data)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return tree.NewMap(), nil
	}
	return fromTOML(doc, nil, order)
}

// keyOrder maps the path of a table, joined with NUL and ignoring array
// indexes, to its keys in document order.
type keyOrder map[string][]string

func (o keyOrder) add(path []string) {
	for i := range path {
		parent := strings.Join(path[:i], "\x00")
		if !slices.Contains(o[parent], path[i]) {
			o[parent] = append(o[parent], path[i])
		}
	}
}

func (o keyOrder) value(path []string, v *unstable.Node) {
	switch v.Kind {
	case unstable.InlineTable:
		it := v.Children()
		for it.Next() {
			kv := it.Node()
			sub := append(slices.Clone(path), keyParts(kv.Key())...)
			o.add(sub)
			o.value(sub, kv.Value())
		}
	case unstable.Array:
		it := v.Children()
		for it.Next() {
			o.value(path, it.Node())
		}
	}
}

// keys returns the keys of m at path, known ones first.
func (o keyOrder) keys(path []string, m map[string]any) []string {
	var out []string
	for _, k := range o[strings.Join(path, "\x00")] {
		if _, ok := m[k]; ok {
			out = append(out, k)
		}
	}
	var rest []string
	for k := range m {
		if !slices.Contains(out, k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

func tomlKeyOrder(data []byte) (keyOrder, error) {
	order := keyOrder{}
	p := unstable.Parser{}
	p.Reset(data)
	var table []string
	for p.NextExpression() {
		e := p.Expression()
		switch e.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyParts(e.Key())
			order.add(table)
		case unstable.KeyValue:
			path := append(slices.Clone(table), keyParts(e.Key())...)
			order.add(path)
			order.value(path, e.Value())
		}
	}
	return order, p.Error()
}

func fromTOML(v any, path []string, order keyOrder) (tree.Node, error) {
	switch v := v.(type) {
	case map[string]any:
		m := tree.NewMap()
		for _, k := range order.keys(path, v) {
			e, err := fromTOML(v[k], append(slices.Clone(path), k), order)
			if err != nil {
				return nil, err
			}
			m.Set(k, e)
		}
		return m, nil
	case []any:
		l := make(tree.List, 0, len(v))
		for _, e := range v {
			n, err := fromTOML(e, path, order)
			if err != nil {
				return nil, err
			}
			l = append(l, n)
		}
		return l, nil
	case toml.LocalDate:
		return tree.Date{Year: v.Year, Month: time.Month(v.Month), Day: v.Day}, nil
	case toml.LocalTime:
		return tree.Time{Hour: v.Hour, Minute: v.Minute, Second: v.Second, Nanosecond: v.Nanosecond}, nil
	case toml.LocalDateTime:
		t := time.Date(v.Year, time.Month(v.Month), v.Day, v.Hour, v.Minute, v.Second, v.Nanosecond, time.UTC)
		return tree.DateTime{Time: t, Local: true}, nil
	}
	return tree.FromNative(v)
}

// Encode writes n as a TOML document in tree order, with the plain values of
// each table before its sub-tables. A list is wrapped in a table under
// [TopLevelArrayKey].
func (tomlCodec) Encode(n tree.Node) ([]byte, error) {
	n = tree.Plain(n)
	if l, ok := n.(tree.List); ok {
		n = tree.MapOf(TopLevelArrayKey, l)
	}
	m, ok := n.(*tree.Map)
	if !ok {
		return nil, fmt.Errorf("TOML documents must be tables, not %T", n)
	}
	var b strings.Builder
	if err := writeTOMLTable(&b, nil, m, false); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func isArrayOfTables(l tree.List) bool {
	if len(l) == 0 {
		return false
	}
	for _, e := range l {
		if _, ok := tree.Plain(e).(*tree.Map); !ok {
			return false
		}
	}
	return true
}

func writeTOMLTable(b *strings.Builder, path []string, m *tree.Map, arrayElem bool) error {
	if len(path) > 0 {
		header, err := tomlKeyPath(path)
		if err != nil {
			return err
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if arrayElem {
			b.WriteString("[[" + header + "]]\n")
		} else {
			b.WriteString("[" + header + "]\n")
		}
	}

	var tables []string
	for k, e := range m.All() {
		switch v := tree.Plain(e).(type) {
		case *tree.Map:
			tables = append(tables, k)
			continue
		case tree.List:
			if isArrayOfTables(v) {
				tables = append(tables, k)
				continue
			}
		}
		key, err := tomlKey(k)
		if err != nil {
			return err
		}
		value, err := tomlValue(e)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		b.WriteString(key + " = " + value + "\n")
	}

	for _, k := range tables {
		e, _ := m.Get(k)
		sub := append(slices.Clone(path), k)
		switch v := tree.Plain(e).(type) {
		case *tree.Map:
			if err := writeTOMLTable(b, sub, v, false); err != nil {
				return err
			}
		case tree.List:
			for _, item := range v {
				if err := writeTOMLTable(b, sub, tree.Plain(item).(*tree.Map), true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func tomlKey(k string) (string, error) {
	if bareKey.MatchString(k) {
		return k, nil
	}
	return tomlScalar(k)
}

func tomlKeyPath(path []string) (string, error) {
	keys := make([]string, len(path))
	for i, k := range path {
		key, err := tomlKey(k)
		if err != nil {
			return "", err
		}
		keys[i] = key
	}
	return strings.Join(keys, "."), nil
}

// tomlValue renders n as an inline value.
func tomlValue(n tree.Node) (string, error) {
	switch v := tree.Plain(n).(type) {
	case *tree.Map:
		if v.Len() == 0 {
			return "{}", nil
		}
		var items []string
		for k, e := range v.All() {
			key, err := tomlKey(k)
			if err != nil {
				return "", err
			}
			value, err := tomlValue(e)
			if err != nil {
				return "", err
			}
			items = append(items, key+" = "+value)
		}
		return "{ " + strings.Join(items, ", ") + " }", nil
	case tree.List:
		items := make([]string, len(v))
		for i, e := range v {
			value, err := tomlValue(e)
			if err != nil {
				return "", err
			}
			items[i] = value
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	}
	s, err := toTOMLScalar(n)
	if err != nil {
		return "", err
	}
	return tomlScalar(s)
}

// tomlScalar formats a single value with the TOML encoder.
func tomlScalar(v any) (string, error) {
	out, err := toml.Marshal(map[string]any{"v": v})
	if err != nil {
		return "", err
	}
	s := strings.TrimSuffix(string(out), "\n")
	return strings.TrimPrefix(s, "v = "), nil
}

func toTOMLScalar(n tree.Node) (any, error) {
	switch v := tree.Plain(n).(type) {
	case tree.String:
		return string(v), nil
	case tree.Bool:
		return bool(v), nil
	case tree.Int:
		return int64(v), nil
	case tree.Float:
		return float64(v), nil
	case tree.Date:
		return toml.LocalDate{Year: v.Year, Month: int(v.Month), Day: v.Day}, nil
	case tree.DateTime:
		if v.Local {
			t := v.Time
			return toml.LocalDateTime{
				LocalDate: toml.LocalDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
				LocalTime: toml.LocalTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()},
			}, nil
		}
		return v.Time, nil
	case tree.Time:
		if v.Zone != nil {
			return nil, fmt.Errorf("TOML cannot represent a time of day with a UTC offset: %v", v)
		}
		return toml.LocalTime{Hour: v.Hour, Minute: v.Minute, Second: v.Second, Nanosecond: v.Nanosecond}, nil
	case tree.Null:
		return nil, fmt.Errorf("TOML cannot represent null")
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}
