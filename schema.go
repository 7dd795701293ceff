package nt2

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/mitchellh/mapstructure"

	"github.com/ConradIrwin/nt2-go/nestedtext"
	"github.com/ConradIrwin/nt2-go/pathquery"
	"github.com/ConradIrwin/nt2-go/tree"
)

// A Schema lists, for each cast category, the path queries whose matches
// [Cast] converts. It is not a validation schema: leaves that no query matches
// are left as they are.
type Schema struct {
	Null    []string `mapstructure:"null"`
	Boolean []string `mapstructure:"boolean"`
	Number  []string `mapstructure:"number"`
	Date    []string `mapstructure:"date"`
}

// Empty reports whether s has no queries at all.
func (s Schema) Empty() bool {
	return s.Len() == 0
}

// Len returns the number of queries in all categories.
func (s Schema) Len() int {
	return len(s.Null) + len(s.Boolean) + len(s.Number) + len(s.Date)
}

// Merge returns a schema with the queries of s followed by those of each of
// others, category by category.
func (s Schema) Merge(others ...Schema) Schema {
	out := Schema{
		Null:    slices.Clone(s.Null),
		Boolean: slices.Clone(s.Boolean),
		Number:  slices.Clone(s.Number),
		Date:    slices.Clone(s.Date),
	}
	for _, o := range others {
		out.Null = append(out.Null, o.Null...)
		out.Boolean = append(out.Boolean, o.Boolean...)
		out.Number = append(out.Number, o.Number...)
		out.Date = append(out.Date, o.Date...)
	}
	return out
}

// Tree returns s in its exchange form: a map from category name to a list of
// queries. Empty categories are left out.
func (s Schema) Tree() *tree.Map {
	out := tree.NewMap()
	for _, c := range []struct {
		name    string
		queries []string
	}{
		{"null", s.Null},
		{"boolean", s.Boolean},
		{"number", s.Number},
		{"date", s.Date},
	} {
		if len(c.queries) == 0 {
			continue
		}
		l := make(tree.List, len(c.queries))
		for i, q := range c.queries {
			l[i] = tree.String(q)
		}
		out.Set(c.name, l)
	}
	return out
}

// blankToEmptySlice decodes "" as no queries rather than a single empty
// query, which would match the root.
func blankToEmptySlice(from, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to.Kind() == reflect.Slice && data.(string) == "" {
		return []string{}, nil
	}
	return data, nil
}

// DecodeSchema reads a schema from its exchange form. Unknown categories are
// an error. A category may hold a single query instead of a list.
func DecodeSchema(n tree.Node) (Schema, error) {
	var s Schema
	if m, ok := n.(*tree.Map); ok && m.Len() == 0 {
		return s, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(blankToEmptySlice),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return Schema{}, err
	}
	if err := decoder.Decode(tree.ToNative(n)); err != nil {
		return Schema{}, fmt.Errorf("invalid schema: %w", err)
	}
	return s, nil
}

// LoadSchema reads a schema from a NestedText document.
func LoadSchema(data []byte) (Schema, error) {
	n, err := nestedtext.Decode(data)
	if err != nil {
		return Schema{}, err
	}
	return DecodeSchema(n)
}

// InferSchema returns a schema that lists the literal path of every typed
// leaf of data, in document order. Running [Cast] with it on a string-only
// rendering of data restores the types.
//
// Strings, including quoted ones, need no casting and are not listed. A leaf
// that is neither a string nor in one of the four categories, such as a
// tree.Tagged scalar, results in ErrUnclassifiableType.
func InferSchema(data tree.Node) (Schema, error) {
	matches, err := pathquery.NewDocument(data).Resolve("/**")
	if err != nil {
		return Schema{}, err
	}
	var s Schema
	for _, m := range matches {
		v := m.Value
		if b, ok := v.(tree.Boxed); ok {
			v = b.Value
		}
		path := m.Path.String()
		switch v.(type) {
		case *tree.Map, tree.List, tree.String, tree.Quoted:
		case tree.Bool:
			s.Boolean = append(s.Boolean, path)
		case tree.Int, tree.Float:
			s.Number = append(s.Number, path)
		case tree.Null:
			s.Null = append(s.Null, path)
		case tree.Date, tree.DateTime, tree.Time, tree.Timestamp:
			s.Date = append(s.Date, path)
		default:
			return Schema{}, fmt.Errorf("%w: %T at %s", ErrUnclassifiableType, m.Value, path)
		}
	}
	return s, nil
}

// GeneralizeSchema guesses a shorter schema by removing list indexes from
// every query and dropping the duplicates this creates. It reports whether the
// guess has fewer queries than s. The guess may match leaves that s does not.
//
// An index that ends a query, or that is followed by another index, becomes
// "*" so the query still reaches leaves: /tags/3 becomes /tags/* and
// /matrix/0/1/x becomes /matrix/*/x.
func GeneralizeSchema(s Schema) (Schema, bool) {
	out := Schema{
		Null:    generalize(s.Null),
		Boolean: generalize(s.Boolean),
		Number:  generalize(s.Number),
		Date:    generalize(s.Date),
	}
	return out, out.Len() < s.Len()
}

func generalize(queries []string) []string {
	var out []string
	for _, q := range queries {
		g, err := pathquery.StripIndexes(q)
		if err != nil {
			g = q
		}
		if !slices.Contains(out, g) {
			out = append(out, g)
		}
	}
	return out
}
