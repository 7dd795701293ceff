package nt2

import (
	"math"
	"strconv"
	"strings"

	"github.com/ConradIrwin/nt2-go/tree"
)

// A Normalizer rebuilds a document so that it only contains the scalar types
// a target format supports. Maps and lists are copied recursively; each scalar
// is reduced with [tree.Plain] and then passed to the normalizer's scalar rule.
type Normalizer struct {
	name   string
	scalar func(tree.Node) tree.Node
}

// Normalize returns a normalized copy of n. n is not modified.
func (nz *Normalizer) Normalize(n tree.Node) tree.Node {
	switch v := n.(type) {
	case *tree.Map:
		out := tree.NewMap()
		for k, e := range v.All() {
			out.Set(k, nz.Normalize(e))
		}
		return out
	case tree.List:
		out := make(tree.List, len(v))
		for i, e := range v {
			out[i] = nz.Normalize(e)
		}
		return out
	}
	return nz.scalar(tree.Plain(n))
}

func (nz *Normalizer) String() string {
	return nz.name
}

// StringTypes returns a normalizer whose output only contains strings, as
// NestedText requires. Booleans become "True" or "False" and null becomes "".
func StringTypes() *Normalizer {
	return &Normalizer{name: "string", scalar: func(n tree.Node) tree.Node {
		switch v := n.(type) {
		case tree.Bool:
			if v {
				return tree.String("True")
			}
			return tree.String("False")
		case tree.Int:
			return tree.String(strconv.FormatInt(int64(v), 10))
		case tree.Float:
			return tree.String(formatFloat(float64(v)))
		case tree.Null:
			return tree.String("")
		}
		return isoString(n)
	}}
}

// JSONTypes returns a normalizer for JSON, which has no dates or times.
func JSONTypes() *Normalizer {
	return &Normalizer{name: "json", scalar: isoString}
}

// YAMLTypes returns a normalizer for YAML, which has dates and date-times but
// no time of day.
func YAMLTypes() *Normalizer {
	return &Normalizer{name: "yaml", scalar: func(n tree.Node) tree.Node {
		if t, ok := n.(tree.Time); ok {
			return tree.String(t.String())
		}
		return n
	}}
}

// TOMLTypes returns a normalizer for TOML. TOML has no null, so null becomes
// the empty string.
func TOMLTypes() *Normalizer {
	return &Normalizer{name: "toml", scalar: func(n tree.Node) tree.Node {
		if _, ok := n.(tree.Null); ok {
			return tree.String("")
		}
		return n
	}}
}

// unmarkTimes returns a normalizer that turns strings starting with marker
// back into the time of day that follows the marker.
func unmarkTimes(marker string) *Normalizer {
	return &Normalizer{name: "unmark", scalar: func(n tree.Node) tree.Node {
		s, ok := n.(tree.String)
		if !ok {
			return n
		}
		rest, found := strings.CutPrefix(string(s), marker)
		if !found {
			return n
		}
		t, err := tree.ParseTime(rest)
		if err != nil {
			return n
		}
		return t
	}}
}

func isoString(n tree.Node) tree.Node {
	switch v := n.(type) {
	case tree.Date:
		return tree.String(v.String())
	case tree.DateTime:
		return tree.String(v.String())
	case tree.Time:
		return tree.String(v.String())
	}
	return n
}

// formatFloat renders f the way Python's repr does: the shortest text that
// reads back as f, with ".0" on integral values and an exponent outside
// 1e-4 <= |f| < 1e16.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	exp := strconv.FormatFloat(f, 'e', -1, 64)
	e, err := strconv.Atoi(exp[strings.IndexByte(exp, 'e')+1:])
	if err != nil || f != 0 && (e < -4 || e >= 16) {
		return exp
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
