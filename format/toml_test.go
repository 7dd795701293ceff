//go:build !notoml

package format_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConradIrwin/nt2-go/format"
	"github.com/ConradIrwin/nt2-go/tree"
)

func TestTOMLDecode(t *testing.T) {
	c := lookup(t, format.TOML)
	n, err := c.Decode([]byte(`b = 1
a = "x"
d = 2020-01-02
t = 07:08:09.5
ldt = 2020-01-02T03:04:05
odt = 2020-01-02T03:04:05+01:00

[tbl]
f = 1.5
on = true
`))
	require.NoError(t, err)
	requireTreeEqual(t, tree.MapOf(
		"b", tree.Int(1),
		"a", tree.String("x"),
		"d", tree.Date{Year: 2020, Month: time.January, Day: 2},
		"t", tree.Time{Hour: 7, Minute: 8, Second: 9, Nanosecond: 500000000},
		"ldt", tree.DateTime{Time: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), Local: true},
		"odt", tree.DateTime{Time: time.Date(2020, 1, 2, 2, 4, 5, 0, time.UTC)},
		"tbl", tree.MapOf("f", tree.Float(1.5), "on", tree.Bool(true)),
	), n)

	n, err = c.Decode([]byte(""))
	require.NoError(t, err)
	requireTreeEqual(t, tree.NewMap(), n)

	_, err = c.Decode([]byte("a = \n"))
	require.Error(t, err)
}

func TestTOMLRoundTrip(t *testing.T) {
	c := lookup(t, format.TOML)
	in := tree.MapOf(
		"zebra", tree.String("1"),
		"apple", tree.String("2"),
		"d", tree.Date{Year: 2020, Month: time.March, Day: 4},
		"list", tree.List{tree.String("x"), tree.String("y")},
		"local", tree.DateTime{Time: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), Local: true},
		"n", tree.Int(7),
		"inline", tree.List{tree.MapOf("k", tree.String("v"), "b", tree.String("a")), tree.Int(1)},
		"t", tree.Time{Hour: 23, Minute: 59},
		"odd key", tree.Bool(true),
		"sub", tree.MapOf("y", tree.Float(1.5), "x", tree.MapOf("q", tree.Int(1), "p", tree.Int(2))),
		"people", tree.List{
			tree.MapOf("name", tree.String("Ada"), "age", tree.Int(36)),
			tree.MapOf("name", tree.String("Grace"), "age", tree.Int(85)),
		},
	)
	out, err := c.Encode(in)
	require.NoError(t, err)
	back, err := c.Decode(out)
	require.NoError(t, err)
	requireTreeEqual(t, in, back)
}

func TestTOMLKeyOrder(t *testing.T) {
	c := lookup(t, format.TOML)
	out, err := c.Encode(tree.MapOf("zebra", tree.String("1"), "apple", tree.String("2")))
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(out), "zebra"), strings.Index(string(out), "apple"))

	n, err := c.Decode([]byte("zebra = 1\napple = 2\n[m]\ny.z = 1\nx = { d = 1, c = 2 }\n[[arr]]\nq = 1\np = 2\n"))
	require.NoError(t, err)
	requireTreeEqual(t, tree.MapOf(
		"zebra", tree.Int(1),
		"apple", tree.Int(2),
		"m", tree.MapOf(
			"y", tree.MapOf("z", tree.Int(1)),
			"x", tree.MapOf("d", tree.Int(1), "c", tree.Int(2)),
		),
		"arr", tree.List{tree.MapOf("q", tree.Int(1), "p", tree.Int(2))},
	), n)
}

func TestTOMLTopLevelArray(t *testing.T) {
	c := lookup(t, format.TOML)
	out, err := c.Encode(tree.List{tree.Int(1), tree.Int(2)})
	require.NoError(t, err)
	assert.Contains(t, string(out), format.TopLevelArrayKey)

	back, err := c.Decode(out)
	require.NoError(t, err)
	requireTreeEqual(t, tree.MapOf(format.TopLevelArrayKey, tree.List{tree.Int(1), tree.Int(2)}), back)
}

func TestTOMLUnrepresentable(t *testing.T) {
	c := lookup(t, format.TOML)
	_, err := c.Encode(tree.MapOf("a", tree.Null{}))
	require.Error(t, err)
	_, err = c.Encode(tree.MapOf("a", tree.Time{Hour: 1, Zone: time.UTC}))
	require.Error(t, err)
	_, err = c.Encode(tree.String("scalar"))
	require.Error(t, err)
}
