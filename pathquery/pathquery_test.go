package pathquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConradIrwin/nt2-go/pathquery"
	"github.com/ConradIrwin/nt2-go/tree"
)

func sample() tree.Node {
	return tree.MapOf(
		"People", tree.List{
			tree.MapOf("name", tree.String("Ada"), "is a wizard", tree.String("yes")),
			tree.MapOf("name", tree.String("Grace"), "tags", tree.List{tree.String("navy")}),
		},
		"a.b", tree.String("dotted"),
		"a/b", tree.String("slashed"),
		"0", tree.String("zero key"),
	)
}

func paths(matches []pathquery.Match) []string {
	out := []string{}
	for _, m := range matches {
		out = append(out, m.Path.String())
	}
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{""}},
		{"/People/0/name", []string{"/People/0/name"}},
		{"/People/name", []string{"/People/0/name", "/People/1/name"}},
		{"People.name", []string{"/People/0/name", "/People/1/name"}},
		{"People[1].name", []string{"/People/1/name"}},
		{"People.1.name", []string{"/People/1/name"}},
		{"People[*].name", []string{"/People/0/name", "/People/1/name"}},
		{"/People/*/name", []string{"/People/0/name", "/People/1/name"}},
		{`People."is a wizard"`, []string{"/People/0/is a wizard"}},
		{"People.'is a wizard'", []string{"/People/0/is a wizard"}},
		{`a\.b`, []string{"/a.b"}},
		{`"a.b"`, []string{"/a.b"}},
		{"/a.b", []string{"/a.b"}},
		{"/a~1b", []string{"/a~1b"}},
		{"/0", []string{"/0"}},
		{"/People/5/name", []string{}},
		{"/missing", []string{}},
		{"People[9]", []string{}},
		{"/People/1/tags/*", []string{"/People/1/tags/0"}},
		{"/People/**", []string{
			"/People", "/People/0", "/People/0/name", "/People/0/is a wizard",
			"/People/1", "/People/1/name", "/People/1/tags", "/People/1/tags/0",
		}},
		{"**.name", []string{"/People/0/name", "/People/1/name"}},
		{"/People/*/*", []string{"/People/0/name", "/People/0/is a wizard", "/People/1/name", "/People/1/tags"}},
	}
	for _, tt := range tests {
		matches, err := pathquery.NewDocument(sample()).Resolve(tt.query)
		require.NoError(t, err, tt.query)
		assert.Equal(t, tt.want, paths(matches), tt.query)
	}
}

func TestResolveValues(t *testing.T) {
	matches, err := pathquery.NewDocument(sample()).Resolve("People[1].tags[0]")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, tree.String("navy"), matches[0].Value)
}

func TestMalformed(t *testing.T) {
	for _, q := range []string{
		"a.",
		".a",
		"a..b",
		"a[",
		"a[x]",
		"a[-1]",
		`"unclosed`,
		`a\`,
		"a[0]x",
		"[0]",
	} {
		_, err := pathquery.NewDocument(sample()).Resolve(q)
		require.ErrorIs(t, err, pathquery.ErrMalformedPathQuery, q)
	}

	_, err := pathquery.NewDocument(sample()).Resolve("People[0][0]")
	require.ErrorIs(t, err, pathquery.ErrMalformedPathQuery)
}

func TestSetIsObservedByLaterQueries(t *testing.T) {
	doc := pathquery.NewDocument(sample())

	matches, err := doc.Resolve("/People/name")
	require.NoError(t, err)
	for _, m := range matches {
		require.NoError(t, doc.Set(m.Path, tree.List{tree.String("first"), tree.String("last")}))
	}

	matches, err = doc.Resolve("/People/name/1")
	require.NoError(t, err)
	assert.Equal(t, []string{"/People/0/name/1", "/People/1/name/1"}, paths(matches))

	require.NoError(t, doc.Set(pathquery.Path{pathquery.Key("People")}, tree.Int(0)))
	matches, err = doc.Resolve("/People/name")
	require.NoError(t, err)
	assert.Empty(t, matches)

	require.NoError(t, doc.Set(pathquery.Path{}, tree.String("root")))
	assert.Equal(t, tree.String("root"), doc.Root())
}

func TestSetErrors(t *testing.T) {
	doc := pathquery.NewDocument(sample())

	err := doc.Set(pathquery.Path{pathquery.Key("missing")}, tree.Null{})
	require.ErrorIs(t, err, pathquery.ErrPathNotFound)

	err = doc.Set(pathquery.Path{pathquery.Key("People"), pathquery.Index(7)}, tree.Null{})
	require.ErrorIs(t, err, pathquery.ErrPathNotFound)

	err = doc.Set(pathquery.Path{pathquery.Key("People"), pathquery.Key("x"), pathquery.Key("y")}, tree.Null{})
	require.ErrorIs(t, err, pathquery.ErrPathNotFound)

	err = doc.Set(pathquery.Path{pathquery.Key("0")}, tree.Time{Hour: 1})
	require.ErrorIs(t, err, pathquery.ErrUnstorable)
}

func TestGet(t *testing.T) {
	doc := pathquery.NewDocument(sample())
	v, err := doc.Get(pathquery.Path{pathquery.Key("People"), pathquery.Index(0), pathquery.Key("name")})
	require.NoError(t, err)
	assert.Equal(t, tree.String("Ada"), v)

	_, err = doc.Get(pathquery.Path{pathquery.Key("People"), pathquery.Key("0")})
	require.ErrorIs(t, err, pathquery.ErrPathNotFound)
}

func TestPathString(t *testing.T) {
	p := pathquery.Path{pathquery.Key("a/b"), pathquery.Index(3), pathquery.Key("c~d"), pathquery.Key("")}
	assert.Equal(t, "/a~1b/3/c~0d/", p.String())
	assert.Equal(t, "", pathquery.Path{}.String())
}

func TestStripIndexes(t *testing.T) {
	tests := map[string]string{
		"/People/0/name": "/People/name",
		"People[0].name": "/People/name",
		"/tags/3":        "/tags/*",
		"/m/0/1/x":       "/m/*/x",
		"/a~1b/0/c":      "/a~1b/c",
		"/People/*/name": "/People/*/name",
		"**.name":        "/**/name",
		"/plain":         "/plain",
		`"quoted 0".x`:   "/quoted 0/x",
		"":               "",
	}
	for in, want := range tests {
		got, err := pathquery.StripIndexes(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := pathquery.StripIndexes("a[")
	require.ErrorIs(t, err, pathquery.ErrMalformedPathQuery)
}
