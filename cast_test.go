package nt2_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConradIrwin/nt2-go"
	"github.com/ConradIrwin/nt2-go/pathquery"
	"github.com/ConradIrwin/nt2-go/tree"
)

func requireTreeEqual(t *testing.T, want, got tree.Node) {
	t.Helper()
	if !tree.Equal(want, got) {
		t.Fatalf("Mismatch:\nExpected: %s\nGot: %s", spew.Sdump(want), spew.Sdump(got))
	}
}

func people() tree.Node {
	return tree.MapOf(
		"People", tree.List{
			tree.MapOf("name", tree.String("Ada"), "age", tree.String("36"), "active", tree.String("yes"), "nickname", tree.String("")),
			tree.MapOf("name", tree.String("Grace"), "age", tree.String("85.5"), "active", tree.String("off"), "nickname", tree.String("0")),
		},
		"updated", tree.String("2020-01-01"),
	)
}

func TestCastEndToEnd(t *testing.T) {
	data := tree.MapOf("age", tree.String("30"), "active", tree.String("yes"))
	schema := nt2.Schema{Number: []string{"/age"}, Boolean: []string{"/active"}}

	got, err := nt2.Cast(data, schema, nt2.JSONTypes())
	require.NoError(t, err)
	requireTreeEqual(t, tree.MapOf("age", tree.Int(30), "active", tree.Bool(true)), got)
}

func TestCastPeople(t *testing.T) {
	schema := nt2.Schema{
		Null:    []string{"/People/nickname"},
		Boolean: []string{"People[*].active"},
		Number:  []string{"/People/age"},
		Date:    []string{"updated"},
	}

	got, err := nt2.Cast(people(), schema, nt2.YAMLTypes())
	require.NoError(t, err)
	requireTreeEqual(t, tree.MapOf(
		"People", tree.List{
			tree.MapOf("name", tree.String("Ada"), "age", tree.Int(36), "active", tree.Bool(true), "nickname", tree.Null{}),
			tree.MapOf("name", tree.String("Grace"), "age", tree.Float(85.5), "active", tree.Bool(false), "nickname", tree.String("0")),
		},
		"updated", tree.Date{Year: 2020, Month: time.January, Day: 1},
	), got)
}

func TestCastNumberRoundTrip(t *testing.T) {
	data := tree.MapOf("answer", tree.String("42"))
	typed, err := nt2.Cast(data, nt2.Schema{Number: []string{"/answer"}}, nt2.JSONTypes())
	require.NoError(t, err)
	requireTreeEqual(t, tree.MapOf("answer", tree.Int(42)), typed)

	requireTreeEqual(t, data, nt2.StringTypes().Normalize(typed))
}

func TestCastEmptySchema(t *testing.T) {
	data := people()
	got, err := nt2.Cast(data, nt2.Schema{}, nt2.JSONTypes())
	require.NoError(t, err)
	requireTreeEqual(t, people(), got)

	got.(*tree.Map).Set("extra", tree.String("x"))
	_, ok := data.(*tree.Map).Get("extra")
	assert.False(t, ok, "the root map should have been copied")
}

func TestCastDoesNotReplaceCallerRoot(t *testing.T) {
	data := tree.MapOf("a", tree.String("1"))
	_, err := nt2.Cast(data, nt2.Schema{Number: []string{"/a"}}, nil)
	require.NoError(t, err)
	requireTreeEqual(t, tree.MapOf("a", tree.String("1")), data)
}

func TestCastMarkedTimeIsolation(t *testing.T) {
	lookalike := "123e4567-e89b-12d3-a456-42661417400010:30:00"
	data := tree.MapOf("alarm", tree.String("10:30"), "note", tree.String(lookalike))

	got, err := nt2.Cast(data, nt2.Schema{Date: []string{"/alarm"}}, nt2.TOMLTypes())
	require.NoError(t, err)
	requireTreeEqual(t, tree.MapOf(
		"alarm", tree.Time{Hour: 10, Minute: 30},
		"note", tree.String(lookalike),
	), got)
}

func TestCastTimeForEachTarget(t *testing.T) {
	data := func() tree.Node {
		return tree.List{tree.String("07:15:00"), tree.String("2021-06-01T07:15:00Z")}
	}
	schema := nt2.Schema{Date: []string{"/*"}}

	got, err := nt2.Cast(data(), schema, nt2.YAMLTypes())
	require.NoError(t, err)
	requireTreeEqual(t, tree.List{
		tree.String("07:15:00"),
		tree.DateTime{Time: time.Date(2021, 6, 1, 7, 15, 0, 0, time.UTC)},
	}, got)

	got, err = nt2.Cast(data(), schema, nt2.JSONTypes())
	require.NoError(t, err)
	requireTreeEqual(t, tree.List{tree.String("07:15:00"), tree.String("2021-06-01T07:15:00+00:00")}, got)

	got, err = nt2.Cast(data(), schema, nt2.TOMLTypes(), nt2.WithMarker("@@"))
	require.NoError(t, err)
	requireTreeEqual(t, tree.List{
		tree.Time{Hour: 7, Minute: 15},
		tree.DateTime{Time: time.Date(2021, 6, 1, 7, 15, 0, 0, time.UTC)},
	}, got)
}

func TestCastNullOnlyAffectsEmptyStrings(t *testing.T) {
	data := tree.MapOf("a", tree.String(""), "b", tree.String("0"), "c", tree.List{})
	got, err := nt2.Cast(data, nt2.Schema{Null: []string{"/a", "/b", "/c"}}, nt2.JSONTypes())
	require.NoError(t, err)
	requireTreeEqual(t, tree.MapOf("a", tree.Null{}, "b", tree.String("0"), "c", tree.List{}), got)
}

func TestCastLaterQueriesSeeEarlierResults(t *testing.T) {
	data := tree.MapOf("a", tree.String(""), "b", tree.String("1"))
	schema := nt2.Schema{
		Null:    []string{"/a"},
		Boolean: []string{"/a", "/b"},
		Number:  []string{"/b"},
		Date:    []string{"/b"},
	}
	got, err := nt2.Cast(data, schema, nt2.JSONTypes())
	require.NoError(t, err)
	requireTreeEqual(t, tree.MapOf("a", tree.Null{}, "b", tree.Bool(true)), got)
}

func TestCastMalformedQuery(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Name: "test", Output: &buf, Level: hclog.Warn})

	data := tree.MapOf("a", tree.String("1"), "b", tree.String("2"))
	schema := nt2.Schema{Number: []string{"a.[", "/b", "/missing"}}

	got, err := nt2.Cast(data, schema, nt2.JSONTypes(), nt2.WithLogger(logger))
	require.NoError(t, err)
	requireTreeEqual(t, tree.MapOf("a", tree.String("1"), "b", tree.Int(2)), got)

	assert.Contains(t, buf.String(), "skipping path query")
	assert.Contains(t, buf.String(), "a.[")
	assert.NotContains(t, buf.String(), "/missing")
}

func TestCastErrorNamesPath(t *testing.T) {
	_, err := nt2.Cast(people(), nt2.Schema{Number: []string{"/People/name"}}, nt2.JSONTypes())
	require.Error(t, err)
	require.ErrorIs(t, err, nt2.ErrUnrecognizedNumber)
	assert.True(t, strings.HasSuffix(err.Error(), ": /People/0/name"), err.Error())

	var ce *nt2.CastError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, pathquery.Path{pathquery.Key("People"), pathquery.Index(0), pathquery.Key("name")}, ce.Path)

	_, err = nt2.Cast(people(), nt2.Schema{Boolean: []string{"/People/1/age"}}, nt2.JSONTypes())
	require.ErrorIs(t, err, nt2.ErrUnrecognizedBoolean)
	assert.True(t, strings.HasSuffix(err.Error(), ": /People/1/age"), err.Error())

	_, err = nt2.Cast(people(), nt2.Schema{Date: []string{"/People/0/active"}}, nt2.JSONTypes())
	require.ErrorIs(t, err, nt2.ErrUnrecognizedDateTime)
}

func TestCastHintedStrings(t *testing.T) {
	data := tree.MapOf("n", tree.Quoted{Value: "5", Style: '"'}, "b", tree.Boxed{Value: tree.Int(1), Source: "1"})
	got, err := nt2.Cast(data, nt2.Schema{Number: []string{"/n"}, Boolean: []string{"/b"}}, nt2.JSONTypes())
	require.NoError(t, err)
	requireTreeEqual(t, tree.MapOf("n", tree.Int(5), "b", tree.Int(1)), got)
}
