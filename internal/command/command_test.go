package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConradIrwin/nt2-go/format"
	"github.com/ConradIrwin/nt2-go/tree"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestCommands_noTabs(t *testing.T) {
	for name, factory := range Commands(cli.NewMockUi(), hclog.NewNullLogger()) {
		c, err := factory()
		require.NoError(t, err)
		if strings.ContainsRune(c.Help(), '\t') {
			t.Fatalf("%s: help has tabs", name)
		}
		assert.NotEmpty(t, c.Synopsis(), name)
	}
}

func TestMulticall(t *testing.T) {
	tests := map[string][]string{
		"nt2json":     {"to", "json"},
		"nt2yaml":     {"to", "yaml"},
		"nt2toml.exe": {"to", "toml"},
		"json2nt":     {"from", "json"},
		"YAML2NT":     {"from", "yaml"},
		"toml2nt":     {"from", "toml"},
	}
	for name, want := range tests {
		got, ok := Multicall(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := Multicall("nt2")
	assert.False(t, ok)
}

func TestToJSON(t *testing.T) {
	ui := cli.NewMockUi()
	c := newTo(ui, hclog.NewNullLogger(), format.JSON)
	c.stdin = strings.NewReader("name: Ada\nage: 36\nactive: yes\nnickname:\n")

	code := c.Run([]string{"-number", "age", "-b", "/active", "-n", "nickname"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Equal(t, `{
  "name": "Ada",
  "age": 36,
  "active": true,
  "nickname": null
}
`, ui.OutputWriter.String())
}

func TestToJSONHasNoDateFlag(t *testing.T) {
	c := newTo(cli.NewMockUi(), hclog.NewNullLogger(), format.JSON)
	c.flags.SetOutput(&strings.Builder{})
	assert.Equal(t, 1, c.Run([]string{"-date", "/born"}))
}

func TestToSchemaFiles(t *testing.T) {
	dir := t.TempDir()
	numbers := writeFile(t, dir, "numbers.nt", "number:\n  - /People/*/age\n")
	dates := writeFile(t, dir, "dates.nt", "date: People.born\n")
	input := writeFile(t, dir, "people.nt", "People:\n  -\n    name: Ada\n    age: 36\n    born: 1815-12-10\n")

	ui := cli.NewMockUi()
	c := newTo(ui, hclog.NewNullLogger(), format.YAML)
	code := c.Run([]string{"-s", numbers, "-schema", dates, "-boolean", "/People/*/missing", input, input})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	docs := strings.SplitAfter(ui.OutputWriter.String(), "born: 1815-12-10\n")
	require.Len(t, docs, 3)
	assert.Empty(t, docs[2])

	yaml, err := format.Lookup(format.YAML)
	require.NoError(t, err)
	n, err := yaml.Decode([]byte(docs[0]))
	require.NoError(t, err)
	people, ok := n.(*tree.Map).Get("People")
	require.True(t, ok)
	person := people.(tree.List)[0].(*tree.Map)
	age, _ := person.Get("age")
	born, _ := person.Get("born")
	assert.Equal(t, tree.Int(36), tree.Plain(age))
	assert.Equal(t, tree.Date{Year: 1815, Month: 12, Day: 10}, tree.Plain(born))
}

func TestToJSONIgnoresSchemaDates(t *testing.T) {
	schema := writeFile(t, t.TempDir(), "schema.nt", "date:\n  - /born\n  - /when\nnumber: /n\n")

	ui := cli.NewMockUi()
	c := newTo(ui, hclog.NewNullLogger(), format.JSON)
	c.stdin = strings.NewReader("born: 20200101\nwhen: someday\nn: 2\n")
	require.Equal(t, 0, c.Run([]string{"-s", schema}), ui.ErrorWriter.String())
	assert.Equal(t, `{
  "born": "20200101",
  "when": "someday",
  "n": 2
}
`, ui.OutputWriter.String())
}

func TestToSchemaFileFormats(t *testing.T) {
	dir := t.TempDir()
	numbers := writeFile(t, dir, "numbers.json", `{"number": ["/a"], "boolean": "/b"}`)
	nulls := writeFile(t, dir, "nulls.yaml", "null:\n  - /c\n")

	ui := cli.NewMockUi()
	c := newTo(ui, hclog.NewNullLogger(), format.JSON)
	c.stdin = strings.NewReader("a: 1\nb: true\nc:\n")
	require.Equal(t, 0, c.Run([]string{"-s", numbers, "-s", nulls}), ui.ErrorWriter.String())
	assert.Equal(t, `{
  "a": 1,
  "b": true,
  "c": null
}
`, ui.OutputWriter.String())
}

func TestToSchemaFileErrors(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.nt", "colour: /x\n")
	missing := filepath.Join(dir, "missing.nt")

	ui := cli.NewMockUi()
	c := newTo(ui, hclog.NewNullLogger(), format.JSON)
	c.stdin = strings.NewReader("a: 1\n")
	assert.Equal(t, 1, c.Run([]string{"-s", broken, "-s", missing}))
	assert.Contains(t, ui.ErrorWriter.String(), "2 errors occurred")
	assert.Contains(t, ui.ErrorWriter.String(), "broken.nt")
	assert.Contains(t, ui.ErrorWriter.String(), "missing.nt")
	assert.Empty(t, ui.OutputWriter.String())
}

func TestToCastError(t *testing.T) {
	ui := cli.NewMockUi()
	c := newTo(ui, hclog.NewNullLogger(), format.JSON)
	c.stdin = strings.NewReader("age: old\n")
	assert.Equal(t, 1, c.Run([]string{"-i", "age"}))
	assert.Contains(t, ui.ErrorWriter.String(), "<stdin>: ")
	assert.Contains(t, ui.ErrorWriter.String(), "doesn't look like a number: /age")
}

func TestToInvalidNestedText(t *testing.T) {
	ui := cli.NewMockUi()
	c := newTo(ui, hclog.NewNullLogger(), format.JSON)
	c.stdin = strings.NewReader("a: 1\n b: 2\n")
	assert.Equal(t, 1, c.Run(nil))
	assert.Contains(t, ui.ErrorWriter.String(), "2: ")
}

func TestFromJSON(t *testing.T) {
	ui := cli.NewMockUi()
	c := newFrom(ui, hclog.NewNullLogger(), format.JSON)
	c.stdin = strings.NewReader(`{"a": 1, "b": [true, null], "c": 1.5, "d": "two\nlines"}`)

	require.Equal(t, 0, c.Run([]string{"-"}), ui.ErrorWriter.String())
	assert.Equal(t, "a: 1\nb:\n  - True\n  -\nc: 1.5\nd:\n  > two\n  > lines\n", ui.OutputWriter.String())
}

func TestFromToSchema(t *testing.T) {
	ui := cli.NewMockUi()
	c := newFrom(ui, hclog.NewNullLogger(), format.JSON)
	c.stdin = strings.NewReader(`{"People": [{"age": 1, "ok": true}, {"age": 2, "ok": false}]}`)

	require.Equal(t, 0, c.Run([]string{"-to-schema"}), ui.ErrorWriter.String())
	g := goldie.New(t)
	g.Assert(t, "from_json_schema", []byte(ui.OutputWriter.String()))
}

func TestFromToSchemaAlreadyGeneral(t *testing.T) {
	ui := cli.NewMockUi()
	c := newFrom(ui, hclog.NewNullLogger(), format.JSON)
	c.stdin = strings.NewReader(`{"age": 1, "name": "x"}`)

	require.Equal(t, 0, c.Run([]string{"-to-schema"}), ui.ErrorWriter.String())
	assert.Equal(t, "number:\n  - /age\n", ui.OutputWriter.String())
}

func TestFromMissingFile(t *testing.T) {
	ui := cli.NewMockUi()
	c := newFrom(ui, hclog.NewNullLogger(), format.YAML)
	assert.Equal(t, 1, c.Run([]string{filepath.Join(t.TempDir(), "nope.yaml")}))
	assert.Contains(t, ui.ErrorWriter.String(), "Error reading input")
}

func TestFromYAMLKeepsStrings(t *testing.T) {
	ui := cli.NewMockUi()
	c := newFrom(ui, hclog.NewNullLogger(), format.YAML)
	c.stdin = strings.NewReader("quoted: \"5\"\nsecret: !vault abc\nborn: 2020-01-01\nratio: 1.50\n")

	require.Equal(t, 0, c.Run(nil), ui.ErrorWriter.String())
	assert.Equal(t, "quoted: 5\nsecret: abc\nborn: 2020-01-01\nratio: 1.5\n", ui.OutputWriter.String())
}
