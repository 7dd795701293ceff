package command

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/ConradIrwin/nt2-go"
	"github.com/ConradIrwin/nt2-go/format"
	"github.com/ConradIrwin/nt2-go/nestedtext"
	"github.com/ConradIrwin/nt2-go/tree"
)

const schemaGuessHeader = `
# Above is a schema that literally matches the current data.
# Below, for your review, is a guess at a better schema.

`

// fromCmd converts a typed format to NestedText, or reports a schema for it.
type fromCmd struct {
	UI     cli.Ui
	logger hclog.Logger
	source format.Format
	stdin  io.Reader
	flags  *flag.FlagSet
	help   string

	toSchema bool
}

func newFrom(ui cli.Ui, logger hclog.Logger, source format.Format) *fromCmd {
	c := &fromCmd{UI: ui, logger: logger, source: source, stdin: os.Stdin}
	c.init()
	return c
}

func (c *fromCmd) init() {
	c.flags = flag.NewFlagSet("", flag.ContinueOnError)
	c.flags.BoolVar(&c.toSchema, "to-schema", false,
		"Print a schema that would cast the NestedText output back to the "+
			"input's types instead of the NestedText itself.")
	c.help = usage(fmt.Sprintf(fromHelp, c.source), c.flags)
}

func (c *fromCmd) Run(args []string) int {
	if err := c.flags.Parse(args); err != nil {
		return 1
	}

	codec, err := format.Lookup(c.source)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	return eachInput(c.UI, c.flags.Args(), c.stdin, func(data []byte) (string, error) {
		doc, err := codec.Decode(data)
		if err != nil {
			return "", err
		}
		if c.toSchema {
			return c.schemaReport(doc)
		}
		out, err := nestedtext.Encode(nt2.StringTypes().Normalize(doc))
		return string(out), err
	})
}

// schemaReport renders the literal schema of doc, followed by a commented
// out generalization of it when that is shorter.
func (c *fromCmd) schemaReport(doc tree.Node) (string, error) {
	literal, err := nt2.InferSchema(doc)
	if err != nil {
		return "", err
	}
	out, err := nestedtext.Encode(literal.Tree())
	if err != nil {
		return "", err
	}

	general, smaller := nt2.GeneralizeSchema(literal)
	c.logger.Debug("inferred schema", "queries", literal.Len(), "generalized", general.Len())
	if !smaller {
		return string(out), nil
	}
	guess, err := nestedtext.Encode(general.Tree())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Write(out)
	b.WriteString(schemaGuessHeader)
	for _, line := range strings.SplitAfter(string(guess), "\n") {
		if strings.TrimSpace(line) != "" {
			b.WriteString("# ")
		}
		b.WriteString(line)
	}
	return b.String(), nil
}

func (c *fromCmd) Synopsis() string {
	return fmt.Sprintf("Convert %s to NestedText", strings.ToUpper(string(c.source)))
}

func (c *fromCmd) Help() string {
	return c.help
}

const fromHelp = `
Usage: nt2 from %[1]s [options] [FILE...]

  Reads %[1]s from each FILE (or stdin) and writes it as NestedText, in
  which every scalar is a string.

  With -to-schema, prints a schema instead. Passing that schema to
  "nt2 to %[1]s" restores the types that NestedText cannot express.
`
