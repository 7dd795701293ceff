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
)

// toCmd converts NestedText to a typed format, casting the paths named by
// schema files and flags.
type toCmd struct {
	UI     cli.Ui
	logger hclog.Logger
	target format.Format
	stdin  io.Reader
	flags  *flag.FlagSet
	help   string

	schemaFiles []string
	null        []string
	boolean     []string
	number      []string
	date        []string
}

func newTo(ui cli.Ui, logger hclog.Logger, target format.Format) *toCmd {
	c := &toCmd{UI: ui, logger: logger, target: target, stdin: os.Stdin}
	c.init()
	return c
}

func (c *toCmd) init() {
	c.flags = flag.NewFlagSet("", flag.ContinueOnError)
	sliceVar(c.flags, &c.schemaFiles,
		"NestedText schema file with null, boolean, number and date lists of "+
			"path queries. May be given more than once.", "schema", "s")
	if c.target != format.TOML {
		sliceVar(c.flags, &c.null,
			"Path query whose empty strings become null. May be given more than once.",
			"null", "n")
	}
	sliceVar(c.flags, &c.boolean,
		"Path query whose values are booleans. May be given more than once.",
		"boolean", "b")
	sliceVar(c.flags, &c.number,
		"Path query whose values are numbers. May be given more than once.",
		"number", "int", "float", "i", "f")
	if c.target != format.JSON {
		sliceVar(c.flags, &c.date,
			"Path query whose values are dates, times or date-times. May be "+
				"given more than once.", "date", "d")
	}
	c.help = usage(fmt.Sprintf(toHelp, c.target), c.flags)
}

func (c *toCmd) normalizer() *nt2.Normalizer {
	switch c.target {
	case format.YAML:
		return nt2.YAMLTypes()
	case format.TOML:
		return nt2.TOMLTypes()
	}
	return nt2.JSONTypes()
}

func (c *toCmd) Run(args []string) int {
	if err := c.flags.Parse(args); err != nil {
		return 1
	}

	codec, err := format.Lookup(c.target)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	schema, err := loadSchemas(c.schemaFiles)
	if err != nil {
		c.UI.Error(fmt.Sprintf("Error loading schema: %s", err))
		return 1
	}
	schema = schema.Merge(nt2.Schema{
		Null:    c.null,
		Boolean: c.boolean,
		Number:  c.number,
		Date:    c.date,
	})
	// JSON has no dates and TOML has no null, so schema files may not ask
	// for them either.
	switch c.target {
	case format.JSON:
		schema.Date = nil
	case format.TOML:
		schema.Null = nil
	}
	c.logger.Debug("casting", "target", c.target, "queries", schema.Len())

	nz := c.normalizer()
	return eachInput(c.UI, c.flags.Args(), c.stdin, func(data []byte) (string, error) {
		doc, err := nestedtext.Decode(data)
		if err != nil {
			return "", err
		}
		typed, err := nt2.Cast(doc, schema, nz, nt2.WithLogger(c.logger))
		if err != nil {
			return "", err
		}
		out, err := codec.Encode(typed)
		return string(out), err
	})
}

func (c *toCmd) Synopsis() string {
	return fmt.Sprintf("Convert NestedText to %s", strings.ToUpper(string(c.target)))
}

func (c *toCmd) Help() string {
	return c.help
}

const toHelp = `
Usage: nt2 to %[1]s [options] [FILE...]

  Reads NestedText from each FILE (or stdin) and writes it as %[1]s.

  Every value is a string unless a path query in a schema file or a flag
  says otherwise. Queries use slash notation (/People/*/age) or dot
  notation (People.age).

  Example:

      $ nt2 to %[1]s -number People.age -boolean /People/*/active people.nt
`
