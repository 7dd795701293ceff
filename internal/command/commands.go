// Package command implements the nt2 subcommands.
package command

import (
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/ConradIrwin/nt2-go/format"
)

// typed lists the formats nt2 converts NestedText to and from.
var typed = []format.Format{format.JSON, format.YAML, format.TOML}

// Commands returns the factories for every subcommand, keyed the way
// cli.CLI expects.
func Commands(ui cli.Ui, logger hclog.Logger) map[string]cli.CommandFactory {
	cmds := map[string]cli.CommandFactory{
		"to": func() (cli.Command, error) {
			return &parentCmd{synopsis: "Convert NestedText to a typed format", help: toParentHelp}, nil
		},
		"from": func() (cli.Command, error) {
			return &parentCmd{synopsis: "Convert a typed format to NestedText", help: fromParentHelp}, nil
		},
	}
	for _, f := range typed {
		cmds["to "+string(f)] = func() (cli.Command, error) {
			return newTo(ui, logger.Named("to-"+string(f)), f), nil
		}
		cmds["from "+string(f)] = func() (cli.Command, error) {
			return newFrom(ui, logger.Named("from-"+string(f)), f), nil
		}
	}
	return cmds
}

// Multicall maps a binary name such as "nt2json" or "yaml2nt" to the
// subcommand it stands for.
func Multicall(name string) ([]string, bool) {
	name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	for _, f := range typed {
		switch name {
		case "nt2" + string(f):
			return []string{"to", string(f)}, true
		case string(f) + "2nt":
			return []string{"from", string(f)}, true
		}
	}
	return nil, false
}

type parentCmd struct {
	synopsis string
	help     string
}

func (c *parentCmd) Run(args []string) int {
	return cli.RunResultHelp
}

func (c *parentCmd) Synopsis() string {
	return c.synopsis
}

func (c *parentCmd) Help() string {
	return strings.TrimSpace(c.help)
}

const toParentHelp = `
Usage: nt2 to <format> [options] [FILE...]

  Converts NestedText to JSON, YAML or TOML, casting the values selected by
  path queries to booleans, numbers, nulls and dates.
`

const fromParentHelp = `
Usage: nt2 from <format> [options] [FILE...]

  Converts JSON, YAML or TOML to NestedText, or infers a schema that would
  convert it back.
`
