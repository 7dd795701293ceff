// Command nt2 converts between NestedText and JSON, YAML or TOML.
//
// Installed under the name nt2json, nt2yaml, nt2toml, json2nt, yaml2nt or
// toml2nt, it runs the matching subcommand directly.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/cli"

	"github.com/ConradIrwin/nt2-go/internal/command"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args))
}

func run(argv []string) int {
	level := hclog.LevelFromString(os.Getenv("NT2_LOG_LEVEL"))
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "nt2",
		Level:  level,
		Output: os.Stderr,
		Color:  hclog.AutoColor,
	})

	var ui cli.Ui = &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		ui = &cli.ColoredUi{
			OutputColor: cli.UiColorNone,
			InfoColor:   cli.UiColorNone,
			ErrorColor:  cli.UiColorRed,
			WarnColor:   cli.UiColorYellow,
			Ui:          ui,
		}
	}

	args := argv[1:]
	if sub, ok := command.Multicall(filepath.Base(argv[0])); ok {
		args = append(sub, args...)
	}

	c := &cli.CLI{
		Name:         "nt2",
		Version:      version,
		Args:         args,
		Commands:     command.Commands(ui, logger),
		Autocomplete: true,
		HelpWriter:   os.Stdout,
		ErrorWriter:  os.Stderr,
	}
	status, err := c.Run()
	if err != nil {
		ui.Error(fmt.Sprintf("Error executing CLI: %s", err))
		return 1
	}
	return status
}
