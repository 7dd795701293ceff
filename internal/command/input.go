package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/cli"

	"github.com/ConradIrwin/nt2-go"
	"github.com/ConradIrwin/nt2-go/format"
)

const stdinName = "-"

// eachInput calls fn with the contents of every named file, or of stdin when
// no files are named. It stops at the first error, which is reported on ui.
func eachInput(ui cli.Ui, paths []string, stdin io.Reader, fn func(data []byte) (string, error)) int {
	if len(paths) == 0 {
		paths = []string{stdinName}
	}
	for _, p := range paths {
		var data []byte
		var err error
		if p == stdinName {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(p)
		}
		if err != nil {
			ui.Error(fmt.Sprintf("Error reading input: %s", err))
			return 1
		}

		out, err := fn(data)
		if err != nil {
			name := p
			if p == stdinName {
				name = "<stdin>"
			}
			ui.Error(fmt.Sprintf("%s: %s", name, err))
			return 1
		}
		ui.Output(strings.TrimSuffix(out, "\n"))
	}
	return 0
}

// loadSchemas reads and merges schema files in order. A file is read as
// JSON, YAML or TOML when its extension says so, and as NestedText otherwise.
// Every file that cannot be read or decoded is reported in the returned error.
func loadSchemas(paths []string) (nt2.Schema, error) {
	var merged nt2.Schema
	var result *multierror.Error
	for _, p := range paths {
		s, err := loadSchema(p)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", p, err))
			continue
		}
		merged = merged.Merge(s)
	}
	return merged, result.ErrorOrNil()
}

func loadSchema(path string) (nt2.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nt2.Schema{}, err
	}
	codec, err := format.Lookup(format.FromPath(path))
	if err != nil {
		return nt2.Schema{}, err
	}
	n, err := codec.Decode(data)
	if err != nil {
		return nt2.Schema{}, err
	}
	return nt2.DecodeSchema(n)
}
