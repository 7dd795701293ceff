// Package format reads and writes documents in the formats nt2 converts
// between: NestedText, JSON, YAML and TOML.
//
// Typed decoders keep formatting hints in the tree (see the hinted scalars of
// the tree package). Encoders expect a tree that has been normalized for
// their format, but reduce hinted scalars themselves.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ConradIrwin/nt2-go/nestedtext"
	"github.com/ConradIrwin/nt2-go/tree"
)

// Format names a document format.
type Format string

const (
	NestedText Format = "nestedtext"
	JSON       Format = "json"
	YAML       Format = "yaml"
	TOML       Format = "toml"
)

// A Codec converts between a format's bytes and a tree.
type Codec interface {
	Decode(data []byte) (tree.Node, error)
	Encode(n tree.Node) ([]byte, error)
}

// ErrMissingOptionalSupport is matched by every *MissingOptionalSupportError.
var ErrMissingOptionalSupport = errors.New("missing optional support")

// MissingOptionalSupportError is returned by [Lookup] for formats that were
// left out of this build.
type MissingOptionalSupportError struct {
	Format  Format
	Feature string
}

func (e *MissingOptionalSupportError) Error() string {
	return fmt.Sprintf("%s support for nt2 is not installed; rebuild without the %q build tag",
		strings.ToUpper(string(e.Format)), "no"+e.Feature)
}

func (e *MissingOptionalSupportError) Is(target error) bool {
	return target == ErrMissingOptionalSupport
}

var codecs = map[Format]func() (Codec, error){
	NestedText: func() (Codec, error) { return nestedTextCodec{}, nil },
	JSON:       func() (Codec, error) { return jsonCodec{}, nil },
	YAML:       func() (Codec, error) { return yamlCodec{}, nil },
}

// register is only called from init functions.
func register(f Format, c func() (Codec, error)) {
	codecs[f] = c
}

// Lookup returns the codec for f.
func Lookup(f Format) (Codec, error) {
	c, ok := codecs[f]
	if !ok {
		return nil, fmt.Errorf("unknown format: %q", f)
	}
	return c()
}

// Parse reads a format name as written on a command line.
func Parse(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "nt", "nestedtext":
		return NestedText, nil
	case "json", "jsonl":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return "", fmt.Errorf("unknown format: %q", name)
}

// FromPath guesses the format of a file from its extension. Anything
// unrecognized is assumed to be NestedText.
func FromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, err := Parse(ext); err == nil {
		return f
	}
	return NestedText
}

type nestedTextCodec struct{}

func (nestedTextCodec) Decode(data []byte) (tree.Node, error) {
	return nestedtext.Decode(data)
}

func (nestedTextCodec) Encode(n tree.Node) ([]byte, error) {
	return nestedtext.Encode(n)
}
