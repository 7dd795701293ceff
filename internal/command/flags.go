package command

import (
	"bytes"
	"flag"
	"fmt"
	"strings"
)

// appendSliceValue implements flag.Value by appending every occurrence of
// the flag to a slice.
type appendSliceValue []string

func (s *appendSliceValue) String() string {
	return strings.Join(*s, ",")
}

func (s *appendSliceValue) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// sliceVar registers one repeatable flag under several names.
func sliceVar(fs *flag.FlagSet, p *[]string, usage string, names ...string) {
	for i, name := range names {
		u := usage
		if i > 0 {
			u = fmt.Sprintf("Alias for -%s.", names[0])
		}
		fs.Var((*appendSliceValue)(p), name, u)
	}
}

// usage appends the flag defaults of fs to a help text.
func usage(text string, fs *flag.FlagSet) string {
	var b bytes.Buffer
	fs.SetOutput(&b)
	fs.PrintDefaults()
	fs.SetOutput(nil)

	out := strings.TrimSpace(text) + "\n"
	if b.Len() > 0 {
		defaults := strings.ReplaceAll(b.String(), "\t", "")
		out += "\nOptions:\n\n" + strings.TrimRight(defaults, "\n") + "\n"
	}
	return out
}
