package nestedtext

import (
	"fmt"
	"strings"

	"github.com/ConradIrwin/nt2-go/tree"
)

// needsMultiline reports whether s must be written as "> " string lines.
func needsMultiline(s string) bool {
	return strings.ContainsAny(s, "\n\r") || s != strings.TrimSpace(s)
}

// needsKeyLines reports whether k must be written as ": " key lines.
func needsKeyLines(k string) bool {
	if k == "" || strings.ContainsAny(k, "\n\r") || k != strings.TrimSpace(k) {
		return true
	}
	if strings.ContainsRune("-#>:[{", rune(k[0])) {
		return true
	}
	return strings.Contains(k, ": ") || strings.HasSuffix(k, ":")
}

func stringLines(s, indent string) string {
	strs := []string{}
	for _, line := range lineRegexp.Split(s, -1) {
		if line == "" {
			strs = append(strs, indent+">")
		} else {
			strs = append(strs, indent+"> "+line)
		}
	}
	return strings.Join(strs, "\n")
}

// marshalValue renders the part of an item that follows "-" or "key:". Inline
// values start with a space; block values start with a newline.
func marshalValue(v tree.Node, indent string) (string, error) {
	switch v := v.(type) {
	case tree.String:
		s := string(v)
		if s == "" {
			return "", nil
		}
		if needsMultiline(s) {
			return "\n" + stringLines(s, indent+"  "), nil
		}
		return " " + s, nil
	case *tree.Map, tree.List:
		section, err := marshalSection(v, indent+"  ")
		if err != nil {
			return "", err
		}
		return "\n" + section, nil
	}
	return "", unsupported(v)
}

func unsupported(v tree.Node) error {
	return fmt.Errorf("unsupported type: %T (only strings, lists and maps can be written)", v)
}

func marshalSection(v tree.Node, indent string) (string, error) {
	switch v := v.(type) {
	case *tree.Map:
		if v.Len() == 0 {
			return indent + "{}", nil
		}
		strs := []string{}
		for k, e := range v.All() {
			if !needsKeyLines(k) {
				val, err := marshalValue(e, indent)
				if err != nil {
					return "", err
				}
				strs = append(strs, indent+k+":"+val)
				continue
			}
			keyLines := []string{}
			for _, line := range lineRegexp.Split(k, -1) {
				if line == "" {
					keyLines = append(keyLines, indent+":")
				} else {
					keyLines = append(keyLines, indent+": "+line)
				}
			}
			var val string
			switch e := e.(type) {
			case tree.String:
				val = stringLines(string(e), indent+"  ")
			case *tree.Map, tree.List:
				section, err := marshalSection(e, indent+"  ")
				if err != nil {
					return "", err
				}
				val = section
			default:
				return "", unsupported(e)
			}
			strs = append(strs, strings.Join(keyLines, "\n")+"\n"+val)
		}
		return strings.Join(strs, "\n"), nil
	case tree.List:
		if len(v) == 0 {
			return indent + "[]", nil
		}
		strs := []string{}
		for _, e := range v {
			val, err := marshalValue(e, indent)
			if err != nil {
				return "", err
			}
			strs = append(strs, indent+"-"+val)
		}
		return strings.Join(strs, "\n"), nil
	case tree.String:
		return stringLines(string(v), indent), nil
	}
	return "", unsupported(v)
}

// Marshal converts a tree to a NestedText document. Scalars other than
// tree.String are rejected; normalize the tree to strings first.
func Marshal(v tree.Node) ([]byte, error) {
	str, err := marshalSection(v, "")
	if err != nil {
		return nil, err
	}
	return []byte(str + "\n"), nil
}

// Encode is an alias for [Marshal].
func Encode(v tree.Node) ([]byte, error) {
	return Marshal(v)
}
