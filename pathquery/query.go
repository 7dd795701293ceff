// Package pathquery finds and replaces nodes of a [tree.Node] document by path.
//
// Queries come in two notations.
//
// Slash notation is a JSON Pointer (RFC 6901) and always starts with "/":
//
//	/People/0/name
//	/config/a~1b      ; the key "a/b"
//
// Dot notation is everything else:
//
//	People[0].name
//	People."is a wizard"
//	'odd.key'.value
//	a\.b              ; the key "a.b"
//
// Both notations understand two wildcards: a "*" segment matches every child
// of a map or list, and a "**" segment matches a node together with all of its
// descendants. "[*]" is the dot notation spelling of "*" after a name.
//
// A name applied to a list is applied to every element of the list, so
// "/People/name" matches the name of each person. In slash notation a segment
// made only of digits addresses a list element when applied to a list, and a
// key when applied to a map.
//
// The empty query matches the root.
package pathquery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/pointerstructure"
)

var (
	// ErrMalformedPathQuery is returned for queries that cannot be parsed,
	// and for queries whose explicit list index meets a map.
	ErrMalformedPathQuery = errors.New("malformed path query")

	// ErrPathNotFound is returned by [Document.Set] and [Document.Get] when a
	// path no longer addresses a node.
	ErrPathNotFound = errors.New("path not found")

	// ErrUnstorable is returned by [Document.Set] for time-of-day values,
	// which documents cannot hold.
	ErrUnstorable = errors.New("value cannot be stored in a document")
)

type stepKind int8

const (
	stepName = stepKind(iota)
	stepIndex
	stepChildren
	stepDescendants
)

type step struct {
	kind  stepKind
	name  string
	index int // for stepIndex, and for numeric stepName; -1 otherwise
}

// A Query is a parsed path query.
type Query struct {
	raw   string
	steps []step
}

// String returns the query as it was written.
func (q *Query) String() string {
	return q.raw
}

func malformed(query, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrMalformedPathQuery, query, fmt.Sprintf(format, args...))
}

// Parse parses a query in slash or dot notation.
func Parse(query string) (*Query, error) {
	if strings.HasPrefix(query, "/") {
		return parseSlash(query)
	}
	return parseDot(query)
}

func parseSlash(query string) (*Query, error) {
	ptr, err := pointerstructure.Parse(query)
	if err != nil {
		return nil, malformed(query, "%v", err)
	}
	q := &Query{raw: query}
	for _, part := range ptr.Parts {
		switch part {
		case "*":
			q.steps = append(q.steps, step{kind: stepChildren, index: -1})
		case "**":
			q.steps = append(q.steps, step{kind: stepDescendants, index: -1})
		default:
			q.steps = append(q.steps, step{kind: stepName, name: part, index: digits(part)})
		}
	}
	return q, nil
}

// digits returns the value of s if it is a non-empty run of ASCII digits,
// or -1.
func digits(s string) int {
	if s == "" {
		return -1
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return -1
		}
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return i
}

func parseDot(query string) (*Query, error) {
	q := &Query{raw: query}
	if query == "" {
		return q, nil
	}
	pos := 0
	for {
		if pos >= len(query) {
			return nil, malformed(query, "missing segment at end")
		}

		switch c := query[pos]; {
		case c == '[':
			if pos != 0 {
				return nil, malformed(query, "unexpected [ at %d", pos)
			}
		case c == '"' || c == '\'':
			end := pos + 1
			var name strings.Builder
			closed := false
			for end < len(query) {
				if query[end] == '\\' && end+1 < len(query) {
					name.WriteByte(query[end+1])
					end += 2
					continue
				}
				if query[end] == c {
					closed = true
					break
				}
				name.WriteByte(query[end])
				end++
			}
			if !closed {
				return nil, malformed(query, "unclosed quote at %d", pos)
			}
			q.steps = append(q.steps, step{kind: stepName, name: name.String(), index: -1})
			pos = end + 1
		default:
			var name strings.Builder
			end := pos
			for end < len(query) && query[end] != '.' && query[end] != '[' {
				if query[end] == '\\' {
					if end+1 >= len(query) {
						return nil, malformed(query, "trailing backslash")
					}
					end++
				}
				name.WriteByte(query[end])
				end++
			}
			raw := query[pos:end]
			switch {
			case raw == "":
				return nil, malformed(query, "empty segment at %d", pos)
			case raw == "*":
				q.steps = append(q.steps, step{kind: stepChildren, index: -1})
			case raw == "**":
				q.steps = append(q.steps, step{kind: stepDescendants, index: -1})
			default:
				q.steps = append(q.steps, step{kind: stepName, name: name.String(), index: digits(raw)})
			}
			pos = end
		}

		for pos < len(query) && query[pos] == '[' {
			end := strings.IndexByte(query[pos:], ']')
			if end < 0 {
				return nil, malformed(query, "unclosed [ at %d", pos)
			}
			inner := strings.TrimSpace(query[pos+1 : pos+end])
			switch i := digits(inner); {
			case inner == "*":
				q.steps = append(q.steps, step{kind: stepChildren, index: -1})
			case i >= 0:
				q.steps = append(q.steps, step{kind: stepIndex, index: i})
			default:
				return nil, malformed(query, "invalid index [%s]", inner)
			}
			pos += end + 1
		}

		if pos == len(query) {
			return q, nil
		}
		if query[pos] != '.' {
			return nil, malformed(query, "unexpected %q at %d", query[pos], pos)
		}
		pos++
	}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func (s step) isIndex() bool {
	return s.kind == stepIndex || s.kind == stepName && s.index >= 0
}

// StripIndexes rewrites query in slash notation without its list index
// segments, so that it matches the same keys in every element of each list.
// An index that is not followed by a key becomes "*" instead. Numeric
// segments are assumed to be indexes.
func StripIndexes(query string) (string, error) {
	q, err := Parse(query)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, s := range q.steps {
		switch {
		case s.isIndex() && i+1 < len(q.steps) && q.steps[i+1].kind == stepName && !q.steps[i+1].isIndex():
			continue
		case s.isIndex(), s.kind == stepChildren:
			b.WriteString("/*")
		case s.kind == stepDescendants:
			b.WriteString("/**")
		default:
			b.WriteString("/" + pointerEscaper.Replace(s.name))
		}
	}
	return b.String(), nil
}
