package nestedtext

import (
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"
)

// TokenKind represents the possible kinds of token in a NestedText document.
type TokenKind int8

// These tokens are yielded from [Tokens].
const (
	endOfFile = TokenKind(iota)
	Comment   = TokenKind(iota)
	Indent
	Outdent
	ListItem
	MapKey
	KeyLine
	StringLine
	Value
	InlineValue
	Error
)

func (k TokenKind) String() string {
	switch k {
	case Comment:
		return "Comment"
	case Indent:
		return "Indent"
	case Outdent:
		return "Outdent"
	case ListItem:
		return "ListItem"
	case MapKey:
		return "MapKey"
	case KeyLine:
		return "KeyLine"
	case StringLine:
		return "StringLine"
	case Value:
		return "Value"
	case InlineValue:
		return "InlineValue"
	case Error:
		return "Error"
	case endOfFile:
		return "EndOfFile"
	default:
		panic("Unknown TokenKind")
	}
}

func (k TokenKind) GoString() string {
	return k.String()
}

type Token struct {
	Kind    TokenKind
	Content string
}

var lineRegexp = regexp.MustCompile("\r\n|\r|\n")

func lines(input string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		lno := 1
		for match := lineRegexp.FindStringIndex(input); match != nil; match = lineRegexp.FindStringIndex(input) {
			if !yield(lno, input[:match[0]]) {
				return
			}
			input = input[match[1]:]
			lno++
		}
		if input != "" {
			yield(lno, input)
		}
	}
}

// cutTag splits rest after a one character line tag such as "-" or ">".
// The tag must be followed by a space or the end of the line.
func cutTag(rest string, tag byte) (string, bool) {
	if len(rest) == 0 || rest[0] != tag {
		return "", false
	}
	if len(rest) == 1 {
		return "", true
	}
	if rest[1] == ' ' {
		return rest[2:], true
	}
	return "", false
}

// splitMapItem finds the key of a "key: value" or "key:" line.
func splitMapItem(rest string) (key, value string, found bool) {
	if i := strings.Index(rest, ": "); i >= 0 {
		return strings.TrimRight(rest[:i], " \t"), rest[i+2:], true
	}
	if k, ok := strings.CutSuffix(rest, ":"); ok {
		return strings.TrimRight(k, " \t"), "", true
	}
	return "", "", false
}

// Tokens iterates over tokens in the input string with their associated
// (1-based) line number.
//
// [Indent] and [Outdent] are always paired correctly. A [ListItem] or a
// [MapKey] may be followed by a [Value] holding the rest of the line; if it is
// not, its value is the indented block that follows, or the empty string.
// Consecutive [KeyLine] and [StringLine] tokens at the same indentation belong
// together.
//
// An [Error] token is yielded for each line that cannot be understood;
// parsers can choose to stop at the first error or keep going.
func Tokens(input string) iter.Seq2[int, Token] {
	return func(yield func(int, Token) bool) {
		stack := []string{""}
		lastLine := 0

		for lno, content := range lines(input) {
			lastLine = lno
			rest := strings.TrimLeft(content, " ")
			indent := content[0 : len(content)-len(rest)]

			if strings.TrimSpace(rest) == "" {
				continue
			}
			if !utf8.ValidString(content) {
				if !yield(lno, Token{Kind: Error, Content: "invalid UTF-8"}) {
					return
				}
				continue
			}
			if comment, found := strings.CutPrefix(rest, "#"); found {
				if !yield(lno, Token{Kind: Comment, Content: comment}) {
					return
				}
				continue
			}
			if strings.HasPrefix(rest, "\t") {
				if !yield(lno, Token{Kind: Error, Content: "invalid character in indentation: tab"}) {
					return
				}
				continue
			}

			dedented := false
			for len(indent) < len(stack[len(stack)-1]) {
				stack = stack[:len(stack)-1]
				dedented = true
				if !yield(lno, Token{Kind: Outdent}) {
					return
				}
			}
			if indent != stack[len(stack)-1] {
				if dedented {
					if !yield(lno, Token{Kind: Error, Content: "invalid indentation, partial dedent"}) {
						return
					}
					continue
				}
				stack = append(stack, indent)
				if !yield(lno, Token{Kind: Indent, Content: indent}) {
					return
				}
			}

			if value, found := cutTag(rest, '-'); found {
				if !yield(lno, Token{Kind: ListItem}) {
					return
				}
				if value != "" {
					if !yield(lno, Token{Kind: Value, Content: value}) {
						return
					}
				}
				continue
			}
			if text, found := cutTag(rest, '>'); found {
				if !yield(lno, Token{Kind: StringLine, Content: text}) {
					return
				}
				continue
			}
			if key, found := cutTag(rest, ':'); found {
				if !yield(lno, Token{Kind: KeyLine, Content: key}) {
					return
				}
				continue
			}
			if rest[0] == '[' || rest[0] == '{' {
				if !yield(lno, Token{Kind: InlineValue, Content: strings.TrimRight(rest, " \t")}) {
					return
				}
				continue
			}
			if key, value, found := splitMapItem(rest); found {
				if !yield(lno, Token{Kind: MapKey, Content: key}) {
					return
				}
				if value != "" {
					if !yield(lno, Token{Kind: Value, Content: value}) {
						return
					}
				}
				continue
			}
			if !yield(lno, Token{Kind: Error, Content: "unrecognized line"}) {
				return
			}
		}

		for len(stack) > 1 {
			stack = stack[:len(stack)-1]
			if !yield(lastLine, Token{Kind: Outdent}) {
				return
			}
		}
	}
}
