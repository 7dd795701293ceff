package nestedtext

import (
	"fmt"
	"iter"
	"strings"

	"github.com/ConradIrwin/nt2-go/tree"
)

type decoder struct {
	next     func() (int, Token, bool)
	lastLine int
	peeked   bool
	peekLno  int
	peekTok  Token
}

func (d *decoder) read() (int, Token) {
	if d.peeked {
		d.peeked = false
		return d.peekLno, d.peekTok
	}
	for {
		lno, token, valid := d.next()
		if !valid {
			return d.lastLine, Token{Kind: endOfFile}
		}
		if token.Kind == Comment {
			continue
		}
		d.lastLine = lno
		return lno, token
	}
}

func (d *decoder) peek() (int, Token) {
	if !d.peeked {
		d.peekLno, d.peekTok = d.read()
		d.peeked = true
	}
	return d.peekLno, d.peekTok
}

// Decode parses a NestedText document. The result only contains *tree.Map,
// tree.List and tree.String nodes. An empty document decodes to an empty map.
func Decode(data []byte) (tree.Node, error) {
	next, done := iter.Pull2(Tokens(string(data)))
	defer done()
	d := &decoder{next: next}

	lno, token := d.peek()
	switch token.Kind {
	case endOfFile:
		return tree.NewMap(), nil
	case Indent:
		return nil, fmt.Errorf("%d: top-level content must start in column 1", lno)
	}
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	if lno, token := d.read(); token.Kind != endOfFile {
		return nil, unexpected(lno, token, "end of document")
	}
	return v, nil
}

// Unmarshal decodes data into *n.
func Unmarshal(data []byte, n *tree.Node) error {
	if n == nil {
		return fmt.Errorf("invalid target, must be a non-nil pointer")
	}
	v, err := Decode(data)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

func unexpected(lno int, token Token, expected string) error {
	if token.Kind == Error {
		return fmt.Errorf("%d: %s", lno, token.Content)
	}
	if token.Kind == Indent {
		return fmt.Errorf("%d: invalid indentation", lno)
	}
	return fmt.Errorf("%d: unexpected %v, expected %s", lno, token.Kind, expected)
}

func (d *decoder) value() (tree.Node, error) {
	lno, token := d.peek()
	switch token.Kind {
	case ListItem:
		return d.list()
	case MapKey, KeyLine:
		return d.dict()
	case StringLine:
		return d.multiline()
	case InlineValue:
		d.read()
		v, err := parseInline(token.Content)
		if err != nil {
			return nil, fmt.Errorf("%d: %w", lno, err)
		}
		return v, nil
	}
	return nil, unexpected(lno, token, "value")
}

// itemValue reads what follows a list item or a dict key: the rest of the
// line, an indented block, or nothing at all.
func (d *decoder) itemValue() (tree.Node, error) {
	_, token := d.peek()
	switch token.Kind {
	case Value:
		d.read()
		if lno, token := d.peek(); token.Kind == Indent {
			return nil, unexpected(lno, token, "")
		}
		return tree.String(token.Content), nil
	case Indent:
		d.read()
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		if lno, token := d.read(); token.Kind != Outdent {
			return nil, unexpected(lno, token, "end of indented block")
		}
		return v, nil
	}
	return tree.String(""), nil
}

func (d *decoder) list() (tree.Node, error) {
	out := tree.List{}
	for {
		lno, token := d.peek()
		switch token.Kind {
		case ListItem:
			d.read()
			v, err := d.itemValue()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		case Outdent, endOfFile:
			return out, nil
		default:
			return nil, unexpected(lno, token, "list item")
		}
	}
}

func (d *decoder) dict() (tree.Node, error) {
	out := tree.NewMap()
	for {
		lno, token := d.peek()
		var key string
		switch token.Kind {
		case MapKey:
			d.read()
			key = token.Content
		case KeyLine:
			var parts []string
			for token.Kind == KeyLine {
				d.read()
				parts = append(parts, token.Content)
				_, token = d.peek()
			}
			key = strings.Join(parts, "\n")
			if token.Kind == Value {
				return nil, unexpected(lno, token, "indented value")
			}
		case Outdent, endOfFile:
			return out, nil
		default:
			return nil, unexpected(lno, token, "dict item")
		}
		if _, ok := out.Get(key); ok {
			return nil, fmt.Errorf("%d: duplicate key: %s", lno, key)
		}
		v, err := d.itemValue()
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
	}
}

func (d *decoder) multiline() (tree.Node, error) {
	var parts []string
	for {
		lno, token := d.peek()
		switch token.Kind {
		case StringLine:
			d.read()
			parts = append(parts, token.Content)
		case Outdent, endOfFile:
			return tree.String(strings.Join(parts, "\n")), nil
		default:
			return nil, unexpected(lno, token, "string line")
		}
	}
}

type inlineParser struct {
	s   string
	pos int
}

// parseInline parses an inline list such as "[a, [b, c]]" or an inline dict
// such as "{a: 1, b: [x]}".
func parseInline(s string) (tree.Node, error) {
	p := &inlineParser{s: s}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.s) {
		return nil, fmt.Errorf("extra characters after closing delimiter: %q", p.s[p.pos:])
	}
	return v, nil
}

func (p *inlineParser) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t') {
		p.pos++
	}
}

func (p *inlineParser) peek() byte {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return 0
}

func (p *inlineParser) value() (tree.Node, error) {
	p.skipSpace()
	switch p.peek() {
	case '[':
		return p.list()
	case '{':
		return p.dict()
	}
	return nil, fmt.Errorf("expected [ or { at column %d", p.pos+1)
}

// item reads a nested container or a bare string up to one of stops.
func (p *inlineParser) item(stops string) (tree.Node, error) {
	p.skipSpace()
	if c := p.peek(); c == '[' || c == '{' {
		v, err := p.value()
		p.skipSpace()
		return v, err
	}
	s, err := p.text(stops)
	return tree.String(s), err
}

func (p *inlineParser) text(stops string) (string, error) {
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune(stops, rune(p.s[p.pos])) {
		if strings.ContainsRune("[]{}", rune(p.s[p.pos])) {
			return "", fmt.Errorf("unexpected %q at column %d", p.s[p.pos], p.pos+1)
		}
		p.pos++
	}
	return strings.TrimSpace(p.s[start:p.pos]), nil
}

func (p *inlineParser) expect(c byte) error {
	if p.peek() != c {
		if p.pos >= len(p.s) {
			return fmt.Errorf("missing %q", c)
		}
		return fmt.Errorf("expected %q at column %d, found %q", c, p.pos+1, p.s[p.pos])
	}
	p.pos++
	return nil
}

func (p *inlineParser) list() (tree.Node, error) {
	p.pos++
	out := tree.List{}
	if p.peek() == ']' {
		p.pos++
		return out, nil
	}
	for {
		v, err := p.item(",]")
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if p.peek() == ',' {
			p.pos++
			continue
		}
		return out, p.expect(']')
	}
}

func (p *inlineParser) dict() (tree.Node, error) {
	p.pos++
	out := tree.NewMap()
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return out, nil
	}
	for {
		key, err := p.text(":,}")
		if err != nil {
			return nil, err
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		if _, ok := out.Get(key); ok {
			return nil, fmt.Errorf("duplicate key: %s", key)
		}
		v, err := p.item(",}")
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
		if p.peek() == ',' {
			p.pos++
			continue
		}
		return out, p.expect('}')
	}
}
