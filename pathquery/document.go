package pathquery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ConradIrwin/nt2-go/tree"
)

// A Segment is one step of a [Path]: either a map key or a list index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key returns a map key segment.
func Key(k string) Segment { return Segment{Key: k} }

// Index returns a list index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// A Path addresses exactly one node of a document.
type Path []Segment

// String renders p in slash notation. The root renders as "".
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		if s.IsIndex {
			b.WriteString(strconv.Itoa(s.Index))
		} else {
			b.WriteString(pointerEscaper.Replace(s.Key))
		}
	}
	return b.String()
}

func (p Path) append(s Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, s)
}

// A Match is a node found by a query, and the path at which it was found.
type Match struct {
	Value tree.Node
	Path  Path
}

// A Document wraps a tree so that it can be queried and updated in place.
//
// Paths are resolved from the root on every call, so replacing a node never
// leaves stale references behind: each query sees the effect of every earlier
// [Document.Set].
type Document struct {
	root tree.Node
}

// NewDocument wraps root. The document mutates root's containers in place.
func NewDocument(root tree.Node) *Document {
	if root == nil {
		root = tree.Null{}
	}
	return &Document{root: root}
}

// Root returns the current root node.
func (d *Document) Root() tree.Node {
	return d.root
}

// Resolve returns every node matching query, in document order.
// A query that matches nothing returns no matches and no error.
func (d *Document) Resolve(query string) ([]Match, error) {
	q, err := Parse(query)
	if err != nil {
		return nil, err
	}
	return d.ResolveQuery(q)
}

// ResolveQuery is [Document.Resolve] for an already parsed query.
func (d *Document) ResolveQuery(q *Query) ([]Match, error) {
	current := []Match{{Value: d.root, Path: Path{}}}
	for _, s := range q.steps {
		var next []Match
		for _, m := range current {
			found, err := s.apply(q, m)
			if err != nil {
				return nil, err
			}
			next = append(next, found...)
		}
		current = dedupe(next)
	}
	return current, nil
}

func dedupe(matches []Match) []Match {
	seen := make(map[string]bool, len(matches))
	out := matches[:0]
	for _, m := range matches {
		key := m.Path.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

func (s step) apply(q *Query, m Match) ([]Match, error) {
	switch s.kind {
	case stepName:
		switch v := m.Value.(type) {
		case *tree.Map:
			if child, ok := v.Get(s.name); ok {
				return []Match{{Value: child, Path: m.Path.append(Key(s.name))}}, nil
			}
		case tree.List:
			if s.index >= 0 {
				if s.index < len(v) {
					return []Match{{Value: v[s.index], Path: m.Path.append(Index(s.index))}}, nil
				}
				return nil, nil
			}
			var out []Match
			for i, e := range v {
				if em, ok := e.(*tree.Map); ok {
					if child, ok := em.Get(s.name); ok {
						out = append(out, Match{Value: child, Path: m.Path.append(Index(i)).append(Key(s.name))})
					}
				}
			}
			return out, nil
		}

	case stepIndex:
		switch v := m.Value.(type) {
		case tree.List:
			if s.index < len(v) {
				return []Match{{Value: v[s.index], Path: m.Path.append(Index(s.index))}}, nil
			}
		case *tree.Map:
			return nil, malformed(q.raw, "index [%d] applied to a map at %q", s.index, m.Path.String())
		}

	case stepChildren:
		return children(m), nil

	case stepDescendants:
		var out []Match
		walk(m, func(d Match) { out = append(out, d) })
		return out, nil
	}
	return nil, nil
}

func children(m Match) []Match {
	var out []Match
	switch v := m.Value.(type) {
	case *tree.Map:
		for k, child := range v.All() {
			out = append(out, Match{Value: child, Path: m.Path.append(Key(k))})
		}
	case tree.List:
		for i, child := range v {
			out = append(out, Match{Value: child, Path: m.Path.append(Index(i))})
		}
	}
	return out
}

func walk(m Match, visit func(Match)) {
	visit(m)
	for _, c := range children(m) {
		walk(c, visit)
	}
}

// Get returns the node at p.
func (d *Document) Get(p Path) (tree.Node, error) {
	current := d.root
	for i, s := range p {
		switch v := current.(type) {
		case *tree.Map:
			child, ok := v.Get(s.Key)
			if s.IsIndex || !ok {
				return nil, fmt.Errorf("%w: %s", ErrPathNotFound, p[:i+1])
			}
			current = child
		case tree.List:
			if !s.IsIndex || s.Index >= len(v) {
				return nil, fmt.Errorf("%w: %s", ErrPathNotFound, p[:i+1])
			}
			current = v[s.Index]
		default:
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, p[:i+1])
		}
	}
	return current, nil
}

// Set replaces the node at p with value. The root is replaced when p is empty.
func (d *Document) Set(p Path, value tree.Node) error {
	if _, ok := value.(tree.Time); ok {
		return fmt.Errorf("%w: time of day %s at %s", ErrUnstorable, value, p)
	}
	if len(p) == 0 {
		d.root = value
		return nil
	}
	parent, err := d.Get(p[:len(p)-1])
	if err != nil {
		return err
	}
	last := p[len(p)-1]
	switch v := parent.(type) {
	case *tree.Map:
		if _, ok := v.Get(last.Key); ok && !last.IsIndex {
			v.Set(last.Key, value)
			return nil
		}
	case tree.List:
		if last.IsIndex && last.Index < len(v) {
			v[last.Index] = value
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrPathNotFound, p)
}
