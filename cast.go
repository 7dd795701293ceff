package nt2

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-uuid"

	"github.com/ConradIrwin/nt2-go/pathquery"
	"github.com/ConradIrwin/nt2-go/tree"
)

type castConfig struct {
	logger hclog.Logger
	marker string
}

// A CastOption configures [Cast].
type CastOption func(*castConfig)

// WithLogger sets the logger that receives a warning for every path query
// that cannot be resolved. By default nothing is logged.
func WithLogger(logger hclog.Logger) CastOption {
	return func(c *castConfig) {
		c.logger = logger
	}
}

// WithMarker sets the prefix used to mark times of day while casting. By
// default a random UUID is generated for each call.
func WithMarker(marker string) CastOption {
	return func(c *castConfig) {
		c.marker = marker
	}
}

// Cast returns a copy of data in which the string leaves matched by each
// category of schema are converted to that category's type, normalized with
// n. A nil n means [JSONTypes].
//
// Categories are applied in the order null, boolean, number, date. Each query
// is resolved just before its matches are converted, so it sees the results
// of every earlier query. Null leaves are never matched, and only leaves that
// are still strings are converted.
//
// A query that cannot be resolved is logged and skipped. A string that cannot
// be converted stops the cast with a *CastError naming its path; the root
// container of data is copied first, but nested containers may already have
// been modified when that happens.
//
// With an empty schema, Cast returns a shallow copy of data without
// normalizing it.
func Cast(data tree.Node, schema Schema, n *Normalizer, opts ...CastOption) (tree.Node, error) {
	cfg := castConfig{logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if n == nil {
		n = JSONTypes()
	}

	if schema.Empty() {
		return tree.ShallowCopy(data), nil
	}

	c := &caster{doc: pathquery.NewDocument(tree.ShallowCopy(data)), logger: cfg.logger}

	err := c.each(schema.Null, func(m pathquery.Match) error {
		if s, ok := tree.Plain(m.Value).(tree.String); ok && s == "" {
			return c.doc.Set(m.Path, tree.Null{})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = c.eachString(schema.Boolean, func(m pathquery.Match, s string) error {
		b, err := ParseBool(s)
		if err != nil {
			return &CastError{Path: m.Path, Err: err}
		}
		return c.doc.Set(m.Path, tree.Bool(b))
	})
	if err != nil {
		return nil, err
	}

	err = c.eachString(schema.Number, func(m pathquery.Match, s string) error {
		num, err := ParseNumber(s)
		if err != nil {
			return &CastError{Path: m.Path, Err: err}
		}
		return c.doc.Set(m.Path, num)
	})
	if err != nil {
		return nil, err
	}

	if len(schema.Date) > 0 {
		marker := cfg.marker
		if marker == "" {
			marker, err = uuid.GenerateUUID()
			if err != nil {
				return nil, fmt.Errorf("generating time marker: %w", err)
			}
		}
		marked := false
		err = c.eachString(schema.Date, func(m pathquery.Match, s string) error {
			if strings.HasPrefix(s, marker) {
				return nil
			}
			d, err := ParseDateTime(s, marker)
			if err != nil {
				return &CastError{Path: m.Path, Err: err}
			}
			if _, ok := d.(tree.String); ok {
				marked = true
			}
			return c.doc.Set(m.Path, d)
		})
		if err != nil {
			return nil, err
		}
		if marked {
			return n.Normalize(unmarkTimes(marker).Normalize(c.doc.Root())), nil
		}
	}

	return n.Normalize(c.doc.Root()), nil
}

type caster struct {
	doc    *pathquery.Document
	logger hclog.Logger
}

// each calls fn for every non-null match of each query in turn.
func (c *caster) each(queries []string, fn func(pathquery.Match) error) error {
	for _, q := range queries {
		matches, err := c.doc.Resolve(q)
		if err != nil {
			c.logger.Warn("skipping path query", "query", q, "error", err)
			continue
		}
		if len(matches) == 0 {
			c.logger.Debug("path query matched nothing", "query", q)
		}
		for _, m := range matches {
			if tree.IsNull(m.Value) {
				continue
			}
			if err := fn(m); err != nil {
				return err
			}
		}
	}
	return nil
}

// eachString is like each, but skips matches that are not strings.
func (c *caster) eachString(queries []string, fn func(pathquery.Match, string) error) error {
	return c.each(queries, func(m pathquery.Match) error {
		s, ok := tree.Plain(m.Value).(tree.String)
		if !ok {
			return nil
		}
		return fn(m, string(s))
	})
}
