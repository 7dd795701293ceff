package tree

import (
	"iter"
	"slices"
)

// Map is a mapping from unique string keys to nodes that remembers the order
// in which keys were first added. The zero value is not usable; use [NewMap].
type Map struct {
	keys   []string
	values map[string]Node
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{values: map[string]Node{}}
}

// MapOf builds a map from alternating keys and values.
// It panics if kv has odd length or a key is not a string.
func MapOf(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("tree.MapOf: odd number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1].(Node))
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Node, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position.
func (m *Map) Set(key string, value Node) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key, if present.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	return slices.Clone(m.keys)
}

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Clone returns a copy of m that shares its values.
func (m *Map) Clone() *Map {
	c := &Map{keys: slices.Clone(m.keys), values: make(map[string]Node, len(m.values))}
	for k, v := range m.values {
		c.values[k] = v
	}
	return c
}

// Equal reports whether m and o hold equal entries in the same order.
func (m *Map) Equal(o *Map) bool {
	if m == nil || o == nil {
		return m == o
	}
	if !slices.Equal(m.keys, o.keys) {
		return false
	}
	for _, k := range m.keys {
		if !Equal(m.values[k], o.values[k]) {
			return false
		}
	}
	return true
}

// Equal reports whether two nodes are deeply equal. Hinted scalars are
// compared as they are, not reduced.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case *Map:
		b, ok := b.(*Map)
		return ok && a.Equal(b)
	case List:
		b, ok := b.(List)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case DateTime:
		b, ok := b.(DateTime)
		return ok && a.Local == b.Local && a.Time.Equal(b.Time)
	case Time:
		b, ok := b.(Time)
		return ok && a.String() == b.String()
	case Boxed:
		b, ok := b.(Boxed)
		return ok && a.Source == b.Source && Equal(a.Value, b.Value)
	case Timestamp:
		b, ok := b.(Timestamp)
		return ok && a.DateOnly == b.DateOnly && a.Local == b.Local && a.Source == b.Source && a.Time.Equal(b.Time)
	}
	return a == b
}
