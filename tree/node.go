// Package tree defines the nested document that every nt2 codec decodes into
// and every normalizer produces.
//
// A document is made of containers ([*Map] and [List]) and scalars. Plain
// scalars ([String], [Bool], [Int], [Float], [Null], [Date], [DateTime] and
// [Time]) carry only a value. Hinted scalars ([Quoted], [Tagged], [Boxed] and
// [Timestamp]) are produced by typed decoders that keep formatting metadata
// alongside the value; [Plain] reduces them to the plain scalar they stand for.
package tree

import (
	"time"
)

// Node is implemented by every value that can appear in a document.
// The set of implementations is closed.
type Node interface {
	isNode()
}

// String is a plain string scalar.
type String string

// Bool is a plain boolean scalar.
type Bool bool

// Int is a plain integer scalar.
type Int int64

// Float is a plain floating-point scalar.
type Float float64

// Null is the absence of a value.
type Null struct{}

// Date is a calendar date with no time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateTime is a date and time of day.
// Local is set when the source had no UTC offset; Time is then in UTC but
// should be rendered without an offset.
type DateTime struct {
	Time  time.Time
	Local bool
}

// Time is a time of day. Zone is nil when the source had no UTC offset.
type Time struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	Zone       *time.Location
}

// Quoted is a string that was quoted in its source document.
type Quoted struct {
	Value string
	Style rune
}

// Tagged is a scalar with an explicit tag that nt2 does not interpret,
// such as YAML's `!secret value`.
type Tagged struct {
	Tag   string
	Value string
}

// Boxed is a [Bool], [Int] or [Float] together with the text it was read from.
type Boxed struct {
	Value  Node
	Source string
}

// Timestamp is a date or date-time as read by a typed decoder that does not
// distinguish between the two.
type Timestamp struct {
	Time     time.Time
	DateOnly bool
	Local    bool
	Source   string
}

// List is an ordered sequence of nodes.
type List []Node

func (String) isNode()    {}
func (Bool) isNode()      {}
func (Int) isNode()       {}
func (Float) isNode()     {}
func (Null) isNode()      {}
func (Date) isNode()      {}
func (DateTime) isNode()  {}
func (Time) isNode()      {}
func (Quoted) isNode()    {}
func (Tagged) isNode()    {}
func (Boxed) isNode()     {}
func (Timestamp) isNode() {}
func (List) isNode()      {}
func (*Map) isNode()      {}

// Plain reduces hinted scalars to the plain scalar they represent.
// Plain scalars and containers are returned unchanged.
func Plain(n Node) Node {
	switch v := n.(type) {
	case Quoted:
		return String(v.Value)
	case Tagged:
		return String(v.Value)
	case Boxed:
		return Plain(v.Value)
	case Timestamp:
		if v.DateOnly {
			return DateOf(v.Time)
		}
		return DateTime{Time: v.Time, Local: v.Local}
	case nil:
		return Null{}
	}
	return n
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsNull reports whether n is (or reduces to) Null.
func IsNull(n Node) bool {
	_, ok := Plain(n).(Null)
	return ok
}

// ShallowCopy copies the root container of n so that replacing its direct
// children does not affect the original. Scalars are returned as is.
func ShallowCopy(n Node) Node {
	switch v := n.(type) {
	case *Map:
		return v.Clone()
	case List:
		return append(List(nil), v...)
	}
	return n
}
