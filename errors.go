package nt2

import (
	"errors"
	"fmt"

	"github.com/ConradIrwin/nt2-go/pathquery"
)

var (
	ErrUnrecognizedBoolean  = errors.New("doesn't look like a boolean")
	ErrUnrecognizedNumber   = errors.New("doesn't look like a number")
	ErrUnrecognizedDateTime = errors.New("doesn't look like a date or time")

	// ErrUnclassifiableType is returned by [InferSchema] for leaves that are
	// neither strings nor one of the four cast categories.
	ErrUnclassifiableType = errors.New("unclassifiable type")

	// ErrMalformedPathQuery is reported, not returned, by [Cast].
	ErrMalformedPathQuery = pathquery.ErrMalformedPathQuery
)

// InferenceError is returned when a string cannot be read as the requested
// type. Err is one of the ErrUnrecognized sentinels.
type InferenceError struct {
	Input  string
	Reason string
	Err    error
}

func (e *InferenceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%q %v: %s", e.Input, e.Err, e.Reason)
	}
	return fmt.Sprintf("%q %v", e.Input, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// CastError is returned by [Cast] when a matched leaf cannot be cast. The
// message ends with the path of the leaf.
type CastError struct {
	Path pathquery.Path
	Err  error
}

func (e *CastError) Error() string {
	p := e.Path.String()
	if p == "" {
		p = "(root)"
	}
	return fmt.Sprintf("%v: %s", e.Err, p)
}

func (e *CastError) Unwrap() error {
	return e.Err
}
