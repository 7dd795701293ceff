package nt2

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ConradIrwin/nt2-go/tree"
)

// ParseBool reads the common spellings of a boolean, ignoring case:
// true, t, yes, y, on and 1, or false, f, no, n, off and 0.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "t", "yes", "y", "on", "1":
		return true, nil
	case "false", "f", "no", "n", "off", "0":
		return false, nil
	}
	return false, &InferenceError{Input: s, Err: ErrUnrecognizedBoolean}
}

var prefixedInteger = regexp.MustCompile(`(?i)^[+-]?0[xob]`)

// ParseNumber reads a decimal or exponent number, "inf" or "nan", or an
// integer with a 0x, 0o or 0b prefix. Floats with no fractional part that fit
// in an int64 are returned as tree.Int, so "1e3" is tree.Int(1000).
// Underscores may separate digits.
func ParseNumber(s string) (tree.Node, error) {
	trimmed := strings.TrimSpace(s)

	// The prefix must start the input; " 0x10" is not a number.
	if prefixedInteger.MatchString(s) {
		i, err := strconv.ParseInt(trimmed, 0, 64)
		if err != nil {
			return nil, &InferenceError{Input: s, Reason: numError(err), Err: ErrUnrecognizedNumber}
		}
		return tree.Int(i), nil
	}

	decimal, ok := removeDigitSeparators(trimmed)
	if !ok {
		return nil, &InferenceError{Input: s, Reason: "misplaced underscore", Err: ErrUnrecognizedNumber}
	}
	if strings.ContainsAny(decimal, "xX") {
		return nil, &InferenceError{Input: s, Err: ErrUnrecognizedNumber}
	}
	if i, err := strconv.ParseInt(decimal, 10, 64); err == nil {
		return tree.Int(i), nil
	}
	f, err := strconv.ParseFloat(decimal, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, &InferenceError{Input: s, Err: ErrUnrecognizedNumber}
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return tree.Int(int64(f)), nil
	}
	return tree.Float(f), nil
}

func numError(err error) string {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err.Error()
	}
	return err.Error()
}

// removeDigitSeparators drops underscores that sit between two digits.
// Any other underscore makes the number invalid.
func removeDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
				return "", false
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String(), true
}

// ParseDateTime reads an ISO 8601 date, date-time or time of day, tried in
// that order. A time of day cannot be stored in a document, so it is returned
// as a tree.String of marker followed by the time in ISO format.
func ParseDateTime(s string, marker string) (tree.Node, error) {
	if d, err := tree.ParseDate(s); err == nil {
		return d, nil
	}
	if dt, err := tree.ParseDateTime(s); err == nil {
		return dt, nil
	}
	t, err := tree.ParseTime(s)
	if err != nil {
		return nil, &InferenceError{Input: s, Reason: err.Error(), Err: ErrUnrecognizedDateTime}
	}
	return tree.String(marker + t.String()), nil
}
