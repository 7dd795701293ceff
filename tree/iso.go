package tree

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	isoDateTimeLocal = "2006-01-02T15:04:05.999999999"
	isoDateTimeZoned = "2006-01-02T15:04:05.999999999-07:00"
	isoTimeLocal     = "15:04:05.999999999"
	isoTimeZoned     = "15:04:05.999999999-07:00"
)

// String renders d as an ISO 8601 calendar date.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// String renders dt in ISO 8601 extended format.
func (dt DateTime) String() string {
	if dt.Local {
		return dt.Time.Format(isoDateTimeLocal)
	}
	return dt.Time.Format(isoDateTimeZoned)
}

// String renders t in ISO 8601 extended format.
func (t Time) String() string {
	if t.Zone == nil {
		return t.clock(time.UTC).Format(isoTimeLocal)
	}
	return t.clock(t.Zone).Format(isoTimeZoned)
}

func (t Time) clock(loc *time.Location) time.Time {
	return time.Date(2000, time.January, 1, t.Hour, t.Minute, t.Second, t.Nanosecond, loc)
}

var (
	dateRegexp = regexp.MustCompile(`^(\d{4})-?(\d{2})-?(\d{2})$`)
	timeRegexp = regexp.MustCompile(`^(\d{2})(?:(:?)(\d{2})(?:(:?)(\d{2})(?:[.,](\d{1,9}))?)?)?(Z|z|[+-]\d{2}(?::?\d{2})?)?$`)
)

// ParseDate parses an ISO 8601 calendar date (YYYY-MM-DD or YYYYMMDD).
func ParseDate(s string) (Date, error) {
	m := dateRegexp.FindStringSubmatch(s)
	if m == nil || (strings.Contains(s, "-") != (len(s) == 10)) {
		return Date{}, fmt.Errorf("invalid isoformat string: %q", s)
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	if !validDate(y, mo, d) {
		return Date{}, fmt.Errorf("date out of range: %q", s)
	}
	return Date{Year: y, Month: time.Month(mo), Day: d}, nil
}

func validDate(y, m, d int) bool {
	if y < 1 || m < 1 || m > 12 || d < 1 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Day() == d && int(t.Month()) == m
}

// ParseTime parses an ISO 8601 time of day, HH[:MM[:SS[.fraction]]] or the
// basic HH[MM[SS[.fraction]]], optionally followed by Z or a ±HH[:MM] offset.
func ParseTime(s string) (Time, error) {
	m := timeRegexp.FindStringSubmatch(s)
	if m == nil || (m[5] != "" && m[2] != m[4]) {
		return Time{}, fmt.Errorf("invalid isoformat string: %q", s)
	}
	var t Time
	t.Hour, _ = strconv.Atoi(m[1])
	if m[3] != "" {
		t.Minute, _ = strconv.Atoi(m[3])
	}
	if m[5] != "" {
		t.Second, _ = strconv.Atoi(m[5])
	}
	if m[6] != "" {
		frac := m[6] + strings.Repeat("0", 9-len(m[6]))
		t.Nanosecond, _ = strconv.Atoi(frac)
	}
	if t.Hour > 23 || t.Minute > 59 || t.Second > 59 {
		return Time{}, fmt.Errorf("time out of range: %q", s)
	}
	if m[7] != "" {
		zone, err := parseOffset(m[7])
		if err != nil {
			return Time{}, fmt.Errorf("%w: %q", err, s)
		}
		t.Zone = zone
	}
	return t, nil
}

func parseOffset(s string) (*time.Location, error) {
	if s == "Z" || s == "z" {
		return time.UTC, nil
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	digits := strings.ReplaceAll(s[1:], ":", "")
	h, _ := strconv.Atoi(digits[:2])
	mins := 0
	if len(digits) == 4 {
		mins, _ = strconv.Atoi(digits[2:])
	}
	if h > 23 || mins > 59 {
		return nil, fmt.Errorf("offset out of range")
	}
	return time.FixedZone("", sign*(h*3600+mins*60)), nil
}

// ParseDateTime parses an ISO 8601 date, a separator (T, t or a space) and a
// time as accepted by [ParseTime].
func ParseDateTime(s string) (DateTime, error) {
	i := strings.IndexAny(s, "Tt ")
	if i < 0 {
		return DateTime{}, fmt.Errorf("invalid isoformat string: %q", s)
	}
	d, err := ParseDate(s[:i])
	if err != nil {
		return DateTime{}, err
	}
	t, err := ParseTime(s[i+1:])
	if err != nil {
		return DateTime{}, err
	}
	loc := t.Zone
	if loc == nil {
		loc = time.UTC
	}
	return DateTime{
		Time:  time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, t.Second, t.Nanosecond, loc),
		Local: t.Zone == nil,
	}, nil
}
