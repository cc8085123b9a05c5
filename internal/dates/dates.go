// Package dates turns the date strings found in stored records into
// calendar days and builds the day ranges reports are computed over.
//
// Records written over the years carry several formats: RFC 3339 instants,
// plain YYYY-MM-DD, day-first DD/MM/YYYY and epoch milliseconds. Every
// aggregation compares days through Normalize so the same calendar day is
// always the same key, regardless of which format produced it.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day is a calendar day in the book's location. It is comparable and safe
// to use as a map key.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// Of returns the calendar day of t in t's own location.
func Of(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

func (d Day) IsZero() bool { return d == Day{} }

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Start is local midnight of d in loc.
func (d Day) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// noon in UTC keeps day arithmetic clear of DST transitions.
func (d Day) noon() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

func (d Day) AddDays(n int) Day { return Of(d.noon().AddDate(0, 0, n)) }

func (d Day) Weekday() time.Weekday { return d.noon().Weekday() }

func (d Day) Compare(o Day) int { return d.noon().Compare(o.noon()) }

func (d Day) Before(o Day) bool { return d.Compare(o) < 0 }

func (d Day) After(o Day) bool { return d.Compare(o) > 0 }

func (d Day) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Day) UnmarshalText(b []byte) error {
	p, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// Parse is the strict form used for user input: YYYY-MM-DD only.
func Parse(s string) (Day, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Of(t), nil
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Instant parses raw into a point in time. Zoned instants keep their
// offset; anything without a zone is read in loc, and a bare date is local
// midnight.
func Instant(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if d, ok := positional(s); ok {
		return d.Start(loc), true
	}
	if ms, ok := epochMillis(s); ok {
		return time.UnixMilli(ms).In(loc), true
	}
	return time.Time{}, false
}

// Normalize returns the calendar day raw falls on in loc. It never fails
// loudly: unparsable input reports ok == false.
func Normalize(raw string, loc *time.Location) (Day, bool) {
	t, ok := Instant(raw, loc)
	if !ok {
		return Day{}, false
	}
	return Of(t.In(loc)), true
}

// positional reads a three-part date split on '-' or '/'. A four-digit
// first part is year-first; otherwise a four-digit last part is day-first.
func positional(s string) (Day, bool) {
	sep := "-"
	if strings.Contains(s, "/") {
		sep = "/"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return Day{}, false
	}
	n := make([]int, 3)
	for i, p := range parts {
		v, ok := digits(p)
		if !ok {
			return Day{}, false
		}
		n[i] = v
	}
	var y, m, d int
	switch {
	case len(parts[0]) == 4:
		y, m, d = n[0], n[1], n[2]
	case len(parts[2]) == 4:
		d, m, y = n[0], n[1], n[2]
	default:
		return Day{}, false
	}
	if m < 1 || m > 12 || d < 1 || d > DaysIn(y, time.Month(m)) {
		return Day{}, false
	}
	return Day{Year: y, Month: time.Month(m), Day: d}, true
}

func epochMillis(s string) (int64, bool) {
	if !allDigits(s) {
		return 0, false
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	return ms, err == nil
}

func digits(s string) (int, bool) {
	if len(s) > 4 || !allDigits(s) {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	return v, err == nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}
