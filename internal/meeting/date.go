package meeting

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrUnparsableDate is returned when none of the accepted date layouts match
var ErrUnparsableDate = errors.New("unparsable date")

type dateLayout struct {
	layout  string
	hasTime bool
}

// Accepted listing formats, tried in order. Numeric dates are day-first
// (dotted, as the Russian site prints them); slash-separated dates are not
// accepted because their field order cannot be told apart.
var dateLayouts = []dateLayout{
	{"January 2, 2006, 15:04", true},
	{"January 2, 2006 15:04", true},
	{"January 2, 2006", false},
	{"Jan 2, 2006", false},
	{"2 January 2006, 15:04", true},
	{"2 January 2006 15:04", true},
	{"2 January 2006", false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", false},
	{"2.1.2006, 15:04", true},
	{"2.1.2006 15:04", true},
	{"2.1.2006", false},
}

// Russian month names in the genitive case used by kremlin.ru
var ruMonths = map[string]string{
	"января":   "January",
	"февраля":  "February",
	"марта":    "March",
	"апреля":   "April",
	"мая":      "May",
	"июня":     "June",
	"июля":     "July",
	"августа":  "August",
	"сентября": "September",
	"октября":  "October",
	"ноября":   "November",
	"декабря":  "December",
}

// ParseDate parses the date text shown on a listing page, e.g.
// "April 1, 2025, 19:00" or "1 апреля 2025 года, 19:00".
// The returned bool reports whether a clock time was present.
func ParseDate(text string, loc *time.Location) (time.Time, bool, error) {
	if loc == nil {
		loc = time.UTC
	}

	normalized := normalizeDate(text)
	if normalized == "" {
		return time.Time{}, false, fmt.Errorf("%w: empty", ErrUnparsableDate)
	}

	for _, l := range dateLayouts {
		t, err := time.ParseInLocation(l.layout, normalized, loc)
		if err == nil {
			return t, l.hasTime, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("%w: %q", ErrUnparsableDate, text)
}

// ParseDateAttr parses a machine-readable datetime attribute such as
// "2025-04-01" or "2025-04-01T19:00:00+03:00".
func ParseDateAttr(attr string, loc *time.Location) (time.Time, bool, error) {
	if loc == nil {
		loc = time.UTC
	}

	attr = strings.TrimSpace(attr)
	if attr == "" {
		return time.Time{}, false, fmt.Errorf("%w: empty", ErrUnparsableDate)
	}

	t, err := dateparse.ParseIn(attr, loc, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %q: %v", ErrUnparsableDate, attr, err)
	}

	return t, len(attr) > len(DateLayout) && strings.Contains(attr, ":"), nil
}

// ResolveDate combines an entry's datetime attribute and its visible text.
// The attribute decides the calendar date when it parses; the text supplies
// the clock time when the attribute has none and both agree on the day.
func ResolveDate(attr, text string, loc *time.Location) (time.Time, bool, error) {
	textDate, textHasTime, textErr := ParseDate(text, loc)

	if strings.TrimSpace(attr) != "" {
		attrDate, attrHasTime, err := ParseDateAttr(attr, loc)
		if err == nil {
			if attrHasTime {
				return attrDate, true, nil
			}
			if textErr == nil && textHasTime && sameDay(attrDate, textDate) {
				return textDate, true, nil
			}
			return attrDate, false, nil
		}
	}

	if textErr != nil {
		return time.Time{}, false, textErr
	}
	return textDate, textHasTime, nil
}

// Boundary returns the range boundary for a target year: December 1 at midnight
func Boundary(year int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(year, time.December, 1, 0, 0, 0, 0, loc)
}

// InRange reports whether a date's calendar day, read in its own location,
// falls on or after the boundary day
func InRange(date, boundary time.Time) bool {
	y, m, d := date.Date()
	by, bm, bd := boundary.Date()
	if y != by {
		return y > by
	}
	if m != bm {
		return m > bm
	}
	return d >= bd
}

// normalizeDate collapses whitespace and rewrites Russian month names and the
// trailing "года" so the English layouts can be reused.
func normalizeDate(text string) string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))

	for _, f := range fields {
		word := strings.TrimRight(f, ",")
		suffix := f[len(word):]
		lower := strings.ToLower(word)

		if lower == "года" || lower == "г." || lower == "г" {
			if suffix != "" && len(out) > 0 {
				out[len(out)-1] += suffix
			}
			continue
		}

		if month, ok := ruMonths[lower]; ok {
			word = month
		}
		out = append(out, word+suffix)
	}

	return strings.Join(out, " ")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
