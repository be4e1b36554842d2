package content

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when a date arrives as text.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006/01/02",
	"01/02/2006",
	"January 2006",
	"2006",
}

// Date is a point in time that may be written as a YAML timestamp or as free
// text. The original text is kept for display; values that cannot be parsed
// have a zero Time and sort last.
type Date struct {
	time.Time
	Raw string
}

// ParseDate builds a Date from text. It never fails.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	d := Date{Raw: s}
	if s == "" {
		return d
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return d
		}
	}
	return d
}

// DateOf wraps a time value.
func DateOf(t time.Time) Date {
	return Date{Time: t, Raw: t.Format("2006-01-02")}
}

// Valid reports whether the date was understood.
func (d Date) Valid() bool { return !d.Time.IsZero() }

// String returns the original text, or the ISO date when there is none.
func (d Date) String() string {
	if d.Raw != "" {
		return d.Raw
	}
	if d.Valid() {
		return d.Time.Format("2006-01-02")
	}
	return ""
}

// Format renders the date for display, falling back to the raw text.
func (d Date) Format(layout string) string {
	if !d.Valid() {
		return d.Raw
	}
	return d.Time.Format(layout)
}

// UnmarshalYAML accepts timestamps, strings and bare years.
func (d *Date) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = Date{Time: v, Raw: v.Format("2006-01-02")}
	case int:
		*d = ParseDate(strconv.Itoa(v))
	case string:
		*d = ParseDate(v)
	default:
		*d = ParseDate(fmt.Sprint(v))
	}
	return nil
}

// UnmarshalJSON accepts a string or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if s == nil {
		*d = Date{}
		return nil
	}
	*d = ParseDate(*s)
	return nil
}

// MarshalJSON writes the display string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// tripDatesRe matches ranges such as "July 5-6, 2025".
var tripDatesRe = regexp.MustCompile(`(\w+)\s+\d+(?:-\d+)?,\s+(\d{4})`)

// TripDate turns a trip's free-form date range into a sortable date. Ranges
// resolve to the first day of their month.
func TripDate(dates string) Date {
	if m := tripDatesRe.FindStringSubmatch(dates); m != nil {
		d := ParseDate(m[1] + " 1, " + m[2])
		d.Raw = dates
		return d
	}
	return ParseDate(dates)
}
