package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/araddon/dateparse"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component.
// The zero value means "unknown".
type Date struct {
	t time.Time
}

// NewDate builds a Date from calendar parts
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "2006-01-02" and the other layouts dateparse understands.
// Anything with a time component is reduced to its calendar date in UTC.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t: t}, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// IsZero reports whether the date is unknown
func (d Date) IsZero() bool { return d.t.IsZero() }

// Year returns the calendar year, or 0 for an unknown date
func (d Date) Year() int {
	if d.t.IsZero() {
		return 0
	}
	return d.t.Year()
}

// Time returns the date as midnight UTC
func (d Date) Time() time.Time { return d.t }

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a date string. A value no layout matches decodes as
// the unknown date so one bad record does not reject the whole document.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		slog.Warn("ignoring unparseable date", "value", s, "error", err)
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}
