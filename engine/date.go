package engine

import (
	"time"
)

// =============================================================================
// DATE - Calendar-day value type (all agreement dates are day-granular)
// =============================================================================

// Date is a calendar date in UTC. The zero value means "unset", which is a
// legitimate state for in-progress drafts.
type Date struct {
	t time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date string (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

// MustParseDate is for tests and fixtures; it returns the zero Date on
// malformed input rather than panicking.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		return Date{}
	}
	return d
}

// DateOf truncates a time.Time to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day. Calculators never call this
// themselves; the host passes "today" in so computations stay replayable.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Time() time.Time   { return d.t }

// String formats the date as ISO YYYY-MM-DD, the engine's only wire format.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format("2006-01-02")
}

// MarshalJSON encodes the date as an ISO string; the zero date encodes as
// the empty string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes an ISO date string. Empty string and null both map
// to the zero date.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// MONTH-END ROUNDING - Snapping forward to the last day of a month
// =============================================================================

// EndOfMonth returns the last calendar day of d's month. Already-month-end
// dates map to themselves, so the rounding is idempotent.
func (d Date) EndOfMonth() Date {
	t := time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{t: t}
}

// EndOfMonthOffset returns the last day of the month n calendar months
// after d's month. The walk goes through the first of the month so a day
// like the 31st can never spill into the following month.
func (d Date) EndOfMonthOffset(n int) Date {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Date{t: first}.AddMonths(n).EndOfMonth()
}

// MonthsApart counts whole month-index transitions between two dates,
// ignoring the day-of-month. Used by the legacy duration formula.
func MonthsApart(start, end Date) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}
