package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// =============================================================================
// DATE - Calendar date without a time of day
// =============================================================================

// DateLayout is the wire and storage format of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar date. The zero value means "absent" and serialises as
// JSON null. Presence is tracked separately from the time so that
// 0001-01-01 is still a real date.
type Date struct {
	t     time.Time
	valid bool
}

// NewDate builds a date from its calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), valid: true}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string. A blank string is the absent date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{t: t, valid: true}, nil
}

// ParseDateOrZero is ParseDate with invalid input treated as absent.
func ParseDateOrZero(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		return Date{}
	}
	return d
}

func (d Date) IsZero() bool      { return !d.valid }
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

// Equal reports whether both dates are absent or both are the same day.
func (d Date) Equal(other Date) bool {
	return d.valid == other.valid && d.t.Equal(other.t)
}

// AddMonths adds calendar months. Day overflow rolls into the next month the
// way time.AddDate does (Jan 31 + 1 month = Mar 3 in a non-leap year).
func (d Date) AddMonths(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{t: d.t.AddDate(0, n, 0), valid: true}
}

// AddDays adds n days.
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n), valid: true}
}

// Midnight returns 00:00 of the date in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 0, 0, 0, 0, loc)
}

// SortKey returns the date as Unix seconds, with the absent date at the epoch.
func (d Date) SortKey() int64 {
	if d.IsZero() {
		return 0
	}
	return d.t.Unix()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// DATE MATH
// =============================================================================

// Infinite is the day count of an absent deadline. It compares greater than
// any real day count.
const Infinite = math.MaxInt

// DaysUntil returns ceil((date at local midnight - now) / 1 day), where local
// is now's location. An absent date returns Infinite.
func DaysUntil(d Date, now time.Time) int {
	if d.IsZero() {
		return Infinite
	}
	diff := d.Midnight(now.Location()).Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// EndDateFor derives the contract end date: signature + duration months.
// An absent signature date gives an absent end date.
func EndDateFor(signature Date, durationMonths int) Date {
	if signature.IsZero() {
		return Date{}
	}
	return signature.AddMonths(durationMonths)
}
