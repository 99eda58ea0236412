package daterange

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyRange   = errors.New("daterange: check-out must be after check-in")
	ErrZeroBoundary = errors.New("daterange: both boundaries must be set")
)

// ISODate is the wire format for calendar dates: no time component, whole-day
// boundaries.
const ISODate = "2006-01-02"

// DateRange is a half-open stay interval [CheckIn, CheckOut). Both boundaries
// are calendar dates normalized to UTC midnight; the check-out day is never an
// occupied night.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New builds a validated range of at least one night.
func New(checkIn, checkOut time.Time) (DateRange, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return DateRange{}, ErrZeroBoundary
	}
	in := Day(checkIn)
	out := Day(checkOut)
	if !out.After(in) {
		return DateRange{}, ErrEmptyRange
	}
	return DateRange{CheckIn: in, CheckOut: out}, nil
}

// Parse builds a range from two ISO-8601 calendar dates.
func Parse(checkIn, checkOut string) (DateRange, error) {
	in, err := time.ParseInLocation(ISODate, checkIn, time.UTC)
	if err != nil {
		return DateRange{}, fmt.Errorf("daterange: invalid check-in date %q: %w", checkIn, err)
	}
	out, err := time.ParseInLocation(ISODate, checkOut, time.UTC)
	if err != nil {
		return DateRange{}, fmt.Errorf("daterange: invalid check-out date %q: %w", checkOut, err)
	}
	return New(in, out)
}

// Day truncates a timestamp to its UTC calendar date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the stay length in nights.
func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn) / (24 * time.Hour))
}

// ContainsNight reports whether the given calendar night is occupied by the
// range. The check-out date itself is excluded.
func (r DateRange) ContainsNight(night time.Time) bool {
	night = Day(night)
	return !night.Before(r.CheckIn) && night.Before(r.CheckOut)
}

// Overlaps reports whether two half-open ranges share at least one night.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

// EachNight calls fn for every night of the stay in order, stopping early if
// fn returns false.
func (r DateRange) EachNight(fn func(night time.Time) bool) {
	for night := r.CheckIn; night.Before(r.CheckOut); night = night.AddDate(0, 0, 1) {
		if !fn(night) {
			return
		}
	}
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.CheckIn.Format(ISODate), r.CheckOut.Format(ISODate))
}
