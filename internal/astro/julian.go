// Package astro provides calendar and Julian day conversions used by the
// lunar phase math.
package astro

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// GregorianReformJD is the Julian day of 1582-10-15 00:00, the first day of
// the Gregorian calendar. Earlier days cannot be expressed as a time.Time
// without mixing calendars.
const GregorianReformJD = 2299160.5

// ErrInvalidJulianDay is returned when a Julian day cannot be turned back
// into a Gregorian calendar date.
var ErrInvalidJulianDay = errors.New("invalid julian day")

// CalendarType identifies the calendar system of an AstronomicalDay.
type CalendarType int

const (
	CalendarGregorian CalendarType = iota
)

// String returns the calendar name.
func (c CalendarType) String() string {
	switch c {
	case CalendarGregorian:
		return "gregorian"
	default:
		return "unknown"
	}
}

// AstronomicalDay is a calendar date with a fractional day-of-month, the
// representation the phase ephemeris works on.
type AstronomicalDay struct {
	Year     int
	Month    time.Month
	Day      float64 // 1.0 = midnight starting the 1st, 1.5 = noon on the 1st
	Calendar CalendarType
}

// ToAstronomicalDay converts t to an AstronomicalDay using the calendar of
// t's own location.
func ToAstronomicalDay(t time.Time) AstronomicalDay {
	return AstronomicalDay{
		Year:     t.Year(),
		Month:    t.Month(),
		Day:      float64(t.Day()) + dayFraction(t),
		Calendar: CalendarGregorian,
	}
}

// JulianDay returns the Julian day of the calendar date.
func (d AstronomicalDay) JulianDay() float64 {
	return julian.CalendarGregorianToJD(d.Year, int(d.Month), d.Day)
}

// DecimalYear returns the date as year + elapsed fraction of that year.
func (d AstronomicalDay) DecimalYear() float64 {
	whole := math.Floor(d.Day)
	start := time.Date(d.Year, d.Month, int(whole), 0, 0, 0, 0, time.UTC)
	daysInYear := 365.0
	if isLeap(d.Year) {
		daysInYear = 366.0
	}
	elapsed := float64(start.YearDay()-1) + (d.Day - whole)
	return float64(d.Year) + elapsed/daysInYear
}

// String formats the day as YYYY-MM-DD.ddd.
func (d AstronomicalDay) String() string {
	return fmt.Sprintf("%04d-%02d-%06.3f", d.Year, int(d.Month), d.Day)
}

// JulianDate calculates the Julian Date for a given time.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	// Adjust for January/February (treat as months 13/14 of previous year)
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFraction(t) + B - 1524.5
}

// FromJulianDay converts a Julian day back to an instant expressed in loc.
// The day fraction becomes seconds from midnight, so the result carries a
// time of day. A nil loc means UTC.
func FromJulianDay(jd float64, loc *time.Location) (time.Time, error) {
	switch {
	case math.IsNaN(jd) || math.IsInf(jd, 0):
		return time.Time{}, fmt.Errorf("%w: %v is not finite", ErrInvalidJulianDay, jd)
	case jd < 0:
		return time.Time{}, fmt.Errorf("%w: %v is negative", ErrInvalidJulianDay, jd)
	case jd < GregorianReformJD:
		return time.Time{}, fmt.Errorf("%w: %.5f predates the Gregorian calendar", ErrInvalidJulianDay, jd)
	}

	if loc == nil {
		loc = time.UTC
	}

	year, month, day := julian.JDToCalendar(jd)
	whole := math.Floor(day)
	secs := math.Round((day - whole) * 86400)

	t := time.Date(year, time.Month(month), int(whole), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(secs) * time.Second)

	return t.In(loc), nil
}

// dayFraction returns the elapsed fraction of t's calendar day.
func dayFraction(t time.Time) float64 {
	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	return (h + min/60 + sec/3600 + ns/3600e9) / 24.0
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
