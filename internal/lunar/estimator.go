package lunar

import (
	"math"
	"time"
)

const (
	// SynodicMonth is the mean length of a lunation in days.
	SynodicMonth = 29.530588

	// daysPerYear averages leap years into the fractional year.
	daysPerYear = 365.25

	// Buffer is the half-width, as a lunation fraction, of the window in
	// which a primary phase is considered in effect: 12 hours either side.
	Buffer = 12.0 / (SynodicMonth * 24.0)
)

// Epoch is a known new moon.
var Epoch = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// FractionalYear returns t as year + dayOfYear/365.25, where dayOfYear is
// the 1-based ordinal of t's calendar day plus the elapsed fraction of it.
func FractionalYear(t time.Time) float64 {
	h, m, s := t.Clock()
	secs := float64(h*3600+m*60+s) + float64(t.Nanosecond())/1e9
	dayOfYear := float64(t.YearDay()) + secs/86400

	return float64(t.Year()) + dayOfYear/daysPerYear
}

// Position returns the fractional progress through the current lunation,
// in [0,1). 0 is new moon and 0.5 is full moon.
func Position(t time.Time) float64 {
	lunations := (FractionalYear(t) - FractionalYear(Epoch)) * (daysPerYear / SynodicMonth)
	return wrap(lunations)
}

// Classify maps a lunation position to a phase. A primary phase wins when
// the position is within Buffer of its boundary, inclusive; positions
// outside every window fall into the intermediate band between two
// boundaries. Positions are wrapped into [0,1) first.
func Classify(position float64) Phase {
	p := wrap(position)

	switch {
	case p <= Buffer || p >= 1-Buffer:
		return NewMoon
	case p < 0.25-Buffer:
		return WaxingCrescent
	case p <= 0.25+Buffer:
		return FirstQuarter
	case p < 0.5-Buffer:
		return WaxingGibbous
	case p <= 0.5+Buffer:
		return FullMoon
	case p < 0.75-Buffer:
		return WaningGibbous
	case p <= 0.75+Buffer:
		return LastQuarter
	default:
		return WaningCrescent
	}
}

// Estimate returns the phase for t from calendar arithmetic alone.
func Estimate(t time.Time) Phase {
	return Classify(Position(t))
}

// wrap returns the fractional part of x in [0,1).
func wrap(x float64) float64 {
	p := x - math.Floor(x)
	if p >= 1 {
		// x was a tiny negative number that rounded up
		return 0
	}
	return p
}
