package lunar

import (
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-moonphase/internal/astro"
)

// ErrNoAnchors is returned when none of the four primary phases could be
// located for a date.
var ErrNoAnchors = errors.New("no primary phase anchors located")

// Ephemeris reports when a primary phase occurs.
type Ephemeris interface {
	// TimeOfPhase returns the Julian day of the occurrence of phase that
	// belongs to the lunation containing day.
	TimeOfPhase(day astro.AstronomicalDay, phase PrimaryPhase) (float64, error)
}

// Anchor is the calendar time of a primary phase near a reference date.
type Anchor struct {
	Phase PrimaryPhase
	Time  time.Time
}

// LocateError reports that a primary phase could not be placed on the
// calendar. Err is the reason given by the ephemeris or the Julian day
// conversion, unchanged.
type LocateError struct {
	Phase PrimaryPhase
	Err   error
}

func (e *LocateError) Error() string {
	return fmt.Sprintf("locate %s: %v", e.Phase, e.Err)
}

func (e *LocateError) Unwrap() error {
	return e.Err
}

// Locator finds the calendar dates of primary phases.
type Locator struct {
	eph Ephemeris
}

// NewLocator creates a locator backed by eph.
func NewLocator(eph Ephemeris) *Locator {
	return &Locator{eph: eph}
}

// Locate returns the time of phase near t, expressed in t's location.
func (l *Locator) Locate(t time.Time, phase PrimaryPhase) (time.Time, error) {
	jd, err := l.eph.TimeOfPhase(astro.ToAstronomicalDay(t), phase)
	if err != nil {
		return time.Time{}, &LocateError{Phase: phase, Err: err}
	}

	at, err := astro.FromJulianDay(jd, t.Location())
	if err != nil {
		return time.Time{}, &LocateError{Phase: phase, Err: err}
	}

	return at, nil
}

// Anchors locates all four primary phases for t, in canonical order.
// Phases that cannot be located are left out and their errors joined, so
// a partial calendar is returned alongside a non-nil error.
func (l *Locator) Anchors(t time.Time) ([]Anchor, error) {
	anchors := make([]Anchor, 0, len(PrimaryPhases))
	var errs []error

	for _, p := range PrimaryPhases {
		at, err := l.Locate(t, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		anchors = append(anchors, Anchor{Phase: p, Time: at})
	}

	if len(anchors) == 0 {
		errs = append(errs, ErrNoAnchors)
	}

	return anchors, errors.Join(errs...)
}
