package moon

import (
	"errors"
	"time"

	"github.com/litescript/ls-moonphase/internal/lunar"
)

// Row compares both strategies for one day.
type Row struct {
	Date      time.Time
	Resolved  lunar.Phase
	Estimated lunar.Phase
	Position  float64

	// Err holds anchors that could not be located. Resolved is only
	// meaningless when Err wraps lunar.ErrNoAnchors.
	Err error
}

// Resolvable reports whether Resolved holds a phase.
func (r Row) Resolvable() bool {
	return !errors.Is(r.Err, lunar.ErrNoAnchors)
}

// Agree reports whether the two strategies are at most one phase apart.
func (r Row) Agree() bool {
	return r.Resolvable() && lunar.Distance(r.Resolved, r.Estimated) <= 1
}

// CompareDay runs both strategies for t.
func CompareDay(r *lunar.Resolver, t time.Time) Row {
	phase, err := r.NearestPhase(t)
	return Row{
		Date:      t,
		Resolved:  phase,
		Estimated: lunar.Estimate(t),
		Position:  lunar.Position(t),
		Err:       err,
	}
}

// CompareMonth runs both strategies for every day of the month containing
// t, at midnight in t's location.
func CompareMonth(r *lunar.Resolver, t time.Time) []Row {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	var rows []Row
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		rows = append(rows, CompareDay(r, d))
	}
	return rows
}
