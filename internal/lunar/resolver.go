package lunar

import (
	"sort"
	"time"
)

// Resolver names the phase of a date by comparing it to the primary phase
// anchors around it.
type Resolver struct {
	locator *Locator
}

// NewResolver creates a resolver over locator.
func NewResolver(locator *Locator) *Resolver {
	return &Resolver{locator: locator}
}

// NearestPhase returns the phase for t's calendar day.
//
// Anchors that fail to locate are skipped and reported through the joined
// error; the phase is still usable in that case. When no anchor could be
// located the error wraps ErrNoAnchors and the phase must be ignored.
func (r *Resolver) NearestPhase(t time.Time) (Phase, error) {
	anchors, err := r.locator.Anchors(t)
	if len(anchors) == 0 {
		return NewMoon, err
	}
	return ResolveAnchors(t, anchors), err
}

// ResolveAnchors scans anchors in canonical order (New, First, Full, Last)
// and compares each anchor's calendar day with t's, ignoring time of day:
//
//   - same day: the anchor's primary phase
//   - later day: the intermediate phase before the anchor
//   - earlier day: keep scanning
//
// If every anchor is earlier, t is past the last quarter and the result is
// WaningCrescent. Anchor days are taken in t's location.
//
// The scan assumes canonical order matches calendar order, which holds for
// anchors from one lunation but not for arbitrary inputs.
func ResolveAnchors(t time.Time, anchors []Anchor) Phase {
	ordered := make([]Anchor, len(anchors))
	copy(ordered, anchors)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Phase < ordered[j].Phase
	})

	today := civilDay(t, t.Location())
	for _, a := range ordered {
		day := civilDay(a.Time, t.Location())
		switch {
		case day.Equal(today):
			return a.Phase.Phase()
		case day.After(today):
			return a.Phase.Prev()
		}
	}

	return Last.Next()
}

// civilDay truncates t to midnight of its calendar day in loc.
func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
