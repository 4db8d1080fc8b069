// Package lunar estimates the phase of the moon for a calendar date.
//
// Two independent strategies are provided. Estimate uses calendar arithmetic
// against a known new moon. Resolver places the date between the four
// primary phase anchors reported by an Ephemeris. The two can be compared
// against each other for diagnostics.
package lunar

import "fmt"

// Phase is one of the eight named phases of the moon.
type Phase int

const (
	NewMoon Phase = iota
	WaxingCrescent
	FirstQuarter
	WaxingGibbous
	FullMoon
	WaningGibbous
	LastQuarter
	WaningCrescent
)

// AllPhases lists every phase in lunation order.
var AllPhases = []Phase{
	NewMoon, WaxingCrescent, FirstQuarter, WaxingGibbous,
	FullMoon, WaningGibbous, LastQuarter, WaningCrescent,
}

// String returns the canonical English name of the phase.
func (p Phase) String() string {
	switch p {
	case NewMoon:
		return "New Moon"
	case WaxingCrescent:
		return "Waxing Crescent"
	case FirstQuarter:
		return "First Quarter"
	case WaxingGibbous:
		return "Waxing Gibbous"
	case FullMoon:
		return "Full Moon"
	case WaningGibbous:
		return "Waning Gibbous"
	case LastQuarter:
		return "Last Quarter"
	case WaningCrescent:
		return "Waning Crescent"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Glyph returns the display glyph for the phase.
// New and full moon use the face variants.
func (p Phase) Glyph() string {
	switch p {
	case NewMoon:
		return "\U0001F31A"
	case WaxingCrescent:
		return "\U0001F312"
	case FirstQuarter:
		return "\U0001F313"
	case WaxingGibbous:
		return "\U0001F314"
	case FullMoon:
		return "\U0001F31D"
	case WaningGibbous:
		return "\U0001F316"
	case LastQuarter:
		return "\U0001F317"
	case WaningCrescent:
		return "\U0001F318"
	default:
		return "?"
	}
}

// Valid reports whether p is one of the eight phases.
func (p Phase) Valid() bool {
	return p >= NewMoon && p <= WaningCrescent
}

// IsPrimary reports whether p is an instantaneous primary phase.
func (p Phase) IsPrimary() bool {
	return p == NewMoon || p == FirstQuarter || p == FullMoon || p == LastQuarter
}

// Distance returns how many phase bands separate a and b, going the short
// way around the lunation. Adjacent phases are 1 apart.
func Distance(a, b Phase) int {
	n := len(AllPhases)
	d := (int(a) - int(b)) % n
	if d < 0 {
		d += n
	}
	if d > n/2 {
		d = n - d
	}
	return d
}

// UnknownPhaseError is returned when a phase name does not match any of the
// eight canonical names.
type UnknownPhaseError struct {
	Name string
}

func (e *UnknownPhaseError) Error() string {
	return fmt.Sprintf("unknown phase %q", e.Name)
}

// ParsePhase maps a canonical phase name to its Phase. Matching is exact:
// case, spacing and wording must agree.
func ParsePhase(name string) (Phase, error) {
	for _, p := range AllPhases {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, &UnknownPhaseError{Name: name}
}

// GlyphFor returns the glyph for a canonical phase name.
func GlyphFor(name string) (string, error) {
	p, err := ParsePhase(name)
	if err != nil {
		return "", err
	}
	return p.Glyph(), nil
}

// PrimaryPhase is one of the four instantaneous phases.
type PrimaryPhase int

const (
	New PrimaryPhase = iota
	First
	Full
	Last
)

// PrimaryPhases lists the primary phases in canonical scan order.
var PrimaryPhases = []PrimaryPhase{New, First, Full, Last}

// String returns the canonical name of the primary phase.
func (p PrimaryPhase) String() string {
	return p.Phase().String()
}

// Phase returns the eight-way phase for p.
func (p PrimaryPhase) Phase() Phase {
	switch p {
	case New:
		return NewMoon
	case First:
		return FirstQuarter
	case Full:
		return FullMoon
	case Last:
		return LastQuarter
	default:
		return Phase(-1)
	}
}

// Offset returns the lunation fraction at which p occurs.
func (p PrimaryPhase) Offset() float64 {
	return float64(p) * 0.25
}

// Next returns the intermediate phase that follows p.
func (p PrimaryPhase) Next() Phase {
	switch p {
	case New:
		return WaxingCrescent
	case First:
		return WaxingGibbous
	case Full:
		return WaningGibbous
	default:
		return WaningCrescent
	}
}

// Prev returns the intermediate phase that precedes p.
func (p PrimaryPhase) Prev() Phase {
	switch p {
	case First:
		return WaxingCrescent
	case Full:
		return WaxingGibbous
	case Last:
		return WaningGibbous
	default:
		return WaningCrescent
	}
}
