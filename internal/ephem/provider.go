// Package ephem provides ephemeris oracles that report when the primary
// phases of the moon occur.
package ephem

import (
	"fmt"
	"math"

	"github.com/litescript/ls-moonphase/internal/astro"
	"github.com/litescript/ls-moonphase/internal/lunar"
)

// LunationsPerYear is the mean number of lunations in a Julian year, as used
// by Meeus to index lunations from the new moon of 2000-01-06.
const LunationsPerYear = 12.3685

// Provider is a named phase oracle.
type Provider interface {
	lunar.Ephemeris

	// Name returns the provider name for display/logging.
	Name() string
}

// Mode represents which phase oracle to use.
type Mode int

const (
	ModeMeeus Mode = iota // Full periodic-term solution (default)
	ModeMean              // Mean lunation only, no periodic corrections
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeMeeus:
		return "meeus"
	case ModeMean:
		return "mean"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string.
func ParseMode(s string) Mode {
	switch s {
	case "meeus":
		return ModeMeeus
	case "mean":
		return ModeMean
	default:
		return ModeMeeus
	}
}

// New returns the provider for mode.
func New(mode Mode) Provider {
	if mode == ModeMean {
		return NewMeanProvider()
	}
	return NewMeeusProvider()
}

// LunationIndex returns the lunation number k containing day, counting
// from k=0 at the new moon of 2000-01-06. Every primary phase of a
// lunation shares its k, so anchors located from the same day fall in
// calendar order New, First, Full, Last.
func LunationIndex(day astro.AstronomicalDay) (float64, error) {
	y := day.DecimalYear()
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("no decimal year for %v", day)
	}
	return math.Floor((y - 2000) * LunationsPerYear), nil
}

func checkPhase(phase lunar.PrimaryPhase) error {
	if phase < lunar.New || phase > lunar.Last {
		return fmt.Errorf("unknown primary phase %d", int(phase))
	}
	return nil
}
