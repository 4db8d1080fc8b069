package ephem

import (
	"github.com/soniakeys/meeus/v3/moonphase"

	"github.com/litescript/ls-moonphase/internal/astro"
	"github.com/litescript/ls-moonphase/internal/lunar"
)

// MeeusProvider computes phase times with the periodic-term solution from
// Meeus, Astronomical Algorithms, chapter 49. Accuracy is a few minutes.
type MeeusProvider struct{}

// NewMeeusProvider creates a Meeus phase oracle.
func NewMeeusProvider() *MeeusProvider {
	return &MeeusProvider{}
}

// Name implements Provider.
func (p *MeeusProvider) Name() string {
	return "Meeus"
}

// TimeOfPhase implements lunar.Ephemeris.
func (p *MeeusProvider) TimeOfPhase(day astro.AstronomicalDay, phase lunar.PrimaryPhase) (float64, error) {
	if err := checkPhase(phase); err != nil {
		return 0, err
	}
	k, err := LunationIndex(day)
	if err != nil {
		return 0, err
	}

	// moonphase snaps a decimal year onto a lunation of its own. A year
	// three eighths into lunation k lands on k for every phase, whether
	// the snap floors or rounds.
	year := 2000 + (k+0.375)/LunationsPerYear

	switch phase {
	case lunar.First:
		return moonphase.First(year), nil
	case lunar.Full:
		return moonphase.Full(year), nil
	case lunar.Last:
		return moonphase.Last(year), nil
	default:
		return moonphase.New(year), nil
	}
}
