package ephem

import (
	"github.com/litescript/ls-moonphase/internal/astro"
	"github.com/litescript/ls-moonphase/internal/lunar"
)

const (
	// meanNewMoonJDE is the mean new moon of lunation k=0 (2000-01-06).
	meanNewMoonJDE = 2451550.09766

	// meanSynodicMonth is the synodic month used by the mean-phase formula.
	meanSynodicMonth = 29.530588861
)

// MeanProvider places primary phases at their mean times, ignoring the
// periodic terms. Errors reach about 14 hours, enough to pick the right
// calendar day most of the time and useful as a cross-check.
type MeanProvider struct{}

// NewMeanProvider creates a mean-phase oracle.
func NewMeanProvider() *MeanProvider {
	return &MeanProvider{}
}

// Name implements Provider.
func (p *MeanProvider) Name() string {
	return "Mean"
}

// TimeOfPhase implements lunar.Ephemeris.
func (p *MeanProvider) TimeOfPhase(day astro.AstronomicalDay, phase lunar.PrimaryPhase) (float64, error) {
	if err := checkPhase(phase); err != nil {
		return 0, err
	}
	k, err := LunationIndex(day)
	if err != nil {
		return 0, err
	}
	return MeanPhaseJDE(k + phase.Offset()), nil
}

// MeanPhaseJDE returns the mean phase time for lunation k (Meeus 49.1).
// Whole k is a new moon, k+0.25 a first quarter, and so on.
func MeanPhaseJDE(k float64) float64 {
	T := k / 1236.85
	return meanNewMoonJDE +
		meanSynodicMonth*k +
		0.00015437*T*T -
		0.000000150*T*T*T +
		0.00000000073*T*T*T*T
}
