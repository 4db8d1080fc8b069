package ephem

import (
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-moonphase/internal/astro"
	"github.com/litescript/ls-moonphase/internal/lunar"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
	}{
		{"meeus", ModeMeeus},
		{"mean", ModeMean},
		{"", ModeMeeus},        // default
		{"invalid", ModeMeeus}, // default for unknown
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := ParseMode(tc.input)
			if got != tc.expected {
				t.Errorf("ParseMode(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{ModeMeeus, "meeus"},
		{ModeMean, "mean"},
		{Mode(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			got := tc.mode.String()
			if got != tc.expected {
				t.Errorf("Mode(%d).String() = %q, want %q", tc.mode, got, tc.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if got := New(ModeMeeus).Name(); got != "Meeus" {
		t.Errorf("New(ModeMeeus).Name() = %q", got)
	}
	if got := New(ModeMean).Name(); got != "Mean" {
		t.Errorf("New(ModeMean).Name() = %q", got)
	}
}

func TestLunationIndex(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{"start of 2000", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"Meeus example 49.a", time.Date(1977, 2, 18, 0, 0, 0, 0, time.UTC), -283},
		{"November 2019", time.Date(2019, 11, 12, 0, 0, 0, 0, time.UTC), 245},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LunationIndex(astro.ToAstronomicalDay(tt.time))
			if err != nil {
				t.Fatalf("LunationIndex() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LunationIndex() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeeusProvider_MeeusExample(t *testing.T) {
	// Meeus example 49.a: new moon of 1977 Feb 18, JDE 2443192.65118.
	day := astro.ToAstronomicalDay(time.Date(1977, 2, 18, 0, 0, 0, 0, time.UTC))

	got, err := NewMeeusProvider().TimeOfPhase(day, lunar.New)
	if err != nil {
		t.Fatalf("TimeOfPhase() error: %v", err)
	}
	if math.Abs(got-2443192.65118) > 1e-4 {
		t.Errorf("TimeOfPhase() = %.5f, want 2443192.65118", got)
	}
}

func TestMeeusProvider_KnownPhases(t *testing.T) {
	ref := time.Date(2019, 11, 12, 0, 0, 0, 0, time.UTC)
	day := astro.ToAstronomicalDay(ref)

	// Published UTC times for the lunation starting 2019-10-28.
	tests := []struct {
		phase lunar.PrimaryPhase
		want  time.Time
	}{
		{lunar.New, time.Date(2019, 10, 28, 3, 38, 0, 0, time.UTC)},
		{lunar.First, time.Date(2019, 11, 4, 10, 23, 0, 0, time.UTC)},
		{lunar.Full, time.Date(2019, 11, 12, 13, 34, 0, 0, time.UTC)},
		{lunar.Last, time.Date(2019, 11, 19, 21, 11, 0, 0, time.UTC)},
	}

	p := NewMeeusProvider()
	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			jd, err := p.TimeOfPhase(day, tt.phase)
			if err != nil {
				t.Fatalf("TimeOfPhase() error: %v", err)
			}
			got, err := astro.FromJulianDay(jd, time.UTC)
			if err != nil {
				t.Fatalf("FromJulianDay() error: %v", err)
			}
			if diff := got.Sub(tt.want); diff > 10*time.Minute || diff < -10*time.Minute {
				t.Errorf("%s at %v, want %v (±10m)", tt.phase, got, tt.want)
			}
		})
	}
}

func TestProviders_AnchorsInCalendarOrder(t *testing.T) {
	providers := []Provider{NewMeeusProvider(), NewMeanProvider()}
	start := time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, p := range providers {
		t.Run(p.Name(), func(t *testing.T) {
			for i := 0; i < 365*3; i += 5 {
				day := astro.ToAstronomicalDay(start.AddDate(0, 0, i))
				prev := math.Inf(-1)
				for _, phase := range lunar.PrimaryPhases {
					jd, err := p.TimeOfPhase(day, phase)
					if err != nil {
						t.Fatalf("TimeOfPhase(%v, %s) error: %v", day, phase, err)
					}
					if jd <= prev {
						t.Fatalf("%v: %s at %.4f not after previous anchor %.4f", day, phase, jd, prev)
					}
					prev = jd
				}
			}
		})
	}
}

func TestProviders_AgreeWithinHalfDay(t *testing.T) {
	meeus := NewMeeusProvider()
	mean := NewMeanProvider()
	day := astro.ToAstronomicalDay(time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))

	for _, phase := range lunar.PrimaryPhases {
		a, err := meeus.TimeOfPhase(day, phase)
		if err != nil {
			t.Fatal(err)
		}
		b, err := mean.TimeOfPhase(day, phase)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(a-b) > 0.75 {
			t.Errorf("%s: meeus %.4f and mean %.4f differ by %.2f days", phase, a, b, math.Abs(a-b))
		}
	}
}

func TestProviders_RejectUnknownPhase(t *testing.T) {
	day := astro.ToAstronomicalDay(time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
	for _, p := range []Provider{NewMeeusProvider(), NewMeanProvider()} {
		if _, err := p.TimeOfPhase(day, lunar.PrimaryPhase(7)); err == nil {
			t.Errorf("%s: expected error for unknown phase", p.Name())
		}
	}
}

func TestMeanPhaseJDE(t *testing.T) {
	if got := MeanPhaseJDE(0); math.Abs(got-meanNewMoonJDE) > 1e-9 {
		t.Errorf("MeanPhaseJDE(0) = %.6f, want %.6f", got, meanNewMoonJDE)
	}
	step := MeanPhaseJDE(1) - MeanPhaseJDE(0)
	if math.Abs(step-meanSynodicMonth) > 1e-4 {
		t.Errorf("lunation length = %.6f, want ~%.6f", step, meanSynodicMonth)
	}
}
